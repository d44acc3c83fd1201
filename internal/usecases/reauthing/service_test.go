package reauthing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

func TestService_OnReauthRequired(t *testing.T) {
	t.Run("registra a conta uma única vez mantendo a data da primeira notificação", func(t *testing.T) {
		clock := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
		s := NewService().WithClock(func() time.Time { return clock })

		s.OnReauthRequired(domain.PlatformGoogleAds, "123", "invalid_grant")
		clock = clock.Add(time.Hour)
		s.OnReauthRequired(domain.PlatformGoogleAds, "123", "access_denied")

		list := s.List()
		require.Len(t, list, 1)
		assert.Equal(t, domain.PlatformGoogleAds, list[0].Platform)
		assert.Equal(t, "123", list[0].AccountID)
		assert.Equal(t, "access_denied", list[0].Reason)
		assert.Equal(t, time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC), list[0].Since)
	})

	t.Run("lista ordenada pela data da notificação", func(t *testing.T) {
		clock := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
		s := NewService().WithClock(func() time.Time { return clock })

		s.OnReauthRequired(domain.PlatformGoHighLevel, "loc-1", "token expired")
		clock = clock.Add(time.Minute)
		s.OnReauthRequired(domain.PlatformFacebookAds, "act-9", "code 190")

		list := s.List()
		require.Len(t, list, 2)
		assert.Equal(t, "loc-1", list[0].AccountID)
		assert.Equal(t, "act-9", list[1].AccountID)
	})

	t.Run("lista vazia não é nil", func(t *testing.T) {
		list := NewService().List()
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestService_Clear(t *testing.T) {
	s := NewService()
	s.OnReauthRequired(domain.PlatformFacebookAds, "act-1", "code 190")

	assert.False(t, s.Clear(domain.PlatformGoogleAds, "act-1"))
	assert.True(t, s.Clear(domain.PlatformFacebookAds, "act-1"))
	assert.False(t, s.Clear(domain.PlatformFacebookAds, "act-1"))
	assert.Empty(t, s.List())
}

func TestService_Concorrencia(t *testing.T) {
	s := NewService()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.OnReauthRequired(domain.PlatformGoogleAds, "123", "invalid_grant")
			_ = s.List()
		}()
	}
	wg.Wait()

	assert.Len(t, s.List(), 1)
}
