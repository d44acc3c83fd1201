package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

func TestEncodeDecodeEntry(t *testing.T) {
	dr, err := domain.ParseDateRange("2024-05-01", "2024-05-31")
	require.NoError(t, err)

	e := entry("k1", "client-1", base, 5*time.Minute)
	e.Result.Breakdown.CampaignTypes.Search = domain.MetricLeaf{Impressions: 1000, Conversions: 50, ConversionRate: 5}
	e.Result.Totals = map[domain.Platform]domain.PlatformTotals{domain.PlatformGoogleAds: {Impressions: 1000}}
	e.Result.Errors = []domain.ErrorRecord{{
		Source: domain.PlatformQuery{Platform: domain.PlatformGoogleAds, ReportKind: domain.ReportKindAssetGroup, AccountID: "123", DateRange: dr},
		Kind:   domain.ErrorKindAPI,
	}}

	data, err := encodeEntry(e)
	require.NoError(t, err)

	got, err := decodeEntry(data)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, got.TTL)
	assert.True(t, got.FetchedAt.Equal(base))
	assert.Equal(t, int64(1000), got.Result.Breakdown.CampaignTypes.Search.Impressions)
	require.Len(t, got.Result.Errors, 1)
	assert.Equal(t, "2024-05-01..2024-05-31", got.Result.Errors[0].Source.DateRange.String())
	assert.True(t, got.IsFresh(base.Add(time.Minute)))
}

func TestRedisStore_IndexOutlivesEntries(t *testing.T) {
	tests := []struct {
		name     string
		indexTTL time.Duration
		entryTTL time.Duration
		want     time.Duration
	}{
		{name: "padrão de 24h", entryTTL: 5 * time.Minute, want: 24 * time.Hour},
		{name: "entrada mais longa que o índice", entryTTL: 48 * time.Hour, want: 48 * time.Hour},
		{name: "maior TTL configurado", indexTTL: 72 * time.Hour, entryTTL: 5 * time.Minute, want: 72 * time.Hour},
		{name: "TTL configurado menor que o padrão", indexTTL: time.Hour, entryTTL: 5 * time.Minute, want: 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewRedisStore(nil)
			if tt.indexTTL > 0 {
				store.WithIndexTTL(tt.indexTTL)
			}
			assert.Equal(t, tt.want, store.indexExpiry(tt.entryTTL))
		})
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "redis://:senha@host:porta-invalida")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "erro ao interpretar REDIS_URL")
}

// TestRedisStore roda só com REDIS_URL apontando para uma instância descartável
func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL não definido")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	now := time.Now().UTC().Truncate(time.Second)
	store := NewRedisStore(client)
	store.now = func() time.Time { return now }

	clientID := "test-client-" + now.Format("150405")
	e := entry("metrics:test:"+clientID, clientID, now, time.Minute)
	require.NoError(t, store.Set(ctx, e))

	got, found, err := store.Get(ctx, e.Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, clientID, got.ClientID)

	removed, err := store.DeleteByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, found, err = store.Get(ctx, e.Key)
	require.NoError(t, err)
	assert.False(t, found)
}
