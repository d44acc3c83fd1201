package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

type stubTokens struct {
	mu      sync.Mutex
	tokens  []string
	calls   int
	expired int
	reauth  []string
}

func (s *stubTokens) GetValidToken(context.Context, domain.Platform, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.expired
	if idx >= len(s.tokens) {
		idx = len(s.tokens) - 1
	}
	s.calls++
	return s.tokens[idx], nil
}

func (s *stubTokens) Expire(domain.Platform, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired++
}

func (s *stubTokens) RequireReauth(_ domain.Platform, _ string, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reauth = append(s.reauth, reason)
}

type pageParamPager struct {
	url  string
	size int
}

func (p pageParamPager) PageSize() int { return p.size }

func (p pageParamPager) NewRequest(ctx context.Context, cursor string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	if cursor != "" {
		q := req.URL.Query()
		q.Set("page", cursor)
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

func (p pageParamPager) DecodePage(body []byte) (Page, error) {
	var payload struct {
		Rows []domain.RawRow `json:"rows"`
		Next string          `json:"next"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Page{}, err
	}
	return Page{Rows: payload.Rows, NextCursor: payload.Next}, nil
}

func testQuery() domain.PlatformQuery {
	dr, _ := domain.ParseDateRange("2024-05-01", "2024-05-07")
	return domain.PlatformQuery{
		Platform:   domain.PlatformGoHighLevel,
		ReportKind: domain.ReportKindCRMContacts,
		AccountID:  "loc-1",
		DateRange:  dr,
	}
}

func TestClient_FetchPaginatesInOrder(t *testing.T) {
	var mu sync.Mutex
	var pages []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		page := r.URL.Query().Get("page")
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()

		switch page {
		case "":
			_, _ = w.Write([]byte(`{"rows":[{"id":"1"},{"id":"2"}],"next":"2"}`))
		case "2":
			_, _ = w.Write([]byte(`{"rows":[{"id":"3"},{"id":"4"}],"next":"3"}`))
		default:
			_, _ = w.Write([]byte(`{"rows":[{"id":"5"}],"next":"4"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		Platform: domain.PlatformGoHighLevel,
		Tokens:   &stubTokens{tokens: []string{"tok"}},
	})

	block, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 2})
	require.NoError(t, err)

	assert.Len(t, block.Rows, 5)
	assert.Equal(t, 3, block.Pages)
	mu.Lock()
	assert.Equal(t, []string{"", "2", "3"}, pages)
	mu.Unlock()
	for i, row := range block.Rows {
		assert.Equal(t, strconv.Itoa(i+1), row["id"])
	}
}

func TestClient_RateLimitResponsePenalizesAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too many requests"}`))
	}))
	defer srv.Close()

	clock := newFakeClock()
	limiter := NewRateLimiter(RateLimitConfig{Window: time.Minute}, WithClock(clock.Now, clock.Sleep))
	client := NewClient(ClientConfig{
		Platform: domain.PlatformGoHighLevel,
		Tokens:   &stubTokens{tokens: []string{"tok"}},
		Limiter:  limiter,
	})

	_, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 10})
	require.Error(t, err)

	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorKindRateLimit, ue.Kind)
	assert.Equal(t, 3*time.Second, ue.RetryAfter)
	assert.True(t, ue.CanRetry())

	state := limiter.State(domain.PlatformGoHighLevel, "loc-1")
	assert.Equal(t, clock.Now().Add(3*time.Second), state.NextAllowedAt)
}

func TestClient_UnauthorizedRefreshesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"rows":[{"id":"1"}]}`))
	}))
	defer srv.Close()

	tokens := &stubTokens{tokens: []string{"tok-1", "tok-2"}}
	client := NewClient(ClientConfig{Platform: domain.PlatformGoHighLevel, Tokens: tokens})

	block, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 10})
	require.NoError(t, err)
	assert.Len(t, block.Rows, 1)
	assert.Equal(t, 1, tokens.expired)
	assert.Empty(t, tokens.reauth)
}

func TestClient_RepeatedUnauthorizedRequiresReauth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{tokens: []string{"tok-1", "tok-2"}}
	client := NewClient(ClientConfig{Platform: domain.PlatformGoHighLevel, Tokens: tokens})

	_, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 10})
	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorKindAuthentication, ue.Kind)
	assert.Len(t, tokens.reauth, 1)
}

func TestClient_ForbiddenRequiresReauthWithoutRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tokens := &stubTokens{tokens: []string{"tok"}}
	client := NewClient(ClientConfig{Platform: domain.PlatformGoHighLevel, Tokens: tokens})

	_, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 10})
	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorKindPermissionDenied, ue.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Len(t, tokens.reauth, 1)
}

func TestClient_TimeoutIsRetryableNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		Platform:    domain.PlatformGoHighLevel,
		Tokens:      &stubTokens{tokens: []string{"tok"}},
		CallTimeout: 50 * time.Millisecond,
	})

	_, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 10})
	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorKindNetwork, ue.Kind)
	assert.True(t, ue.CanRetry())
}

func TestClient_InvalidBodyIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Platform: domain.PlatformGoHighLevel, Tokens: &stubTokens{tokens: []string{"tok"}}})

	_, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 10})
	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorKindAPI, ue.Kind)
}

func TestClient_PageLimitWithRemainingPagesIsAPIError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"rows":[{"id":"a"},{"id":"b"}],"next":"` + strconv.Itoa(int(n)+1) + `"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		Platform: domain.PlatformGoHighLevel,
		Tokens:   &stubTokens{tokens: []string{"tok"}},
		MaxPages: 3,
	})

	block, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 2})

	assert.Nil(t, block)
	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorKindAPI, ue.Kind)
	assert.False(t, ue.CanRetry())
	assert.Contains(t, ue.Message, "limite de 3 páginas")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_LastPageWithinLimitSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" {
			_, _ = w.Write([]byte(`{"rows":[{"id":"a"},{"id":"b"}],"next":"2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"rows":[{"id":"c"}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		Platform: domain.PlatformGoHighLevel,
		Tokens:   &stubTokens{tokens: []string{"tok"}},
		MaxPages: 2,
	})

	block, err := client.Fetch(context.Background(), testQuery(), pageParamPager{url: srv.URL, size: 2})
	require.NoError(t, err)
	assert.Len(t, block.Rows, 3)
	assert.Equal(t, 2, block.Pages)
}
