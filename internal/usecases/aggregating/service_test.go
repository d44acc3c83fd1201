package aggregating

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating/mocks"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reconciling"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	directory *mocks.MockClientDirectory
	google    *mocks.MockReportSource
	meta      *mocks.MockReportSource
	cache     *mocks.MockCacheStore
	service   *Service
	dr        domain.DateRange
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		directory: mocks.NewMockClientDirectory(ctrl),
		google:    mocks.NewMockReportSource(ctrl),
		meta:      mocks.NewMockReportSource(ctrl),
		cache:     mocks.NewMockCacheStore(ctrl),
	}
	f.google.EXPECT().Platform().Return(domain.PlatformGoogleAds).AnyTimes()
	f.meta.EXPECT().Platform().Return(domain.PlatformFacebookAds).AnyTimes()

	dr, err := domain.ParseDateRange("2024-05-01", "2024-05-31")
	require.NoError(t, err)
	f.dr = dr

	cfg := &config.Config{
		Cache:  config.Cache{DefaultTTL: 5 * time.Minute, FacebookAdsTTL: 15 * time.Minute},
		Fanout: config.Fanout{Concurrency: 4, RetryMaxAttempts: 3},
	}
	noSleep := &upstream.RetryPolicy{
		MaxAttempts: 3,
		MaxBackoff:  upstream.MaxBackoff,
		Sleep:       func(ctx context.Context, d time.Duration) error { return ctx.Err() },
	}

	f.service = NewService(cfg, f.directory, []ReportSource{f.google, f.meta}, f.cache, reconciling.NewService(),
		WithClock(func() time.Time { return testNow }),
		WithRetryPolicy(noSleep),
	)
	return f
}

func (f *fixture) googleQueries() []domain.PlatformQuery {
	kinds := []domain.ReportKind{domain.ReportKindCampaign, domain.ReportKindAdGroupAd, domain.ReportKindAssetGroup}
	queries := make([]domain.PlatformQuery, 0, len(kinds))
	for _, k := range kinds {
		queries = append(queries, domain.PlatformQuery{Platform: domain.PlatformGoogleAds, ReportKind: k, AccountID: "123", DateRange: f.dr})
	}
	return queries
}

func googleClient() *domain.ReportingClient {
	return &domain.ReportingClient{
		ID: "client-1",
		Accounts: map[domain.Platform]domain.PlatformAccount{
			domain.PlatformGoogleAds: {Platform: domain.PlatformGoogleAds, AccountID: "123"},
		},
	}
}

func metricsRow(section, field, value string, impressions string, conversions float64) domain.RawRow {
	return domain.RawRow{
		section:   map[string]any{field: value},
		"metrics": map[string]any{"impressions": impressions, "conversions": conversions},
	}
}

// googleBlock reproduz os três rollups do exemplo de reconciliação
func googleBlock(q domain.PlatformQuery) *domain.RawReportBlock {
	var rows []domain.RawRow
	switch q.ReportKind {
	case domain.ReportKindCampaign:
		rows = []domain.RawRow{
			metricsRow("campaign", "advertisingChannelType", "SEARCH", "1000", 50),
			metricsRow("campaign", "advertisingChannelType", "DISPLAY", "500", 10),
		}
	case domain.ReportKindAdGroupAd:
		rows = []domain.RawRow{{
			"adGroupAd": map[string]any{"ad": map[string]any{"type": "RESPONSIVE_SEARCH_AD"}},
			"metrics":   map[string]any{"impressions": "800", "conversions": 40.0},
		}}
	case domain.ReportKindAssetGroup:
		rows = []domain.RawRow{metricsRow("assetGroup", "id", "1", "300", 15)}
	}
	return &domain.RawReportBlock{Query: q, Rows: rows, Pages: 1}
}

func (f *fixture) expectGoogleFanout() {
	f.directory.EXPECT().GetClientAccounts(gomock.Any(), "client-1").Return(googleClient(), nil)
	f.google.EXPECT().Queries(googleClient().Accounts[domain.PlatformGoogleAds], f.dr).Return(f.googleQueries())
}

func TestService_GetMetrics_FanoutAndCache(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}

	f.cache.EXPECT().Get(gomock.Any(), CacheKey("client-1", platforms, f.dr)).Return(nil, false, nil)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			return googleBlock(q), nil
		}).Times(3)

	var stored *domain.AggregationCacheEntry
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AggregationCacheEntry) error {
			stored = entry
			return nil
		})

	resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
	require.NoError(t, err)

	assert.False(t, resp.ServedFromCache)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 50.0, resp.Breakdown.CampaignTypes.Search.Conversions)
	assert.Equal(t, 10.0, resp.Breakdown.CampaignTypes.Display.Conversions)
	assert.Equal(t, 40.0, resp.Breakdown.AdFormats.TextAds.Conversions)
	assert.Equal(t, 15.0, resp.Breakdown.AdFormats.ResponsiveDisplay.Conversions)
	assert.Equal(t, testNow, resp.FetchedAt)

	require.NotNil(t, stored)
	assert.Same(t, resp.UnifiedResult, stored.Result)
	assert.Equal(t, "client-1", stored.ClientID)
	assert.Equal(t, 5*time.Minute, stored.TTL)
}

func TestService_GetMetrics_CacheHit(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}
	cached := &domain.UnifiedResult{FetchedAt: testNow.Add(-time.Minute)}

	f.cache.EXPECT().Get(gomock.Any(), CacheKey("client-1", platforms, f.dr)).Return(&domain.AggregationCacheEntry{
		ClientID:  "client-1",
		Result:    cached,
		FetchedAt: testNow.Add(-time.Minute),
		TTL:       5 * time.Minute,
	}, true, nil)

	resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
	require.NoError(t, err)

	assert.True(t, resp.ServedFromCache)
	assert.Same(t, cached, resp.UnifiedResult)
}

func TestService_GetMetrics_ExpiredEntryIsRefetched(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.AggregationCacheEntry{
		ClientID:  "client-1",
		Result:    &domain.UnifiedResult{},
		FetchedAt: testNow.Add(-5*time.Minute - time.Second),
		TTL:       5 * time.Minute,
	}, true, nil)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			return googleBlock(q), nil
		}).Times(3)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
	require.NoError(t, err)

	assert.False(t, resp.ServedFromCache)
	assert.Equal(t, 50.0, resp.Breakdown.CampaignTypes.Search.Conversions)
}

func TestService_GetMetrics_PartialFailure(t *testing.T) {
	tests := []struct {
		name     string
		failKind domain.ReportKind
		err      error
		wantKind domain.ErrorKind
	}{
		{
			name:     "asset group falha com erro de API",
			failKind: domain.ReportKindAssetGroup,
			err:      domain.NewUpstreamError(domain.ErrorKindAPI, 400, "invalid query", nil),
			wantKind: domain.ErrorKindAPI,
		},
		{
			name:     "erro sem tipo vira UNKNOWN",
			failKind: domain.ReportKindAssetGroup,
			err:      errors.New("boom"),
			wantKind: domain.ErrorKindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			platforms := []domain.Platform{domain.PlatformGoogleAds}

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
			f.expectGoogleFanout()
			f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
					if q.ReportKind == tt.failKind {
						return nil, tt.err
					}
					return googleBlock(q), nil
				}).Times(3)
			f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

			resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
			require.NoError(t, err)

			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tt.failKind, resp.Errors[0].Source.ReportKind)
			assert.Equal(t, tt.wantKind, resp.Errors[0].Kind)
			assert.False(t, resp.Errors[0].Retryable)

			assert.Equal(t, 50.0, resp.Breakdown.CampaignTypes.Search.Conversions)
			assert.Equal(t, 10.0, resp.Breakdown.CampaignTypes.Display.Conversions)
			assert.Equal(t, 40.0, resp.Breakdown.AdFormats.TextAds.Conversions)
			assert.Equal(t, domain.MetricLeaf{}, resp.Breakdown.AdFormats.ResponsiveDisplay)
		})
	}
}

func TestService_GetMetrics_RetriesRetryableErrors(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}

	var mu sync.Mutex
	attempts := map[domain.ReportKind]int{}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			mu.Lock()
			attempts[q.ReportKind]++
			n := attempts[q.ReportKind]
			mu.Unlock()

			if q.ReportKind == domain.ReportKindCampaign && n < 3 {
				return nil, domain.NewUpstreamError(domain.ErrorKindServer, 503, "unavailable", nil)
			}
			return googleBlock(q), nil
		}).Times(5)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
	require.NoError(t, err)

	assert.Empty(t, resp.Errors)
	assert.Equal(t, 50.0, resp.Breakdown.CampaignTypes.Search.Conversions)
	mu.Lock()
	assert.Equal(t, 3, attempts[domain.ReportKindCampaign])
	mu.Unlock()
}

func TestService_GetMetrics_AuthErrorsAreNotRetried(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil,
		domain.NewUpstreamError(domain.ErrorKindAuthentication, 401, "token revoked", domain.ErrReauthRequired)).Times(3)

	resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
	require.NoError(t, err)

	require.Len(t, resp.Errors, 3)
	for _, record := range resp.Errors {
		assert.Equal(t, domain.ErrorKindAuthentication, record.Kind)
		assert.True(t, record.RequiresReauth)
		assert.False(t, record.Retryable)
	}
	// nenhuma consulta teve sucesso: nada é gravado no cache
}

func TestService_GetMetrics_MissingAccount(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds, domain.PlatformFacebookAds}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			return googleBlock(q), nil
		}).Times(3)

	var stored *domain.AggregationCacheEntry
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AggregationCacheEntry) error {
			stored = entry
			return nil
		})

	resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
	require.NoError(t, err)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, domain.ErrorKindAccountNotFound, resp.Errors[0].Kind)
	assert.Equal(t, domain.PlatformFacebookAds, resp.Errors[0].Source.Platform)

	assert.Contains(t, resp.Totals, domain.PlatformFacebookAds)
	assert.Equal(t, domain.PlatformTotals{}, resp.Totals[domain.PlatformFacebookAds])

	// o menor TTL entre as plataformas pedidas vale para a entrada
	require.NotNil(t, stored)
	assert.Equal(t, 5*time.Minute, stored.TTL)
}

func TestService_GetMetrics_DeduplicatesConcurrentCallers(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}
	key := CacheKey("client-1", platforms, f.dr)

	release := make(chan struct{})
	f.cache.EXPECT().Get(gomock.Any(), key).Return(nil, false, nil).Times(2)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			<-release
			return googleBlock(q), nil
		}).Times(3)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var wg sync.WaitGroup
	responses := make([]*domain.MetricsResponse, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
		}(i)
	}

	assert.Eventually(t, func() bool { return f.service.waitersFor(key) == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Same(t, responses[0].UnifiedResult, responses[1].UnifiedResult)
	assert.Equal(t, 0, f.service.waitersFor(key))
}

func TestService_GetMetrics_CallerCancellationKeepsSharedFanout(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}
	key := CacheKey("client-1", platforms, f.dr)

	release := make(chan struct{})
	f.cache.EXPECT().Get(gomock.Any(), key).Return(nil, false, nil).Times(2)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			<-release
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return googleBlock(q), nil
		}).Times(3)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.service.GetMetrics(ctx, "client-1", platforms, f.dr)
		firstErr <- err
	}()
	assert.Eventually(t, func() bool { return f.service.waitersFor(key) == 1 }, time.Second, time.Millisecond)

	second := make(chan *domain.MetricsResponse, 1)
	go func() {
		resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
		assert.NoError(t, err)
		second <- resp
	}()
	assert.Eventually(t, func() bool { return f.service.waitersFor(key) == 2 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	resp := <-second
	require.NotNil(t, resp)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 50.0, resp.Breakdown.CampaignTypes.Search.Conversions)
}

func TestService_GetMetrics_InvalidationDuringFanoutSkipsStore(t *testing.T) {
	f := newFixture(t)
	platforms := []domain.Platform{domain.PlatformGoogleAds}

	started := make(chan struct{}, 3)
	release := make(chan struct{})
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			started <- struct{}{}
			<-release
			return googleBlock(q), nil
		}).Times(3)
	f.cache.EXPECT().DeleteByClient(gomock.Any(), "client-1").Return(1, nil)
	// Set não é esperado

	done := make(chan *domain.MetricsResponse, 1)
	go func() {
		resp, err := f.service.GetMetrics(context.Background(), "client-1", platforms, f.dr)
		assert.NoError(t, err)
		done <- resp
	}()

	<-started
	require.NoError(t, f.service.InvalidateCache(context.Background(), "client-1"))
	close(release)

	resp := <-done
	require.NotNil(t, resp)
	assert.Equal(t, 50.0, resp.Breakdown.CampaignTypes.Search.Conversions)
}

func TestService_GetMetrics_Validation(t *testing.T) {
	tests := []struct {
		name      string
		clientID  string
		platforms []domain.Platform
		dr        func(f *fixture) domain.DateRange
		wantErr   error
	}{
		{name: "cliente vazio", clientID: "", platforms: []domain.Platform{domain.PlatformGoogleAds}, wantErr: domain.ErrEmptyClientID},
		{name: "sem plataformas", clientID: "client-1", platforms: nil, wantErr: domain.ErrNoPlatforms},
		{name: "plataforma desconhecida", clientID: "client-1", platforms: []domain.Platform{"tiktok"}, wantErr: domain.ErrUnknownPlatform},
		{
			name:      "período invertido",
			clientID:  "client-1",
			platforms: []domain.Platform{domain.PlatformGoogleAds},
			dr: func(f *fixture) domain.DateRange {
				return domain.DateRange{Start: f.dr.End, End: f.dr.Start}
			},
			wantErr: domain.ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			dr := f.dr
			if tt.dr != nil {
				dr = tt.dr(f)
			}

			_, err := f.service.GetMetrics(context.Background(), tt.clientID, tt.platforms, dr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_GetMetrics_ClientNotFound(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	f.directory.EXPECT().GetClientAccounts(gomock.Any(), "client-1").Return(nil, domain.ErrClientNotFound)

	_, err := f.service.GetMetrics(context.Background(), "client-1", []domain.Platform{domain.PlatformGoogleAds}, f.dr)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestService_GetMetrics_CacheReadErrorFallsBackToFanout(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("redis down"))
	f.expectGoogleFanout()
	f.google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
			return googleBlock(q), nil
		}).Times(3)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	resp, err := f.service.GetMetrics(context.Background(), "client-1", []domain.Platform{domain.PlatformGoogleAds}, f.dr)
	require.NoError(t, err)
	assert.False(t, resp.ServedFromCache)
	assert.Empty(t, resp.Errors)
}

func TestService_InvalidateCache(t *testing.T) {
	t.Run("remove entradas do cliente", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().DeleteByClient(gomock.Any(), "client-1").Return(2, nil)

		assert.NoError(t, f.service.InvalidateCache(context.Background(), "client-1"))
		assert.Equal(t, uint64(1), f.service.generation("client-1"))
	})

	t.Run("cliente vazio", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.service.InvalidateCache(context.Background(), ""), domain.ErrEmptyClientID)
	})

	t.Run("erro do cache", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().DeleteByClient(gomock.Any(), "client-1").Return(0, errors.New("redis down"))

		assert.Error(t, f.service.InvalidateCache(context.Background(), "client-1"))
	})
}

func TestCacheKey(t *testing.T) {
	dr, err := domain.ParseDateRange("2024-05-01", "2024-05-31")
	require.NoError(t, err)
	other, err := domain.ParseDateRange("2024-05-01", "2024-05-30")
	require.NoError(t, err)

	a := CacheKey("client-1", []domain.Platform{domain.PlatformFacebookAds, domain.PlatformGoogleAds}, dr)

	assert.Equal(t, a, CacheKey("client-1", []domain.Platform{domain.PlatformFacebookAds, domain.PlatformGoogleAds}, dr))
	assert.NotEqual(t, a, CacheKey("client-2", []domain.Platform{domain.PlatformFacebookAds, domain.PlatformGoogleAds}, dr))
	assert.NotEqual(t, a, CacheKey("client-1", []domain.Platform{domain.PlatformGoogleAds}, dr))
	assert.NotEqual(t, a, CacheKey("client-1", []domain.Platform{domain.PlatformFacebookAds, domain.PlatformGoogleAds}, other))
}
