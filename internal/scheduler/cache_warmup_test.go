package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating/mocks"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

var warmupNow = time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)

func newWarmupService(t *testing.T, ctrl *gomock.Controller) (*CacheWarmupService, *mocks.MockClientDirectory, *mocks.MockMetricsAggregator) {
	t.Helper()
	directory := mocks.NewMockClientDirectory(ctrl)
	aggregator := mocks.NewMockMetricsAggregator(ctrl)

	cfg := &config.Config{CacheWarmup: config.CacheWarmup{
		CronSchedule:      "*/4 * * * *",
		LookbackDays:      7,
		MaxConcurrentJobs: 2,
		Enabled:           true,
	}}

	s := NewCacheWarmupService(directory, aggregator, cfg)
	s.now = func() time.Time { return warmupNow }
	return s, directory, aggregator
}

func client(id string, platforms ...domain.Platform) domain.ReportingClient {
	accounts := make(map[domain.Platform]domain.PlatformAccount, len(platforms))
	for _, p := range platforms {
		accounts[p] = domain.PlatformAccount{Platform: p, AccountID: id + "-" + string(p)}
	}
	return domain.ReportingClient{ID: id, Name: id, Accounts: accounts}
}

func TestCacheWarmupService_dateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, _, _ := newWarmupService(t, ctrl)

	dr, err := s.dateRange()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03", dr.StartDate())
	assert.Equal(t, "2024-05-09", dr.EndDate())
}

func TestCacheWarmupService_run(t *testing.T) {
	ctx := context.Background()
	ok := &domain.MetricsResponse{UnifiedResult: &domain.UnifiedResult{Errors: []domain.ErrorRecord{}}}
	partial := &domain.MetricsResponse{UnifiedResult: &domain.UnifiedResult{Errors: []domain.ErrorRecord{{Kind: domain.ErrorKindRateLimit}}}}

	t.Run("aquece cada cliente com as plataformas conectadas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, directory, aggregator := newWarmupService(t, ctrl)

		directory.EXPECT().ListActiveClients(gomock.Any()).Return([]domain.ReportingClient{
			client("c1", domain.PlatformGoogleAds, domain.PlatformFacebookAds),
			client("c2", domain.PlatformGoHighLevel),
			client("c3"),
			client("c4", domain.PlatformFacebookAds),
		}, nil)

		aggregator.EXPECT().
			GetMetrics(gomock.Any(), "c1", []domain.Platform{domain.PlatformGoogleAds, domain.PlatformFacebookAds}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ []domain.Platform, dr domain.DateRange) (*domain.MetricsResponse, error) {
				assert.Equal(t, "2024-05-03..2024-05-09", dr.String())
				return ok, nil
			})
		aggregator.EXPECT().
			GetMetrics(gomock.Any(), "c2", []domain.Platform{domain.PlatformGoHighLevel}, gomock.Any()).
			Return(partial, nil)
		aggregator.EXPECT().
			GetMetrics(gomock.Any(), "c4", gomock.Any(), gomock.Any()).
			Return(nil, errors.New("boom"))

		run := s.run(ctx)

		assert.Equal(t, WarmupRun{Clients: 4, Warmed: 1, Partial: 1, Skipped: 1, Failed: 1}, run)
	})

	t.Run("falha ao listar clientes não chama o agregador", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, directory, _ := newWarmupService(t, ctrl)

		directory.EXPECT().ListActiveClients(gomock.Any()).Return(nil, errors.New("db fora"))

		assert.Equal(t, WarmupRun{}, s.run(ctx))
	})

	t.Run("sem clientes ativos", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, directory, _ := newWarmupService(t, ctrl)

		directory.EXPECT().ListActiveClients(gomock.Any()).Return([]domain.ReportingClient{}, nil)

		assert.Equal(t, WarmupRun{}, s.run(ctx))
	})
}

func TestCacheWarmupService_warmAll(t *testing.T) {
	t.Run("ignora execução sobreposta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, _, _ := newWarmupService(t, ctrl)
		s.syncRunning = true

		s.warmAll(context.Background())

		assert.True(t, s.lastSyncStartedAt.IsZero())
		assert.False(t, s.TriggerManualSync())
	})

	t.Run("registra o resultado da última execução", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, directory, aggregator := newWarmupService(t, ctrl)

		directory.EXPECT().ListActiveClients(gomock.Any()).Return([]domain.ReportingClient{client("c1", domain.PlatformGoogleAds)}, nil)
		aggregator.EXPECT().GetMetrics(gomock.Any(), "c1", gomock.Any(), gomock.Any()).
			Return(&domain.MetricsResponse{UnifiedResult: &domain.UnifiedResult{}}, nil)

		s.warmAll(context.Background())

		status := s.GetStatus()
		assert.Equal(t, false, status["running"])
		assert.Equal(t, WarmupRun{Clients: 1, Warmed: 1}, status["last_run"])
		assert.Equal(t, warmupNow, status["last_sync_completed_at"])
	})
}

func TestCacheWarmupService_Start(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, _, _ := newWarmupService(t, ctrl)
	s.config.Enabled = false

	assert.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.scheduler.Jobs(), 0)

	s.config.Enabled = true
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.Len(t, s.scheduler.Jobs(), 1)
}
