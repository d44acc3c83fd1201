package aggregating

import (
	"context"
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// MetricsAggregator é a fronteira exposta para a API e para os jobs
type MetricsAggregator interface {
	// GetMetrics devolve o resultado unificado; falhas parciais vão em Errors, não no erro
	GetMetrics(ctx context.Context, clientID string, platforms []domain.Platform, dr domain.DateRange) (*domain.MetricsResponse, error)

	// InvalidateCache descarta o cache do cliente e impede que fan-outs em andamento gravem
	InvalidateCache(ctx context.Context, clientID string) error
}

// ClientDirectory resolve as contas conectadas de um cliente
type ClientDirectory interface {
	GetClientAccounts(ctx context.Context, clientID string) (*domain.ReportingClient, error)
	ListActiveClients(ctx context.Context) ([]domain.ReportingClient, error)
}

// ReportSource é implementado por cada integrador de plataforma
type ReportSource interface {
	Platform() domain.Platform
	Queries(account domain.PlatformAccount, dr domain.DateRange) []domain.PlatformQuery
	Fetch(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error)
}

// CacheStore guarda entradas imutáveis; Set substitui a entrada inteira
type CacheStore interface {
	Get(ctx context.Context, key string) (*domain.AggregationCacheEntry, bool, error)
	Set(ctx context.Context, entry *domain.AggregationCacheEntry) error
	DeleteByClient(ctx context.Context, clientID string) (int, error)
	Purge(ctx context.Context, now time.Time) (int, error)
}
