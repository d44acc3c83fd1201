package aggregating

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reconciling"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"github.com/vfg2006/agency-metrics-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 6

// inflight é o fan-out compartilhado por todos os chamadores da mesma chave
type inflight struct {
	done    chan struct{}
	result  *domain.UnifiedResult
	err     error
	waiters int
	cancel  context.CancelFunc
}

type Service struct {
	directory   ClientDirectory
	sources     map[domain.Platform]ReportSource
	cache       CacheStore
	reconciler  reconciling.Reconciler
	retry       *upstream.RetryPolicy
	ttls        map[domain.Platform]time.Duration
	defaultTTL  time.Duration
	concurrency int
	now         func() time.Time

	mu       sync.Mutex
	inflight map[string]*inflight

	// genMu serializa invalidações e gravações no cache
	genMu       sync.Mutex
	generations map[string]uint64
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRetryPolicy(p *upstream.RetryPolicy) Option {
	return func(s *Service) { s.retry = p }
}

func NewService(
	cfg *config.Config,
	directory ClientDirectory,
	sources []ReportSource,
	cache CacheStore,
	reconciler reconciling.Reconciler,
	opts ...Option,
) *Service {
	s := &Service{
		directory:   directory,
		sources:     make(map[domain.Platform]ReportSource, len(sources)),
		cache:       cache,
		reconciler:  reconciler,
		retry:       upstream.NewRetryPolicy(cfg.Fanout.RetryMaxAttempts),
		ttls:        cfg.Cache.TTLs(),
		defaultTTL:  cfg.Cache.DefaultTTL,
		concurrency: cfg.Fanout.Concurrency,
		now:         time.Now,
		inflight:    make(map[string]*inflight),
		generations: make(map[string]uint64),
	}
	for _, src := range sources {
		s.sources[src.Platform()] = src
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultConcurrency
	}
	if s.defaultTTL <= 0 {
		s.defaultTTL = 5 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetMetrics(ctx context.Context, clientID string, platforms []domain.Platform, dr domain.DateRange) (*domain.MetricsResponse, error) {
	if clientID == "" {
		return nil, domain.ErrEmptyClientID
	}
	platforms, err := domain.NormalizePlatforms(platforms)
	if err != nil {
		return nil, err
	}
	if err := dr.Validate(); err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithField("client_id", clientID)
	key := CacheKey(clientID, platforms, dr)

	entry, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("Erro ao ler cache de métricas, seguindo sem cache")
	}
	if found && entry.IsFresh(s.now()) {
		logger.Debug("Métricas servidas do cache")
		return &domain.MetricsResponse{UnifiedResult: entry.Result, ServedFromCache: true}, nil
	}

	s.mu.Lock()
	call, ok := s.inflight[key]
	// um fan-out abandonado por todos os chamadores não é reaproveitado
	if ok && call.waiters > 0 {
		call.waiters++
		s.mu.Unlock()
		logger.Debug("Aguardando fan-out em andamento para a mesma chave")
		return s.wait(ctx, key, call)
	}

	// o fan-out não herda o cancelamento do primeiro chamador
	fanoutCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	call = &inflight{done: make(chan struct{}), waiters: 1, cancel: cancel}
	s.inflight[key] = call
	s.mu.Unlock()

	go s.run(fanoutCtx, key, call, clientID, platforms, dr)

	return s.wait(ctx, key, call)
}

// wait libera o fan-out quando o último chamador desiste
func (s *Service) wait(ctx context.Context, key string, call *inflight) (*domain.MetricsResponse, error) {
	select {
	case <-call.done:
		if call.err != nil {
			return nil, call.err
		}
		return &domain.MetricsResponse{UnifiedResult: call.result}, nil
	case <-ctx.Done():
		s.mu.Lock()
		call.waiters--
		if call.waiters == 0 {
			call.cancel()
		}
		s.mu.Unlock()
		return nil, ctx.Err()
	}
}

func (s *Service) waitersFor(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if call, ok := s.inflight[key]; ok {
		return call.waiters
	}
	return 0
}

func (s *Service) run(ctx context.Context, key string, call *inflight, clientID string, platforms []domain.Platform, dr domain.DateRange) {
	defer func() {
		s.mu.Lock()
		if s.inflight[key] == call {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		call.cancel()
		close(call.done)
	}()

	generation := s.generation(clientID)

	var succeeded int
	call.result, succeeded, call.err = s.aggregate(ctx, clientID, platforms, dr)
	if call.err != nil || succeeded == 0 || ctx.Err() != nil {
		return
	}

	s.store(ctx, key, clientID, generation, platforms, call.result)
}

// aggregate devolve também quantas consultas tiveram sucesso
func (s *Service) aggregate(ctx context.Context, clientID string, platforms []domain.Platform, dr domain.DateRange) (*domain.UnifiedResult, int, error) {
	fanoutID := utils.GenerateID()
	logger := log.ForContext(ctx).WithFields(log.Fields{"client_id": clientID, "fanout_id": fanoutID})

	client, err := s.directory.GetClientAccounts(ctx, clientID)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "erro ao buscar contas do cliente %s", clientID)
	}

	var (
		queries []domain.PlatformQuery
		sources []ReportSource
		records []domain.ErrorRecord
	)
	for _, p := range platforms {
		source, ok := s.sources[p]
		if !ok {
			records = append(records, domain.NewErrorRecord(
				domain.PlatformQuery{Platform: p, DateRange: dr},
				domain.NewUpstreamError(domain.ErrorKindUnknown, 0, "plataforma sem integrador configurado", domain.ErrNoReportSource),
			))
			continue
		}

		account, ok := client.Account(p)
		if !ok {
			records = append(records, domain.NewErrorRecord(
				domain.PlatformQuery{Platform: p, DateRange: dr},
				domain.NewUpstreamError(domain.ErrorKindAccountNotFound, 0, "cliente sem conta conectada na plataforma", nil),
			))
			continue
		}

		for _, q := range source.Queries(account, dr) {
			queries = append(queries, q)
			sources = append(sources, source)
		}
	}

	start := s.now()
	blocks := make([]*domain.RawReportBlock, len(queries))
	errs := make([]error, len(queries))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range queries {
		g.Go(func() error {
			blocks[i], errs[i] = s.fetch(ctx, logger, sources[i], queries[i])
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		record := domain.NewErrorRecord(queries[i], err)
		logger.WithFields(log.Fields{
			"platform":    queries[i].Platform,
			"account_id":  queries[i].AccountID,
			"report_kind": queries[i].ReportKind,
			"error":       record.Message,
		}).Warnf("Consulta falhou com %s", record.Kind)
		records = append(records, record)
	}

	reconciliation := s.reconciler.Reconcile(ctx, platforms, blocks)

	if records == nil {
		records = []domain.ErrorRecord{}
	}

	logger.Infof("Fan-out concluído: %d/%d consultas com sucesso em %dms", succeeded, len(queries), s.now().Sub(start).Milliseconds())

	return &domain.UnifiedResult{
		Breakdown: reconciliation.Breakdown,
		Totals:    reconciliation.Totals,
		Errors:    records,
		Stats:     reconciliation.Stats,
		FetchedAt: s.now(),
	}, succeeded, nil
}

func (s *Service) fetch(ctx context.Context, logger log.Logger, source ReportSource, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	queryLogger := logger.WithFields(log.Fields{
		"platform":    q.Platform,
		"account_id":  q.AccountID,
		"report_kind": q.ReportKind,
	})

	policy := *s.retry
	policy.OnRetry = func(attempt int, err *domain.UpstreamError, wait time.Duration) {
		queryLogger.Warnf("Tentativa %d falhou com %s, nova tentativa em %s", attempt, err.Kind, wait)
	}

	var block *domain.RawReportBlock
	err := policy.Do(ctx, func(ctx context.Context, _ int) error {
		var err error
		block, err = source.Fetch(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// store não grava se houve invalidação do cliente desde o início do fan-out
func (s *Service) store(ctx context.Context, key, clientID string, generation uint64, platforms []domain.Platform, result *domain.UnifiedResult) {
	entry := &domain.AggregationCacheEntry{
		Key:           key,
		ClientID:      clientID,
		Result:        result,
		PartialErrors: result.Errors,
		FetchedAt:     result.FetchedAt,
		TTL:           s.ttlFor(platforms),
	}

	logger := log.ForContext(ctx).WithField("client_id", clientID)

	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.generations[clientID] != generation {
		logger.Info("Cache invalidado durante o fan-out, resultado não armazenado")
		return
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		logger.WithError(err).Warn("Erro ao gravar métricas no cache")
	}
}

func (s *Service) generation(clientID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[clientID]
}

// ttlFor usa o menor TTL entre as plataformas pedidas
func (s *Service) ttlFor(platforms []domain.Platform) time.Duration {
	var ttl time.Duration
	for _, p := range platforms {
		d, ok := s.ttls[p]
		if !ok || d <= 0 {
			d = s.defaultTTL
		}
		if ttl == 0 || d < ttl {
			ttl = d
		}
	}
	if ttl == 0 {
		return s.defaultTTL
	}
	return ttl
}

func (s *Service) InvalidateCache(ctx context.Context, clientID string) error {
	if clientID == "" {
		return domain.ErrEmptyClientID
	}

	s.genMu.Lock()
	s.generations[clientID]++
	s.genMu.Unlock()

	removed, err := s.cache.DeleteByClient(ctx, clientID)
	if err != nil {
		return errors.Wrapf(err, "erro ao invalidar cache do cliente %s", clientID)
	}

	log.ForContext(ctx).WithField("client_id", clientID).Infof("Cache invalidado: %d entradas removidas", removed)
	return nil
}
