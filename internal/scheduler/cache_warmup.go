package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// CacheWarmupConfig representa a configuração do aquecimento do cache de métricas
type CacheWarmupConfig struct {
	CronSchedule      string
	LookbackDays      int
	MaxConcurrentJobs int
	Enabled           bool
}

// WarmupRun resume uma execução do aquecimento
type WarmupRun struct {
	Clients int `json:"clients"`
	Warmed  int `json:"warmed"`
	Partial int `json:"partial"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// CacheWarmupService recalcula periodicamente as métricas dos clientes ativas para
// que o painel encontre o cache preenchido
type CacheWarmupService struct {
	scheduler           *gocron.Scheduler
	config              CacheWarmupConfig
	directory           aggregating.ClientDirectory
	aggregator          aggregating.MetricsAggregator
	now                 func() time.Time
	ctx                 context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRun             WarmupRun
}

func NewCacheWarmupService(
	directory aggregating.ClientDirectory,
	aggregator aggregating.MetricsAggregator,
	appConfig *config.Config,
) *CacheWarmupService {
	warmupConfig := CacheWarmupConfig{
		CronSchedule:      appConfig.CacheWarmup.CronSchedule,
		LookbackDays:      appConfig.CacheWarmup.LookbackDays,
		MaxConcurrentJobs: appConfig.CacheWarmup.MaxConcurrentJobs,
		Enabled:           appConfig.CacheWarmup.Enabled,
	}
	if warmupConfig.LookbackDays <= 0 {
		warmupConfig.LookbackDays = 30
	}
	if warmupConfig.MaxConcurrentJobs <= 0 {
		warmupConfig.MaxConcurrentJobs = 1
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":       warmupConfig.CronSchedule,
		"lookback_days":       warmupConfig.LookbackDays,
		"max_concurrent_jobs": warmupConfig.MaxConcurrentJobs,
		"enabled":             warmupConfig.Enabled,
	}).Info("Configuração do aquecimento de cache carregada")

	return &CacheWarmupService{
		scheduler:  gocron.NewScheduler(time.UTC),
		config:     warmupConfig,
		directory:  directory,
		aggregator: aggregator,
		now:        time.Now,
		ctx:        context.Background(),
	}
}

// Start agenda o aquecimento e para o agendador quando ctx é cancelado
func (s *CacheWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Aquecimento de cache desabilitado por configuração")
		return nil
	}

	s.ctx = ctx
	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de aquecimento de cache")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar aquecimento de cache: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de aquecimento de cache")
		s.scheduler.Stop()
	}()

	return nil
}

// dateRange cobre os últimos LookbackDays terminando ontem
func (s *CacheWarmupService) dateRange() (domain.DateRange, error) {
	yesterday := s.now().UTC().AddDate(0, 0, -1)
	return domain.NewDateRange(yesterday.AddDate(0, 0, -(s.config.LookbackDays - 1)), yesterday)
}

// warmAll ignora a chamada se uma execução anterior ainda estiver em andamento
func (s *CacheWarmupService) warmAll(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.L.Info("Aquecimento de cache já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	startTime := s.now()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	run := s.run(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastRun = run
	s.lastSyncCompletedAt = s.now()
	s.syncMutex.Unlock()

	log.L.WithFields(log.Fields{
		"duration": s.now().Sub(startTime).String(),
		"clients":  run.Clients,
		"warmed":   run.Warmed,
		"partial":  run.Partial,
		"skipped":  run.Skipped,
		"failed":   run.Failed,
	}).Info("Aquecimento de cache concluído")
}

func (s *CacheWarmupService) run(ctx context.Context) WarmupRun {
	var run WarmupRun

	dr, err := s.dateRange()
	if err != nil {
		log.L.WithError(err).Error("Erro ao calcular o período do aquecimento de cache")
		return run
	}

	clients, err := s.directory.ListActiveClients(ctx)
	if err != nil {
		log.L.WithError(err).Error("Erro ao buscar clientes para o aquecimento de cache")
		return run
	}
	run.Clients = len(clients)

	if len(clients) == 0 {
		log.L.Info("Nenhum cliente ativo encontrado para o aquecimento de cache")
		return run
	}

	log.L.WithFields(log.Fields{
		"clients":    len(clients),
		"start_date": dr.StartDate(),
		"end_date":   dr.EndDate(),
	}).Info("Iniciando aquecimento de cache")

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, s.config.MaxConcurrentJobs)
	)

	for _, client := range clients {
		platforms := client.ConnectedPlatforms()
		if len(platforms) == 0 {
			mu.Lock()
			run.Skipped++
			mu.Unlock()
			continue
		}

		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(clientID string, platforms []domain.Platform) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			outcome := s.warmClient(ctx, clientID, platforms, dr)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case warmFailed:
				run.Failed++
			case warmPartial:
				run.Partial++
			default:
				run.Warmed++
			}
		}(client.ID, platforms)
	}

	wg.Wait()
	return run
}

type warmOutcome int

const (
	warmOK warmOutcome = iota
	warmPartial
	warmFailed
)

func (s *CacheWarmupService) warmClient(ctx context.Context, clientID string, platforms []domain.Platform, dr domain.DateRange) warmOutcome {
	logger := log.L.WithFields(log.Fields{"client_id": clientID})

	resp, err := s.aggregator.GetMetrics(ctx, clientID, platforms, dr)
	if err != nil {
		logger.WithError(err).Error("Erro ao aquecer cache do cliente")
		return warmFailed
	}

	if resp.HasErrors() {
		logger.WithField("errors", len(resp.Errors)).Warn("Cache aquecido com falhas parciais")
		return warmPartial
	}

	logger.WithField("served_from_cache", resp.ServedFromCache).Debug("Cache do cliente aquecido")
	return warmOK
}

// TriggerManualSync dispara uma execução fora do agendamento; retorna false se já houver uma em andamento
func (s *CacheWarmupService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		log.L.Info("Aquecimento de cache já em andamento, ignorando solicitação manual")
		return false
	}

	log.L.Info("Iniciando aquecimento manual de cache")
	go s.warmAll(s.ctx)
	return true
}

// GetStatus retorna o status atual do agendador
func (s *CacheWarmupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"enabled":                s.config.Enabled,
		"cron":                   s.config.CronSchedule,
		"lookback_days":          s.config.LookbackDays,
		"max_concurrent":         s.config.MaxConcurrentJobs,
		"running":                s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_run":               s.lastRun,
	}
}
