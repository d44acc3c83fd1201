package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// CacheJanitorService remove periodicamente as entradas vencidas do cache de métricas
type CacheJanitorService struct {
	scheduler    *gocron.Scheduler
	config       config.CacheJanitor
	store        aggregating.CacheStore
	now          func() time.Time
	ctx          context.Context
	mu           sync.Mutex
	lastPurgeAt  time.Time
	lastPurged   int
	totalPurged  int
	lastPurgeErr string
}

func NewCacheJanitorService(store aggregating.CacheStore, appConfig *config.Config) *CacheJanitorService {
	return &CacheJanitorService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    appConfig.CacheJanitor,
		store:     store,
		now:       time.Now,
		ctx:       context.Background(),
	}
}

func (s *CacheJanitorService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Limpeza do cache desabilitada por configuração")
		return nil
	}

	s.ctx = ctx
	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de limpeza do cache")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.purge(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza do cache: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de limpeza do cache")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *CacheJanitorService) purge(ctx context.Context) int {
	now := s.now()
	removed, err := s.store.Purge(ctx, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPurgeAt = now

	if err != nil {
		s.lastPurgeErr = err.Error()
		log.L.WithError(err).Error("Erro ao limpar entradas vencidas do cache")
		return 0
	}

	s.lastPurgeErr = ""
	s.lastPurged = removed
	s.totalPurged += removed

	if removed > 0 {
		log.L.WithField("removed", removed).Info("Entradas vencidas removidas do cache")
	}
	return removed
}

// TriggerManualSync executa a limpeza imediatamente, fora do agendamento
func (s *CacheJanitorService) TriggerManualSync() bool {
	go s.purge(s.ctx)
	return true
}

func (s *CacheJanitorService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":       s.config.Enabled,
		"cron":          s.config.CronSchedule,
		"last_purge_at": s.lastPurgeAt,
		"last_purged":   s.lastPurged,
		"total_purged":  s.totalPurged,
		"last_error":    s.lastPurgeErr,
	}
}
