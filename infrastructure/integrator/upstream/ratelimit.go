package upstream

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"golang.org/x/time/rate"
)

// RateUsage é o consumo informado pelo provedor nos cabeçalhos da resposta
type RateUsage struct {
	// Remaining < 0 indica que o provedor não informou o saldo
	Remaining int
	// UsedPercent é o consumo percentual da janela do provedor; zero quando ausente
	UsedPercent float64
	ResetAfter  time.Duration
}

// UsageParser extrai RateUsage dos cabeçalhos; ok falso quando não há metadados
type UsageParser func(header http.Header) (usage RateUsage, ok bool)

// RateLimitConfig define o orçamento por (plataforma, conta) em janela fixa
type RateLimitConfig struct {
	Window  time.Duration
	Budgets map[domain.Platform]int
	// PlatformRPS limita a vazão global da plataforma; zero desativa
	PlatformRPS map[domain.Platform]float64
	Burst       int
}

// RateLimiter é o único dono dos RateLimitState
type RateLimiter struct {
	mu       sync.Mutex
	states   map[string]*domain.RateLimitState
	cfg      RateLimitConfig
	limiters map[domain.Platform]*rate.Limiter
	now      func() time.Time
	sleep    SleepFunc
}

type RateLimiterOption func(*RateLimiter)

// WithClock troca o relógio e a espera, usado nos testes
func WithClock(now func() time.Time, sleep SleepFunc) RateLimiterOption {
	return func(r *RateLimiter) {
		r.now = now
		r.sleep = sleep
	}
}

func NewRateLimiter(cfg RateLimitConfig, opts ...RateLimiterOption) *RateLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	r := &RateLimiter{
		states:   make(map[string]*domain.RateLimitState),
		cfg:      cfg,
		limiters: make(map[domain.Platform]*rate.Limiter),
		now:      time.Now,
		sleep:    Sleep,
	}
	for p, rps := range cfg.PlatformRPS {
		if rps > 0 {
			r.limiters[p] = rate.NewLimiter(rate.Limit(rps), cfg.Burst)
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func stateKey(platform domain.Platform, accountID string) string {
	return string(platform) + ":" + accountID
}

// stateLocked precisa ser chamado com mu travado
func (r *RateLimiter) stateLocked(platform domain.Platform, accountID string, now time.Time) *domain.RateLimitState {
	key := stateKey(platform, accountID)
	st, ok := r.states[key]
	if !ok {
		st = &domain.RateLimitState{WindowStart: now, Budget: r.cfg.Budgets[platform]}
		r.states[key] = st
	}
	if now.Sub(st.WindowStart) >= r.cfg.Window {
		st.WindowStart = now
		st.RequestCount = 0
	}
	return st
}

// Acquire suspende o chamador até que a chamada seja permitida. Nunca rejeita por orçamento;
// só retorna erro se o contexto terminar durante a espera.
func (r *RateLimiter) Acquire(ctx context.Context, platform domain.Platform, accountID string) error {
	for {
		r.mu.Lock()
		now := r.now()
		st := r.stateLocked(platform, accountID, now)

		var wait time.Duration
		switch {
		case st.NextAllowedAt.After(now):
			wait = st.NextAllowedAt.Sub(now)
		case st.Budget > 0 && st.RequestCount >= st.Budget:
			st.NextAllowedAt = st.WindowStart.Add(r.cfg.Window)
			wait = st.NextAllowedAt.Sub(now)
		default:
			st.RequestCount++
		}
		r.mu.Unlock()

		if wait <= 0 {
			break
		}
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}

	if lim, ok := r.limiters[platform]; ok {
		return lim.Wait(ctx)
	}
	return nil
}

// Observe atualiza o estado com os metadados de consumo da resposta
func (r *RateLimiter) Observe(platform domain.Platform, accountID string, usage RateUsage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	st := r.stateLocked(platform, accountID, now)

	if usage.Remaining == 0 || usage.UsedPercent >= 100 {
		until := now.Add(usage.ResetAfter)
		if usage.ResetAfter <= 0 {
			until = st.WindowStart.Add(r.cfg.Window)
		}
		if until.After(st.NextAllowedAt) {
			st.NextAllowedAt = until
		}
		return
	}

	if st.Budget <= 0 {
		return
	}

	used := st.RequestCount
	if usage.Remaining > 0 {
		used = st.Budget - usage.Remaining
	}
	if usage.UsedPercent > 0 {
		if pct := int(math.Ceil(float64(st.Budget) * usage.UsedPercent / 100)); pct > used {
			used = pct
		}
	}
	if used > st.RequestCount {
		st.RequestCount = used
	}
}

// Penalize adia a próxima chamada, usado em respostas 429
func (r *RateLimiter) Penalize(platform domain.Platform, accountID string, d time.Duration) {
	if d <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	st := r.stateLocked(platform, accountID, now)
	if until := now.Add(d); until.After(st.NextAllowedAt) {
		st.NextAllowedAt = until
	}
}

// State devolve uma cópia do estado atual
func (r *RateLimiter) State(platform domain.Platform, accountID string) domain.RateLimitState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return *r.stateLocked(platform, accountID, r.now())
}
