package upstream

import (
	"context"
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// MaxBackoff é o teto do backoff exponencial
const MaxBackoff = 60 * time.Second

// Backoff calcula min(base * 2^(attempt-1), MaxBackoff) para o tipo de erro
func Backoff(kind domain.ErrorKind, attempt int) time.Duration {
	return backoffFrom(kind.BaseBackoff(), attempt, MaxBackoff)
}

func backoffFrom(base time.Duration, attempt int, ceiling time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	if d > ceiling {
		return ceiling
	}
	return d
}

// SleepFunc espera d ou até o contexto terminar
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep é a espera cooperativa padrão
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy repete operações cujos erros são classificados como repetíveis
type RetryPolicy struct {
	MaxAttempts int
	MaxBackoff  time.Duration
	Sleep       SleepFunc
	// OnRetry é chamado antes de cada espera; opcional
	OnRetry func(attempt int, err *domain.UpstreamError, wait time.Duration)
}

func NewRetryPolicy(maxAttempts int) *RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryPolicy{MaxAttempts: maxAttempts, MaxBackoff: MaxBackoff, Sleep: Sleep}
}

// Delay usa o maior valor entre o Retry-After informado e o backoff do tipo
func (p *RetryPolicy) Delay(err *domain.UpstreamError, attempt int) time.Duration {
	ceiling := p.MaxBackoff
	if ceiling <= 0 {
		ceiling = MaxBackoff
	}

	d := backoffFrom(err.Kind.BaseBackoff(), attempt, ceiling)
	if err.RetryAfter > d {
		d = err.RetryAfter
		if d > ceiling {
			d = ceiling
		}
	}
	return d
}

// Do executa op até MaxAttempts vezes. Erros não repetíveis retornam na hora.
// O erro devolvido é sempre *domain.UpstreamError.
func (p *RetryPolicy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last *domain.UpstreamError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}

		last = ClassifyError(err)
		if !last.CanRetry() || attempt == maxAttempts {
			return last
		}
		if ctx.Err() != nil {
			return ClassifyError(ctx.Err())
		}

		wait := p.Delay(last, attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, last, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return last
		}
	}

	return last
}
