package domain

import "time"

// TokenState representa o ciclo de vida do token de uma conta
type TokenState string

const (
	TokenStateAbsent         TokenState = "absent"
	TokenStateValid          TokenState = "valid"
	TokenStateExpiring       TokenState = "expiring"
	TokenStateRefreshing     TokenState = "refreshing"
	TokenStateReauthRequired TokenState = "reauth_required"
)

// Credentials é o registro persistido da integração, lido apenas para carga
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scope        string
}

// TokenRecord pertence exclusivamente ao gerenciador de tokens
type TokenRecord struct {
	Platform     Platform
	AccountID    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scope        string
}

// ExpiresWithin indica se o token expira em menos de d. ExpiresAt zero significa sem expiração.
func (t *TokenRecord) ExpiresWithin(now time.Time, d time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return t.ExpiresAt.Sub(now) < d
}

// RateLimitState é mantido apenas pelo limitador de requisições
type RateLimitState struct {
	WindowStart   time.Time
	RequestCount  int
	Budget        int
	NextAllowedAt time.Time
}

// ReauthRequest é uma conta aguardando que alguém refaça a conexão OAuth
type ReauthRequest struct {
	Platform  Platform  `json:"platform"`
	AccountID string    `json:"accountId"`
	Reason    string    `json:"reason"`
	Since     time.Time `json:"since"`
}
