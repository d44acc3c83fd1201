package reauthing

import "github.com/vfg2006/agency-metrics-api/internal/domain"

type Notifier interface {
	OnReauthRequired(platform domain.Platform, accountID string, reason string)
	List() []domain.ReauthRequest
	Clear(platform domain.Platform, accountID string) bool
}

// TokenInvalidator descarta o token em cache após a conta ser reconectada
type TokenInvalidator interface {
	Invalidate(platform domain.Platform, accountID string)
}
