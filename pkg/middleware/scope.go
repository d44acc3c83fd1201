package middleware

import (
	"net/http"

	"github.com/vfg2006/agency-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// Escopos aceitos nos tokens da API
const (
	ScopeMetrics = "metrics"
	ScopeAdmin   = "admin"
)

// RequireScope restringe a rota aos tokens que carregam algum dos escopos informados
func RequireScope(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token não informado", nil)
				return
			}

			if !claims.HasScope(allowed...) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"subject": claims.Subject,
					"scope":   claims.Scope,
				}).Warn("Acesso negado por escopo")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientScope, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MetricsReaders libera leitura de métricas para tokens de leitura e de administração
func MetricsReaders() func(http.Handler) http.Handler {
	return RequireScope(ScopeMetrics, ScopeAdmin)
}

// AdminOnly protege operações que mexem em cache e integrações
func AdminOnly() func(http.Handler) http.Handler {
	return RequireScope(ScopeAdmin)
}
