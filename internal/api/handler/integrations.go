package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reauthing"
	"github.com/vfg2006/agency-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// InvalidateIntegration é chamado pela aplicação depois que a conta é reconectada:
// o token em cache é descartado e a próxima chamada relê as credenciais
func InvalidateIntegration(tokens reauthing.TokenInvalidator, notifier reauthing.Notifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		platform := domain.Platform(params.ByName("platform"))
		accountID := params.ByName("account_id")

		logger := log.ForContext(r.Context()).WithFields(log.Fields{
			"platform":   platform,
			"account_id": accountID,
		})

		if !platform.IsValid() {
			logger.Warn("Plataforma inválida ao invalidar integração")
			apiErrors.WriteError(w, apiErrors.ErrUnknownPlatform, "Plataforma não suportada", nil)
			return
		}

		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "account_id é obrigatório", nil)
			return
		}

		tokens.Invalidate(platform, accountID)
		cleared := notifier.Clear(platform, accountID)

		logger.WithField("reauth_cleared", cleared).Info("Token da integração invalidado")
		w.WriteHeader(http.StatusNoContent)
	})
}

// ListReauthRequests lista as contas que aguardam nova autorização
func ListReauthRequests(notifier reauthing.Notifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"accounts": notifier.List(),
		})
	})
}
