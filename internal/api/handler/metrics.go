package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/agency-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// GetClientMetrics responde com o resultado unificado do cliente. Falhas parciais
// de plataformas vêm em errors com status 200.
func GetClientMetrics(service aggregating.MetricsAggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		clientID := httprouter.ParamsFromContext(r.Context()).ByName("client_id")
		query := r.URL.Query()

		platforms, err := domain.ParsePlatforms(query.Get("platforms"))
		if err != nil {
			logger.WithError(err).Warn("Parâmetro platforms inválido")
			apiErrors.WriteFromError(w, err, apiErrors.ErrInvalidRequest)
			return
		}

		dr, err := domain.ParseDateRange(query.Get("start_date"), query.Get("end_date"))
		if err != nil {
			logger.WithError(err).Warn("Período inválido")
			apiErrors.WriteFromError(w, err, apiErrors.ErrInvalidFormat)
			return
		}

		logger = logger.WithFields(log.Fields{"client_id": clientID})

		resp, err := service.GetMetrics(r.Context(), clientID, platforms, dr)
		if err != nil {
			logger.WithError(err).Error("Erro ao agregar métricas do cliente")
			apiErrors.WriteFromError(w, err, apiErrors.ErrInternalServer)
			return
		}

		if resp.HasErrors() {
			logger.WithField("errors", len(resp.Errors)).Warn("Métricas entregues com falhas parciais")
		}

		writeJSON(w, r, http.StatusOK, resp)
	})
}

// InvalidateClientCache descarta o cache do cliente; a próxima consulta refaz o fan-out
func InvalidateClientCache(service aggregating.MetricsAggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		clientID := httprouter.ParamsFromContext(r.Context()).ByName("client_id")

		if err := service.InvalidateCache(r.Context(), clientID); err != nil {
			logger.WithError(err).WithField("client_id", clientID).Error("Erro ao invalidar cache do cliente")
			apiErrors.WriteFromError(w, err, apiErrors.ErrInternalServer)
			return
		}

		logger.WithField("client_id", clientID).Info("Cache do cliente invalidado")
		w.WriteHeader(http.StatusNoContent)
	})
}
