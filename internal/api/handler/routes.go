package handler

import (
	"net/http"

	"github.com/vfg2006/agency-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reauthing"
	"github.com/vfg2006/agency-metrics-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(service aggregating.MetricsAggregator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/clients/:client_id/metrics",
			Method:      http.MethodGet,
			Handler:     GetClientMetrics(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.MetricsReaders()},
		},
		{
			Path:        "/v1/clients/:client_id/cache/invalidate",
			Method:      http.MethodPost,
			Handler:     InvalidateClientCache(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Integrations(tokens reauthing.TokenInvalidator, notifier reauthing.Notifier) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/integrations/:platform/:account_id/invalidate",
			Method:      http.MethodPost,
			Handler:     InvalidateIntegration(tokens, notifier),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/reauth",
			Method:      http.MethodGet,
			Handler:     ListReauthRequests(notifier),
			Middlewares: []func(http.Handler) http.Handler{middleware.MetricsReaders()},
		},
	}
}

func Jobs(jobs map[string]ScheduledJob) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/jobs",
			Method:      http.MethodGet,
			Handler:     GetJobsStatus(jobs),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/jobs/:job/run",
			Method:      http.MethodPost,
			Handler:     RunJob(jobs),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
