package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/internal/api/handler"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating/mocks"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reauthing"
	reauthmocks "github.com/vfg2006/agency-metrics-api/internal/usecases/reauthing/mocks"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

func TestServer_Rotas(t *testing.T) {
	ctrl := gomock.NewController(t)
	aggregator := mocks.NewMockMetricsAggregator(ctrl)
	tokens := reauthmocks.NewMockTokenInvalidator(ctrl)
	notifier := reauthing.NewService()

	cfg := &config.Config{
		Server: config.Server{Host: "localhost", Port: "0", CorsAllowedOrigins: []string{"http://localhost:3000"}},
		Auth:   config.Auth{Secret: "segredo"},
	}
	auth := authenticating.NewService(cfg.Auth)

	srv, err := New(cfg, aggregator, auth, tokens, notifier, map[string]handler.ScheduledJob{})
	require.NoError(t, err)

	reader, err := auth.GenerateToken("dashboard", "metrics", time.Hour)
	require.NoError(t, err)
	admin, err := auth.GenerateToken("backoffice", "admin", time.Hour)
	require.NoError(t, err)

	aggregator.EXPECT().GetMetrics(gomock.Any(), "c1", []domain.Platform{domain.PlatformGoogleAds}, gomock.Any()).
		Return(&domain.MetricsResponse{UnifiedResult: &domain.UnifiedResult{Errors: []domain.ErrorRecord{}}}, nil)
	aggregator.EXPECT().InvalidateCache(gomock.Any(), "c1").Return(nil)
	tokens.EXPECT().Invalidate(domain.PlatformFacebookAds, "act-1")

	notifier.OnReauthRequired(domain.PlatformFacebookAds, "act-1", "code 190")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"healthcheck público", http.MethodGet, "/healthcheck", "", http.StatusOK},
		{"métricas sem token", http.MethodGet, "/v1/clients/c1/metrics?platforms=google_ads&start_date=2024-05-01&end_date=2024-05-07", "", http.StatusUnauthorized},
		{"métricas com token de leitura", http.MethodGet, "/v1/clients/c1/metrics?platforms=google_ads&start_date=2024-05-01&end_date=2024-05-07", reader, http.StatusOK},
		{"leitura não invalida cache", http.MethodPost, "/v1/clients/c1/cache/invalidate", reader, http.StatusForbidden},
		{"admin invalida cache", http.MethodPost, "/v1/clients/c1/cache/invalidate", admin, http.StatusNoContent},
		{"lista de reautorização", http.MethodGet, "/v1/reauth", reader, http.StatusOK},
		{"admin invalida integração", http.MethodPost, "/v1/integrations/facebook_ads/act-1/invalidate", admin, http.StatusNoContent},
		{"rota inexistente", http.MethodGet, "/v1/users", admin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Empty(t, notifier.List())
}
