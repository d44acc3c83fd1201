package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/agency-metrics-api/internal/api/handler"
	"github.com/vfg2006/agency-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reauthing"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
	"github.com/vfg2006/agency-metrics-api/pkg/middleware"
)

// um fan-out frio pode levar dezenas de segundos; o timeout de escrita acompanha
// o limite de uma chamada ao provedor
const writeTimeout = 90 * time.Second

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	aggregator aggregating.MetricsAggregator,
	authenticator authenticating.Authenticator,
	tokens reauthing.TokenInvalidator,
	notifier reauthing.Notifier,
	jobs map[string]handler.ScheduledJob,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Metrics(aggregator)...),
		router.WithRoutes(handler.Integrations(tokens, notifier)...),
		router.WithRoutes(handler.Jobs(jobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.CorsAllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      writeTimeout,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.L.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		log.L.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.L.WithField("timeout", "15s").Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	log.L.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
