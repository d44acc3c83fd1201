package main

import (
	"context"
	"net/http"

	"github.com/vfg2006/agency-metrics-api/infrastructure/cache"
	"github.com/vfg2006/agency-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel/ghlclient"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/googleads"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/googleads/googleadsclient"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/meta"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/infrastructure/repository"
	"github.com/vfg2006/agency-metrics-api/internal/api"
	"github.com/vfg2006/agency-metrics-api/internal/api/handler"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/internal/scheduler"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reauthing"
	"github.com/vfg2006/agency-metrics-api/internal/usecases/reconciling"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.Environment)
	log.L.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	clientRepo := repository.NewClientRepository(pgConn)
	integrationRepo := repository.NewIntegrationRepository(pgConn)

	store := cacheStore(ctx, cfg.Redis, cfg.Cache)

	notifier := reauthing.NewService()

	httpClient := &http.Client{}

	tokenManager := upstream.NewTokenManager(
		integrationRepo,
		map[domain.Platform]upstream.Refresher{
			domain.PlatformGoogleAds: googleadsclient.NewTokenRefresher(cfg),
			domain.PlatformFacebookAds: &metaclient.TokenRefresher{
				GraphURL:   cfg.Meta.URL,
				AppID:      cfg.Meta.AppID,
				AppSecret:  cfg.Meta.AppSecret,
				HTTPClient: httpClient,
			},
			domain.PlatformGoHighLevel: ghlclient.NewTokenRefresher(cfg),
		},
		upstream.WithRefreshSkew(cfg.Fanout.TokenRefreshSkew),
		upstream.WithReauthNotifier(notifier),
	)

	limiter := upstream.NewRateLimiter(upstream.RateLimitConfig{
		Window:      cfg.RateLimit.Window,
		Budgets:     cfg.RateLimit.Budgets(),
		PlatformRPS: cfg.RateLimit.PlatformRPS(),
	})

	newAPI := func(platform domain.Platform, parseError upstream.ErrorParser, parseUsage upstream.UsageParser) *upstream.Client {
		return upstream.NewClient(upstream.ClientConfig{
			Platform:    platform,
			HTTPClient:  httpClient,
			Tokens:      tokenManager,
			Limiter:     limiter,
			ParseError:  parseError,
			ParseUsage:  parseUsage,
			CallTimeout: cfg.Fanout.UpstreamCallTimeout,
		})
	}

	googleAdsIntegrator := googleads.New(googleadsclient.NewClient(cfg,
		newAPI(domain.PlatformGoogleAds, googleadsclient.ParseError, nil)))
	metaIntegrator := meta.New(metaclient.NewClient(cfg,
		newAPI(domain.PlatformFacebookAds, metaclient.ParseError, metaclient.ParseUsage)))
	ghlIntegrator := gohighlevel.New(ghlclient.NewClient(cfg,
		newAPI(domain.PlatformGoHighLevel, ghlclient.ParseError, ghlclient.ParseUsage)))

	aggregator := aggregating.NewService(
		cfg,
		clientRepo,
		[]aggregating.ReportSource{googleAdsIntegrator, metaIntegrator, ghlIntegrator},
		store,
		reconciling.NewService(),
	)

	authenticator := authenticating.NewService(cfg.Auth)

	cacheWarmupService := scheduler.NewCacheWarmupService(clientRepo, aggregator, cfg)
	cacheJanitorService := scheduler.NewCacheJanitorService(store, cfg)

	if err := cacheWarmupService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de aquecimento de cache")
	}

	if err := cacheJanitorService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de limpeza do cache")
	}

	server, err := api.New(
		cfg,
		aggregator,
		authenticator,
		tokenManager,
		notifier,
		map[string]handler.ScheduledJob{
			handler.JobCacheWarmup:  cacheWarmupService,
			handler.JobCacheJanitor: cacheJanitorService,
		},
	)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// cacheStore usa Redis quando REDIS_URL está configurada; sem ela, ou se a conexão
// falhar, o cache fica em memória no processo
func cacheStore(ctx context.Context, redisConfig config.Redis, cacheConfig config.Cache) aggregating.CacheStore {
	if redisConfig.URL == "" {
		log.L.Info("REDIS_URL não configurada, usando cache em memória")
		return cache.NewMemoryStore()
	}

	client, err := cache.Connect(ctx, redisConfig.URL)
	if err != nil {
		log.L.WithError(err).Error("Erro ao conectar ao Redis, usando cache em memória")
		return cache.NewMemoryStore()
	}

	log.L.Info("Conexão com Redis estabelecida com sucesso")
	return cache.NewRedisStore(client).WithIndexTTL(cacheConfig.MaxTTL())
}
