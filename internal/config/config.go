package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Redis        Redis        `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Cache        Cache        `mapstructure:",squash"`
	Fanout       Fanout       `mapstructure:",squash"`
	RateLimit    RateLimit    `mapstructure:",squash"`
	GoogleAds    GoogleAds    `mapstructure:",squash"`
	Meta         Meta         `mapstructure:",squash"`
	GoHighLevel  GoHighLevel  `mapstructure:",squash"`
	CacheWarmup  CacheWarmup  `mapstructure:",squash"`
	CacheJanitor CacheJanitor `mapstructure:",squash"`
}

type App struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

type Server struct {
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Redis vazio mantém o cache de agregações em memória
type Redis struct {
	URL string `mapstructure:"redis_url"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Cache struct {
	DefaultTTL     time.Duration `mapstructure:"cache_ttl_default"`
	GoogleAdsTTL   time.Duration `mapstructure:"cache_ttl_google_ads"`
	FacebookAdsTTL time.Duration `mapstructure:"cache_ttl_facebook_ads"`
	GoHighLevelTTL time.Duration `mapstructure:"cache_ttl_gohighlevel"`
}

// MaxTTL é o maior TTL entre as plataformas e o padrão
func (c Cache) MaxTTL() time.Duration {
	longest := c.DefaultTTL
	for _, ttl := range c.TTLs() {
		longest = max(longest, ttl)
	}
	return longest
}

// TTLs devolve o TTL por plataforma, caindo no padrão quando não configurado
func (c Cache) TTLs() map[domain.Platform]time.Duration {
	pick := func(d time.Duration) time.Duration {
		if d > 0 {
			return d
		}
		return c.DefaultTTL
	}
	return map[domain.Platform]time.Duration{
		domain.PlatformGoogleAds:   pick(c.GoogleAdsTTL),
		domain.PlatformFacebookAds: pick(c.FacebookAdsTTL),
		domain.PlatformGoHighLevel: pick(c.GoHighLevelTTL),
	}
}

type Fanout struct {
	Concurrency         int           `mapstructure:"fanout_concurrency"`
	RetryMaxAttempts    int           `mapstructure:"retry_max_attempts"`
	UpstreamCallTimeout time.Duration `mapstructure:"upstream_call_timeout"`
	TokenRefreshSkew    time.Duration `mapstructure:"token_refresh_skew"`
}

type RateLimit struct {
	Window            time.Duration `mapstructure:"rate_limit_window"`
	GoogleAdsBudget   int           `mapstructure:"rate_limit_budget_google_ads"`
	FacebookAdsBudget int           `mapstructure:"rate_limit_budget_facebook_ads"`
	GoHighLevelBudget int           `mapstructure:"rate_limit_budget_gohighlevel"`
	GoogleAdsRPS      float64       `mapstructure:"rate_limit_rps_google_ads"`
	FacebookAdsRPS    float64       `mapstructure:"rate_limit_rps_facebook_ads"`
	GoHighLevelRPS    float64       `mapstructure:"rate_limit_rps_gohighlevel"`
}

func (r RateLimit) Budgets() map[domain.Platform]int {
	return map[domain.Platform]int{
		domain.PlatformGoogleAds:   r.GoogleAdsBudget,
		domain.PlatformFacebookAds: r.FacebookAdsBudget,
		domain.PlatformGoHighLevel: r.GoHighLevelBudget,
	}
}

func (r RateLimit) PlatformRPS() map[domain.Platform]float64 {
	return map[domain.Platform]float64{
		domain.PlatformGoogleAds:   r.GoogleAdsRPS,
		domain.PlatformFacebookAds: r.FacebookAdsRPS,
		domain.PlatformGoHighLevel: r.GoHighLevelRPS,
	}
}

type GoogleAds struct {
	BaseURL        string `mapstructure:"google_ads_base_url"`
	Version        string `mapstructure:"google_ads_version"`
	DeveloperToken string `mapstructure:"google_ads_developer_token"`
	ClientID       string `mapstructure:"google_ads_client_id"`
	ClientSecret   string `mapstructure:"google_ads_client_secret"`
	TokenURL       string `mapstructure:"google_ads_token_url"`
}

type Meta struct {
	BaseURL   string `mapstructure:"meta_base_url"`
	URL       string `mapstructure:"-"`
	Version   string `mapstructure:"meta_version"`
	AppID     string `mapstructure:"meta_app_id"`
	AppSecret string `mapstructure:"meta_app_secret"`
}

type GoHighLevel struct {
	BaseURL      string `mapstructure:"ghl_base_url"`
	Version      string `mapstructure:"ghl_api_version"`
	ClientID     string `mapstructure:"ghl_client_id"`
	ClientSecret string `mapstructure:"ghl_client_secret"`
}

type CacheWarmup struct {
	CronSchedule      string `mapstructure:"warmup_cron"`
	LookbackDays      int    `mapstructure:"warmup_lookback_days"`
	MaxConcurrentJobs int    `mapstructure:"warmup_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"warmup_enabled"`
}

type CacheJanitor struct {
	CronSchedule string `mapstructure:"janitor_cron"`
	Enabled      bool   `mapstructure:"janitor_enabled"`
}

func SetDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/agency")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_URL", "")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	// TTL curto para dados que mudam rápido, maior para o CRM
	viper.SetDefault("CACHE_TTL_DEFAULT", "5m")
	viper.SetDefault("CACHE_TTL_GOOGLE_ADS", "5m")
	viper.SetDefault("CACHE_TTL_FACEBOOK_ADS", "5m")
	viper.SetDefault("CACHE_TTL_GOHIGHLEVEL", "15m")

	viper.SetDefault("FANOUT_CONCURRENCY", 6)
	viper.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	viper.SetDefault("UPSTREAM_CALL_TIMEOUT", "60s")
	viper.SetDefault("TOKEN_REFRESH_SKEW", "5m")

	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("RATE_LIMIT_BUDGET_GOOGLE_ADS", 60)
	viper.SetDefault("RATE_LIMIT_BUDGET_FACEBOOK_ADS", 100)
	viper.SetDefault("RATE_LIMIT_BUDGET_GOHIGHLEVEL", 100)
	viper.SetDefault("RATE_LIMIT_RPS_GOOGLE_ADS", 0)
	viper.SetDefault("RATE_LIMIT_RPS_FACEBOOK_ADS", 0)
	viper.SetDefault("RATE_LIMIT_RPS_GOHIGHLEVEL", 10) // limite de rajada da API da GHL

	viper.SetDefault("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com")
	viper.SetDefault("GOOGLE_ADS_VERSION", "v17")
	viper.SetDefault("GOOGLE_ADS_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_ADS_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_ADS_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_ADS_TOKEN_URL", "https://oauth2.googleapis.com/token")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")

	viper.SetDefault("GHL_BASE_URL", "https://services.leadconnectorhq.com")
	viper.SetDefault("GHL_API_VERSION", "2021-07-28")
	viper.SetDefault("GHL_CLIENT_ID", "")
	viper.SetDefault("GHL_CLIENT_SECRET", "")

	viper.SetDefault("WARMUP_CRON", "*/4 * * * *") // a cada 4 minutos, antes do TTL padrão expirar
	viper.SetDefault("WARMUP_LOOKBACK_DAYS", 30)
	viper.SetDefault("WARMUP_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("WARMUP_ENABLED", false)

	viper.SetDefault("JANITOR_CRON", "*/10 * * * *")
	viper.SetDefault("JANITOR_ENABLED", true)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	return config, nil
}

// normalize preenche campos derivados e corrige valores inválidos
func (c *Config) normalize() {
	c.Meta.URL = fmt.Sprintf("%s/%s", strings.TrimRight(c.Meta.BaseURL, "/"), c.Meta.Version)

	if c.Cache.DefaultTTL <= 0 {
		c.Cache.DefaultTTL = 5 * time.Minute
	}
	if c.Fanout.Concurrency <= 0 {
		c.Fanout.Concurrency = 6
	}
	if c.Fanout.RetryMaxAttempts <= 0 {
		c.Fanout.RetryMaxAttempts = 1
	}

	origins := make([]string, 0, len(c.Server.CorsAllowedOrigins))
	for _, o := range c.Server.CorsAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.CorsAllowedOrigins = origins

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
