package ghlclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	ghldomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel/domain"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const pageLimit = 100

type Client interface {
	SearchContacts(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error)
	SearchOpportunities(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error)
}

type GHLClient struct {
	baseURL string
	version string
	api     *upstream.Client
}

func NewClient(cfg *config.Config, api *upstream.Client) Client {
	return &GHLClient{
		baseURL: strings.TrimRight(cfg.GoHighLevel.BaseURL, "/"),
		version: cfg.GoHighLevel.Version,
		api:     api,
	}
}

// NewTokenRefresher renova o token de location via /oauth/token
func NewTokenRefresher(cfg *config.Config) *upstream.OAuthRefresher {
	return &upstream.OAuthRefresher{
		TokenURL:     strings.TrimRight(cfg.GoHighLevel.BaseURL, "/") + "/oauth/token",
		ClientID:     cfg.GoHighLevel.ClientID,
		ClientSecret: cfg.GoHighLevel.ClientSecret,
		Extra:        url.Values{"user_type": []string{"Location"}},
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// pageCursor converte o cursor opaco em número de página (1 na primeira)
func pageCursor(cursor string) int {
	page, err := strconv.Atoi(cursor)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseError complementa a classificação por status com o texto da mensagem
func ParseError(statusCode int, body []byte) *domain.UpstreamError {
	var response ghldomain.ErrorResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil
	}

	kind, ok := response.Kind(statusCode)
	if !ok {
		return nil
	}
	return domain.NewUpstreamError(kind, statusCode, "gohighlevel: "+response.Text(), nil)
}

// ParseUsage lê os cabeçalhos X-RateLimit-* da janela de rajada
func ParseUsage(header http.Header) (upstream.RateUsage, bool) {
	raw := header.Get("X-RateLimit-Remaining")
	if raw == "" {
		return upstream.RateUsage{}, false
	}
	remaining, err := strconv.Atoi(raw)
	if err != nil {
		return upstream.RateUsage{}, false
	}

	usage := upstream.RateUsage{Remaining: remaining}
	if ms, err := strconv.Atoi(header.Get("X-RateLimit-Interval-Milliseconds")); err == nil && ms > 0 {
		usage.ResetAfter = time.Duration(ms) * time.Millisecond
	}
	if daily, err := strconv.Atoi(header.Get("X-RateLimit-Daily-Remaining")); err == nil && daily == 0 {
		usage.Remaining = 0
		usage.ResetAfter = time.Hour
	}
	return usage, true
}
