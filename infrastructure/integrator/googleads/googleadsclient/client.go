package googleadsclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	googleadsdomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	Search(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error)
}

type GoogleAdsClient struct {
	baseURL        string
	version        string
	developerToken string
	api            *upstream.Client
}

func NewClient(cfg *config.Config, api *upstream.Client) Client {
	return &GoogleAdsClient{
		baseURL:        strings.TrimRight(cfg.GoogleAds.BaseURL, "/"),
		version:        cfg.GoogleAds.Version,
		developerToken: cfg.GoogleAds.DeveloperToken,
		api:            api,
	}
}

func NewTokenRefresher(cfg *config.Config) *upstream.OAuthRefresher {
	return &upstream.OAuthRefresher{
		TokenURL:     cfg.GoogleAds.TokenURL,
		ClientID:     cfg.GoogleAds.ClientID,
		ClientSecret: cfg.GoogleAds.ClientSecret,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Search executa o GAQL do tipo de relatório seguindo nextPageToken
func (c *GoogleAdsClient) Search(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	gaql, err := googleadsdomain.BuildQuery(q.ReportKind, q.DateRange)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.ErrorKindAPI, 0, err.Error(), err)
	}

	pager := &searchPager{
		endpoint:        fmt.Sprintf("%s/%s/customers/%s/googleAds:search", c.baseURL, c.version, normalizeCustomerID(q.AccountID)),
		developerToken:  c.developerToken,
		loginCustomerID: normalizeCustomerID(q.Filter(domain.FilterLoginCustomerID)),
		query:           gaql,
	}
	return c.api.Fetch(ctx, q, pager)
}

type searchPager struct {
	endpoint        string
	developerToken  string
	loginCustomerID string
	query           string
}

func (p *searchPager) PageSize() int { return googleadsdomain.SearchPageSize }

func (p *searchPager) NewRequest(ctx context.Context, cursor string) (*http.Request, error) {
	body, err := json.Marshal(googleadsdomain.SearchRequest{Query: p.query, PageToken: cursor})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", p.developerToken)
	if p.loginCustomerID != "" {
		req.Header.Set("login-customer-id", p.loginCustomerID)
	}
	return req, nil
}

// a última página vem sem nextPageToken
func (p *searchPager) DecodePage(body []byte) (upstream.Page, error) {
	var response googleadsdomain.SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return upstream.Page{}, err
	}
	return upstream.Page{Rows: response.Results, NextCursor: response.NextPageToken}, nil
}

func ParseError(statusCode int, body []byte) *domain.UpstreamError {
	var response googleadsdomain.ErrorResponse
	if err := json.Unmarshal(body, &response); err != nil || response.Error.Status == "" {
		return nil
	}

	kind, ok := response.Error.Kind()
	if !ok {
		return nil
	}

	ue := domain.NewUpstreamError(kind, statusCode, "google ads: "+response.Error.Message, nil)
	ue.RetryAfter = response.Error.RetryDelay()
	return ue
}

func normalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}
