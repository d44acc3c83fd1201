package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	metadomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const insightsPageSize = 500

type Client interface {
	GetCampaignInsights(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error)
}

type MetaClient struct {
	graphURL string
	api      *upstream.Client
}

func NewClient(cfg *config.Config, api *upstream.Client) Client {
	return &MetaClient{
		graphURL: strings.TrimRight(cfg.Meta.URL, "/"),
		api:      api,
	}
}

// GetCampaignInsights busca os insights por campanha da conta, seguindo o cursor "after"
func (c *MetaClient) GetCampaignInsights(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	pager := &insightsPager{
		endpoint: fmt.Sprintf("%s/act_%s/insights", c.graphURL, strings.TrimPrefix(q.AccountID, "act_")),
		query:    q,
	}
	return c.api.Fetch(ctx, q, pager)
}

type insightsPager struct {
	endpoint string
	query    domain.PlatformQuery
}

func (p *insightsPager) PageSize() int { return insightsPageSize }

func (p *insightsPager) NewRequest(ctx context.Context, cursor string) (*http.Request, error) {
	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", p.query.DateRange.StartDate(), p.query.DateRange.EndDate())

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", metadomain.CampaignInsightFields)
	params.Add("time_range", timeRange)
	params.Add("limit", strconv.Itoa(insightsPageSize))
	if cursor != "" {
		params.Add("after", cursor)
	}

	return http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
}

func (p *insightsPager) DecodePage(body []byte) (upstream.Page, error) {
	var response metadomain.InsightsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return upstream.Page{}, err
	}
	return upstream.Page{Rows: response.Data, NextCursor: response.Paging.NextCursor()}, nil
}

// ParseError reconhece o corpo {"error":{...}} da Graph API
func ParseError(statusCode int, body []byte) *domain.UpstreamError {
	var response metadomain.ErrorResponse
	if err := json.Unmarshal(body, &response); err != nil || response.Error.Code == 0 {
		return nil
	}

	msg := fmt.Sprintf("meta (%d/%d): %s", response.Error.Code, response.Error.ErrorSubcode, response.Error.Message)
	return domain.NewUpstreamError(response.Kind(statusCode), statusCode, msg, nil)
}

// ParseUsage lê X-Ad-Account-Usage e X-Business-Use-Case-Usage
func ParseUsage(header http.Header) (upstream.RateUsage, bool) {
	usage := upstream.RateUsage{Remaining: -1}
	found, blocked := false, false

	if raw := header.Get("X-Ad-Account-Usage"); raw != "" {
		var acc metadomain.AdAccountUsage
		if err := json.Unmarshal([]byte(raw), &acc); err == nil {
			found = true
			usage.UsedPercent = acc.AccIDUtilPct
			if acc.ResetTimeDuration > 0 {
				usage.ResetAfter = time.Duration(acc.ResetTimeDuration) * time.Second
			}
		}
	}

	if raw := header.Get("X-Business-Use-Case-Usage"); raw != "" {
		var byBusiness map[string][]metadomain.BusinessUseCaseUsage
		if err := json.Unmarshal([]byte(raw), &byBusiness); err == nil {
			for _, entries := range byBusiness {
				for _, entry := range entries {
					found = true
					if pct := entry.MaxPct(); pct > usage.UsedPercent {
						usage.UsedPercent = pct
					}
					if entry.EstimatedTimeToRegainAccess > 0 {
						blocked = true
						if wait := time.Duration(entry.EstimatedTimeToRegainAccess) * time.Minute; wait > usage.ResetAfter {
							usage.ResetAfter = wait
						}
					}
				}
			}
		}
	}

	if blocked || usage.UsedPercent >= 100 {
		usage.Remaining = 0
	}

	return usage, found
}
