package ghlclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	ghldomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel/domain"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// a busca de oportunidades espera datas no formato mm-dd-yyyy
const opportunityDateLayout = "01-02-2006"

func (c *GHLClient) SearchOpportunities(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	return c.api.Fetch(ctx, q, &opportunitiesPager{client: c, query: q})
}

type opportunitiesPager struct {
	client *GHLClient
	query  domain.PlatformQuery
	page   int
}

func (p *opportunitiesPager) PageSize() int { return pageLimit }

func (p *opportunitiesPager) NewRequest(ctx context.Context, cursor string) (*http.Request, error) {
	u, err := url.Parse(p.client.baseURL + "/opportunities/search")
	if err != nil {
		return nil, err
	}

	p.page = pageCursor(cursor)
	dr := p.query.DateRange

	params := url.Values{}
	params.Set("location_id", p.query.AccountID)
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("page", strconv.Itoa(p.page))
	params.Set("date", dr.Start.Format(opportunityDateLayout))
	params.Set("endDate", dr.End.Format(opportunityDateLayout))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Version", p.client.version)
	return req, nil
}

func (p *opportunitiesPager) DecodePage(body []byte) (upstream.Page, error) {
	var response ghldomain.OpportunitiesSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return upstream.Page{}, err
	}

	page := upstream.Page{Rows: response.Opportunities}
	switch {
	case response.Meta.NextPage != nil && *response.Meta.NextPage > p.page:
		page.NextCursor = strconv.Itoa(*response.Meta.NextPage)
	case response.Meta.NextPage == nil && len(response.Opportunities) == pageLimit && p.page*pageLimit < response.Meta.Total:
		page.NextCursor = strconv.Itoa(p.page + 1)
	}
	return page, nil
}
