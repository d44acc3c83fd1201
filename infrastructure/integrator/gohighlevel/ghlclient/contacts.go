package ghlclient

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	ghldomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel/domain"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

func (c *GHLClient) SearchContacts(ctx context.Context, q domain.PlatformQuery) (*domain.RawReportBlock, error) {
	return c.api.Fetch(ctx, q, &contactsPager{client: c, query: q})
}

// contactsPager pagina por número; page guarda a última página requisitada
type contactsPager struct {
	client *GHLClient
	query  domain.PlatformQuery
	page   int
}

func (p *contactsPager) PageSize() int { return pageLimit }

func (p *contactsPager) NewRequest(ctx context.Context, cursor string) (*http.Request, error) {
	dr := p.query.DateRange
	p.page = pageCursor(cursor)
	payload := ghldomain.ContactsSearchRequest{
		LocationID: p.query.AccountID,
		Page:       p.page,
		PageLimit:  pageLimit,
		Filters: []ghldomain.SearchFilter{{
			Field:    "dateAdded",
			Operator: "range",
			Value: ghldomain.DateRangeValue{
				Gte: dr.Start.Format(time.RFC3339),
				Lte: dr.End.Add(24*time.Hour - time.Second).Format(time.RFC3339),
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.client.baseURL+"/contacts/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Version", p.client.version)
	return req, nil
}

func (p *contactsPager) DecodePage(body []byte) (upstream.Page, error) {
	var response ghldomain.ContactsSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return upstream.Page{}, err
	}

	page := upstream.Page{Rows: response.Contacts}
	if len(response.Contacts) == pageLimit && p.page*pageLimit < response.Total {
		page.NextCursor = strconv.Itoa(p.page + 1)
	}
	return page, nil
}
