package googleadsdomain

import "github.com/vfg2006/agency-metrics-api/internal/domain"

// SearchPageSize é fixo pela API a partir da v17
const SearchPageSize = 10000

type SearchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

type SearchResponse struct {
	Results       []domain.RawRow `json:"results"`
	NextPageToken string          `json:"nextPageToken"`
	FieldMask     string          `json:"fieldMask"`
}
