package ghldomain

import "github.com/vfg2006/agency-metrics-api/internal/domain"

type OpportunityStatus string

const (
	OpportunityStatusOpen      OpportunityStatus = "open"
	OpportunityStatusWon       OpportunityStatus = "won"
	OpportunityStatusLost      OpportunityStatus = "lost"
	OpportunityStatusAbandoned OpportunityStatus = "abandoned"
)

type SearchMeta struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	NextPage    *int `json:"nextPage"`
}

type OpportunitiesSearchResponse struct {
	Opportunities []domain.RawRow `json:"opportunities"`
	Meta          SearchMeta      `json:"meta"`
}
