package ghldomain

import "github.com/vfg2006/agency-metrics-api/internal/domain"

type SearchFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type DateRangeValue struct {
	Gte string `json:"gte"`
	Lte string `json:"lte"`
}

// ContactsSearchRequest é o corpo de POST /contacts/search
type ContactsSearchRequest struct {
	LocationID string         `json:"locationId"`
	Page       int            `json:"page"`
	PageLimit  int            `json:"pageLimit"`
	Filters    []SearchFilter `json:"filters,omitempty"`
}

type ContactsSearchResponse struct {
	Contacts []domain.RawRow `json:"contacts"`
	Total    int             `json:"total"`
}
