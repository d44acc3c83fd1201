package metadomain

import "github.com/vfg2006/agency-metrics-api/internal/domain"

// CampaignInsightFields são os campos pedidos no relatório de campanhas
const CampaignInsightFields = "campaign_id,campaign_name,objective,impressions,clicks,spend,actions"

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}

// NextCursor só devolve o cursor quando a API indica que há próxima página
func (p Paging) NextCursor() string {
	if p.Next == "" {
		return ""
	}
	return p.Cursors.After
}

// InsightsResponse mantém as linhas no formato bruto; a interpretação é do reconciliador
type InsightsResponse struct {
	Data   []domain.RawRow `json:"data"`
	Paging Paging          `json:"paging"`
}

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}
