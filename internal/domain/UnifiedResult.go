package domain

import "time"

// MetricLeaf é a folha de métricas do breakdown unificado
type MetricLeaf struct {
	Impressions    int64   `json:"impressions"`
	Conversions    float64 `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
}

func (l *MetricLeaf) Add(impressions int64, conversions float64) {
	l.Impressions += impressions
	l.Conversions += conversions
}

type CampaignTypes struct {
	Search  MetricLeaf `json:"search"`
	Display MetricLeaf `json:"display"`
	YouTube MetricLeaf `json:"youtube"`
}

type AdFormats struct {
	TextAds           MetricLeaf `json:"textAds"`
	ResponsiveDisplay MetricLeaf `json:"responsiveDisplay"`
	VideoAds          MetricLeaf `json:"videoAds"`
}

// UnifiedBreakdown usa structs por valor para que todas as folhas existam mesmo sem dados
type UnifiedBreakdown struct {
	CampaignTypes CampaignTypes `json:"campaignTypes"`
	AdFormats     AdFormats     `json:"adFormats"`
}

// Leaves devolve ponteiros para todas as folhas, na ordem campaignTypes e depois adFormats
func (b *UnifiedBreakdown) Leaves() []*MetricLeaf {
	return []*MetricLeaf{
		&b.CampaignTypes.Search,
		&b.CampaignTypes.Display,
		&b.CampaignTypes.YouTube,
		&b.AdFormats.TextAds,
		&b.AdFormats.ResponsiveDisplay,
		&b.AdFormats.VideoAds,
	}
}

// PlatformTotals resume uma plataforma independente do breakdown
type PlatformTotals struct {
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	Spend            float64 `json:"spend"`
	Conversions      float64 `json:"conversions"`
	ConversionRate   float64 `json:"conversionRate"`
	Leads            int64   `json:"leads"`
	Opportunities    int64   `json:"opportunities"`
	WonOpportunities int64   `json:"wonOpportunities"`
	PipelineValue    float64 `json:"pipelineValue"`
}

// ReconcileStats conta linhas ignoradas sem invalidar a agregação
type ReconcileStats struct {
	MalformedRows int `json:"malformedRows"`
	UnmappedRows  int `json:"unmappedRows"`
	// InvalidValues conta campos não numéricos lidos como zero em linhas aproveitadas
	InvalidValues int `json:"invalidValues"`
}

// Reconciliation é a saída do reconciliador de taxonomias
type Reconciliation struct {
	Breakdown UnifiedBreakdown
	Totals    map[Platform]PlatformTotals
	Stats     ReconcileStats
}

// UnifiedResult é o agregado entregue aos chamadores. Nunca é alterado depois de publicado.
type UnifiedResult struct {
	Breakdown UnifiedBreakdown            `json:"breakdown"`
	Totals    map[Platform]PlatformTotals `json:"totals"`
	Errors    []ErrorRecord               `json:"errors"`
	Stats     ReconcileStats              `json:"stats"`
	FetchedAt time.Time                   `json:"fetchedAt"`
}

func (r *UnifiedResult) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// MetricsResponse compartilha o mesmo *UnifiedResult entre todos os chamadores da mesma chave
type MetricsResponse struct {
	*UnifiedResult
	ServedFromCache bool `json:"servedFromCache"`
}
