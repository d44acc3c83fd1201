package reconciling

import (
	"errors"
	"strings"

	googleadsdomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/googleads/domain"
	ghldomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/gohighlevel/domain"
	metadomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var errUnmappedRow = errors.New("linha sem mapeamento")

const microsPerUnit = 1_000_000

// rowParser consome uma linha de um tipo de relatório.
// Devolve errMalformedRow (estrutura inválida) ou errUnmappedRow para linhas descartadas.
type rowParser func(acc *accumulator, row domain.RawRow) error

var parsers = map[domain.ReportKind]rowParser{
	domain.ReportKindCampaign:         parseCampaignRow,
	domain.ReportKindAdGroupAd:        parseAdGroupAdRow,
	domain.ReportKindAssetGroup:       parseAssetGroupRow,
	domain.ReportKindMetaCampaign:     parseMetaCampaignRow,
	domain.ReportKindCRMContacts:      parseContactRow,
	domain.ReportKindCRMOpportunities: parseOpportunityRow,
}

// parseCampaignRow alimenta campaignTypes e os totais do Google
func parseCampaignRow(acc *accumulator, row domain.RawRow) error {
	channel := text(row, "campaign.advertisingChannelType")
	if channel == "" {
		return errMalformedRow
	}

	impressions := acc.integer(row, "metrics.impressions")
	conversions := acc.number(row, "metrics.conversions")
	clicks := acc.integer(row, "metrics.clicks")
	costMicros := acc.number(row, "metrics.costMicros")

	totals := acc.total(domain.PlatformGoogleAds)
	totals.Impressions += impressions
	totals.Clicks += clicks
	totals.Spend += costMicros / microsPerUnit
	totals.Conversions += conversions

	bucket, ok := channelBuckets[googleadsdomain.AdvertisingChannelType(channel)]
	if !ok {
		return errUnmappedRow
	}
	bucket(&acc.breakdown).Add(impressions, conversions)
	return nil
}

func parseAdGroupAdRow(acc *accumulator, row domain.RawRow) error {
	adType := text(row, "adGroupAd.ad.type")
	if adType == "" {
		return errMalformedRow
	}

	// Performance Max é coberto pelo rollup de asset groups
	if googleadsdomain.AdvertisingChannelType(text(row, "campaign.advertisingChannelType")) == googleadsdomain.ChannelPerformanceMax {
		return errUnmappedRow
	}

	bucket, ok := adTypeBuckets[googleadsdomain.AdType(adType)]
	if !ok {
		return errUnmappedRow
	}
	bucket(&acc.breakdown).Add(acc.integer(row, "metrics.impressions"), acc.number(row, "metrics.conversions"))
	return nil
}

// parseAssetGroupRow aproxima Performance Max como responsiveDisplay:
// a API não expõe o detalhamento por formato
func parseAssetGroupRow(acc *accumulator, row domain.RawRow) error {
	impressions := acc.integer(row, "metrics.impressions")
	conversions := acc.number(row, "metrics.conversions")

	if impressions == 0 && conversions == 0 {
		return nil
	}
	responsiveDisplayBucket(&acc.breakdown).Add(impressions, conversions)
	return nil
}

// parseMetaCampaignRow conta como conversão a ação que corresponde ao objetivo da campanha
func parseMetaCampaignRow(acc *accumulator, row domain.RawRow) error {
	var results []map[string]any
	if raw, ok := lookup(row, "actions"); ok {
		actions, ok := raw.([]any)
		if !ok {
			return errMalformedRow
		}
		resultType, _ := metadomain.ResultActionType(text(row, "objective"))
		for _, item := range actions {
			action, ok := item.(map[string]any)
			if !ok {
				return errMalformedRow
			}
			if resultType != "" && action["action_type"] == resultType {
				results = append(results, action)
			}
		}
	}

	var conversions float64
	for _, action := range results {
		conversions += acc.float(action["value"])
	}
	impressions := acc.integer(row, "impressions")
	clicks := acc.integer(row, "clicks")
	spend := acc.number(row, "spend")

	totals := acc.total(domain.PlatformFacebookAds)
	totals.Impressions += impressions
	totals.Clicks += clicks
	totals.Spend += spend
	totals.Conversions += conversions
	return nil
}

func parseContactRow(acc *accumulator, row domain.RawRow) error {
	if text(row, "id") == "" {
		return errMalformedRow
	}
	acc.total(domain.PlatformGoHighLevel).Leads++
	return nil
}

// parseOpportunityRow soma ao pipeline apenas oportunidades abertas ou ganhas
func parseOpportunityRow(acc *accumulator, row domain.RawRow) error {
	if text(row, "id") == "" {
		return errMalformedRow
	}
	value := acc.number(row, "monetaryValue")

	totals := acc.total(domain.PlatformGoHighLevel)
	totals.Opportunities++

	switch ghldomain.OpportunityStatus(strings.ToLower(text(row, "status"))) {
	case ghldomain.OpportunityStatusWon:
		totals.WonOpportunities++
		totals.PipelineValue += value
	case ghldomain.OpportunityStatusOpen:
		totals.PipelineValue += value
	}
	return nil
}
