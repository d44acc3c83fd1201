package googleadsdomain

import (
	"fmt"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

const campaignQuery = `SELECT campaign.id, campaign.advertising_channel_type, metrics.impressions, metrics.clicks, metrics.cost_micros, metrics.conversions
FROM campaign
WHERE segments.date BETWEEN '%s' AND '%s' AND campaign.status != 'REMOVED'`

const adGroupAdQuery = `SELECT ad_group_ad.ad.id, ad_group_ad.ad.type, campaign.advertising_channel_type, metrics.impressions, metrics.conversions
FROM ad_group_ad
WHERE segments.date BETWEEN '%s' AND '%s' AND campaign.advertising_channel_type != 'PERFORMANCE_MAX' AND ad_group_ad.status != 'REMOVED'`

const assetGroupQuery = `SELECT asset_group.id, campaign.advertising_channel_type, metrics.impressions, metrics.conversions
FROM asset_group
WHERE segments.date BETWEEN '%s' AND '%s' AND campaign.advertising_channel_type = 'PERFORMANCE_MAX'`

var queriesByKind = map[domain.ReportKind]string{
	domain.ReportKindCampaign:   campaignQuery,
	domain.ReportKindAdGroupAd:  adGroupAdQuery,
	domain.ReportKindAssetGroup: assetGroupQuery,
}

// BuildQuery monta o GAQL do tipo de relatório para o período
func BuildQuery(kind domain.ReportKind, dr domain.DateRange) (string, error) {
	tmpl, ok := queriesByKind[kind]
	if !ok {
		return "", fmt.Errorf("tipo de relatório sem GAQL: %s", kind)
	}
	return fmt.Sprintf(tmpl, dr.StartDate(), dr.EndDate()), nil
}
