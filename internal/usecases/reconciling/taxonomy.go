package reconciling

import (
	googleadsdomain "github.com/vfg2006/agency-metrics-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

type campaignBucket func(b *domain.UnifiedBreakdown) *domain.MetricLeaf

var (
	searchBucket  campaignBucket = func(b *domain.UnifiedBreakdown) *domain.MetricLeaf { return &b.CampaignTypes.Search }
	displayBucket campaignBucket = func(b *domain.UnifiedBreakdown) *domain.MetricLeaf { return &b.CampaignTypes.Display }
	youtubeBucket campaignBucket = func(b *domain.UnifiedBreakdown) *domain.MetricLeaf { return &b.CampaignTypes.YouTube }

	textAdsBucket           campaignBucket = func(b *domain.UnifiedBreakdown) *domain.MetricLeaf { return &b.AdFormats.TextAds }
	responsiveDisplayBucket campaignBucket = func(b *domain.UnifiedBreakdown) *domain.MetricLeaf { return &b.AdFormats.ResponsiveDisplay }
	videoAdsBucket          campaignBucket = func(b *domain.UnifiedBreakdown) *domain.MetricLeaf { return &b.AdFormats.VideoAds }
)

// Performance Max entra em search no rollup por canal
var channelBuckets = map[googleadsdomain.AdvertisingChannelType]campaignBucket{
	googleadsdomain.ChannelSearch:          searchBucket,
	googleadsdomain.ChannelSearchMobileApp: searchBucket,
	googleadsdomain.ChannelPerformanceMax:  searchBucket,
	googleadsdomain.ChannelDisplay:         displayBucket,
	googleadsdomain.ChannelDisplayMobile:   displayBucket,
	googleadsdomain.ChannelVideo:           youtubeBucket,
	googleadsdomain.ChannelVideoMobileApp:  youtubeBucket,
}

var adTypeBuckets = map[googleadsdomain.AdType]campaignBucket{
	googleadsdomain.AdTypeResponsiveSearch:  textAdsBucket,
	googleadsdomain.AdTypeExpandedText:      textAdsBucket,
	googleadsdomain.AdTypeResponsiveDisplay: responsiveDisplayBucket,
	googleadsdomain.AdTypeVideoResponsive:   videoAdsBucket,
	googleadsdomain.AdTypeVideo:             videoAdsBucket,
}
