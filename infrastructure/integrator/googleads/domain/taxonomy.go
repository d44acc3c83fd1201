package googleadsdomain

// AdvertisingChannelType segue o enum campaign.advertising_channel_type
type AdvertisingChannelType string

const (
	ChannelSearch          AdvertisingChannelType = "SEARCH"
	ChannelSearchMobileApp AdvertisingChannelType = "SEARCH_MOBILE_APP"
	ChannelDisplay         AdvertisingChannelType = "DISPLAY"
	ChannelDisplayMobile   AdvertisingChannelType = "DISPLAY_MOBILE_APP"
	ChannelVideo           AdvertisingChannelType = "VIDEO"
	ChannelVideoMobileApp  AdvertisingChannelType = "VIDEO_MOBILE_APP"
	ChannelPerformanceMax  AdvertisingChannelType = "PERFORMANCE_MAX"
	ChannelShopping        AdvertisingChannelType = "SHOPPING"
)

// AdType segue o enum ad_group_ad.ad.type
type AdType string

const (
	AdTypeResponsiveSearch  AdType = "RESPONSIVE_SEARCH_AD"
	AdTypeExpandedText      AdType = "EXPANDED_TEXT_AD"
	AdTypeResponsiveDisplay AdType = "RESPONSIVE_DISPLAY_AD"
	AdTypeVideoResponsive   AdType = "VIDEO_RESPONSIVE_AD"
	AdTypeVideo             AdType = "VIDEO_AD"
	AdTypeImage             AdType = "IMAGE_AD"
)
