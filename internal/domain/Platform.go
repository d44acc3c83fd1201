package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Platform string

const (
	PlatformGoogleAds   Platform = "google_ads"
	PlatformFacebookAds Platform = "facebook_ads"
	PlatformGoHighLevel Platform = "gohighlevel"
)

// AllPlatforms lista as plataformas suportadas pelo motor de agregação
var AllPlatforms = []Platform{PlatformGoogleAds, PlatformFacebookAds, PlatformGoHighLevel}

func (p Platform) IsValid() bool {
	switch p {
	case PlatformGoogleAds, PlatformFacebookAds, PlatformGoHighLevel:
		return true
	}
	return false
}

// ParsePlatforms converte uma lista separada por vírgula em plataformas únicas e ordenadas
func ParsePlatforms(raw string) ([]Platform, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoPlatforms
	}

	values := make([]Platform, 0, 3)
	for _, part := range strings.Split(raw, ",") {
		p := Platform(strings.ToLower(strings.TrimSpace(part)))
		if p == "" {
			continue
		}
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, part)
		}
		values = append(values, p)
	}

	return NormalizePlatforms(values)
}

// NormalizePlatforms remove duplicadas e ordena, garantindo a mesma chave para o mesmo conjunto
func NormalizePlatforms(platforms []Platform) ([]Platform, error) {
	if len(platforms) == 0 {
		return nil, ErrNoPlatforms
	}

	seen := make(map[Platform]struct{}, len(platforms))
	result := make([]Platform, 0, len(platforms))
	for _, p := range platforms {
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

// ReportKind identifica o formato de uma consulta de relatório
type ReportKind string

const (
	ReportKindCampaign         ReportKind = "campaign"
	ReportKindAdGroupAd        ReportKind = "ad_group_ad"
	ReportKindAssetGroup       ReportKind = "asset_group"
	ReportKindMetaCampaign     ReportKind = "meta_campaign"
	ReportKindCRMContacts      ReportKind = "crm_contacts"
	ReportKindCRMOpportunities ReportKind = "crm_opportunities"
)

const dateLayout = "2006-01-02"

// DateRange é um intervalo de datas fechado (início e fim inclusivos)
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange trunca as datas para o dia e valida o intervalo
func NewDateRange(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: truncateDay(start), End: truncateDay(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// ParseDateRange lê datas no formato YYYY-MM-DD
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: data inicial inválida %q", ErrInvalidDateRange, start)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: data final inválida %q", ErrInvalidDateRange, end)
	}
	return NewDateRange(s, e)
}

func (d DateRange) Validate() error {
	if d.Start.IsZero() || d.End.IsZero() {
		return fmt.Errorf("%w: datas obrigatórias", ErrInvalidDateRange)
	}
	if d.End.Before(d.Start) {
		return fmt.Errorf("%w: data final anterior à inicial", ErrInvalidDateRange)
	}
	return nil
}

func (d DateRange) StartDate() string { return d.Start.Format(dateLayout) }
func (d DateRange) EndDate() string   { return d.End.Format(dateLayout) }

func (d DateRange) String() string {
	return d.StartDate() + ".." + d.EndDate()
}

type dateRangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (d DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{Start: d.StartDate(), End: d.EndDate()})
}

func (d *DateRange) UnmarshalJSON(data []byte) error {
	var raw dateRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDateRange(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
