package metaclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/config"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

type staticTokens struct{}

func (staticTokens) GetValidToken(context.Context, domain.Platform, string) (string, error) {
	return "meta-token", nil
}
func (staticTokens) Expire(domain.Platform, string)                {}
func (staticTokens) RequireReauth(domain.Platform, string, string) {}

func TestMetaClient_GetCampaignInsights(t *testing.T) {
	var mu sync.Mutex
	var afters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v22.0/act_123/insights", r.URL.Path)
		assert.Equal(t, "campaign", r.URL.Query().Get("level"))
		assert.Equal(t, `{"since":"2024-05-01","until":"2024-05-31"}`, r.URL.Query().Get("time_range"))
		assert.Equal(t, "Bearer meta-token", r.Header.Get("Authorization"))

		mu.Lock()
		afters = append(afters, r.URL.Query().Get("after"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{
			"data": [{"campaign_id":"1","objective":"OUTCOME_LEADS","impressions":"1200","spend":"35.50","actions":[{"action_type":"lead","value":"12"}]}],
			"paging": {"cursors": {"before": "b", "after": "a1"}}
		}`))
	}))
	defer srv.Close()

	cfg := &config.Config{Meta: config.Meta{URL: srv.URL + "/v22.0"}}
	api := upstream.NewClient(upstream.ClientConfig{
		Platform:   domain.PlatformFacebookAds,
		Tokens:     staticTokens{},
		ParseError: ParseError,
		ParseUsage: ParseUsage,
	})
	client := NewClient(cfg, api)

	dr, err := domain.ParseDateRange("2024-05-01", "2024-05-31")
	require.NoError(t, err)

	block, err := client.GetCampaignInsights(context.Background(), domain.PlatformQuery{
		Platform:   domain.PlatformFacebookAds,
		ReportKind: domain.ReportKindMetaCampaign,
		AccountID:  "act_123",
		DateRange:  dr,
	})
	require.NoError(t, err)

	assert.Len(t, block.Rows, 1)
	assert.Equal(t, 1, block.Pages)
	// sem paging.next não há segunda página
	mu.Lock()
	assert.Equal(t, []string{""}, afters)
	mu.Unlock()
	assert.Equal(t, "OUTCOME_LEADS", block.Rows[0]["objective"])
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.ErrorKind
	}{
		{name: "token expirado", body: `{"error":{"message":"Error validating access token","type":"OAuthException","code":190,"error_subcode":463}}`, want: domain.ErrorKindAuthentication},
		{name: "limite da conta", body: `{"error":{"message":"User request limit reached","code":17}}`, want: domain.ErrorKindRateLimit},
		{name: "limite de insights", body: `{"error":{"message":"There have been too many calls","code":80004}}`, want: domain.ErrorKindRateLimit},
		{name: "permissão", body: `{"error":{"message":"Permissions error","code":200}}`, want: domain.ErrorKindPermissionDenied},
		{name: "objeto inexistente", body: `{"error":{"message":"Unsupported get request","code":100,"error_subcode":33}}`, want: domain.ErrorKindAccountNotFound},
		{name: "parâmetro inválido", body: `{"error":{"message":"Invalid parameter","code":100}}`, want: domain.ErrorKindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := ParseError(http.StatusBadRequest, []byte(tt.body))
			require.NotNil(t, ue)
			assert.Equal(t, tt.want, ue.Kind)
		})
	}

	assert.Nil(t, ParseError(http.StatusBadGateway, []byte("<html>")))
}

func TestParseUsage(t *testing.T) {
	header := http.Header{}
	header.Set("X-Ad-Account-Usage", `{"acc_id_util_pct":35.5,"reset_time_duration":120}`)
	header.Set("X-Business-Use-Case-Usage", `{"999":[{"type":"ads_insights","call_count":48,"total_cputime":12,"total_time":20,"estimated_time_to_regain_access":0}]}`)

	usage, ok := ParseUsage(header)
	require.True(t, ok)
	assert.Equal(t, 48.0, usage.UsedPercent)
	assert.Equal(t, -1, usage.Remaining)
	assert.Equal(t, 120*time.Second, usage.ResetAfter)

	blocked := http.Header{}
	blocked.Set("X-Business-Use-Case-Usage", `{"999":[{"type":"ads_insights","call_count":100,"estimated_time_to_regain_access":3}]}`)

	usage, ok = ParseUsage(blocked)
	require.True(t, ok)
	assert.Equal(t, 0, usage.Remaining)
	assert.Equal(t, 3*time.Minute, usage.ResetAfter)

	_, ok = ParseUsage(http.Header{})
	assert.False(t, ok)
}

func TestTokenRefresher_ExchangesToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v22.0/oauth/access_token", r.URL.Path)
		assert.Equal(t, "fb_exchange_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "velho", r.URL.Query().Get("fb_exchange_token"))
		_, _ = w.Write([]byte(`{"access_token":"longo","token_type":"bearer","expires_in":5183944}`))
	}))
	defer srv.Close()

	refresher := &TokenRefresher{GraphURL: srv.URL + "/v22.0", AppID: "app", AppSecret: "secret", Now: func() time.Time { return now }}

	creds, err := refresher.Refresh(context.Background(), domain.TokenRecord{AccountID: "act_1", AccessToken: "velho"})
	require.NoError(t, err)
	assert.Equal(t, "longo", creds.AccessToken)
	assert.Equal(t, now.Add(5183944*time.Second), creds.ExpiresAt)
}

func TestTokenRefresher_ExpiredTokenRequiresReauth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Session has expired","type":"OAuthException","code":190,"error_subcode":463}}`))
	}))
	defer srv.Close()

	refresher := &TokenRefresher{GraphURL: srv.URL, AppID: "app", AppSecret: "secret"}

	_, err := refresher.Refresh(context.Background(), domain.TokenRecord{AccessToken: "velho"})
	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.True(t, ue.RequiresReauth())
	assert.ErrorIs(t, err, domain.ErrReauthRequired)
}
