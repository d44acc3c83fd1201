package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// OAuthRefresher renova tokens com grant_type=refresh_token via formulário
type OAuthRefresher struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	// Extra é enviado junto ao formulário (ex.: user_type=Location)
	Extra      url.Values
	HTTPClient *http.Client
	Now        func() time.Time
}

type oauthTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

func (r *OAuthRefresher) Refresh(ctx context.Context, record domain.TokenRecord) (*domain.Credentials, error) {
	if record.RefreshToken == "" {
		return nil, domain.NewUpstreamError(domain.ErrorKindAuthentication, 0, "refresh token ausente", domain.ErrReauthRequired)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", record.RefreshToken)
	form.Set("client_id", r.ClientID)
	form.Set("client_secret", r.ClientSecret)
	for k, values := range r.Extra {
		for _, v := range values {
			form.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar requisição de token")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ClassifyError(errors.Wrap(err, "erro ao chamar endpoint de token"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ClassifyError(errors.Wrap(err, "erro ao ler resposta de token"))
	}

	if resp.StatusCode >= 400 {
		ue := ClassifyOAuthError(resp.StatusCode, body)
		ue.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), r.now())
		return nil, ue
	}

	var payload oauthTokenResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.AccessToken == "" {
		return nil, domain.NewUpstreamError(domain.ErrorKindAPI, resp.StatusCode, "resposta de token inválida", err)
	}

	creds := &domain.Credentials{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		Scope:        payload.Scope,
	}
	if payload.ExpiresIn > 0 {
		creds.ExpiresAt = r.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	return creds, nil
}

func (r *OAuthRefresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
