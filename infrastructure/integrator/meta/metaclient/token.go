package metaclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-metrics-api/infrastructure/integrator/upstream"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// TokenResponse representa a resposta da API do Meta ao trocar um token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenRefresher troca o token atual por um de longa duração (fb_exchange_token).
// O Meta não usa refresh token: a troca exige um token ainda válido.
type TokenRefresher struct {
	GraphURL   string
	AppID      string
	AppSecret  string
	HTTPClient *http.Client
	Now        func() time.Time
}

func (r *TokenRefresher) Refresh(ctx context.Context, record domain.TokenRecord) (*domain.Credentials, error) {
	if record.AccessToken == "" {
		return nil, domain.NewUpstreamError(domain.ErrorKindAuthentication, 0, "token de acesso não pode ser vazio", domain.ErrReauthRequired)
	}

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", r.AppID)
	params.Add("client_secret", r.AppSecret)
	params.Add("fb_exchange_token", record.AccessToken)

	endpoint := fmt.Sprintf("%s/oauth/access_token?%s", strings.TrimRight(r.GraphURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar requisição de troca de token")
	}

	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, upstream.ClassifyError(errors.Wrap(err, "erro ao obter token de longa duração"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstream.ClassifyError(errors.Wrap(err, "erro ao ler resposta"))
	}

	if resp.StatusCode != http.StatusOK {
		logrus.Errorf("Erro obtendo token longa duração. Status: %d", resp.StatusCode)
		ue := ParseError(resp.StatusCode, body)
		if ue == nil {
			ue = upstream.ClassifyStatus(resp.StatusCode, body)
		}
		if ue.Kind == domain.ErrorKindAuthentication {
			ue.Err = domain.ErrReauthRequired
		}
		return nil, ue
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil || tokenResp.AccessToken == "" {
		return nil, domain.NewUpstreamError(domain.ErrorKindAPI, resp.StatusCode, "token retornado pela API é inválido", err)
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	creds := &domain.Credentials{AccessToken: tokenResp.AccessToken}
	if tokenResp.ExpiresIn > 0 {
		creds.ExpiresAt = now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	logrus.WithField("account_id", record.AccountID).
		Infof("Token de longa duração obtido com sucesso. Expira em %s.", FormatDuration(tokenResp.ExpiresIn))

	return creds, nil
}

// FormatDuration formata a duração em segundos para um formato legível
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	days := duration / (24 * time.Hour)
	hours := (duration % (24 * time.Hour)) / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d dias, %d horas e %d minutos", days, hours, minutes)
}
