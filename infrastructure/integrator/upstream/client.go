package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

const (
	defaultCallTimeout = 60 * time.Second
	defaultMaxPages    = 200
)

// Page é uma página já decodificada
type Page struct {
	Rows       []domain.RawRow
	NextCursor string
}

// Pager descreve como montar e decodificar as páginas de uma consulta
type Pager interface {
	PageSize() int
	// NewRequest monta a requisição da página; cursor vazio indica a primeira
	NewRequest(ctx context.Context, cursor string) (*http.Request, error)
	DecodePage(body []byte) (Page, error)
}

// TokenSource é a parte do TokenManager usada pelo cliente
type TokenSource interface {
	GetValidToken(ctx context.Context, platform domain.Platform, accountID string) (string, error)
	Expire(platform domain.Platform, accountID string)
	RequireReauth(platform domain.Platform, accountID string, reason string)
}

// ClientConfig agrupa as dependências de um Client por plataforma
type ClientConfig struct {
	Platform    domain.Platform
	HTTPClient  *http.Client
	Tokens      TokenSource
	Limiter     *RateLimiter
	ParseError  ErrorParser
	ParseUsage  UsageParser
	CallTimeout time.Duration
	MaxPages    int
}

// Client executa chamadas paginadas sob o orçamento de requisições da conta.
// Todo erro devolvido é *domain.UpstreamError.
type Client struct {
	platform    domain.Platform
	httpClient  *http.Client
	tokens      TokenSource
	limiter     *RateLimiter
	parseError  ErrorParser
	parseUsage  UsageParser
	callTimeout time.Duration
	maxPages    int
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		platform:    cfg.Platform,
		httpClient:  cfg.HTTPClient,
		tokens:      cfg.Tokens,
		limiter:     cfg.Limiter,
		parseError:  cfg.ParseError,
		parseUsage:  cfg.ParseUsage,
		callTimeout: cfg.CallTimeout,
		maxPages:    cfg.MaxPages,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.callTimeout <= 0 {
		c.callTimeout = defaultCallTimeout
	}
	if c.maxPages <= 0 {
		c.maxPages = defaultMaxPages
	}
	return c
}

func (c *Client) Platform() domain.Platform {
	return c.platform
}

// Fetch busca todas as páginas da consulta em ordem; a página N+1 só é pedida após a N
func (c *Client) Fetch(ctx context.Context, q domain.PlatformQuery, pager Pager) (*domain.RawReportBlock, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"platform":    q.Platform,
		"account_id":  q.AccountID,
		"report_kind": q.ReportKind,
	})

	block := &domain.RawReportBlock{Query: q}
	cursor := ""
	pageSize := pager.PageSize()

	for {
		page, err := c.fetchPage(ctx, q, pager, cursor)
		if err != nil {
			return nil, err
		}

		block.Rows = append(block.Rows, page.Rows...)
		block.Pages++

		if len(page.Rows) < pageSize || page.NextCursor == "" {
			break
		}

		// um bloco truncado subestimaria os totais; a consulta falha e vira ErrorRecord
		if block.Pages >= c.maxPages {
			logger.Warnf("Limite de %d páginas atingido com páginas restantes", c.maxPages)
			return nil, domain.NewUpstreamError(domain.ErrorKindAPI, 0,
				fmt.Sprintf("resultado excede o limite de %d páginas", c.maxPages), nil)
		}
		cursor = page.NextCursor
	}

	logger.Debugf("Consulta concluída: %d linhas em %d páginas", len(block.Rows), block.Pages)
	return block, nil
}

// fetchPage repete a página uma única vez após renovar o token em caso de AUTHENTICATION_ERROR
func (c *Client) fetchPage(ctx context.Context, q domain.PlatformQuery, pager Pager, cursor string) (Page, error) {
	page, err := c.call(ctx, q, pager, cursor)
	if err == nil {
		return page, nil
	}

	ue := ClassifyError(err)
	switch {
	case errors.Is(ue, domain.ErrReauthRequired):
		return Page{}, ue
	case ue.Kind == domain.ErrorKindAuthentication:
		c.tokens.Expire(q.Platform, q.AccountID)

		page, err = c.call(ctx, q, pager, cursor)
		if err == nil {
			return page, nil
		}
		ue = ClassifyError(err)
		if ue.RequiresReauth() && !errors.Is(ue, domain.ErrReauthRequired) {
			c.tokens.RequireReauth(q.Platform, q.AccountID, ue.Message)
		}
		return Page{}, ue
	case ue.Kind == domain.ErrorKindPermissionDenied:
		c.tokens.RequireReauth(q.Platform, q.AccountID, ue.Message)
		return Page{}, ue
	}

	return Page{}, ue
}

// call faz uma única requisição. O timeout cobre a espera do limitador, o token e o HTTP.
func (c *Client) call(ctx context.Context, q domain.PlatformQuery, pager Pager, cursor string) (Page, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Acquire(callCtx, q.Platform, q.AccountID); err != nil {
			return Page{}, ClassifyError(err)
		}
	}

	token, err := c.tokens.GetValidToken(callCtx, q.Platform, q.AccountID)
	if err != nil {
		return Page{}, ClassifyError(err)
	}

	req, err := pager.NewRequest(callCtx, cursor)
	if err != nil {
		return Page{}, domain.NewUpstreamError(domain.ErrorKindUnknown, 0, "erro ao criar requisição", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, ClassifyError(errors.Wrapf(err, "erro ao chamar %s", q.Platform))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, ClassifyError(errors.Wrap(err, "erro ao ler resposta"))
	}

	if c.limiter != nil && c.parseUsage != nil {
		if usage, ok := c.parseUsage(resp.Header); ok {
			c.limiter.Observe(q.Platform, q.AccountID, usage)
		}
	}

	if resp.StatusCode >= 400 {
		ue := ClassifyResponse(resp.StatusCode, resp.Header, body, c.parseError)
		if ue.Kind == domain.ErrorKindRateLimit && c.limiter != nil {
			wait := ue.RetryAfter
			if wait <= 0 {
				wait = Backoff(domain.ErrorKindRateLimit, 1)
			}
			c.limiter.Penalize(q.Platform, q.AccountID, wait)
		}
		return Page{}, ue
	}

	page, err := pager.DecodePage(body)
	if err != nil {
		return Page{}, domain.NewUpstreamError(domain.ErrorKindAPI, resp.StatusCode, "resposta inválida do provedor", err)
	}
	return page, nil
}
