package upstream

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorParser permite que cada provedor reconheça seu próprio formato de erro.
// Deve retornar nil quando não reconhecer o corpo, para que a classificação por status seja usada.
type ErrorParser func(statusCode int, body []byte) *domain.UpstreamError

// ClassifyResponse converte uma resposta HTTP de erro em *domain.UpstreamError
func ClassifyResponse(statusCode int, header http.Header, body []byte, parser ErrorParser) *domain.UpstreamError {
	var ue *domain.UpstreamError
	if parser != nil {
		ue = parser(statusCode, body)
	}
	if ue == nil {
		ue = ClassifyStatus(statusCode, body)
	}
	if ue.StatusCode == 0 {
		ue.StatusCode = statusCode
	}
	if header != nil && ue.RetryAfter == 0 {
		ue.RetryAfter = ParseRetryAfter(header.Get("Retry-After"), time.Now())
	}
	return ue
}

// ClassifyStatus aplica o mapeamento genérico de status HTTP
func ClassifyStatus(statusCode int, body []byte) *domain.UpstreamError {
	msg := summarizeBody(body)
	lower := strings.ToLower(string(body))

	var kind domain.ErrorKind
	switch {
	case statusCode == http.StatusUnauthorized:
		kind = domain.ErrorKindAuthentication
	case statusCode == http.StatusForbidden:
		kind = domain.ErrorKindPermissionDenied
	case statusCode == http.StatusNotFound || strings.Contains(lower, "customer_not_found"):
		kind = domain.ErrorKindAccountNotFound
	case statusCode == http.StatusTooManyRequests:
		kind = domain.ErrorKindRateLimit
		if strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "quota") {
			kind = domain.ErrorKindQuotaExhausted
		}
	case statusCode >= 500:
		kind = domain.ErrorKindServer
	case statusCode >= 400:
		kind = domain.ErrorKindAPI
	default:
		kind = domain.ErrorKindUnknown
	}

	return domain.NewUpstreamError(kind, statusCode, msg, nil)
}

type oauthErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ClassifyOAuthError trata o corpo padrão de erro do endpoint de token (RFC 6749)
func ClassifyOAuthError(statusCode int, body []byte) *domain.UpstreamError {
	var payload oauthErrorBody
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg := payload.Error
		if payload.ErrorDescription != "" {
			msg += ": " + payload.ErrorDescription
		}

		switch payload.Error {
		case "invalid_grant", "access_denied", "invalid_client", "unauthorized_client":
			return domain.NewUpstreamError(domain.ErrorKindAuthentication, statusCode, msg, domain.ErrReauthRequired)
		case "invalid_scope":
			return domain.NewUpstreamError(domain.ErrorKindPermissionDenied, statusCode, msg, domain.ErrReauthRequired)
		}
	}
	return ClassifyStatus(statusCode, body)
}

// ClassifyError classifica erros de transporte. Erros já tipados passam intactos.
func ClassifyError(err error) *domain.UpstreamError {
	if err == nil {
		return nil
	}

	if ue, ok := domain.AsUpstreamError(err); ok {
		return ue
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamError(domain.ErrorKindNetwork, 0, "tempo limite excedido", err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewUpstreamError(domain.ErrorKindNetwork, 0, "requisição cancelada", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.NewUpstreamError(domain.ErrorKindNetwork, 0, netErr.Error(), err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.NewUpstreamError(domain.ErrorKindNetwork, 0, urlErr.Error(), err)
	}

	return domain.NewUpstreamError(domain.ErrorKindUnknown, 0, err.Error(), err)
}

// ParseRetryAfter aceita segundos ou data HTTP; retorna zero quando ausente ou inválido
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}

	return 0
}

// summarizeBody corta em até 300 bytes sem partir um caractere multibyte
func summarizeBody(body []byte) string {
	const maxLen = 300
	s := strings.TrimSpace(string(body))
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
