package domain

import (
	"errors"
	"fmt"
	"time"
)

// Erros de validação e de domínio
var (
	ErrEmptyClientID       = errors.New("client id is required")
	ErrNoPlatforms         = errors.New("at least one platform is required")
	ErrUnknownPlatform     = errors.New("unknown platform")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrClientNotFound      = errors.New("client not found")
	ErrCredentialsNotFound = errors.New("integration credentials not found")
	ErrReauthRequired      = errors.New("reauthentication required")
	ErrNoReportSource      = errors.New("no report source for platform")
)

// ErrorKind é a taxonomia de falhas de provedores externos
type ErrorKind string

const (
	ErrorKindAuthentication   ErrorKind = "AUTHENTICATION_ERROR"
	ErrorKindPermissionDenied ErrorKind = "PERMISSION_DENIED"
	ErrorKindRateLimit        ErrorKind = "RATE_LIMIT"
	ErrorKindQuotaExhausted   ErrorKind = "QUOTA_EXHAUSTED"
	ErrorKindAccountNotFound  ErrorKind = "ACCOUNT_NOT_FOUND"
	ErrorKindNetwork          ErrorKind = "NETWORK_ERROR"
	ErrorKindAPI              ErrorKind = "API_ERROR"
	ErrorKindServer           ErrorKind = "SERVER_ERROR"
	ErrorKindUnknown          ErrorKind = "UNKNOWN_ERROR"
)

type errorKindPolicy struct {
	canRetry       bool
	requiresReauth bool
	baseBackoff    time.Duration
}

var errorKindPolicies = map[ErrorKind]errorKindPolicy{
	ErrorKindAuthentication:   {requiresReauth: true},
	ErrorKindPermissionDenied: {requiresReauth: true},
	ErrorKindRateLimit:        {canRetry: true, baseBackoff: 5 * time.Second},
	ErrorKindQuotaExhausted:   {},
	ErrorKindAccountNotFound:  {},
	ErrorKindNetwork:          {canRetry: true, baseBackoff: 2 * time.Second},
	ErrorKindAPI:              {},
	ErrorKindServer:           {canRetry: true, baseBackoff: 10 * time.Second},
	ErrorKindUnknown:          {},
}

func (k ErrorKind) CanRetry() bool {
	return errorKindPolicies[k].canRetry
}

func (k ErrorKind) RequiresReauth() bool {
	return errorKindPolicies[k].requiresReauth
}

// BaseBackoff retorna zero para tipos que não são repetidos
func (k ErrorKind) BaseBackoff() time.Duration {
	return errorKindPolicies[k].baseBackoff
}

// UpstreamError é o único formato de erro que sai do cliente de API
type UpstreamError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	RetryAfter time.Duration
	Err        error
}

func NewUpstreamError(kind ErrorKind, statusCode int, message string, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, StatusCode: statusCode, Message: message, Err: err}
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) CanRetry() bool {
	return e.Kind.CanRetry()
}

func (e *UpstreamError) RequiresReauth() bool {
	return e.Kind.RequiresReauth() || errors.Is(e.Err, ErrReauthRequired)
}

// AsUpstreamError extrai um *UpstreamError da cadeia de erros
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// ErrorRecord descreve a falha de uma fonte anexada ao resultado
type ErrorRecord struct {
	Source         PlatformQuery `json:"source"`
	Kind           ErrorKind     `json:"kind"`
	Message        string        `json:"message"`
	Retryable      bool          `json:"retryable"`
	RequiresReauth bool          `json:"requiresReauth"`
}

// NewErrorRecord converte qualquer erro em ErrorRecord; erros sem tipo viram UNKNOWN_ERROR
func NewErrorRecord(source PlatformQuery, err error) ErrorRecord {
	ue, ok := AsUpstreamError(err)
	if !ok {
		ue = NewUpstreamError(ErrorKindUnknown, 0, err.Error(), err)
	}

	msg := ue.Message
	if msg == "" {
		msg = ue.Error()
	}

	return ErrorRecord{
		Source:         source,
		Kind:           ue.Kind,
		Message:        msg,
		Retryable:      ue.CanRetry(),
		RequiresReauth: ue.RequiresReauth(),
	}
}
