package ghldomain

import (
	"strings"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// ErrorResponse cobre os dois formatos devolvidos pela API (message texto ou lista)
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

func (e *ErrorResponse) Text() string {
	switch m := e.Message.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return e.Error
}

// Kind só reconhece casos que o status HTTP sozinho não distingue
func (e *ErrorResponse) Kind(statusCode int) (domain.ErrorKind, bool) {
	text := strings.ToLower(e.Text())

	switch {
	case strings.Contains(text, "location") && strings.Contains(text, "not found"):
		return domain.ErrorKindAccountNotFound, true
	case strings.Contains(text, "token") && (strings.Contains(text, "expired") || strings.Contains(text, "invalid")):
		return domain.ErrorKindAuthentication, true
	case strings.Contains(text, "does not have access to this location") || strings.Contains(text, "not authorized for this scope"):
		return domain.ErrorKindPermissionDenied, true
	}
	return "", false
}
