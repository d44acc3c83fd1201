package metadomain

import "github.com/vfg2006/agency-metrics-api/internal/domain"

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// códigos de limite de chamadas da Graph API
var rateLimitCodes = map[int]struct{}{
	4:     {},
	17:    {},
	32:    {},
	613:   {},
	80000: {},
	80004: {},
}

// IsTokenExpired verifica se o erro é de token expirado ou invalidado
func (e *ErrorResponse) IsTokenExpired() bool {
	// 190 é "token inválido"; os subcódigos 460, 463 e 467 indicam senha alterada, expiração e logout
	return e.Error.Code == 190 ||
		(e.Error.Type == "OAuthException" && (e.Error.ErrorSubcode == 460 || e.Error.ErrorSubcode == 463 || e.Error.ErrorSubcode == 467))
}

func (e *ErrorResponse) IsRateLimited() bool {
	_, ok := rateLimitCodes[e.Error.Code]
	return ok
}

// IsPermissionError cobre os códigos 10 e 200-299 (permissão da aplicação ou da conta)
func (e *ErrorResponse) IsPermissionError() bool {
	return e.Error.Code == 10 || (e.Error.Code >= 200 && e.Error.Code < 300)
}

// Kind traduz o código do Meta para a taxonomia de erros
func (e *ErrorResponse) Kind(statusCode int) domain.ErrorKind {
	switch {
	case e.IsTokenExpired():
		return domain.ErrorKindAuthentication
	case e.IsRateLimited():
		return domain.ErrorKindRateLimit
	case e.IsPermissionError():
		return domain.ErrorKindPermissionDenied
	case e.Error.Code == 100 && e.Error.ErrorSubcode == 33:
		// objeto inexistente ou sem acesso
		return domain.ErrorKindAccountNotFound
	case e.Error.Code == 1 || e.Error.Code == 2 || statusCode >= 500:
		return domain.ErrorKindServer
	}
	return domain.ErrorKindAPI
}
