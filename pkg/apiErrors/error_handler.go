package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken      = "AUTH_006" // Token inválido
	ErrExpiredToken      = "AUTH_007" // Token expirado
	ErrInsufficientScope = "AUTH_008" // Escopo insuficiente

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrUnknownPlatform     = "VAL_004" // Plataforma não suportada
	ErrInvalidDateRange    = "VAL_005" // Período inválido

	// Erros de recurso (4000-4999)
	ErrClientNotFound   = "RES_001" // Cliente não encontrado
	ErrNotFound         = "RES_002" // Recurso não encontrado
	ErrMethodNotAllowed = "RES_003" // Método não permitido

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
	ErrCommunication     = "SRV_004" // Erro de comunicação
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrInsufficientScope:   http.StatusForbidden,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrUnknownPlatform:     http.StatusBadRequest,
	ErrInvalidDateRange:    http.StatusBadRequest,
	ErrClientNotFound:      http.StatusNotFound,
	ErrNotFound:            http.StatusNotFound,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrCommunication:       http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor devolve o status HTTP de um código, 500 quando desconhecido
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go, traduzindo os erros de domínio conhecidos.
// Erros sem mapeamento usam o código informado.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	switch {
	case errors.Is(err, domain.ErrEmptyClientID):
		code = ErrMissingRequiredData
	case errors.Is(err, domain.ErrNoPlatforms):
		code = ErrMissingRequiredData
	case errors.Is(err, domain.ErrUnknownPlatform):
		code = ErrUnknownPlatform
	case errors.Is(err, domain.ErrInvalidDateRange):
		code = ErrInvalidDateRange
	case errors.Is(err, domain.ErrClientNotFound):
		code = ErrClientNotFound
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}

// WriteFromError escreve a resposta para um erro vindo das camadas internas
func WriteFromError(w http.ResponseWriter, err error, fallbackCode string) {
	apiErr := FromError(err, fallbackCode)
	WriteError(w, apiErr.Code, apiErr.Message, apiErr.Details)
}
