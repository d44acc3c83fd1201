package googleadsdomain

import (
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// ErrorResponse é o envelope google.rpc.Status devolvido pela API REST
type ErrorResponse struct {
	Error Status `json:"error"`
}

type Status struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Details []FailureDetail `json:"details"`
}

type FailureDetail struct {
	Type   string       `json:"@type"`
	Errors []AdsFailure `json:"errors"`
}

type AdsFailure struct {
	ErrorCode map[string]string `json:"errorCode"`
	Message   string            `json:"message"`
	Details   *FailureDetails   `json:"details,omitempty"`
}

type FailureDetails struct {
	QuotaErrorDetails *QuotaErrorDetails `json:"quotaErrorDetails,omitempty"`
}

type QuotaErrorDetails struct {
	RateScope  string `json:"rateScope"`
	RateName   string `json:"rateName"`
	RetryDelay string `json:"retryDelay"`
}

// Codes devolve todos os códigos "categoria:valor" presentes na falha
func (s Status) Codes() map[string]string {
	codes := make(map[string]string)
	for _, d := range s.Details {
		for _, e := range d.Errors {
			for category, value := range e.ErrorCode {
				codes[category] = value
			}
		}
	}
	return codes
}

// RetryDelay lê o atraso sugerido em quotaErrorDetails ("30s")
func (s Status) RetryDelay() time.Duration {
	for _, d := range s.Details {
		for _, e := range d.Errors {
			if e.Details == nil || e.Details.QuotaErrorDetails == nil {
				continue
			}
			if delay, err := time.ParseDuration(e.Details.QuotaErrorDetails.RetryDelay); err == nil {
				return delay
			}
		}
	}
	return 0
}

// Kind traduz o status gRPC e os códigos da falha; ok=false delega ao status HTTP
func (s Status) Kind() (domain.ErrorKind, bool) {
	codes := s.Codes()

	switch {
	case codes["requestError"] == "INVALID_CUSTOMER_ID",
		codes["authorizationError"] == "CUSTOMER_NOT_ENABLED",
		codes["customerError"] == "CUSTOMER_NOT_FOUND":
		return domain.ErrorKindAccountNotFound, true
	case codes["quotaError"] == "RESOURCE_TEMPORARILY_EXHAUSTED":
		return domain.ErrorKindRateLimit, true
	case codes["quotaError"] == "RESOURCE_EXHAUSTED":
		return domain.ErrorKindQuotaExhausted, true
	}

	switch s.Status {
	case "UNAUTHENTICATED":
		return domain.ErrorKindAuthentication, true
	case "PERMISSION_DENIED":
		return domain.ErrorKindPermissionDenied, true
	case "RESOURCE_EXHAUSTED":
		return domain.ErrorKindRateLimit, true
	case "INTERNAL", "UNAVAILABLE", "DEADLINE_EXCEEDED":
		return domain.ErrorKindServer, true
	case "NOT_FOUND":
		return domain.ErrorKindAccountNotFound, true
	}
	return "", false
}
