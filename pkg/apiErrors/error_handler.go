package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de roteamento
	ErrRouteNotFound    = "RTE_001"
	ErrMethodNotAllowed = "RTE_002"

	// Erros de tenant
	ErrTenantNotFound      = "TEN_001"
	ErrTenantNotConfigured = "TEN_002" // Sem token do Meta ou conta de anúncios
	ErrPlanNotEligible     = "TEN_003" // Plano free ou expirado

	// Erros do monitor
	ErrMonitorBusy = "MON_001" // Rodada em andamento

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrRouteNotFound:         http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrTenantNotFound:        http.StatusNotFound,
	ErrTenantNotConfigured:   http.StatusUnprocessableEntity,
	ErrPlanNotEligible:       http.StatusPaymentRequired,
	ErrMonitorBusy:           http.StatusConflict,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// WriteDomainError traduz os erros de domínio para o código de API correspondente
func WriteDomainError(w http.ResponseWriter, err error) {
	code, message := FromDomainError(err)
	WriteError(w, code, message, nil)
}

func FromDomainError(err error) (string, string) {
	var providerErr *domain.ProviderError

	switch {
	case err == nil:
		return ErrInternalServer, "Erro desconhecido"
	case errors.Is(err, domain.ErrTenantNotFound):
		return ErrTenantNotFound, err.Error()
	case errors.Is(err, domain.ErrTenantNotConfigured):
		return ErrTenantNotConfigured, err.Error()
	case errors.Is(err, domain.ErrPlanNotEligible):
		return ErrPlanNotEligible, err.Error()
	case errors.Is(err, domain.ErrInvalidSettings):
		return ErrInvalidFormat, err.Error()
	case errors.As(err, &providerErr):
		return ErrExternalService, providerErr.Error()
	case domain.IsPersistenceError(err):
		return ErrDatabaseOperation, "Erro ao acessar os dados do tenant"
	default:
		return ErrInternalServer, "Erro interno do servidor"
	}
}
