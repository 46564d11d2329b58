package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotConfigured indica tenant com bot ativo mas sem token ou conta de anúncios
	ErrTenantNotConfigured = errors.New("tenant sem token ou conta de anúncios configurados")
	ErrTenantNotFound      = errors.New("tenant não encontrado")
	ErrPlanNotEligible     = errors.New("plano do tenant não permite esta operação")
	ErrInvalidSettings     = errors.New("configuração inválida")
)

// ProviderError representa falha em qualquer chamada externa (Meta Graph API)
type ProviderError struct {
	Op         string // Operação executada (fetch_insights, pause_ad, search_interests)
	StatusCode int    // Status HTTP, quando houver resposta
	Message    string // Mensagem retornada pelo provedor
	Err        error  // Erro base
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s falhou (status %d): %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("provider %s falhou: %s", e.Op, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(op string, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// PersistenceError representa falha de leitura ou escrita no repositório de tenants
type PersistenceError struct {
	Op       string
	TenantID string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.TenantID != "" {
		return fmt.Sprintf("persistência %s falhou para tenant %s: %v", e.Op, e.TenantID, e.Err)
	}
	return fmt.Sprintf("persistência %s falhou: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op, tenantID string, err error) *PersistenceError {
	return &PersistenceError{
		Op:       op,
		TenantID: tenantID,
		Err:      err,
	}
}

// IsProviderError verifica se o erro veio de uma chamada externa
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}

// IsPersistenceError verifica se o erro veio do repositório de tenants
func IsPersistenceError(err error) bool {
	var persistenceErr *PersistenceError
	return errors.As(err, &persistenceErr)
}
