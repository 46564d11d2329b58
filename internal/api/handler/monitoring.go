package handler

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/internal/usecases/monitoring"
	"github.com/vfg2006/ads-sentinel/pkg/apiErrors"
	"github.com/vfg2006/ads-sentinel/pkg/log"
	"github.com/vfg2006/ads-sentinel/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxSettingsPayload = 64 << 10

// CheckNow avalia os anúncios do tenant autenticado sem executar ações
func CheckNow(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		logger := log.ForContext(r.Context()).WithField("tenant_id", tenantID)
		logger.Info("INIT - CheckNow")

		reports, err := service.CheckNow(r.Context(), tenantID)
		if err != nil {
			logger.WithError(err).Warn("Erro ao verificar anúncios do tenant")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, reports)
	})
}

func GetLogs(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		logs, err := service.GetLogs(r.Context(), tenantID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar histórico do tenant")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, logs)
	})
}

func GetSettings(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		settings, err := service.GetSettings(r.Context(), tenantID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar configuração do tenant")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	})
}

// UpdateSettings aplica uma atualização parcial sobre a configuração atual
func UpdateSettings(service monitoring.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSettingsPayload))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao ler corpo da requisição", nil)
			return
		}
		if len(payload) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Corpo da requisição vazio", nil)
			return
		}

		settings, err := service.UpdateSettings(r.Context(), tenantID, payload)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao atualizar configuração do tenant")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	})
}

func tenantFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.TenantID == "" {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token sem tenant associado", nil)
		return "", false
	}

	return claims.TenantID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}
