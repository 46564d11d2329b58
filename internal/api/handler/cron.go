package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/internal/scheduler"
	"github.com/vfg2006/ads-sentinel/pkg/apiErrors"
)

// CronJobTypeAdMonitor identifica o monitor de anúncios na rota de execução manual
const CronJobTypeAdMonitor = "ad-monitor"

// TickRunner é a parte do agendador usada pelas rotas de cron
type TickRunner interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(adMonitor TickRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType != CronJobTypeAdMonitor {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: ad-monitor", nil)
			return
		}

		if adMonitor == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Monitor de anúncios não disponível", nil)
			return
		}

		if !adMonitor.TriggerManualSync() {
			apiErrors.WriteError(w, apiErrors.ErrMonitorBusy, "Monitor de anúncios já em andamento", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(adMonitor TickRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		if adMonitor == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Monitor de anúncios não disponível", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			CronJobTypeAdMonitor: adMonitor.GetStatus(),
		})
	}
}

var _ TickRunner = (*scheduler.AdMonitorService)(nil)
