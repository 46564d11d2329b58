package handler

import (
	"net/http"

	"github.com/vfg2006/ads-sentinel/internal/api/handler/router"
	"github.com/vfg2006/ads-sentinel/internal/usecases/monitoring"
	"github.com/vfg2006/ads-sentinel/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Monitoring(service monitoring.Monitor) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/me/check-now",
			Method:      http.MethodGet,
			Handler:     CheckNow(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.TenantOnly()},
		},
		{
			Path:        "/v1/me/logs",
			Method:      http.MethodGet,
			Handler:     GetLogs(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.TenantOnly()},
		},
		{
			Path:        "/v1/me/settings",
			Method:      http.MethodGet,
			Handler:     GetSettings(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.TenantOnly()},
		},
		{
			Path:        "/v1/me/settings",
			Method:      http.MethodPut,
			Handler:     UpdateSettings(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.TenantOnly()},
		},
	}
}

func CronJobs(adMonitor TickRunner) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(adMonitor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(adMonitor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
