package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/internal/api/handler"
	"github.com/vfg2006/ads-sentinel/internal/api/handler/router"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/scheduler"
	"github.com/vfg2006/ads-sentinel/internal/usecases/authenticating"
	"github.com/vfg2006/ads-sentinel/internal/usecases/monitoring"
	"github.com/vfg2006/ads-sentinel/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	adMonitor  *scheduler.AdMonitorService
}

func New(
	config *config.Config,
	monitorService monitoring.Monitor,
	authenticator authenticating.Authenticator,
	adMonitor *scheduler.AdMonitorService,
) (*Server, error) {
	if adMonitor == nil {
		return nil, fmt.Errorf("monitor de anúncios não informado")
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Monitoring(monitorService)...),
		router.WithRoutes(handler.CronJobs(adMonitor)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
		adMonitor: adMonitor,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")

	// Aguarda a rodada em andamento gravar o histórico dos tenants
	s.adMonitor.Stop()

	logrus.Info("Monitor de anúncios parado")
	return nil
}
