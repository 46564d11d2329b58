package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-sentinel/infrastructure/lock"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/internal/usecases/auditing"
	"github.com/vfg2006/ads-sentinel/internal/usecases/entitlement"
	"github.com/vfg2006/ads-sentinel/internal/usecases/evaluating"
	"github.com/vfg2006/ads-sentinel/internal/usecases/remediating"
	"golang.org/x/sync/errgroup"
)

// TickLockKey é a chave do lock distribuído compartilhado entre réplicas
const TickLockKey = "ad-monitor:tick"

const (
	defaultPersistTimeout = 30 * time.Second
	defaultLockTTL        = 14 * time.Minute
)

// AdMonitorConfig representa a configuração do monitor de anúncios
type AdMonitorConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	Enabled           bool
	// PersistTimeout limita cada leitura ou gravação no banco feita pela rodada
	PersistTimeout time.Duration
	// LockTTL é o TTL do lock distribuído, renovado a cada terço enquanto a rodada executa
	LockTTL time.Duration
}

// AdMonitorService executa periodicamente a avaliação dos anúncios de todos os tenants elegíveis
type AdMonitorService struct {
	scheduler   *gocron.Scheduler
	config      AdMonitorConfig
	gate        entitlement.Gate
	metaService meta.MetaIntegrator
	executor    remediating.Remediator
	auditor     auditing.Auditor
	newLocker   func() lock.Locker
	now         func() time.Time

	baseCtx         context.Context
	stopped         bool
	state           TickState
	stateMutex      sync.Mutex
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastReport      *TickReport
	inFlight        sync.WaitGroup
}

func NewAdMonitorService(
	appConfig *config.Config,
	gate entitlement.Gate,
	metaService meta.MetaIntegrator,
	executor remediating.Remediator,
	auditor auditing.Auditor,
) *AdMonitorService {
	monitorConfig := AdMonitorConfig{
		CronSchedule:      appConfig.AdMonitor.CronSchedule,
		MaxConcurrentJobs: appConfig.AdMonitor.MaxConcurrentJobs,
		Enabled:           appConfig.AdMonitor.Enabled,
		PersistTimeout:    appConfig.Database.QueryTimeout,
		LockTTL:           appConfig.AdMonitor.LockTTL,
	}
	if monitorConfig.MaxConcurrentJobs <= 0 {
		monitorConfig.MaxConcurrentJobs = 1
	}
	if monitorConfig.PersistTimeout <= 0 {
		monitorConfig.PersistTimeout = defaultPersistTimeout
	}
	if monitorConfig.LockTTL <= 0 {
		monitorConfig.LockTTL = defaultLockTTL
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       monitorConfig.CronSchedule,
		"max_concurrent_jobs": monitorConfig.MaxConcurrentJobs,
		"enabled":             monitorConfig.Enabled,
		"persist_timeout":     monitorConfig.PersistTimeout.String(),
		"lock_ttl":            monitorConfig.LockTTL.String(),
		"timezone":            appConfig.App.DefaultTimezone,
	}).Info("Configuração do monitor de anúncios carregada")

	return &AdMonitorService{
		scheduler:   gocron.NewScheduler(appConfig.Location()),
		config:      monitorConfig,
		gate:        gate,
		metaService: metaService,
		executor:    executor,
		auditor:     auditor,
		now:         time.Now,
		baseCtx:     context.Background(),
		state:       TickStateIdle,
	}
}

// WithLocker habilita o lock distribuído. A fábrica é chamada a cada execução.
func (s *AdMonitorService) WithLocker(newLocker func() lock.Locker) *AdMonitorService {
	s.newLocker = newLocker
	return s
}

// WithClock substitui a fonte de horário usada no dayparting e no log
func (s *AdMonitorService) WithClock(now func() time.Time) *AdMonitorService {
	s.now = now
	return s
}

// Start inicia o agendador
func (s *AdMonitorService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Monitor de anúncios desabilitado por configuração")
		return nil
	}

	s.stateMutex.Lock()
	s.baseCtx = ctx
	s.stateMutex.Unlock()

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do monitor de anúncios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).SingletonMode().Do(func() {
		s.RunTick(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar monitor de anúncios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do monitor de anúncios")
		s.Stop()
	}()

	return nil
}

// Stop para o agendador e aguarda a execução em andamento terminar.
// Depois de Stop nenhuma rodada nova é iniciada.
func (s *AdMonitorService) Stop() {
	s.stateMutex.Lock()
	s.stopped = true
	s.stateMutex.Unlock()

	s.scheduler.Stop()
	s.inFlight.Wait()
}

// track registra uma rodada em andamento. Falha depois de Stop.
func (s *AdMonitorService) track() bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	if s.stopped {
		return false
	}
	s.inFlight.Add(1)
	return true
}

// RunTick executa uma rodada completa do monitor. Retorna nil quando outra
// rodada já está em andamento, nesta instância ou em outra réplica, ou
// quando o monitor já foi parado.
func (s *AdMonitorService) RunTick(ctx context.Context) *TickReport {
	if !s.track() {
		logrus.Info("Monitor de anúncios parado, ignorando rodada")
		return nil
	}
	defer s.inFlight.Done()

	return s.runTick(ctx)
}

func (s *AdMonitorService) runTick(ctx context.Context) *TickReport {
	if !s.begin() {
		logrus.Info("Monitor de anúncios já em andamento, ignorando")
		return nil
	}
	defer s.finish()

	if s.newLocker != nil {
		locker := s.newLocker()

		acquired, err := locker.Acquire(ctx)
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter lock do monitor de anúncios")
			return nil
		}
		if !acquired {
			logrus.Info("Monitor de anúncios em execução em outra réplica, ignorando")
			return nil
		}

		stopRefresh := s.keepLock(ctx, locker)

		defer func() {
			stopRefresh()
			if err := locker.Release(context.Background()); err != nil {
				logrus.WithError(err).Warn("Erro ao liberar lock do monitor de anúncios")
			}
		}()
	}

	runID, err := gonanoid.New()
	if err != nil {
		runID = fmt.Sprintf("%d", s.now().UnixNano())
	}

	report := &TickReport{
		RunID:     runID,
		StartedAt: s.now(),
		Tenants:   make([]TenantResult, 0),
	}

	s.stateMutex.Lock()
	s.lastStartedAt = report.StartedAt
	s.stateMutex.Unlock()

	logger := logrus.WithField("run_id", runID)
	logger.Info("Iniciando rodada do monitor de anúncios")

	gateCtx, cancel := context.WithTimeout(ctx, s.config.PersistTimeout)
	tenants, err := s.gate.EligibleTenants(gateCtx)
	cancel()
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar tenants elegíveis")
		report.fail(err)
		s.complete(report)
		return report
	}

	report.Tenants = s.processTenants(ctx, tenants)
	s.complete(report)

	logger.WithFields(logrus.Fields(report.Summary())).Info("Rodada do monitor de anúncios concluída")

	return report
}

// keepLock renova o lock a cada terço do TTL até a função retornada ser chamada
func (s *AdMonitorService) keepLock(ctx context.Context, locker lock.Locker) func() {
	interval := s.config.LockTTL / 3
	if interval <= 0 {
		interval = defaultLockTTL / 3
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				refreshCtx, cancel := context.WithTimeout(ctx, interval)
				held, err := locker.Refresh(refreshCtx)
				cancel()

				if err != nil {
					logrus.WithError(err).Error("Erro ao renovar lock do monitor de anúncios")
					continue
				}
				if !held {
					logrus.Error("Lock do monitor de anúncios perdido durante a rodada")
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// processTenants distribui os tenants entre workers limitados. Cada worker
// escreve apenas na sua posição do slice de resultados.
func (s *AdMonitorService) processTenants(ctx context.Context, tenants []*domain.Tenant) []TenantResult {
	results := make([]TenantResult, len(tenants))

	var group errgroup.Group
	group.SetLimit(s.config.MaxConcurrentJobs)

	for i, tenant := range tenants {
		group.Go(func() error {
			results[i] = s.processTenant(ctx, tenant)
			return nil
		})
	}

	_ = group.Wait()

	return results
}

func (s *AdMonitorService) processTenant(ctx context.Context, tenant *domain.Tenant) (result TenantResult) {
	result.TenantID = tenant.ID

	logger := logrus.WithField("tenant_id", tenant.ID)

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Pânico ao processar tenant")
			result.fail(fmt.Errorf("pânico ao processar tenant: %v", r))
		}
	}()

	if !tenant.IsConfigured() {
		logger.Debug("Tenant sem token ou conta de anúncios, ignorando")
		result.SkipReason = SkipReasonNotConfigured
		return result
	}

	location := tenant.Location()
	if !evaluating.InDaypartingWindow(tenant.Settings, s.now().In(location)) {
		logger.Debug("Fora da janela de dayparting do tenant, ignorando")
		result.SkipReason = SkipReasonDayparting
		return result
	}

	records, err := s.metaService.FetchAdRecords(ctx, tenant)
	if err != nil {
		logger.WithError(err).Error("Erro ao obter métricas do tenant")
		result.fail(err)
		return result
	}

	journal := auditing.NewJournal(location).WithClock(s.now)

	for _, ad := range records {
		classification := evaluating.Classify(tenant.Settings, ad)
		result.AdsEvaluated++

		if err := s.executor.Execute(ctx, tenant, ad, classification, journal); err != nil {
			result.PauseFailures++
		}
	}

	flushCtx, cancel := context.WithTimeout(ctx, s.config.PersistTimeout)
	err = s.auditor.Flush(flushCtx, tenant.ID, journal)
	cancel()
	if err != nil {
		result.fail(err)
		return result
	}

	result.EntriesAppended = journal.Len()

	logger.WithFields(logrus.Fields{
		"ads":            result.AdsEvaluated,
		"entries":        result.EntriesAppended,
		"pause_failures": result.PauseFailures,
	}).Debug("Tenant processado")

	return result
}

func (s *AdMonitorService) begin() bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	if s.state == TickStateRunning {
		return false
	}
	s.state = TickStateRunning
	return true
}

func (s *AdMonitorService) finish() {
	s.stateMutex.Lock()
	s.state = TickStateIdle
	s.stateMutex.Unlock()
}

func (s *AdMonitorService) complete(report *TickReport) {
	report.CompletedAt = s.now()

	s.stateMutex.Lock()
	s.lastCompletedAt = report.CompletedAt
	s.lastReport = report
	s.stateMutex.Unlock()
}

// TriggerManualSync inicia uma rodada fora do agendamento.
// Retorna falso se já houver uma rodada em andamento.
func (s *AdMonitorService) TriggerManualSync() bool {
	s.stateMutex.Lock()
	if s.stopped {
		s.stateMutex.Unlock()
		logrus.Info("Monitor de anúncios parado, ignorando solicitação manual")
		return false
	}
	if s.state == TickStateRunning {
		s.stateMutex.Unlock()
		logrus.Info("Monitor de anúncios já em andamento, ignorando solicitação manual")
		return false
	}
	ctx := s.baseCtx
	s.inFlight.Add(1)
	s.stateMutex.Unlock()

	logrus.Info("Iniciando rodada manual do monitor de anúncios")
	go func() {
		defer s.inFlight.Done()
		s.runTick(ctx)
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *AdMonitorService) GetStatus() map[string]any {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	status := map[string]any{
		"enabled":           s.config.Enabled,
		"cron":              s.config.CronSchedule,
		"max_concurrent":    s.config.MaxConcurrentJobs,
		"distributed_lock":  s.newLocker != nil,
		"state":             s.state,
		"last_started_at":   s.lastStartedAt,
		"last_completed_at": s.lastCompletedAt,
	}

	if s.lastReport != nil {
		status["last_report"] = s.lastReport.Summary()
	}

	return status
}
