package monitoring

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-sentinel/infrastructure/repository"
	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/internal/usecases/auditing"
	"github.com/vfg2006/ads-sentinel/internal/usecases/entitlement"
	"github.com/vfg2006/ads-sentinel/internal/usecases/evaluating"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Monitor interface {
	CheckNow(ctx context.Context, tenantID string) ([]domain.AdStatusReport, error)
	GetLogs(ctx context.Context, tenantID string) ([]domain.AuditLogEntry, error)
	GetSettings(ctx context.Context, tenantID string) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, tenantID string, payload []byte) (*domain.Settings, error)
}

type Service struct {
	tenantRepository repository.TenantRepository
	metaService      meta.MetaIntegrator
	gate             entitlement.Gate
	auditor          auditing.Auditor
}

func NewService(
	tenantRepository repository.TenantRepository,
	metaService meta.MetaIntegrator,
	gate entitlement.Gate,
	auditor auditing.Auditor,
) Monitor {
	return &Service{
		tenantRepository: tenantRepository,
		metaService:      metaService,
		gate:             gate,
		auditor:          auditor,
	}
}

// CheckNow busca as métricas atuais e devolve o status de cada anúncio.
// Erros do Meta são devolvidos ao chamador.
func (s *Service) CheckNow(ctx context.Context, tenantID string) ([]domain.AdStatusReport, error) {
	tenant, err := s.tenantRepository.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.gate.CheckAndMaybeDowngrade(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.ErrPlanNotEligible
	}

	if !tenant.IsConfigured() {
		return nil, domain.ErrTenantNotConfigured
	}

	records, err := s.metaService.FetchAdRecords(ctx, tenant)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.AdStatusReport, 0, len(records))
	for _, record := range records {
		reports = append(reports, evaluating.Report(tenant.Settings, record))
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"ads":       len(reports),
	}).Debug("Verificação sob demanda concluída")

	return reports, nil
}

func (s *Service) GetLogs(ctx context.Context, tenantID string) ([]domain.AuditLogEntry, error) {
	return s.auditor.List(ctx, tenantID)
}

func (s *Service) GetSettings(ctx context.Context, tenantID string) (*domain.Settings, error) {
	tenant, err := s.tenantRepository.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &tenant.Settings, nil
}

// UpdateSettings aplica o payload parcial sobre a configuração atual.
// Chaves ausentes mantêm o valor salvo.
func (s *Service) UpdateSettings(ctx context.Context, tenantID string, payload []byte) (*domain.Settings, error) {
	tenant, err := s.tenantRepository.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	settings := tenant.Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return nil, domain.ErrInvalidSettings
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := s.tenantRepository.UpdateSettings(ctx, tenantID, settings); err != nil {
		return nil, err
	}

	logrus.WithField("tenant_id", tenantID).Info("Configuração do tenant atualizada")

	return &settings, nil
}
