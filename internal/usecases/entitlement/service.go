package entitlement

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/repository"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

type Gate interface {
	EligibleTenants(ctx context.Context) ([]*domain.Tenant, error)
	CheckAndMaybeDowngrade(ctx context.Context, tenant *domain.Tenant) (bool, error)
}

type Service struct {
	tenantRepository repository.TenantRepository
	now              func() time.Time
}

func NewService(tenantRepository repository.TenantRepository) *Service {
	return &Service{
		tenantRepository: tenantRepository,
		now:              time.Now,
	}
}

// WithClock substitui a fonte de horário usada na verificação de expiração
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// EligibleTenants lista os tenants com bot ligado e plano pago ainda válido.
// Falha ao rebaixar um tenant apenas o exclui desta execução.
func (s *Service) EligibleTenants(ctx context.Context) ([]*domain.Tenant, error) {
	candidates, err := s.tenantRepository.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*domain.Tenant, 0, len(candidates))
	for _, tenant := range candidates {
		ok, err := s.CheckAndMaybeDowngrade(ctx, tenant)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"tenant_id": tenant.ID,
				"error":     err.Error(),
			}).Error("Erro ao rebaixar plano expirado")
			continue
		}

		if ok && tenant.BotEnabled {
			eligible = append(eligible, tenant)
		}
	}

	return eligible, nil
}

// CheckAndMaybeDowngrade rebaixa para free um plano pago expirado e indica
// se o tenant pode usar o monitor agora
func (s *Service) CheckAndMaybeDowngrade(ctx context.Context, tenant *domain.Tenant) (bool, error) {
	if tenant.Plan == domain.PlanFree {
		return false, nil
	}

	if !tenant.PlanExpired(s.now()) {
		return true, nil
	}

	if err := s.tenantRepository.Downgrade(ctx, tenant.ID); err != nil {
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id":      tenant.ID,
		"previous_plan":  tenant.Plan,
		"plan_expire_at": tenant.PlanExpireAt,
	}).Info("Plano expirado, tenant rebaixado para free")

	tenant.Plan = domain.PlanFree
	tenant.BotEnabled = false

	return false, nil
}
