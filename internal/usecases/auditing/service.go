package auditing

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/repository"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

type Auditor interface {
	Flush(ctx context.Context, tenantID string, journal *Journal) error
	List(ctx context.Context, tenantID string) ([]domain.AuditLogEntry, error)
}

type Service struct {
	tenantRepository repository.TenantRepository
}

func NewService(tenantRepository repository.TenantRepository) Auditor {
	return &Service{
		tenantRepository: tenantRepository,
	}
}

// Flush grava as entradas do journal em uma única escrita atômica no log do tenant
func (s *Service) Flush(ctx context.Context, tenantID string, journal *Journal) error {
	if journal == nil || journal.Len() == 0 {
		return nil
	}

	logs, err := s.tenantRepository.AppendLogs(ctx, tenantID, journal.Entries())
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"tenant_id": tenantID,
			"entries":   journal.Len(),
			"error":     err.Error(),
		}).Error("Erro ao gravar log de auditoria do tenant")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"appended":  journal.Len(),
		"stored":    len(logs),
	}).Debug("Log de auditoria atualizado")

	return nil
}

func (s *Service) List(ctx context.Context, tenantID string) ([]domain.AuditLogEntry, error) {
	return s.tenantRepository.GetLogs(ctx, tenantID)
}
