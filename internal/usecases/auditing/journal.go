package auditing

import (
	"time"

	"github.com/vfg2006/ads-sentinel/internal/domain"
)

// Journal acumula as entradas de um tenant durante uma execução do monitor.
// Não é seguro para uso concorrente: cada pipeline de tenant usa o seu.
type Journal struct {
	location *time.Location
	now      func() time.Time
	entries  []domain.AuditLogEntry
}

func NewJournal(location *time.Location) *Journal {
	if location == nil {
		location = time.UTC
	}

	return &Journal{
		location: location,
		now:      time.Now,
		entries:  make([]domain.AuditLogEntry, 0),
	}
}

// WithClock substitui a fonte de horário usada nos carimbos das entradas
func (j *Journal) WithClock(now func() time.Time) *Journal {
	j.now = now
	return j
}

// Add registra uma entrada com o horário local do tenant
func (j *Journal) Add(logType domain.AuditLogType, message, adName string) {
	j.entries = append(j.entries, domain.AuditLogEntry{
		Timestamp: j.now().In(j.location).Format(domain.AuditLogTimeFormat),
		Type:      logType,
		Message:   message,
		AdName:    adName,
	})
}

// Entries retorna as entradas na ordem em que foram adicionadas
func (j *Journal) Entries() []domain.AuditLogEntry {
	entries := make([]domain.AuditLogEntry, len(j.entries))
	copy(entries, j.entries)
	return entries
}

func (j *Journal) Len() int {
	return len(j.entries)
}
