package domain

// MaxAuditLogEntries é o limite de entradas mantidas no log de cada tenant
const MaxAuditLogEntries = 50

// AuditLogTimeFormat é o formato legível usado no horário local do tenant
const AuditLogTimeFormat = "02/01/2006 15:04:05"

type AuditLogType string

const (
	AuditLogTypeAction  AuditLogType = "ACTION"
	AuditLogTypeWarning AuditLogType = "WARNING"
	AuditLogTypeIdea    AuditLogType = "IDEA"
)

type AuditLogEntry struct {
	Timestamp string       `json:"timestamp"`
	Type      AuditLogType `json:"type"`
	Message   string       `json:"message"`
	AdName    string       `json:"adName"`
}

// PrependAuditLog insere as novas entradas (em ordem de ocorrência) no topo do log
// existente e descarta as mais antigas além do limite.
func PrependAuditLog(existing []AuditLogEntry, entries ...AuditLogEntry) []AuditLogEntry {
	merged := make([]AuditLogEntry, 0, len(existing)+len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		merged = append(merged, entries[i])
	}
	merged = append(merged, existing...)

	if len(merged) > MaxAuditLogEntries {
		merged = merged[:MaxAuditLogEntries]
	}

	return merged
}
