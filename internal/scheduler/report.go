package scheduler

import "time"

type TickState string

const (
	TickStateIdle    TickState = "IDLE"
	TickStateRunning TickState = "RUNNING"
)

// Motivos para um tenant elegível não ser avaliado na execução
const (
	SkipReasonNotConfigured = "not_configured"
	SkipReasonDayparting    = "outside_dayparting_window"
)

// TenantResult resume o processamento de um tenant em uma execução
type TenantResult struct {
	TenantID        string `json:"tenant_id"`
	SkipReason      string `json:"skip_reason,omitempty"`
	AdsEvaluated    int    `json:"ads_evaluated"`
	EntriesAppended int    `json:"entries_appended"`
	PauseFailures   int    `json:"pause_failures"`
	Err             error  `json:"-"`
	Error           string `json:"error,omitempty"`
}

func (r TenantResult) Skipped() bool {
	return r.SkipReason != ""
}

func (r TenantResult) Failed() bool {
	return r.Err != nil
}

type TickReport struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Tenants     []TenantResult `json:"tenants"`
	Err         error          `json:"-"`
	Error       string         `json:"error,omitempty"`
}

// Summary conta os tenants por situação final
func (r *TickReport) Summary() map[string]any {
	var processed, skipped, failed int
	for _, result := range r.Tenants {
		switch {
		case result.Failed():
			failed++
		case result.Skipped():
			skipped++
		default:
			processed++
		}
	}

	return map[string]any{
		"run_id":       r.RunID,
		"started_at":   r.StartedAt,
		"completed_at": r.CompletedAt,
		"duration":     r.CompletedAt.Sub(r.StartedAt).String(),
		"tenants":      len(r.Tenants),
		"processed":    processed,
		"skipped":      skipped,
		"failed":       failed,
		"error":        r.Error,
	}
}

func (r *TickReport) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

func (r *TenantResult) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}
