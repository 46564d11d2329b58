package domain

import (
	"fmt"
	"strings"
	"time"
)

type Plan string

const (
	PlanFree  Plan = "free"
	PlanTrial Plan = "trial"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanTrial, PlanBasic, PlanPro:
		return true
	}
	return false
}

// DefaultTimezone é usado quando o tenant não informa um fuso horário
const DefaultTimezone = "Asia/Bangkok"

type Tenant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Credential   string          `json:"-"`
	AccountID    string          `json:"account_id"`
	BotEnabled   bool            `json:"bot_enabled"`
	Plan         Plan            `json:"plan"`
	PlanExpireAt *time.Time      `json:"plan_expire_at"`
	Timezone     string          `json:"timezone"`
	Settings     Settings        `json:"settings"`
	Logs         []AuditLogEntry `json:"logs"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsConfigured indica se o tenant possui token e conta de anúncios conectados
func (t *Tenant) IsConfigured() bool {
	return strings.TrimSpace(t.Credential) != "" && strings.TrimSpace(t.AccountID) != ""
}

// PlanExpired retorna verdadeiro quando um plano pago passou da data de expiração
func (t *Tenant) PlanExpired(now time.Time) bool {
	if t.Plan == PlanFree || t.PlanExpireAt == nil {
		return false
	}
	return now.After(*t.PlanExpireAt)
}

// Location retorna o fuso horário do tenant, caindo para o padrão se inválido
func (t *Tenant) Location() *time.Location {
	tz := t.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}

	return loc
}

type FatigueSettings struct {
	MaxFrequency  float64 `json:"maxFrequency"`
	MinCtr        float64 `json:"minCtr"`
	MinImpression int     `json:"minImpression"`
}

type DropoffSettings struct {
	MinRatio  float64 `json:"minRatio"`
	MinClicks int     `json:"minClicks"`
}

type DaypartingSettings struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"startHour"`
	EndHour   int  `json:"endHour"`
}

type AutoScaleSettings struct {
	Enabled         bool     `json:"enabled"`
	TriggerRoas     float64  `json:"triggerRoas"`
	IncreasePercent float64  `json:"increasePercent"`
	MaxBudget       float64  `json:"maxBudget"`
	Whitelist       []string `json:"whitelist"`
}

// Whitelisted verifica se o anúncio pode receber aumento de orçamento
func (a AutoScaleSettings) Whitelisted(adID string) bool {
	for _, id := range a.Whitelist {
		if id == adID {
			return true
		}
	}
	return false
}

type Settings struct {
	StopLossLimit      float64            `json:"stopLossLimit"`
	MinPurchase        int                `json:"minPurchase"`
	TargetRoas         float64            `json:"targetRoas"`
	ScalingMinPurchase int                `json:"scalingMinPurchase"`
	ProfitMargin       float64            `json:"profitMargin"`
	Fatigue            FatigueSettings    `json:"fatigue"`
	Dropoff            DropoffSettings    `json:"dropoff"`
	Dayparting         DaypartingSettings `json:"dayparting"`
	AutoScale          AutoScaleSettings  `json:"autoScale"`
	SimulationMode     bool               `json:"simulationMode"`
}

// DefaultSettings retorna a configuração aplicada no cadastro do tenant
func DefaultSettings() Settings {
	return Settings{
		StopLossLimit:      500,
		MinPurchase:        1,
		TargetRoas:         2.5,
		ScalingMinPurchase: 5,
		ProfitMargin:       40,
		Fatigue: FatigueSettings{
			MaxFrequency:  2.5,
			MinCtr:        1.0,
			MinImpression: 1000,
		},
		Dropoff: DropoffSettings{
			MinRatio:  0.5,
			MinClicks: 10,
		},
		Dayparting: DaypartingSettings{
			Enabled:   false,
			StartHour: 8,
			EndHour:   23,
		},
		AutoScale: AutoScaleSettings{
			Enabled:         false,
			TriggerRoas:     3,
			IncreasePercent: 20,
			Whitelist:       []string{},
		},
		SimulationMode: true,
	}
}

// Validate verifica os limites aceitos para cada parâmetro
func (s Settings) Validate() error {
	switch {
	case s.StopLossLimit < 0:
		return fmt.Errorf("%w: stopLossLimit não pode ser negativo", ErrInvalidSettings)
	case s.MinPurchase < 0 || s.ScalingMinPurchase < 0:
		return fmt.Errorf("%w: quantidade mínima de compras não pode ser negativa", ErrInvalidSettings)
	case s.ProfitMargin < 0 || s.ProfitMargin > 100:
		return fmt.Errorf("%w: profitMargin deve estar entre 0 e 100", ErrInvalidSettings)
	case s.Dayparting.StartHour < 0 || s.Dayparting.StartHour > 23:
		return fmt.Errorf("%w: dayparting.startHour deve estar entre 0 e 23", ErrInvalidSettings)
	case s.Dayparting.EndHour < 0 || s.Dayparting.EndHour > 24:
		return fmt.Errorf("%w: dayparting.endHour deve estar entre 0 e 24", ErrInvalidSettings)
	case s.Fatigue.MaxFrequency < 0 || s.Fatigue.MinImpression < 0:
		return fmt.Errorf("%w: limites de fadiga não podem ser negativos", ErrInvalidSettings)
	case s.Dropoff.MinRatio < 0 || s.Dropoff.MinClicks < 0:
		return fmt.Errorf("%w: limites de drop-off não podem ser negativos", ErrInvalidSettings)
	case s.AutoScale.IncreasePercent < 0 || s.AutoScale.MaxBudget < 0:
		return fmt.Errorf("%w: autoScale não aceita valores negativos", ErrInvalidSettings)
	}
	return nil
}
