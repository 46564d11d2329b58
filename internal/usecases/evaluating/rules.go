package evaluating

import (
	"time"

	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/pkg/utils"
)

type rule struct {
	matches func(settings domain.Settings, ad domain.AdRecord) bool
	outcome domain.Classification
}

// chain é avaliada em ordem e a primeira regra satisfeita define a classificação
var chain = []rule{
	{
		matches: func(s domain.Settings, ad domain.AdRecord) bool {
			return ad.Spend > s.StopLossLimit && ad.Purchases < s.MinPurchase
		},
		outcome: domain.ClassificationDanger,
	},
	{
		matches: func(s domain.Settings, ad domain.AdRecord) bool {
			return ad.LinkClicks > s.Dropoff.MinClicks && ad.ViewRatio() < s.Dropoff.MinRatio
		},
		outcome: domain.ClassificationWarningDropoff,
	},
	{
		matches: func(s domain.Settings, ad domain.AdRecord) bool {
			return ad.Impressions > s.Fatigue.MinImpression && ad.Frequency() > s.Fatigue.MaxFrequency
		},
		outcome: domain.ClassificationWarningFatigue,
	},
}

// Classify aplica a cadeia de regras sobre as métricas do anúncio
func Classify(settings domain.Settings, ad domain.AdRecord) domain.Classification {
	for _, r := range chain {
		if r.matches(settings, ad) {
			return r.outcome
		}
	}
	return domain.ClassificationOK
}

// InDaypartingWindow indica se o monitor pode agir no horário local informado.
// A janela é [início, fim) e atravessa a meia-noite quando início > fim.
func InDaypartingWindow(settings domain.Settings, localNow time.Time) bool {
	dayparting := settings.Dayparting
	if !dayparting.Enabled {
		return true
	}

	hour := localNow.Hour()
	start, end := dayparting.StartHour, dayparting.EndHour

	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

func IsScalingCandidate(settings domain.Settings, ad domain.AdRecord) bool {
	return settings.AutoScale.Whitelisted(ad.AdID) &&
		ad.ROAS() >= settings.AutoScale.TriggerRoas &&
		ad.Purchases >= settings.ScalingMinPurchase
}

// StatusFor é a classificação exibida na verificação sob demanda.
// SCALING só aparece aqui, o monitor automático nunca age sobre ele.
func StatusFor(settings domain.Settings, ad domain.AdRecord) domain.Classification {
	classification := Classify(settings, ad)
	if classification == domain.ClassificationDanger {
		return classification
	}

	if IsScalingCandidate(settings, ad) {
		return domain.ClassificationScaling
	}

	return classification
}

// Report monta a linha da verificação sob demanda
func Report(settings domain.Settings, ad domain.AdRecord) domain.AdStatusReport {
	return domain.AdStatusReport{
		AdID:      ad.AdID,
		Name:      ad.Name,
		Spend:     ad.Spend,
		Purchases: ad.Purchases,
		Revenue:   ad.Revenue,
		ROAS:      utils.RoundWithTwoDecimalPlace(ad.ROAS()),
		CTR:       ad.CTR,
		NetProfit: utils.RoundWithTwoDecimalPlace(ad.NetProfit(settings.ProfitMargin)),
		Status:    StatusFor(settings, ad),
	}
}
