package evaluating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

func TestClassify(t *testing.T) {
	settings := domain.DefaultSettings()

	tests := []struct {
		name string
		ad   domain.AdRecord
		want domain.Classification
	}{
		{
			name: "stop-loss",
			ad:   domain.AdRecord{Spend: 600, Purchases: 0},
			want: domain.ClassificationDanger,
		},
		{
			name: "stop-loss vence drop-off e fadiga",
			ad: domain.AdRecord{
				Spend:        900,
				Purchases:    0,
				LinkClicks:   100,
				LandingViews: 10,
				Impressions:  10000,
				Reach:        1000,
			},
			want: domain.ClassificationDanger,
		},
		{
			name: "gasto alto com compras suficientes",
			ad:   domain.AdRecord{Spend: 300, Purchases: 2},
			want: domain.ClassificationOK,
		},
		{
			name: "gasto igual ao limite não dispara",
			ad:   domain.AdRecord{Spend: 500, Purchases: 0},
			want: domain.ClassificationOK,
		},
		{
			name: "drop-off",
			ad:   domain.AdRecord{Spend: 100, Purchases: 1, LinkClicks: 40, LandingViews: 10},
			want: domain.ClassificationWarningDropoff,
		},
		{
			name: "drop-off vence fadiga",
			ad:   domain.AdRecord{LinkClicks: 40, LandingViews: 10, Impressions: 5000, Reach: 1000},
			want: domain.ClassificationWarningDropoff,
		},
		{
			name: "cliques no limite não disparam drop-off",
			ad:   domain.AdRecord{LinkClicks: 10, LandingViews: 0},
			want: domain.ClassificationOK,
		},
		{
			name: "fadiga",
			ad:   domain.AdRecord{Impressions: 3000, Reach: 1000},
			want: domain.ClassificationWarningFatigue,
		},
		{
			name: "sem alcance a frequência é zero",
			ad:   domain.AdRecord{Impressions: 3000},
			want: domain.ClassificationOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(settings, tt.ad))
		})
	}
}

func TestInDaypartingWindow(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 5, hour, 15, 0, 0, time.UTC)
	}

	settings := domain.DefaultSettings()
	assert.True(t, InDaypartingWindow(settings, at(3)), "desligado sempre permite")

	settings.Dayparting = domain.DaypartingSettings{Enabled: true, StartHour: 8, EndHour: 23}
	assert.False(t, InDaypartingWindow(settings, at(7)))
	assert.True(t, InDaypartingWindow(settings, at(8)))
	assert.True(t, InDaypartingWindow(settings, at(22)))
	assert.False(t, InDaypartingWindow(settings, at(23)))

	settings.Dayparting = domain.DaypartingSettings{Enabled: true, StartHour: 22, EndHour: 6}
	assert.True(t, InDaypartingWindow(settings, at(23)))
	assert.True(t, InDaypartingWindow(settings, at(2)))
	assert.False(t, InDaypartingWindow(settings, at(6)))
	assert.False(t, InDaypartingWindow(settings, at(12)))

	settings.Dayparting = domain.DaypartingSettings{Enabled: true, StartHour: 9, EndHour: 9}
	assert.False(t, InDaypartingWindow(settings, at(9)))
	assert.False(t, InDaypartingWindow(settings, at(15)))
}

func TestStatusFor(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.AutoScale.Whitelist = []string{"win", "loser"}

	winner := domain.AdRecord{AdID: "win", Spend: 100, Revenue: 400, Purchases: 6}
	assert.True(t, IsScalingCandidate(settings, winner))
	assert.Equal(t, domain.ClassificationScaling, StatusFor(settings, winner))
	// O monitor automático não enxerga SCALING
	assert.Equal(t, domain.ClassificationOK, Classify(settings, winner))

	notListed := winner
	notListed.AdID = "other"
	assert.Equal(t, domain.ClassificationOK, StatusFor(settings, notListed))

	fewPurchases := winner
	fewPurchases.Purchases = 4
	assert.False(t, IsScalingCandidate(settings, fewPurchases))

	loser := domain.AdRecord{AdID: "loser", Spend: 600, Purchases: 0}
	assert.Equal(t, domain.ClassificationDanger, StatusFor(settings, loser))
}

func TestReport(t *testing.T) {
	settings := domain.DefaultSettings()

	report := Report(settings, domain.AdRecord{AdID: "1", Name: "Bags", Spend: 200, Revenue: 1000, Purchases: 3, CTR: 1.5})

	assert.Equal(t, "Bags", report.Name)
	assert.InDelta(t, 5.0, report.ROAS, 0.0001)
	assert.InDelta(t, 200.0, report.NetProfit, 0.0001)
	assert.Equal(t, domain.ClassificationOK, report.Status)
}

func TestReportRoundsDerivedMetrics(t *testing.T) {
	settings := domain.DefaultSettings()

	report := Report(settings, domain.AdRecord{AdID: "2", Name: "Hats", Spend: 300, Revenue: 1000, Purchases: 2})

	assert.Equal(t, 3.33, report.ROAS)
	assert.Equal(t, 100.0, report.NetProfit)
}
