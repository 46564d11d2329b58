package remediating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/internal/usecases/auditing"
	"go.uber.org/mock/gomock"
)

func newTenant(simulation bool) *domain.Tenant {
	settings := domain.DefaultSettings()
	settings.StopLossLimit = 500
	settings.MinPurchase = 1
	settings.SimulationMode = simulation

	return &domain.Tenant{
		ID:         "t1",
		Credential: "tok",
		AccountID:  "act_1",
		BotEnabled: true,
		Plan:       domain.PlanPro,
		Settings:   settings,
	}
}

func TestExecutor_DangerPausesAndSuggests(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaService := mocks.NewMockMetaIntegrator(ctrl)

	ad := domain.AdRecord{AdID: "ad-1", Name: "Shoes_Promo", Spend: 600, Purchases: 0}

	gomock.InOrder(
		metaService.EXPECT().PauseAd(gomock.Any(), "tok", "ad-1").Return(nil),
		metaService.EXPECT().SearchInterests(gomock.Any(), "tok", "Shoes", 1).Return([]domain.TargetingSuggestion{
			{ID: "6003", Name: "Sneakers", AudienceSizeUpperBound: 1200000},
		}, nil),
	)

	journal := auditing.NewJournal(time.UTC)
	err := NewExecutor(metaService).Execute(context.Background(), newTenant(false), ad, domain.ClassificationDanger, journal)
	require.NoError(t, err)

	entries := journal.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditLogTypeAction, entries[0].Type)
	assert.Contains(t, entries[0].Message, "600")
	assert.Equal(t, "Shoes_Promo", entries[0].AdName)

	assert.Equal(t, domain.AuditLogTypeIdea, entries[1].Type)
	assert.Contains(t, entries[1].Message, "Sneakers")
	assert.Contains(t, entries[1].Message, "1200000")
	assert.Equal(t, SuggestionAdName, entries[1].AdName)
}

func TestExecutor_SuggestionFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaService := mocks.NewMockMetaIntegrator(ctrl)

	metaService.EXPECT().PauseAd(gomock.Any(), "tok", "ad-1").Return(nil)
	metaService.EXPECT().SearchInterests(gomock.Any(), "tok", "Shoes", 1).
		Return(nil, domain.NewProviderError("search_interests", 500, "boom", nil))

	journal := auditing.NewJournal(time.UTC)
	err := NewExecutor(metaService).Execute(context.Background(), newTenant(false),
		domain.AdRecord{AdID: "ad-1", Name: "Shoes_Promo", Spend: 600}, domain.ClassificationDanger, journal)

	require.NoError(t, err)
	require.Len(t, journal.Entries(), 1)
	assert.Equal(t, domain.AuditLogTypeAction, journal.Entries()[0].Type)
}

func TestExecutor_ShortKeywordSkipsSuggestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaService := mocks.NewMockMetaIntegrator(ctrl)

	metaService.EXPECT().PauseAd(gomock.Any(), "tok", "ad-1").Return(nil)

	journal := auditing.NewJournal(time.UTC)
	err := NewExecutor(metaService).Execute(context.Background(), newTenant(false),
		domain.AdRecord{AdID: "ad-1", Name: "X_Promo", Spend: 600}, domain.ClassificationDanger, journal)

	require.NoError(t, err)
	assert.Equal(t, 1, journal.Len())
}

func TestExecutor_PauseFailureWritesNoEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaService := mocks.NewMockMetaIntegrator(ctrl)

	pauseErr := domain.NewProviderError("update_ad_status", 400, "Invalid OAuth access token.", nil)
	metaService.EXPECT().PauseAd(gomock.Any(), "tok", "ad-1").Return(pauseErr)

	journal := auditing.NewJournal(time.UTC)
	err := NewExecutor(metaService).Execute(context.Background(), newTenant(false),
		domain.AdRecord{AdID: "ad-1", Name: "Shoes_Promo", Spend: 600}, domain.ClassificationDanger, journal)

	assert.ErrorIs(t, err, pauseErr)
	assert.Zero(t, journal.Len())
}

func TestExecutor_SimulationNeverCallsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaService := mocks.NewMockMetaIntegrator(ctrl)

	journal := auditing.NewJournal(time.UTC)
	err := NewExecutor(metaService).Execute(context.Background(), newTenant(true),
		domain.AdRecord{AdID: "ad-1", Name: "Shoes_Promo", Spend: 600}, domain.ClassificationDanger, journal)

	require.NoError(t, err)
	require.Len(t, journal.Entries(), 1)
	assert.Equal(t, domain.AuditLogTypeWarning, journal.Entries()[0].Type)
	assert.Contains(t, journal.Entries()[0].Message, "[SIMULAÇÃO]")
}

func TestExecutor_Warnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	metaService := mocks.NewMockMetaIntegrator(ctrl)
	executor := NewExecutor(metaService)

	journal := auditing.NewJournal(time.UTC)

	require.NoError(t, executor.Execute(context.Background(), newTenant(false),
		domain.AdRecord{Name: "A", LinkClicks: 40, LandingViews: 10}, domain.ClassificationWarningDropoff, journal))
	require.NoError(t, executor.Execute(context.Background(), newTenant(false),
		domain.AdRecord{Name: "B", Impressions: 3200, Reach: 1000}, domain.ClassificationWarningFatigue, journal))
	require.NoError(t, executor.Execute(context.Background(), newTenant(false),
		domain.AdRecord{Name: "C"}, domain.ClassificationOK, journal))
	require.NoError(t, executor.Execute(context.Background(), newTenant(false),
		domain.AdRecord{Name: "D"}, domain.ClassificationScaling, journal))

	entries := journal.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Message, "25%")
	assert.Contains(t, entries[1].Message, "3.20")
}

func TestExtractKeyword(t *testing.T) {
	tests := map[string]string{
		"Shoes_Promo":      "Shoes",
		"Summer Sale 2026": "Summer",
		"Bags-Retarget":    "Bags",
		"Single":           "Single",
		"_Leading":         "",
		"รองเท้า_โปร":      "รองเท้า",
	}

	for name, want := range tests {
		assert.Equal(t, want, ExtractKeyword(name), name)
	}
}
