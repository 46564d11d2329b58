package remediating

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/internal/usecases/auditing"
)

const (
	// SuggestionAdName identifica no log as sugestões de público
	SuggestionAdName = "Sugestão automática"

	keywordSeparators = "_ -"
	minKeywordLength  = 2
	suggestionLimit   = 1
)

type Remediator interface {
	Execute(ctx context.Context, tenant *domain.Tenant, ad domain.AdRecord, classification domain.Classification, journal *auditing.Journal) error
}

type Executor struct {
	metaService meta.MetaIntegrator
}

func NewExecutor(metaService meta.MetaIntegrator) Remediator {
	return &Executor{
		metaService: metaService,
	}
}

// Execute aplica a ação correspondente à classificação e registra no journal.
// Falha ao pausar é retornada ao chamador sem entrada no log do tenant.
func (e *Executor) Execute(
	ctx context.Context,
	tenant *domain.Tenant,
	ad domain.AdRecord,
	classification domain.Classification,
	journal *auditing.Journal,
) error {
	settings := tenant.Settings

	switch classification {
	case domain.ClassificationDanger:
		if settings.SimulationMode {
			journal.Add(
				domain.AuditLogTypeWarning,
				fmt.Sprintf("[SIMULAÇÃO] Anúncio com prejuízo seria pausado (gasto %.2f)", ad.Spend),
				ad.Name,
			)
			return nil
		}

		if err := e.metaService.PauseAd(ctx, tenant.Credential, ad.AdID); err != nil {
			logrus.WithFields(logrus.Fields{
				"tenant_id": tenant.ID,
				"ad_id":     ad.AdID,
				"ad_name":   ad.Name,
				"error":     err.Error(),
			}).Error("Erro ao pausar anúncio")
			return err
		}

		journal.Add(
			domain.AuditLogTypeAction,
			fmt.Sprintf("Anúncio com prejuízo pausado (gasto %.2f)", ad.Spend),
			ad.Name,
		)

		e.suggestInterest(ctx, tenant, ad, journal)

	case domain.ClassificationWarningDropoff:
		journal.Add(
			domain.AuditLogTypeWarning,
			fmt.Sprintf("Drop-off alto (%.0f%% dos cliques chegaram à página)", ad.ViewRatio()*100),
			ad.Name,
		)

	case domain.ClassificationWarningFatigue:
		journal.Add(
			domain.AuditLogTypeWarning,
			fmt.Sprintf("Anúncio saturado (frequência %.2f)", ad.Frequency()),
			ad.Name,
		)
	}

	return nil
}

// suggestInterest busca um público alternativo a partir do nome do anúncio.
// Qualquer falha é ignorada.
func (e *Executor) suggestInterest(ctx context.Context, tenant *domain.Tenant, ad domain.AdRecord, journal *auditing.Journal) {
	keyword := ExtractKeyword(ad.Name)
	if utf8.RuneCountInString(keyword) < minKeywordLength {
		return
	}

	suggestions, err := e.metaService.SearchInterests(ctx, tenant.Credential, keyword, suggestionLimit)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"tenant_id": tenant.ID,
			"keyword":   keyword,
			"error":     err.Error(),
		}).Debug("Sugestão de público indisponível")
		return
	}

	if len(suggestions) == 0 {
		return
	}

	suggestion := suggestions[0]
	journal.Add(
		domain.AuditLogTypeIdea,
		fmt.Sprintf("Experimente este público: %s (até %d pessoas)", suggestion.Name, suggestion.AudienceSizeUpperBound),
		SuggestionAdName,
	)
}

// ExtractKeyword retorna o primeiro trecho do nome antes de '_', ' ' ou '-'
func ExtractKeyword(adName string) string {
	if i := strings.IndexAny(adName, keywordSeparators); i >= 0 {
		return adName[:i]
	}
	return adName
}
