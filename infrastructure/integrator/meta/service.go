package meta

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

// adInsightFields são os campos solicitados ao endpoint de insights
const adInsightFields = "ad_id,ad_name,spend,actions,action_values,impressions,reach,ctr"

type MetaIntegrator interface {
	FetchAdRecords(ctx context.Context, tenant *domain.Tenant) ([]domain.AdRecord, error)
	PauseAd(ctx context.Context, credential, adID string) error
	SearchInterests(ctx context.Context, credential, keyword string, limit int) ([]domain.TargetingSuggestion, error)
}

type MetaService struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) MetaIntegrator {
	return &MetaService{
		cfg:    cfg,
		Client: client,
	}
}

// FetchAdRecords busca as métricas de hoje, por anúncio, da conta do tenant
func (s *MetaService) FetchAdRecords(ctx context.Context, tenant *domain.Tenant) ([]domain.AdRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Meta.RequestTimeout)
	defer cancel()

	params := url.Values{}
	params.Add("level", "ad")
	params.Add("fields", adInsightFields)
	params.Add("date_preset", "today")
	params.Add("limit", strconv.Itoa(s.cfg.Meta.InsightsLimit))

	insights, err := s.Client.GetAdInsightsByAccountID(ctx, tenant.AccountID, tenant.Credential, params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"tenant_id":  tenant.ID,
			"account_id": tenant.AccountID,
			"error":      err.Error(),
		}).Error("insights: failed to get ad insights from API")
		return nil, err
	}

	records := make([]domain.AdRecord, 0, len(insights))
	for i := range insights {
		records = append(records, FactoryAdRecord(&insights[i]))
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id":  tenant.ID,
		"account_id": tenant.AccountID,
		"ads":        len(records),
	}).Debug("insights: successfully retrieved ad insights")

	return records, nil
}

func (s *MetaService) PauseAd(ctx context.Context, credential, adID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Meta.RequestTimeout)
	defer cancel()

	return s.Client.UpdateAdStatus(ctx, adID, credential, metaclient.AdStatusPaused)
}

func (s *MetaService) SearchInterests(ctx context.Context, credential, keyword string, limit int) ([]domain.TargetingSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Meta.RequestTimeout)
	defer cancel()

	params := url.Values{}
	params.Add("limit", strconv.Itoa(limit))
	params.Add("locale", s.cfg.Meta.Locale)

	interests, err := s.Client.SearchAdInterests(ctx, keyword, credential, params)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.TargetingSuggestion, 0, len(interests))
	for _, interest := range interests {
		suggestions = append(suggestions, domain.TargetingSuggestion{
			ID:                     interest.ID,
			Name:                   interest.Name,
			AudienceSizeUpperBound: interest.AudienceSizeUpperBound,
			Topic:                  interest.Topic,
		})
	}

	return suggestions, nil
}

// FactoryAdRecord normaliza uma linha de insight. Valores ausentes viram 0.
func FactoryAdRecord(insight *metadomain.AdInsight) domain.AdRecord {
	purchases, _ := metadomain.FindAction(insight.Actions, metadomain.PurchaseActionTypes)
	linkClicks, _ := metadomain.FindAction(insight.Actions, metadomain.LinkClickActionTypes)
	landingViews, _ := metadomain.FindAction(insight.Actions, metadomain.LandingPageViewActionTypes)
	revenue, _ := metadomain.FindAction(insight.ActionValues, metadomain.PurchaseActionTypes)

	spend := parseDecimal(insight.AdID, "spend", insight.Spend)
	if spend.IsNegative() {
		spend = decimal.Zero
	}

	return domain.AdRecord{
		AdID:         insight.AdID,
		Name:         insight.AdName,
		Spend:        spend.InexactFloat64(),
		Purchases:    int(parseDecimal(insight.AdID, "purchases", purchases).IntPart()),
		LinkClicks:   int(parseDecimal(insight.AdID, "link_clicks", linkClicks).IntPart()),
		LandingViews: int(parseDecimal(insight.AdID, "landing_page_views", landingViews).IntPart()),
		Impressions:  int(parseDecimal(insight.AdID, "impressions", insight.Impressions).IntPart()),
		Reach:        int(parseDecimal(insight.AdID, "reach", insight.Reach).IntPart()),
		CTR:          parseDecimal(insight.AdID, "ctr", insight.CTR).InexactFloat64(),
		Revenue:      parseDecimal(insight.AdID, "revenue", revenue).InexactFloat64(),
	}
}

func parseDecimal(adID, field, value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"ad_id": adID,
			"field": field,
			"value": value,
			"error": err.Error(),
		}).Warn("insights: error converting value to decimal")
		return decimal.Zero
	}

	return parsed
}
