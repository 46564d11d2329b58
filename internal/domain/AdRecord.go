package domain

// AdRecord representa as métricas de um anúncio no dia corrente.
// Não é persistido, existe apenas durante uma execução do monitor.
type AdRecord struct {
	AdID         string  `json:"ad_id"`
	Name         string  `json:"ad_name"`
	Spend        float64 `json:"spend"`
	Purchases    int     `json:"purchases"`
	LinkClicks   int     `json:"link_clicks"`
	LandingViews int     `json:"landing_page_views"`
	Impressions  int     `json:"impressions"`
	Reach        int     `json:"reach"`
	CTR          float64 `json:"ctr"`
	Revenue      float64 `json:"revenue"`
}

// ViewRatio é a proporção de cliques que chegaram a carregar a landing page
func (a AdRecord) ViewRatio() float64 {
	if a.LinkClicks <= 0 {
		return 0
	}
	return float64(a.LandingViews) / float64(a.LinkClicks)
}

func (a AdRecord) Frequency() float64 {
	if a.Reach <= 0 {
		return 0
	}
	return float64(a.Impressions) / float64(a.Reach)
}

func (a AdRecord) ROAS() float64 {
	if a.Spend <= 0 {
		return 0
	}
	return a.Revenue / a.Spend
}

// NetProfit aplica a margem de lucro (em %) sobre a receita e desconta o gasto
func (a AdRecord) NetProfit(profitMargin float64) float64 {
	return a.Revenue*(profitMargin/100) - a.Spend
}

type Classification string

const (
	ClassificationOK             Classification = "OK"
	ClassificationDanger         Classification = "DANGER"
	ClassificationWarningDropoff Classification = "WARNING-DROPOFF"
	ClassificationWarningFatigue Classification = "WARNING-FATIGUE"
	ClassificationScaling        Classification = "SCALING"
)

// AdStatusReport é a linha exibida na verificação sob demanda
type AdStatusReport struct {
	AdID      string         `json:"ad_id"`
	Name      string         `json:"name"`
	Spend     float64        `json:"spend"`
	Purchases int            `json:"purchases"`
	Revenue   float64        `json:"revenue"`
	ROAS      float64        `json:"roas"`
	CTR       float64        `json:"ctr"`
	NetProfit float64        `json:"net_profit"`
	Status    Classification `json:"status"`
}

// TargetingSuggestion é um interesse de segmentação retornado pelo Meta
type TargetingSuggestion struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	AudienceSizeUpperBound int64  `json:"audience_size"`
	Topic                  string `json:"topic"`
}
