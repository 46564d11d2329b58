package metadomain

// Action é o par action_type/value usado em actions e action_values
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// AdInsight é uma linha do endpoint /insights com level=ad
type AdInsight struct {
	AdID         string   `json:"ad_id"`
	AdName       string   `json:"ad_name"`
	Actions      []Action `json:"actions"`
	ActionValues []Action `json:"action_values"`
	CTR          string   `json:"ctr"`
	DateStart    string   `json:"date_start"`
	DateStop     string   `json:"date_stop"`
	Impressions  string   `json:"impressions"`
	Reach        string   `json:"reach"`
	Spend        string   `json:"spend"`
}

// Tipos de ação usados na normalização, em ordem de preferência
var (
	PurchaseActionTypes        = []string{"purchase", "omni_purchase", "offsite_conversion.fb_pixel_purchase"}
	LinkClickActionTypes       = []string{"link_click"}
	LandingPageViewActionTypes = []string{"landing_page_view", "omni_landing_page_view"}
)

// FindAction retorna o valor do primeiro tipo de ação encontrado
func FindAction(actions []Action, actionTypes []string) (string, bool) {
	for _, actionType := range actionTypes {
		for _, action := range actions {
			if action.ActionType == actionType {
				return action.Value, true
			}
		}
	}
	return "", false
}

// AdInterest é um interesse retornado pela busca type=adinterest
type AdInterest struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	AudienceSizeUpperBound int64    `json:"audience_size_upper_bound"`
	AudienceSizeLowerBound int64    `json:"audience_size_lower_bound"`
	Path                   []string `json:"path"`
	Topic                  string   `json:"topic"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}
