package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

type ResponseAdInsights struct {
	Data   []metadomain.AdInsight `json:"data"`
	Paging metadomain.Paging      `json:"paging"`
}

// GetAdInsightsByAccountID busca os insights em nível de anúncio de uma conta.
// Apenas a primeira página é lida, o tamanho é controlado pelo parâmetro limit.
func (c *MetaClient) GetAdInsightsByAccountID(ctx context.Context, accountID, accessToken string, params url.Values) ([]metadomain.AdInsight, error) {
	baseURL := fmt.Sprintf("%s/%s/insights", c.Cfg.Meta.URL, AccountPath(accountID))

	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+query.Encode(), nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, domain.NewProviderError(OpFetchInsights, 0, "", err)
	}

	body, err := c.do(req, OpFetchInsights)
	if err != nil {
		return nil, err
	}

	var response ResponseAdInsights
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, domain.NewProviderError(OpFetchInsights, http.StatusOK, "resposta malformada do Meta", err)
	}

	if response.Data == nil {
		return []metadomain.AdInsight{}, nil
	}

	return response.Data, nil
}
