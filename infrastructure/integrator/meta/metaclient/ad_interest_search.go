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

type ResponseAdInterests struct {
	Data []metadomain.AdInterest `json:"data"`
}

func (c *MetaClient) SearchAdInterests(ctx context.Context, keyword, accessToken string, params url.Values) ([]metadomain.AdInterest, error) {
	baseURL := fmt.Sprintf("%s/search", c.Cfg.Meta.URL)

	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("type", "adinterest")
	query.Set("q", keyword)
	query.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+query.Encode(), nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, domain.NewProviderError(OpSearchInterests, 0, "", err)
	}

	body, err := c.do(req, OpSearchInterests)
	if err != nil {
		return nil, err
	}

	var response ResponseAdInterests
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, domain.NewProviderError(OpSearchInterests, http.StatusOK, "resposta malformada do Meta", err)
	}

	return response.Data, nil
}
