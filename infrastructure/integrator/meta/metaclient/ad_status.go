package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

// Status aceitos pelo endpoint de atualização de anúncio
const (
	AdStatusActive = "ACTIVE"
	AdStatusPaused = "PAUSED"
)

// UpdateAdStatus altera o status de um anúncio. O corpo da resposta não é usado.
func (c *MetaClient) UpdateAdStatus(ctx context.Context, adID, accessToken, status string) error {
	endpoint := fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, adID)

	form := url.Values{}
	form.Add("status", status)
	form.Add("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return domain.NewProviderError(OpUpdateAdStatus, 0, "", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := c.do(req, OpUpdateAdStatus); err != nil {
		return err
	}

	return nil
}
