package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Operações registradas nos erros do provedor
const (
	OpFetchInsights   = "fetch_insights"
	OpUpdateAdStatus  = "update_ad_status"
	OpSearchInterests = "search_interests"
)

type Client interface {
	GetAdInsightsByAccountID(ctx context.Context, accountID, accessToken string, params url.Values) ([]metadomain.AdInsight, error)
	UpdateAdStatus(ctx context.Context, adID, accessToken, status string) error
	SearchAdInterests(ctx context.Context, keyword, accessToken string, params url.Values) ([]metadomain.AdInterest, error)
}

type MetaClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: cfg.Meta.RequestTimeout,
		},
	}
}

// do executa a requisição e converte qualquer falha em ProviderError
func (c *MetaClient) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(req.Context().Err(), context.DeadlineExceeded) {
			return nil, domain.NewProviderError(op, 0, "tempo limite excedido na chamada ao Meta", err)
		}
		return nil, domain.NewProviderError(op, 0, "", err)
	}
	defer resp.Body.Close()

	return c.HandleResponse(resp, op)
}

// HandleResponse lê o corpo da resposta e trata os erros retornados pela API do Meta
func (c *MetaClient) HandleResponse(resp *http.Response, op string) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewProviderError(op, resp.StatusCode, "erro ao ler resposta", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	errorResp, parseErr := ParseErrorResponse(body)
	if parseErr != nil || errorResp.Error.Message == "" {
		return nil, domain.NewProviderError(op, resp.StatusCode, strings.TrimSpace(string(body)), nil)
	}

	fields := logrus.Fields{
		"operation":     op,
		"status_code":   resp.StatusCode,
		"meta_code":     errorResp.Error.Code,
		"meta_subcode":  errorResp.Error.ErrorSubcode,
		"meta_trace_id": errorResp.Error.FBTraceID,
	}

	switch {
	case errorResp.IsTokenExpired():
		logrus.WithFields(fields).Warn("Token do tenant expirado ou revogado, é necessário reconectar a conta")
	case errorResp.IsRateLimited():
		logrus.WithFields(fields).Warn("Limite de chamadas da API do Meta atingido")
	default:
		logrus.WithFields(fields).Debug("Erro retornado pela API do Meta")
	}

	return nil, domain.NewProviderError(op, resp.StatusCode, errorResp.Error.Message, nil)
}

// ParseErrorResponse tenta parsear um erro da API do Meta
func ParseErrorResponse(body []byte) (*metadomain.ErrorResponse, error) {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// AccountPath garante o prefixo act_ exigido pelos endpoints de conta de anúncios
func AccountPath(accountID string) string {
	accountID = strings.TrimSpace(accountID)
	accountID = strings.TrimPrefix(accountID, "act_")
	return fmt.Sprintf("act_%s", accountID)
}
