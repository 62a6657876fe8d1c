package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/httpretry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxBatchRequests é o limite de requisições por chamada em lote da Graph API
const MaxBatchRequests = 50

// Client acessa a Graph API com o token de uma organização
type Client interface {
	GetInsights(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) (*metadomain.Page, error)
	GetEdge(ctx context.Context, path string, params url.Values) (*metadomain.Page, error)
	GetPage(ctx context.Context, next string) (*metadomain.Page, error)
	SubmitAsyncInsights(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) (string, error)
	PollAsyncStatus(ctx context.Context, reportRunID string) (*metadomain.AsyncReportRun, error)
	FetchAsyncResult(ctx context.Context, reportRunID string) (*metadomain.Page, error)
	GetEntitiesBatch(ctx context.Context, ids []string, fields []string) ([]metadomain.BatchItem, error)
}

type MetaClient struct {
	baseURL     string
	accessToken string
	http        httpretry.HTTPDoer
}

// NewClient cria o cliente de uma organização. O doer é compartilhado entre clientes
// para que o limite de concorrência valha para o processo inteiro.
func NewClient(cfg config.Meta, accessToken string, doer httpretry.HTTPDoer) Client {
	return &MetaClient{
		baseURL:     GraphURL(cfg),
		accessToken: accessToken,
		http:        doer,
	}
}

// GraphURL resolve a URL versionada; META_URL tem precedência sobre base + versão
func GraphURL(cfg config.Meta) string {
	if cfg.URL != "" {
		return strings.TrimRight(cfg.URL, "/")
	}
	return strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(cfg.Version, "/")
}

func (c *MetaClient) GetEdge(ctx context.Context, path string, params url.Values) (*metadomain.Page, error) {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	return c.getPage(ctx, endpoint, params)
}

// GetPage segue o link de continuação devolvido pela plataforma
func (c *MetaClient) GetPage(ctx context.Context, next string) (*metadomain.Page, error) {
	parsed, err := url.Parse(next)
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar link de paginação: %w", err)
	}
	params := parsed.Query()
	params.Del("access_token")
	parsed.RawQuery = ""
	return c.getPage(ctx, parsed.String(), params)
}

func (c *MetaClient) getPage(ctx context.Context, endpoint string, params url.Values) (*metadomain.Page, error) {
	body, err := c.do(ctx, http.MethodGet, endpoint, params)
	if err != nil {
		return nil, err
	}

	var page metadomain.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("erro ao decodificar página de resultados: %w", err)
	}
	return &page, nil
}

func (c *MetaClient) do(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.accessToken)

	var (
		req *http.Request
		err error
	)
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, method, endpoint+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: erro ao fazer a requisição: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	body, err := HandleResponse(resp)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return body, err
}
