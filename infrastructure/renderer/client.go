package renderer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/httpretry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const renderPath = "/render/report"

// maior corpo de erro lido para compor a mensagem
const maxErrorBody = 4 << 10

type renderRequest struct {
	ReportUUID string         `json:"reportUuid"`
	Format     string         `json:"format"`
	Report     *domain.Report `json:"report"`
}

// Client chama o serviço de renderização de PDF
type Client struct {
	baseURL string
	apiKey  string
	http    httpretry.HTTPDoer
}

func NewClient(cfg config.Renderer, doer httpretry.HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    doer,
	}
}

// Render envia o relatório gravado e devolve o PDF gerado
func (c *Client) Render(ctx context.Context, report *domain.Report) ([]byte, error) {
	body, err := json.Marshal(renderRequest{ReportUUID: report.UUID, Format: "pdf", Report: report})
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar relatório para renderização: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+renderPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição de renderização: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao chamar renderizador: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("renderizador respondeu %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler PDF renderizado: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("renderizador devolveu PDF vazio")
	}

	logrus.WithFields(logrus.Fields{
		"report_uuid": report.UUID,
		"size":        len(pdf),
	}).Debug("PDF do relatório renderizado")

	return pdf, nil
}
