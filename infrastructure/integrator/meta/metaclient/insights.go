package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const asyncStatusFields = "async_status,async_percent_completion"

func (c *MetaClient) GetInsights(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) (*metadomain.Page, error) {
	params, err := InsightParams(level, fields, opts)
	if err != nil {
		return nil, err
	}
	return c.GetEdge(ctx, insightsPath(accountID), params)
}

// SubmitAsyncInsights cria um AdReportRun e devolve o report_run_id
func (c *MetaClient) SubmitAsyncInsights(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) (string, error) {
	params, err := InsightParams(level, fields, opts)
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/"+insightsPath(accountID), params)
	if err != nil {
		return "", err
	}

	var run metadomain.AsyncReportRun
	if err := json.Unmarshal(body, &run); err != nil {
		return "", fmt.Errorf("erro ao decodificar job assíncrono: %w", err)
	}
	if strings.TrimSpace(run.ReportRunID) == "" {
		return "", fmt.Errorf("%w: resposta assíncrona sem report_run_id", domain.ErrExternalAPI)
	}
	return run.ReportRunID, nil
}

func (c *MetaClient) PollAsyncStatus(ctx context.Context, reportRunID string) (*metadomain.AsyncReportRun, error) {
	params := url.Values{}
	params.Set("fields", asyncStatusFields)

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/"+reportRunID, params)
	if err != nil {
		return nil, err
	}

	var run metadomain.AsyncReportRun
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("erro ao decodificar status do job assíncrono: %w", err)
	}
	return &run, nil
}

// FetchAsyncResult busca a primeira página do resultado; as demais seguem por GetPage
func (c *MetaClient) FetchAsyncResult(ctx context.Context, reportRunID string) (*metadomain.Page, error) {
	return c.GetEdge(ctx, reportRunID+"/insights", url.Values{})
}

// InsightParams monta os parâmetros de uma consulta de insights
func InsightParams(level domain.InsightLevel, fields []string, opts domain.InsightOptions) (url.Values, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nenhum campo informado para a consulta de insights", domain.ErrValidation)
	}

	params := url.Values{}
	params.Set("level", string(level))
	params.Set("fields", strings.Join(fields, ","))

	switch {
	case opts.TimeRange != nil:
		timeRange, err := json.Marshal(opts.TimeRange)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar intervalo de datas: %w", err)
		}
		params.Set("time_range", string(timeRange))
	case opts.DatePreset != "":
		params.Set("date_preset", opts.DatePreset)
	}

	if len(opts.Breakdowns) > 0 {
		params.Set("breakdowns", strings.Join(opts.Breakdowns, ","))
	}
	if len(opts.ActionBreakdowns) > 0 {
		params.Set("action_breakdowns", strings.Join(opts.ActionBreakdowns, ","))
	}
	if opts.TimeIncrement > 0 {
		params.Set("time_increment", strconv.Itoa(opts.TimeIncrement))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	return params, nil
}

func insightsPath(accountID string) string {
	return AccountPath(accountID) + "/insights"
}

// AccountPath normaliza o identificador da conta para o formato act_<id>
func AccountPath(accountID string) string {
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	return "act_" + accountID
}
