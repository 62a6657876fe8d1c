package meta

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollAttempts = 60
)

// presets que a Graph API responde bem pelo caminho síncrono
var smallDatePresets = map[string]struct{}{
	"":          {},
	"today":     {},
	"yesterday": {},
	"last_7d":   {},
}

// IsLargeQuery decide pelo caminho assíncrono: intervalo customizado, qualquer breakdown
// ou preset fora de today, yesterday e last_7d
func IsLargeQuery(opts domain.InsightOptions) bool {
	if opts.TimeRange != nil {
		return true
	}
	if len(opts.Breakdowns) > 0 || len(opts.ActionBreakdowns) > 0 {
		return true
	}
	_, small := smallDatePresets[opts.DatePreset]
	return !small
}

// InsightsFetcher busca insights escolhendo entre paginação síncrona e job assíncrono
type InsightsFetcher struct {
	client          metaclient.Client
	pollInterval    time.Duration
	maxPollAttempts int
}

func NewInsightsFetcher(client metaclient.Client, cfg config.Insights) *InsightsFetcher {
	f := &InsightsFetcher{
		client:          client,
		pollInterval:    cfg.AsyncPollInterval,
		maxPollAttempts: cfg.AsyncMaxPollAttempts,
	}
	if f.pollInterval <= 0 {
		f.pollInterval = defaultPollInterval
	}
	if f.maxPollAttempts <= 0 {
		f.maxPollAttempts = defaultMaxPollAttempts
	}
	return f
}

// Fetch retorna os registros na ordem do servidor. Uma falha síncrona por volume ou limite
// de uso é refeita uma única vez pelo caminho assíncrono.
func (f *InsightsFetcher) Fetch(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) ([]domain.RawInsightRecord, error) {
	if IsLargeQuery(opts) {
		return f.fetchAsync(ctx, accountID, level, fields, opts)
	}

	records, err := f.fetchSync(ctx, accountID, level, fields, opts)
	if err == nil {
		return records, nil
	}

	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) && apiErr.ShouldFallbackToAsync() {
		logrus.WithFields(logrus.Fields{
			"account_id":   accountID,
			"level":        level,
			"code":         apiErr.Code,
			"rate_limited": apiErr.IsRateLimited(),
		}).Warn("Consulta síncrona recusada, refazendo pelo caminho assíncrono")
		return f.fetchAsync(ctx, accountID, level, fields, opts)
	}

	return nil, err
}

// FetchEdge percorre todas as páginas de um edge síncrono, como /ads
func (f *InsightsFetcher) FetchEdge(ctx context.Context, path string, params url.Values) ([]domain.RawInsightRecord, error) {
	page, err := f.client.GetEdge(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return f.collect(ctx, page)
}

func (f *InsightsFetcher) fetchSync(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) ([]domain.RawInsightRecord, error) {
	page, err := f.client.GetInsights(ctx, accountID, level, fields, opts)
	if err != nil {
		return nil, err
	}
	return f.collect(ctx, page)
}

func (f *InsightsFetcher) fetchAsync(ctx context.Context, accountID string, level domain.InsightLevel, fields []string, opts domain.InsightOptions) ([]domain.RawInsightRecord, error) {
	runID, err := f.client.SubmitAsyncInsights(ctx, accountID, level, fields, opts)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id":    accountID,
		"level":         level,
		"report_run_id": runID,
	}).Debug("Job assíncrono de insights enviado")

	if err := f.waitForRun(ctx, runID); err != nil {
		return nil, err
	}

	page, err := f.client.FetchAsyncResult(ctx, runID)
	if err != nil {
		return nil, err
	}
	return f.collect(ctx, page)
}

// waitForRun consulta o status a cada pollInterval e respeita o cancelamento de ctx
func (f *InsightsFetcher) waitForRun(ctx context.Context, runID string) error {
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= f.maxPollAttempts; attempt++ {
		run, err := f.client.PollAsyncStatus(ctx, runID)
		if err != nil {
			return err
		}
		if run.IsCompleted() {
			return nil
		}
		if run.IsFailed() {
			return fmt.Errorf("%w: report_run_id=%s status=%q", domain.ErrAsyncJobFailed, runID, run.AsyncStatus)
		}

		if attempt == f.maxPollAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return fmt.Errorf("%w: report_run_id=%s após %d verificações", domain.ErrAsyncJobTimeout, runID, f.maxPollAttempts)
}

// collect concatena as páginas seguindo o link de continuação até ele acabar
func (f *InsightsFetcher) collect(ctx context.Context, page *metadomain.Page) ([]domain.RawInsightRecord, error) {
	records := make([]domain.RawInsightRecord, 0)
	seen := make(map[string]struct{})

	for page != nil {
		records = append(records, page.Data...)

		next := page.Next()
		if next == "" {
			break
		}
		if _, loop := seen[next]; loop {
			logrus.WithField("next", next).Warn("Link de paginação repetido, encerrando leitura")
			break
		}
		seen[next] = struct{}{}

		var err error
		page, err = f.client.GetPage(ctx, next)
		if err != nil {
			return nil, err
		}
	}

	return records, nil
}
