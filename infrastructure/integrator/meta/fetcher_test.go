package meta

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// pagedHandler responde páginas com os tamanhos informados, ligadas por cursor
func pagedHandler(t *testing.T, serverURL *string, path string, sizes []int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, path, r.URL.Path)
		pageIdx := 0
		if after := r.URL.Query().Get("after"); after != "" {
			_, err := fmt.Sscanf(after, "p%d", &pageIdx)
			require.NoError(t, err)
		}

		items := make([]string, 0, sizes[pageIdx])
		for i := 0; i < sizes[pageIdx]; i++ {
			items = append(items, fmt.Sprintf(`{"id":"%d-%d"}`, pageIdx, i))
		}
		paging := ""
		if pageIdx+1 < len(sizes) {
			paging = fmt.Sprintf(`,"paging":{"cursors":{"after":"p%d"},"next":"%s%s?after=p%d&access_token=x"}`,
				pageIdx+1, *serverURL, path, pageIdx+1)
		}
		_, _ = fmt.Fprintf(w, `{"data":[%s]%s}`, strings.Join(items, ","), paging)
	}
}

func newTestFetcher(t *testing.T, handler func(serverURL *string) http.HandlerFunc) *InsightsFetcher {
	t.Helper()
	var serverURL string
	server := httptest.NewServer(handler(&serverURL))
	t.Cleanup(server.Close)
	serverURL = server.URL

	client := metaclient.NewClient(config.Meta{URL: server.URL + "/v22.0"}, "token", server.Client())
	return NewInsightsFetcher(client, config.Insights{AsyncPollInterval: time.Millisecond, AsyncMaxPollAttempts: 3})
}

func TestIsLargeQuery(t *testing.T) {
	tests := []struct {
		name string
		opts domain.InsightOptions
		want bool
	}{
		{name: "Últimos 7 dias", opts: domain.InsightOptions{DatePreset: "last_7d"}, want: false},
		{name: "Ontem", opts: domain.InsightOptions{DatePreset: "yesterday"}, want: false},
		{name: "Últimos 30 dias", opts: domain.InsightOptions{DatePreset: "last_30d"}, want: true},
		{name: "Intervalo customizado", opts: domain.InsightOptions{TimeRange: &domain.DateRange{Since: "2025-01-01", Until: "2025-01-02"}}, want: true},
		{name: "Com breakdown", opts: domain.InsightOptions{DatePreset: "today", Breakdowns: []string{"age"}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLargeQuery(tt.opts))
		})
	}
}

func TestInsightsFetcher_PaginacaoSincrona(t *testing.T) {
	fetcher := newTestFetcher(t, func(serverURL *string) http.HandlerFunc {
		return pagedHandler(t, serverURL, "/v22.0/act_1/insights", []int{3, 5, 2})
	})

	records, err := fetcher.Fetch(context.Background(), "1", domain.InsightLevelAd, []string{"ad_id"}, domain.InsightOptions{DatePreset: "last_7d"})
	require.NoError(t, err)
	require.Len(t, records, 10)

	expected := []string{"0-0", "0-1", "0-2", "1-0", "1-1", "1-2", "1-3", "1-4", "2-0", "2-1"}
	for i, record := range records {
		assert.Equal(t, expected[i], record.String("id"))
	}
}

func TestInsightsFetcher_Assincrono(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		wantErr  error
		wantLen  int
	}{
		{
			name:     "Concluído após verificações",
			statuses: []string{"Job Not Started", "Job Running", "Job Completed"},
			wantLen:  2,
		},
		{
			name:     "Job falhou",
			statuses: []string{"Job Running", "Job Failed"},
			wantErr:  domain.ErrAsyncJobFailed,
		},
		{
			name:     "Verificações esgotadas",
			statuses: []string{"Job Running", "Job Running", "Job Running", "Job Running"},
			wantErr:  domain.ErrAsyncJobTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var polls int32
			fetcher := newTestFetcher(t, func(_ *string) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					switch {
					case r.Method == http.MethodPost:
						_, _ = w.Write([]byte(`{"report_run_id":"run-1"}`))
					case r.URL.Path == "/v22.0/run-1":
						n := atomic.AddInt32(&polls, 1)
						_, _ = fmt.Fprintf(w, `{"id":"run-1","async_status":"%s"}`, tt.statuses[n-1])
					case r.URL.Path == "/v22.0/run-1/insights":
						_, _ = w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"}]}`))
					}
				}
			})

			records, err := fetcher.Fetch(context.Background(), "1", domain.InsightLevelCampaign, []string{"campaign_id"}, domain.InsightOptions{DatePreset: "last_30d"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
		})
	}
}

func TestInsightsFetcher_FallbackAssincrono(t *testing.T) {
	var syncCalls, submits int32
	fetcher := newTestFetcher(t, func(_ *string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/v22.0/act_1/insights":
				atomic.AddInt32(&syncCalls, 1)
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"Please reduce the amount of data you're asking for","code":1,"error_subcode":1487534}}`))
			case r.Method == http.MethodPost:
				atomic.AddInt32(&submits, 1)
				_, _ = w.Write([]byte(`{"report_run_id":"run-2"}`))
			case r.URL.Path == "/v22.0/run-2":
				_, _ = w.Write([]byte(`{"async_status":"Job Completed"}`))
			case r.URL.Path == "/v22.0/run-2/insights":
				_, _ = w.Write([]byte(`{"data":[{"id":"x"}]}`))
			}
		}
	})

	records, err := fetcher.Fetch(context.Background(), "1", domain.InsightLevelAccount, []string{"spend"}, domain.InsightOptions{DatePreset: "yesterday"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(1), syncCalls)
	assert.Equal(t, int32(1), submits)
}

func TestInsightsFetcher_ErroSemFallback(t *testing.T) {
	var submits int32
	fetcher := newTestFetcher(t, func(_ *string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				atomic.AddInt32(&submits, 1)
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
		}
	})

	_, err := fetcher.Fetch(context.Background(), "1", domain.InsightLevelAccount, []string{"spend"}, domain.InsightOptions{DatePreset: "today"})
	assert.ErrorIs(t, err, domain.ErrExternalAPI)
	assert.Equal(t, int32(0), submits)
}

func TestInsightsFetcher_CancelamentoDuranteVerificacao(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var serverURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"report_run_id":"run-3"}`))
			return
		}
		cancel()
		_, _ = w.Write([]byte(`{"async_status":"Job Running"}`))
	}))
	defer server.Close()
	serverURL = server.URL

	client := metaclient.NewClient(config.Meta{URL: serverURL + "/v22.0"}, "token", server.Client())
	fetcher := NewInsightsFetcher(client, config.Insights{AsyncPollInterval: time.Hour, AsyncMaxPollAttempts: 5})

	_, err := fetcher.Fetch(ctx, "1", domain.InsightLevelAccount, []string{"spend"}, domain.InsightOptions{DatePreset: "last_90d"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsightsFetcher_FetchEdge(t *testing.T) {
	fetcher := newTestFetcher(t, func(serverURL *string) http.HandlerFunc {
		return pagedHandler(t, serverURL, "/v22.0/act_1/ads", []int{2, 1})
	})

	params, err := AdsParams([]string{"spend", "purchase_roas"}, domain.InsightOptions{DatePreset: "last_30d"})
	require.NoError(t, err)

	records, err := fetcher.FetchEdge(context.Background(), AdsPath("1"), params)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
