package insighting

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	repomocks "github.com/vfg2006/traffic-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/internal/usecases/normalizing"
)

// fakeGraph registra as chamadas recebidas e responde por caminho e nível
type fakeGraph struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeGraph) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "token-org", q.Get("access_token"))

		key := r.Method + " " + r.URL.Path
		if level := q.Get("level"); level != "" {
			key += " level=" + level
		}
		if q.Get("time_increment") == "1" {
			key += " diario"
		}
		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.mu.Unlock()

		switch key {
		case "GET /v22.0/act_1/insights level=account":
			_, _ = w.Write([]byte(`{"data":[{"account_id":"1","account_name":"Loja","spend":"100"}]}`))
		case "GET /v22.0/act_1/insights level=account diario":
			_, _ = w.Write([]byte(`{"data":[{"date_start":"2025-03-01","date_stop":"2025-03-01","spend":"10"},{"date_start":"2025-03-02","date_stop":"2025-03-02","spend":"20"}]}`))
		case "GET /v22.0/act_1/insights level=campaign":
			_, _ = w.Write([]byte(`{"data":[{"campaign_id":"c1","campaign_name":"Verão","spend":"50"}]}`))
		case "GET /v22.0/act_1/ads":
			assert.Contains(t, q.Get("fields"), "insights.date_preset(last_7d){")
			assert.Contains(t, q.Get("fields"), "purchase_roas")
			_, _ = w.Write([]byte(`{"data":[{"id":"ad1","name":"A","creative":{"id":"cr1"},"insights":{"data":[{"spend":"5","purchase_roas":[{"value":"2"}]}]}}]}`))
		default:
			t.Errorf("chamada inesperada: %s", key)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (f *fakeGraph) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fixture struct {
	service   *Service
	graph     *fakeGraph
	tokenRepo *repomocks.MockOrganizationTokenRepository
}

func setup(t *testing.T, cache Cache) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	graph := &fakeGraph{}
	server := httptest.NewServer(graph.handler(t))
	t.Cleanup(server.Close)

	catalog, err := normalizing.LoadDefaultCatalog(metadomain.InsightFields)
	require.NoError(t, err)

	cfg := &config.Config{
		Meta:     config.Meta{URL: server.URL + "/v22.0"},
		Insights: config.Insights{AsyncPollInterval: time.Millisecond, AsyncMaxPollAttempts: 2},
	}
	tokenRepo := repomocks.NewMockOrganizationTokenRepository(ctrl)

	return &fixture{
		service:   NewService(cfg, tokenRepo, server.Client(), catalog, cache),
		graph:     graph,
		tokenRepo: tokenRepo,
	}
}

func TestForOrganization_SemToken(t *testing.T) {
	f := setup(t, nil)
	f.tokenRepo.EXPECT().GetByOrganization(gomock.Any(), "o1").Return(nil, nil)

	_, err := f.service.ForOrganization(context.Background(), "o1")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestFetchAccount_ApenasCategoriasSelecionadas(t *testing.T) {
	tests := []struct {
		name      string
		selection map[domain.MetricCategory][]string
		disabled  domain.MetricCategory
		wantCalls []string
		check     func(t *testing.T, data *domain.AccountRawData)
	}{
		{
			name:      "Somente KPIs",
			selection: map[domain.MetricCategory][]string{domain.MetricCategoryKPIs: {"spend"}},
			wantCalls: []string{"GET /v22.0/act_1/insights level=account"},
			check: func(t *testing.T, data *domain.AccountRawData) {
				require.Len(t, data.KPIs, 1)
				assert.Nil(t, data.Ads)
				assert.Nil(t, data.Campaigns)
				assert.Nil(t, data.Graphs)
			},
		},
		{
			name: "Todas as categorias",
			selection: map[domain.MetricCategory][]string{
				domain.MetricCategoryKPIs:      {"spend"},
				domain.MetricCategoryAds:       {"purchaseRoas"},
				domain.MetricCategoryCampaigns: {"spend"},
				domain.MetricCategoryGraphs:    {"spend"},
			},
			wantCalls: []string{
				"GET /v22.0/act_1/insights level=account",
				"GET /v22.0/act_1/ads",
				"GET /v22.0/act_1/insights level=campaign",
				"GET /v22.0/act_1/insights level=account diario",
			},
			check: func(t *testing.T, data *domain.AccountRawData) {
				assert.Len(t, data.KPIs, 1)
				assert.Len(t, data.Ads, 1)
				assert.Len(t, data.Campaigns, 1)
				assert.Len(t, data.Graphs, 2)
			},
		},
		{
			name: "Categoria com métricas desabilitadas é ignorada",
			selection: map[domain.MetricCategory][]string{
				domain.MetricCategoryKPIs: {"spend"},
			},
			disabled:  domain.MetricCategoryAds,
			wantCalls: []string{"GET /v22.0/act_1/insights level=account"},
			check: func(t *testing.T, data *domain.AccountRawData) {
				assert.Nil(t, data.Ads)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, nil)
			f.tokenRepo.EXPECT().GetByOrganization(gomock.Any(), "o1").
				Return(&domain.OrganizationToken{OrganizationUUID: "o1", Token: "token-org"}, nil)

			source, err := f.service.ForOrganization(context.Background(), "o1")
			require.NoError(t, err)

			selection := domain.SelectionFromNames(tt.selection)
			if tt.disabled != "" {
				selection[tt.disabled] = []domain.MetricToggle{{Name: "spend", Enabled: false}}
			}

			data, err := source.FetchAccount(context.Background(), "1", selection, domain.InsightOptions{DatePreset: "last_7d"})
			require.NoError(t, err)
			assert.Equal(t, "1", data.AccountID)
			assert.ElementsMatch(t, tt.wantCalls, f.graph.Calls())
			tt.check(t, data)
		})
	}
}

func TestFetchAccount_UsaCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	cache := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	f := setup(t, cache)
	f.tokenRepo.EXPECT().GetByOrganization(gomock.Any(), "o1").
		Return(&domain.OrganizationToken{OrganizationUUID: "o1", Token: "token-org"}, nil)

	source, err := f.service.ForOrganization(context.Background(), "o1")
	require.NoError(t, err)

	selection := domain.SelectionFromNames(map[domain.MetricCategory][]string{domain.MetricCategoryKPIs: {"spend"}})
	opts := domain.InsightOptions{DatePreset: "last_7d"}

	first, err := source.FetchAccount(context.Background(), "1", selection, opts)
	require.NoError(t, err)
	second, err := source.FetchAccount(context.Background(), "1", selection, opts)
	require.NoError(t, err)

	assert.Len(t, f.graph.Calls(), 1, "segunda leitura vem do cache")
	assert.Equal(t, first.KPIs[0].String("spend"), second.KPIs[0].String("spend"))

	key := CacheKey("o1", opts, domain.MetricCategoryKPIs, "1")
	assert.Equal(t, "insights:o1:last_7d:kpis:1", key)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestFetchAccount_CacheIndisponivel(t *testing.T) {
	f := setup(t, nil)

	cache := &unavailableCache{}
	f.service.cache = cache

	f.tokenRepo.EXPECT().GetByOrganization(gomock.Any(), "o1").
		Return(&domain.OrganizationToken{OrganizationUUID: "o1", Token: "token-org"}, nil)

	source, err := f.service.ForOrganization(context.Background(), "o1")
	require.NoError(t, err)

	selection := domain.SelectionFromNames(map[domain.MetricCategory][]string{domain.MetricCategoryKPIs: {"spend"}})
	data, err := source.FetchAccount(context.Background(), "1", selection, domain.InsightOptions{DatePreset: "last_7d"})
	require.NoError(t, err)
	assert.Len(t, data.KPIs, 1)
	assert.Equal(t, 1, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

// unavailableCache simula um Redis fora do ar
type unavailableCache struct {
	gets, sets int
}

func (c *unavailableCache) Get(context.Context, string) ([]domain.RawInsightRecord, bool, error) {
	c.gets++
	return nil, false, errors.New("connection refused")
}

func (c *unavailableCache) Set(context.Context, string, []domain.RawInsightRecord) error {
	c.sets++
	return errors.New("connection refused")
}

func TestCacheKey_IntervaloCustomizado(t *testing.T) {
	key := CacheKey("o1", domain.InsightOptions{TimeRange: &domain.DateRange{Since: "2025-01-01", Until: "2025-01-31"}}, domain.MetricCategoryGraphs, "9")
	assert.Equal(t, "insights:o1:2025-01-01_2025-01-31:graphs:9", key)
}

func TestUnionFields(t *testing.T) {
	assert.Equal(t, []string{"account_id", "account_name", "clicks", "spend"},
		unionFields([]string{"account_id", "account_name"}, "spend", "clicks", "account_id"))
}
