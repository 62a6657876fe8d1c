package insighting

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-report-api/infrastructure/repository"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/httpretry"
)

// campo de ordenação dos anúncios, sempre pedido junto com a seleção
const adRankingRawField = "purchase_roas"

// RawFieldResolver resolve os campos brutos exigidos por um conjunto de métricas
type RawFieldResolver interface {
	RawFields(names ...string) []string
}

type Service struct {
	cfg       *config.Config
	tokenRepo repository.OrganizationTokenRepository
	doer      httpretry.HTTPDoer
	fields    RawFieldResolver
	cache     Cache
}

// NewService cria a fábrica de fontes. cache pode ser nil.
func NewService(
	cfg *config.Config,
	tokenRepo repository.OrganizationTokenRepository,
	doer httpretry.HTTPDoer,
	fields RawFieldResolver,
	cache Cache,
) *Service {
	return &Service{
		cfg:       cfg,
		tokenRepo: tokenRepo,
		doer:      doer,
		fields:    fields,
		cache:     cache,
	}
}

// ForOrganization resolve o token da organização uma vez e devolve a fonte da execução
func (s *Service) ForOrganization(ctx context.Context, organizationUUID string) (AccountSource, error) {
	token, err := s.tokenRepo.GetByOrganization(ctx, organizationUUID)
	if err != nil {
		return nil, err
	}
	if token == nil || token.Token == "" {
		return nil, fmt.Errorf("%w: token da organização %s", domain.ErrEntityNotFound, organizationUUID)
	}

	return &organizationSource{
		organizationUUID: organizationUUID,
		pool:             metaclient.NewPool(s.cfg.Meta, token.Token, s.doer),
		insightsCfg:      s.cfg.Insights,
		fields:           s.fields,
		cache:            s.cache,
	}, nil
}

type organizationSource struct {
	organizationUUID string
	pool             *metaclient.Pool
	insightsCfg      config.Insights
	fields           RawFieldResolver
	cache            Cache
}

func (o *organizationSource) FetchAccount(ctx context.Context, accountID string, selection domain.MetricSelection, opts domain.InsightOptions) (*domain.AccountRawData, error) {
	fetcher := meta.NewInsightsFetcher(o.pool.ForAccount(accountID), o.insightsCfg)

	// cada goroutine escreve apenas na posição da sua categoria
	results := make([][]domain.RawInsightRecord, len(domain.MetricCategories))
	selected := make([]bool, len(domain.MetricCategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range domain.MetricCategories {
		if !selection.Has(category) {
			continue
		}
		selected[i] = true
		i, category := i, category
		g.Go(func() error {
			records, err := o.cached(gctx, accountID, category, opts, func(ctx context.Context) ([]domain.RawInsightRecord, error) {
				return o.fetchCategory(ctx, fetcher, accountID, category, opts)
			})
			if err != nil {
				return fmt.Errorf("erro ao buscar %s da conta %s: %w", category, accountID, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &domain.AccountRawData{AccountID: accountID}
	for i, category := range domain.MetricCategories {
		if selected[i] {
			data.SetSection(category, results[i])
		}
	}
	return data, nil
}

func (o *organizationSource) fetchCategory(ctx context.Context, fetcher *meta.InsightsFetcher, accountID string, category domain.MetricCategory, opts domain.InsightOptions) ([]domain.RawInsightRecord, error) {
	// pede todos os campos do catálogo para que a chave de cache não dependa da seleção
	rawFields := o.fields.RawFields()

	switch category {
	case domain.MetricCategoryKPIs:
		fields := withIdentity(domain.InsightLevelAccount, rawFields)
		return fetcher.Fetch(ctx, accountID, domain.InsightLevelAccount, fields, opts)

	case domain.MetricCategoryCampaigns:
		fields := withIdentity(domain.InsightLevelCampaign, rawFields)
		return fetcher.Fetch(ctx, accountID, domain.InsightLevelCampaign, fields, opts)

	case domain.MetricCategoryGraphs:
		daily := opts
		daily.TimeIncrement = 1
		return fetcher.Fetch(ctx, accountID, domain.InsightLevelAccount, rawFields, daily)

	case domain.MetricCategoryAds:
		params, err := meta.AdsParams(unionFields(rawFields, adRankingRawField), opts)
		if err != nil {
			return nil, err
		}
		return fetcher.FetchEdge(ctx, meta.AdsPath(accountID), params)
	}

	return nil, fmt.Errorf("%w: categoria %s", domain.ErrValidation, category)
}

func (o *organizationSource) ResolveCreatives(ctx context.Context, accountID string, ads []domain.RawInsightRecord) (map[string]domain.CreativeAsset, error) {
	resolver := meta.NewCreativeResolver(meta.NewEntityGraphResolver(o.pool.ForAccount(accountID)))
	return resolver.Resolve(ctx, ads)
}

func (o *organizationSource) cached(
	ctx context.Context,
	accountID string,
	category domain.MetricCategory,
	opts domain.InsightOptions,
	fetch func(ctx context.Context) ([]domain.RawInsightRecord, error),
) ([]domain.RawInsightRecord, error) {
	if o.cache == nil {
		return fetch(ctx)
	}

	key := CacheKey(o.organizationUUID, opts, category, accountID)
	fields := logrus.Fields{
		"cache_key":  key,
		"account_id": accountID,
		"category":   category,
	}

	records, hit, err := o.cache.Get(ctx, key)
	if err != nil {
		logrus.WithFields(fields).WithError(err).Warn("Cache de insights indisponível, buscando na plataforma")
	}
	if hit {
		logrus.WithFields(fields).Debug("Insights obtidos do cache")
		return records, nil
	}

	records, err = fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := o.cache.Set(ctx, key, records); err != nil {
		logrus.WithFields(fields).WithError(err).Warn("Erro ao gravar insights no cache")
	}
	return records, nil
}

func withIdentity(level domain.InsightLevel, rawFields []string) []string {
	return unionFields(metadomain.IdentityFields[level], rawFields...)
}

// unionFields preserva a ordem de base e acrescenta os extras que faltam em ordem alfabética
func unionFields(base []string, extra ...string) []string {
	out := append([]string(nil), base...)
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, f := range base {
		seen[f] = struct{}{}
	}
	missing := make([]string, 0, len(extra))
	for _, f := range extra {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		missing = append(missing, f)
	}
	sort.Strings(missing)
	return append(out, missing...)
}
