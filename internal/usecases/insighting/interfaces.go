package insighting

import (
	"context"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// SourceFactory abre a fonte de dados de uma organização para uma execução
type SourceFactory interface {
	ForOrganization(ctx context.Context, organizationUUID string) (AccountSource, error)
}

// AccountSource busca os dados brutos das contas de uma organização.
// Os clientes da plataforma são reaproveitados enquanto a fonte existir.
type AccountSource interface {
	// FetchAccount busca em paralelo apenas as categorias habilitadas na seleção
	FetchAccount(ctx context.Context, accountID string, selection domain.MetricSelection, opts domain.InsightOptions) (*domain.AccountRawData, error)
	// ResolveCreatives resolve a mídia dos anúncios, indexada pelo id do anúncio
	ResolveCreatives(ctx context.Context, accountID string, ads []domain.RawInsightRecord) (map[string]domain.CreativeAsset, error)
}

// Cache guarda os registros brutos de uma categoria
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.RawInsightRecord, bool, error)
	Set(ctx context.Context, key string, records []domain.RawInsightRecord) error
}
