package meta

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// EntityGraphResolver agrupa consultas por id em requisições de lote
type EntityGraphResolver struct {
	client metaclient.Client
}

func NewEntityGraphResolver(client metaclient.Client) *EntityGraphResolver {
	return &EntityGraphResolver{client: client}
}

// ResolveBatch devolve um registro por id, na mesma posição. Itens que falharam ficam nil
// sem derrubar os demais; falha do transporte do lote derruba a chamada.
func (r *EntityGraphResolver) ResolveBatch(ctx context.Context, ids []string, fields []string) ([]domain.RawInsightRecord, error) {
	results := make([]domain.RawInsightRecord, len(ids))

	for start := 0; start < len(ids); start += metaclient.MaxBatchRequests {
		end := start + metaclient.MaxBatchRequests
		if end > len(ids) {
			end = len(ids)
		}

		items, err := r.client.GetEntitiesBatch(ctx, ids[start:end], fields)
		if err != nil {
			return nil, err
		}

		for i := range items {
			record, err := items[i].Decode()
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"entity_id": ids[start+i],
					"code":      items[i].Code,
				}).WithError(err).Warn("Item do lote ignorado")
				continue
			}
			results[start+i] = record
		}
	}

	return results, nil
}
