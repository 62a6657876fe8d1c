package ranking

import (
	"sort"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const (
	// DefaultK é o tamanho padrão do ranking de anúncios
	DefaultK = 10
	// AdRankingField aponta para o ROAS de compra do primeiro bloco de insights do anúncio
	AdRankingField = "insights.data.0.purchase_roas.0.value"
)

type scored struct {
	record domain.RawInsightRecord
	value  float64
}

// TopK seleciona os k registros com maior valor numérico no caminho informado.
// Registros sem valor definido são descartados; empates preservam a ordem original.
func TopK(records []domain.RawInsightRecord, path string, k int) []domain.RawInsightRecord {
	if k <= 0 {
		k = DefaultK
	}

	candidates := make([]scored, 0, len(records))
	for _, r := range records {
		v, ok := r.LookupFloat(path)
		if !ok {
			continue
		}
		candidates = append(candidates, scored{record: r, value: v})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	result := make([]domain.RawInsightRecord, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.record)
	}
	return result
}
