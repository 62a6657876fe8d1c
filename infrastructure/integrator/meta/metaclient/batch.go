package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

type batchEntry struct {
	Method      string `json:"method"`
	RelativeURL string `json:"relative_url"`
}

// GetEntitiesBatch busca até MaxBatchRequests entidades em uma única chamada.
// A resposta vem alinhada aos ids; itens com erro são devolvidos como estão.
func (c *MetaClient) GetEntitiesBatch(ctx context.Context, ids []string, fields []string) ([]metadomain.BatchItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchRequests {
		return nil, fmt.Errorf("%w: lote com %d itens excede o limite de %d", domain.ErrValidation, len(ids), MaxBatchRequests)
	}

	fieldList := strings.Join(fields, ",")
	entries := make([]batchEntry, 0, len(ids))
	for _, id := range ids {
		relative := id
		if fieldList != "" {
			relative += "?" + url.Values{"fields": {fieldList}}.Encode()
		}
		entries = append(entries, batchEntry{Method: http.MethodGet, RelativeURL: relative})
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar lote: %w", err)
	}

	form := url.Values{}
	form.Set("batch", string(payload))
	form.Set("include_headers", "false")

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/", form)
	if err != nil {
		return nil, err
	}

	var items []*metadomain.BatchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: erro ao decodificar resposta do lote: %v", domain.ErrExternalAPI, err)
	}
	if len(items) != len(ids) {
		return nil, fmt.Errorf("%w: lote retornou %d itens para %d requisições", domain.ErrExternalAPI, len(items), len(ids))
	}

	// itens que a plataforma não conseguiu processar chegam como null
	result := make([]metadomain.BatchItem, len(items))
	for i, item := range items {
		if item == nil {
			result[i] = metadomain.BatchItem{Code: http.StatusInternalServerError}
			continue
		}
		result[i] = *item
	}
	return result, nil
}
