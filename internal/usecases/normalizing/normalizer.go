package normalizing

import (
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// Chaves de identidade que toda linha da categoria carrega, selecionadas ou não
var mandatoryKeys = map[domain.MetricCategory][]string{
	domain.MetricCategoryKPIs:      {"account_id", "account_name"},
	domain.MetricCategoryAds:       {"ad_id", "ad_name", "adCreativeId", "thumbnailUrl", "sourceUrl"},
	domain.MetricCategoryCampaigns: {"campaign_id", "campaign_name"},
	domain.MetricCategoryGraphs:    {"date_start", "date_stop"},
}

// MandatoryKeys retorna as chaves de identidade da categoria
func MandatoryKeys(category domain.MetricCategory) []string {
	return append([]string(nil), mandatoryKeys[category]...)
}

type Normalizer struct {
	catalog *Catalog
}

func NewNormalizer(catalog *Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

func (n *Normalizer) Catalog() *Catalog {
	return n.catalog
}

// Normalize deriva as métricas do catálogo para cada registro e projeta o resultado
// nas chaves obrigatórias mais as métricas selecionadas que resultaram em valor definido.
func (n *Normalizer) Normalize(records []domain.RawInsightRecord, selection []string, mandatory []string) ([]domain.NormalizedRow, error) {
	descriptors, err := n.resolve(selection)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.NormalizedRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, project(record, descriptors, mandatory))
	}
	return rows, nil
}

// NormalizeSingle normaliza apenas o primeiro registro; sem registros, a linha traz só as chaves obrigatórias
func (n *Normalizer) NormalizeSingle(records []domain.RawInsightRecord, selection []string, mandatory []string) (domain.NormalizedRow, error) {
	descriptors, err := n.resolve(selection)
	if err != nil {
		return nil, err
	}

	var record domain.RawInsightRecord
	if len(records) > 0 {
		record = records[0]
	}
	return project(record, descriptors, mandatory), nil
}

func (n *Normalizer) resolve(selection []string) ([]MetricDescriptor, error) {
	descriptors := make([]MetricDescriptor, 0, len(selection))
	var unknown []string
	for _, name := range selection {
		d, ok := n.catalog.Get(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		descriptors = append(descriptors, d)
	}
	if len(unknown) > 0 {
		return nil, &SelectionError{Err: domain.ErrValidation, Metrics: unknown, Details: "métricas desconhecidas"}
	}
	return descriptors, nil
}

func project(record domain.RawInsightRecord, descriptors []MetricDescriptor, mandatory []string) domain.NormalizedRow {
	row := make(domain.NormalizedRow, len(mandatory)+len(descriptors))
	for _, key := range mandatory {
		if v, ok := record.Value(key); ok {
			row[key] = v
			continue
		}
		row[key] = ""
	}
	for _, d := range descriptors {
		if v, ok := d.Derive(record); ok {
			row[d.Name] = v
		}
	}
	return row
}
