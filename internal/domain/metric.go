package domain

type MetricCategory string

const (
	MetricCategoryKPIs      MetricCategory = "kpis"
	MetricCategoryAds       MetricCategory = "ads"
	MetricCategoryCampaigns MetricCategory = "campaigns"
	MetricCategoryGraphs    MetricCategory = "graphs"
)

// MetricCategories lista as categorias na ordem em que aparecem no relatório
var MetricCategories = []MetricCategory{
	MetricCategoryKPIs,
	MetricCategoryAds,
	MetricCategoryCampaigns,
	MetricCategoryGraphs,
}

type MetricToggle struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Order   int    `json:"order"`
}

// MetricSelection indica, por categoria, as métricas escolhidas para o relatório
type MetricSelection map[MetricCategory][]MetricToggle

// Enabled retorna os nomes habilitados da categoria, na ordem configurada
func (s MetricSelection) Enabled(category MetricCategory) []string {
	names := make([]string, 0, len(s[category]))
	for _, m := range s[category] {
		if m.Enabled {
			names = append(names, m.Name)
		}
	}
	return names
}

// Has indica se a categoria possui ao menos uma métrica habilitada
func (s MetricSelection) Has(category MetricCategory) bool {
	return len(s.Enabled(category)) > 0
}

// SelectionFromNames monta uma seleção com todas as métricas habilitadas
func SelectionFromNames(byCategory map[MetricCategory][]string) MetricSelection {
	selection := make(MetricSelection, len(byCategory))
	for category, names := range byCategory {
		toggles := make([]MetricToggle, 0, len(names))
		for i, name := range names {
			toggles = append(toggles, MetricToggle{Name: name, Enabled: true, Order: i})
		}
		selection[category] = toggles
	}
	return selection
}
