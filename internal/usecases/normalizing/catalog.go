package normalizing

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// MetricDescriptor associa um nome de métrica aos campos brutos e à função de derivação
type MetricDescriptor struct {
	Name              string
	Label             string
	RequiredRawFields []string
	Derive            DeriveFunc
}

type metricDefinition struct {
	Name       string            `yaml:"name"`
	Label      string            `yaml:"label"`
	Derivation string            `yaml:"derivation"`
	RawFields  []string          `yaml:"raw_fields"`
	Params     map[string]string `yaml:"params"`
}

type catalogFile struct {
	Metrics []metricDefinition `yaml:"metrics"`
}

// Catalog é imutável depois de carregado
type Catalog struct {
	descriptors []MetricDescriptor
	byName      map[string]int
}

// LoadDefaultCatalog carrega o catálogo embutido validando os campos contra os disponíveis na plataforma
func LoadDefaultCatalog(availableRawFields []string) (*Catalog, error) {
	return LoadCatalog(defaultCatalogYAML, availableRawFields)
}

func LoadCatalog(data []byte, availableRawFields []string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("erro ao ler catálogo de métricas: %w", err)
	}
	if len(file.Metrics) == 0 {
		return nil, fmt.Errorf("catálogo de métricas vazio")
	}

	available := make(map[string]struct{}, len(availableRawFields))
	for _, f := range availableRawFields {
		available[f] = struct{}{}
	}

	catalog := &Catalog{
		descriptors: make([]MetricDescriptor, 0, len(file.Metrics)),
		byName:      make(map[string]int, len(file.Metrics)),
	}

	for _, def := range file.Metrics {
		descriptor, err := buildDescriptor(def, available)
		if err != nil {
			return nil, err
		}
		if _, dup := catalog.byName[descriptor.Name]; dup {
			return nil, fmt.Errorf("métrica %q declarada mais de uma vez", descriptor.Name)
		}
		catalog.byName[descriptor.Name] = len(catalog.descriptors)
		catalog.descriptors = append(catalog.descriptors, descriptor)
	}

	return catalog, nil
}

func buildDescriptor(def metricDefinition, available map[string]struct{}) (MetricDescriptor, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return MetricDescriptor{}, fmt.Errorf("métrica sem nome no catálogo")
	}
	if len(def.RawFields) == 0 {
		return MetricDescriptor{}, fmt.Errorf("métrica %q sem campos brutos", name)
	}
	for _, field := range def.RawFields {
		if _, ok := available[field]; !ok {
			return MetricDescriptor{}, fmt.Errorf("métrica %q depende do campo %q, que não é fornecido pela plataforma", name, field)
		}
	}

	builder, ok := derivations[def.Derivation]
	if !ok {
		return MetricDescriptor{}, fmt.Errorf("métrica %q usa derivação desconhecida %q", name, def.Derivation)
	}
	derive, err := builder(def.RawFields, def.Params)
	if err != nil {
		return MetricDescriptor{}, fmt.Errorf("métrica %q: %w", name, err)
	}

	return MetricDescriptor{
		Name:              name,
		Label:             def.Label,
		RequiredRawFields: append([]string(nil), def.RawFields...),
		Derive:            derive,
	}, nil
}

func (c *Catalog) Get(name string) (MetricDescriptor, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return MetricDescriptor{}, false
	}
	return c.descriptors[idx], true
}

func (c *Catalog) Descriptors() []MetricDescriptor {
	return append([]MetricDescriptor(nil), c.descriptors...)
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.descriptors))
	for _, d := range c.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// RawFields retorna a união ordenada dos campos brutos exigidos pelas métricas informadas.
// Sem nomes, considera o catálogo inteiro.
func (c *Catalog) RawFields(names ...string) []string {
	if len(names) == 0 {
		names = c.Names()
	}
	set := make(map[string]struct{})
	for _, name := range names {
		d, ok := c.Get(name)
		if !ok {
			continue
		}
		for _, f := range d.RequiredRawFields {
			set[f] = struct{}{}
		}
	}
	fields := make([]string, 0, len(set))
	for f := range set {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ValidateSelection rejeita categorias e métricas que não existem no catálogo
func (c *Catalog) ValidateSelection(selection domain.MetricSelection) error {
	var unknown []string
	for category, toggles := range selection {
		if !isKnownCategory(category) {
			return &SelectionError{Err: domain.ErrValidation, Category: string(category), Details: "categoria desconhecida"}
		}
		for _, t := range toggles {
			if _, ok := c.Get(t.Name); !ok {
				unknown = append(unknown, t.Name)
			}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &SelectionError{Err: domain.ErrValidation, Metrics: unknown, Details: "métricas desconhecidas"}
	}
	return nil
}

func isKnownCategory(category domain.MetricCategory) bool {
	for _, c := range domain.MetricCategories {
		if c == category {
			return true
		}
	}
	return false
}
