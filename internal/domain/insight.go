package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type InsightLevel string

const (
	InsightLevelAccount  InsightLevel = "account"
	InsightLevelCampaign InsightLevel = "campaign"
	InsightLevelAdSet    InsightLevel = "adset"
	InsightLevelAd       InsightLevel = "ad"
)

// DateRange é um intervalo fechado no formato YYYY-MM-DD
type DateRange struct {
	Since string `json:"since"`
	Until string `json:"until"`
}

// InsightOptions descreve a janela e o recorte de uma consulta de insights
type InsightOptions struct {
	DatePreset       string
	TimeRange        *DateRange
	Breakdowns       []string
	ActionBreakdowns []string
	TimeIncrement    int
	Limit            int
}

// RawInsightRecord é um registro da plataforma sem esquema fixo.
// Os acessores nunca falham: campo ausente resulta em ok=false ou valor zero.
type RawInsightRecord map[string]any

// NormalizedRow é a linha projetada entregue ao cliente
type NormalizedRow map[string]any

func (r RawInsightRecord) Value(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String retorna o campo como texto, ou "" quando ausente
func (r RawInsightRecord) String(key string) string {
	v, ok := r.Value(key)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Float converte o campo para número; ok=false quando ausente ou não numérico
func (r RawInsightRecord) Float(key string) (float64, bool) {
	v, ok := r.Value(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Lookup percorre um caminho separado por pontos, onde segmentos numéricos indexam listas.
// Ex.: "insights.data.0.purchase_roas.0.value"
func (r RawInsightRecord) Lookup(path string) (any, bool) {
	var current any = map[string]any(r)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok || next == nil {
				return nil, false
			}
			current = next
		case RawInsightRecord:
			next, ok := node[segment]
			if !ok || next == nil {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func (r RawInsightRecord) LookupFloat(path string) (float64, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// ActionValue procura em uma lista de ações ({action_type, value}) o valor do tipo informado
func (r RawInsightRecord) ActionValue(field, actionType string) (float64, bool) {
	v, ok := r.Value(field)
	if !ok {
		return 0, false
	}
	list, ok := v.([]any)
	if !ok {
		return 0, false
	}
	for _, item := range list {
		action, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := action["action_type"].(string); t == actionType {
			return toFloat(action["value"])
		}
	}
	return 0, false
}

// FirstValue lê o campo value do primeiro item de uma lista (ex.: purchase_roas)
func (r RawInsightRecord) FirstValue(field string) (float64, bool) {
	return r.LookupFloat(field + ".0.value")
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
