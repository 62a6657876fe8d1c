package normalizing

import (
	"fmt"
	"strings"

	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/utils"
)

// DeriveFunc calcula uma métrica a partir de um registro bruto.
// ok=false significa valor indefinido, e a métrica é omitida da linha normalizada.
type DeriveFunc func(r domain.RawInsightRecord) (value float64, ok bool)

type derivationBuilder func(rawFields []string, params map[string]string) (DeriveFunc, error)

var derivations = map[string]derivationBuilder{
	"field":                 buildField,
	"first_value":           buildFirstValue,
	"action":                buildAction,
	"cost_per_action":       buildCostPerAction,
	"conversion_rate":       buildConversionRate,
	"first_non_zero_action": buildFirstNonZeroAction,
	"cpc":                   buildCPC,
}

// buildField repassa o campo numérico; ausência gera valor indefinido
func buildField(rawFields []string, _ map[string]string) (DeriveFunc, error) {
	field := rawFields[0]
	return func(r domain.RawInsightRecord) (float64, bool) {
		return r.Float(field)
	}, nil
}

func buildFirstValue(rawFields []string, _ map[string]string) (DeriveFunc, error) {
	field := rawFields[0]
	return func(r domain.RawInsightRecord) (float64, bool) {
		v, _ := r.FirstValue(field)
		return v, true
	}, nil
}

func buildAction(rawFields []string, params map[string]string) (DeriveFunc, error) {
	actionType, err := requireParam(params, "action_type")
	if err != nil {
		return nil, err
	}
	field := rawFields[0]
	return func(r domain.RawInsightRecord) (float64, bool) {
		v, _ := r.ActionValue(field, actionType)
		return v, true
	}, nil
}

func buildCostPerAction(_ []string, params map[string]string) (DeriveFunc, error) {
	actionType, err := requireParam(params, "action_type")
	if err != nil {
		return nil, err
	}
	return func(r domain.RawInsightRecord) (float64, bool) {
		spend, _ := r.Float("spend")
		count, _ := r.ActionValue("actions", actionType)
		return safeDivide(spend, count), true
	}, nil
}

func buildConversionRate(_ []string, params map[string]string) (DeriveFunc, error) {
	actionType, err := requireParam(params, "action_type")
	if err != nil {
		return nil, err
	}
	return func(r domain.RawInsightRecord) (float64, bool) {
		conversions, _ := r.ActionValue("actions", actionType)
		clicks, _ := r.Float("clicks")
		if clicks == 0 {
			return 0, true
		}
		return utils.RoundWithTwoDecimalPlace(conversions / clicks * 100), true
	}, nil
}

// buildFirstNonZeroAction resolve a métrica pela primeira ação não nula da lista
func buildFirstNonZeroAction(rawFields []string, params map[string]string) (DeriveFunc, error) {
	list, err := requireParam(params, "action_types")
	if err != nil {
		return nil, err
	}
	actionTypes := strings.Split(list, ",")
	field := rawFields[0]
	return func(r domain.RawInsightRecord) (float64, bool) {
		for _, actionType := range actionTypes {
			if v, ok := r.ActionValue(field, strings.TrimSpace(actionType)); ok && v != 0 {
				return v, true
			}
		}
		return 0, true
	}, nil
}

func buildCPC(_ []string, _ map[string]string) (DeriveFunc, error) {
	return func(r domain.RawInsightRecord) (float64, bool) {
		if cpc, ok := r.Float("cpc"); ok {
			return cpc, true
		}
		spend, ok := r.Float("spend")
		if !ok {
			return 0, false
		}
		clicks, _ := r.Float("clicks")
		return safeDivide(spend, clicks), true
	}, nil
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(numerator / denominator)
}

func requireParam(params map[string]string, name string) (string, error) {
	v := strings.TrimSpace(params[name])
	if v == "" {
		return "", fmt.Errorf("parâmetro %q obrigatório", name)
	}
	return v, nil
}
