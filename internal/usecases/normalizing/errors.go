package normalizing

import (
	"fmt"
	"strings"
)

// SelectionError indica uma seleção de métricas que o catálogo não conhece
type SelectionError struct {
	Err      error
	Category string
	Metrics  []string
	Details  string
}

func (e *SelectionError) Error() string {
	switch {
	case e.Category != "":
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Details, e.Category)
	case len(e.Metrics) > 0:
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Details, strings.Join(e.Metrics, ", "))
	default:
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
