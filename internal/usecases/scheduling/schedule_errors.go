package scheduling

import (
	"errors"
	"fmt"

	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
)

// Códigos de erro expostos pela API de agendamentos
const (
	CodeInvalidSchedule  = apiErrors.ErrInvalidSchedule
	CodeScheduleNotFound = apiErrors.ErrScheduleNotFound
	CodeClientNotFound   = apiErrors.ErrClientNotFound
	CodeScheduleLocked   = apiErrors.ErrScheduleLocked
	CodeQueueOperation   = apiErrors.ErrQueueOperation
	CodeSchedulePersist  = apiErrors.ErrDatabaseOperation
	CodeInvalidSelection = apiErrors.ErrInvalidMetrics
)

var (
	ErrQueueOperation = errors.New("erro ao operar a fila de relatórios")
	ErrScheduleLocked = errors.New("agendamento sendo alterado por outra requisição")
)

// ScheduleError carrega o código da API e o agendamento envolvido
type ScheduleError struct {
	Err          error
	Code         string
	ScheduleUUID string
	Details      string
}

func (e *ScheduleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

func NewScheduleError(err error, code, scheduleUUID, details string) *ScheduleError {
	return &ScheduleError{
		Err:          err,
		Code:         code,
		ScheduleUUID: scheduleUUID,
		Details:      details,
	}
}

func newValidationError(details string) *ScheduleError {
	return &ScheduleError{Err: domain.ErrValidation, Code: CodeInvalidSchedule, Details: details}
}
