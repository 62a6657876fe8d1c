package reporting

import (
	"errors"
	"fmt"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
)

// State é a etapa corrente de uma execução do relatório
type State string

const (
	StateStarted           State = "started"
	StateClientResolved    State = "client_resolved"
	StateAccountsFetched   State = "accounts_fetched"
	StatePerAccountFetched State = "per_account_fetched"
	StateRanked            State = "ranked"
	StateAssetsResolved    State = "assets_resolved"
	StateNormalized        State = "normalized"
	StatePersisted         State = "persisted"
	StateArtifactGenerated State = "artifact_generated"
	StateNotified          State = "notified"
	StateCompleted         State = "completed"
	StateFailed            State = "failed"
)

// Códigos de falha de execução
const (
	CodeClientNotFound = apiErrors.ErrClientNotFound
	CodeInvalidJob     = apiErrors.ErrInvalidJob
	CodeInvalidMetrics = apiErrors.ErrInvalidMetrics
	CodeExternalAPI    = apiErrors.ErrReportExternalAPI
	CodeAsyncJob       = apiErrors.ErrAsyncJob
	CodePersistence    = apiErrors.ErrReportPersistence
	CodeRunInProgress  = apiErrors.ErrRunInProgress
	CodeUnknown        = apiErrors.ErrReportUnknown
)

// RunError identifica a etapa em que a execução falhou
type RunError struct {
	Stage State
	Code  string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Code, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		return CodeClientNotFound
	case errors.Is(err, domain.ErrValidation):
		return CodeInvalidMetrics
	case errors.Is(err, domain.ErrPersistence):
		return CodePersistence
	case errors.Is(err, domain.ErrRunInProgress):
		return CodeRunInProgress
	case errors.Is(err, domain.ErrAsyncJobFailed), errors.Is(err, domain.ErrAsyncJobTimeout):
		return CodeAsyncJob
	case errors.Is(err, domain.ErrExternalAPI):
		return CodeExternalAPI
	default:
		return CodeUnknown
	}
}

// IsRetryable indica se vale a pena a fila tentar o job de novo.
// Entidade ausente, seleção inválida e falha de persistência são terminais,
// assim como erros 4xx da plataforma que não sejam limite de taxa ou volume.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, domain.ErrEntityNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrPersistence):
		return false
	case errors.Is(err, domain.ErrRunInProgress),
		errors.Is(err, domain.ErrAsyncJobFailed),
		errors.Is(err, domain.ErrAsyncJobTimeout):
		return true
	}

	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsRateLimited() || apiErr.IsDataTooLarge() || apiErr.IsTransient() {
			return true
		}
		if apiErr.IsTokenExpired() {
			return false
		}
		return apiErr.StatusCode == 0 || apiErr.StatusCode >= 500
	}

	return true
}
