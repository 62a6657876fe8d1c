package reporting

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Sem erro", err: nil, want: false},
		{name: "Entidade não encontrada", err: fmt.Errorf("%w: cliente", domain.ErrEntityNotFound), want: false},
		{name: "Seleção inválida", err: domain.ErrValidation, want: false},
		{name: "Persistência", err: domain.ErrPersistence, want: false},
		{name: "Execução em andamento", err: domain.ErrRunInProgress, want: true},
		{name: "Job assíncrono falhou", err: domain.ErrAsyncJobFailed, want: true},
		{name: "Limite de taxa", err: &metadomain.APIError{Code: 17, StatusCode: http.StatusBadRequest}, want: true},
		{name: "Erro 500 da plataforma", err: &metadomain.APIError{StatusCode: http.StatusInternalServerError}, want: true},
		{name: "Token expirado", err: &metadomain.APIError{Code: 190, StatusCode: http.StatusBadRequest}, want: false},
		{name: "Parâmetro inválido", err: &metadomain.APIError{Code: 100, StatusCode: http.StatusBadRequest}, want: false},
		{name: "Erro de rede", err: errors.New("connection reset by peer"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestRunError(t *testing.T) {
	err := &RunError{Stage: StatePersisted, Code: CodePersistence, Err: domain.ErrPersistence}

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, "REP_006 [persisted]: erro de persistência", err.Error())
	assert.Equal(t, CodeAsyncJob, codeFor(fmt.Errorf("poll: %w", domain.ErrAsyncJobTimeout)))
	assert.Equal(t, CodeExternalAPI, codeFor(&metadomain.APIError{StatusCode: http.StatusBadGateway}))
	assert.Equal(t, CodeUnknown, codeFor(errors.New("x")))
}
