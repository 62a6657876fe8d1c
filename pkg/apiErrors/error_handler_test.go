package apiErrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{name: "Token inválido", code: ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "Agendamento não encontrado", code: ErrScheduleNotFound, wantStatus: http.StatusNotFound},
		{name: "Execução em andamento", code: ErrRunInProgress, wantStatus: http.StatusConflict},
		{name: "Fila indisponível", code: ErrQueueOperation, wantStatus: http.StatusServiceUnavailable},
		{name: "Código desconhecido", code: "XYZ_001", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.code, "mensagem", map[string]string{"campo": "valor"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "mensagem", body.Message)
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Equal(t, ErrInternalServer, FromError(nil, ErrQueueOperation).Code)

	apiErr := FromError(errors.New("falhou"), ErrQueueOperation)
	assert.Equal(t, ErrQueueOperation, apiErr.Code)
	assert.Equal(t, "falhou", apiErr.Message)
}
