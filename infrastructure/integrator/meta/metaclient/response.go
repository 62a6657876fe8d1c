package metaclient

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// ParseErrorResponse tenta parsear um erro da API do Meta
func ParseErrorResponse(body []byte) (*metadomain.ErrorResponse, error) {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// HandleResponse devolve o corpo de respostas 2xx e converte as demais em *metadomain.APIError
func HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler resposta: %v", domain.ErrExternalAPI, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	return nil, handleErrorResponse(resp.StatusCode, body)
}

func handleErrorResponse(statusCode int, body []byte) error {
	errorResp, parseErr := ParseErrorResponse(body)
	if parseErr != nil {
		errorResp = nil
	}
	apiErr := metadomain.NewAPIError(statusCode, errorResp)

	// algumas respostas de token inválido chegam só como texto
	if apiErr.Code == 0 && containsTokenExpirationMessage(string(body)) {
		apiErr.Code = 190
		apiErr.Type = "OAuthException"
		apiErr.Message = strings.TrimSpace(string(body))
	}

	fields := logrus.Fields{
		"status":     statusCode,
		"code":       apiErr.Code,
		"subcode":    apiErr.ErrorSubcode,
		"fbtrace_id": apiErr.FBTraceID,
	}
	if apiErr.IsTokenExpired() {
		logrus.WithFields(fields).Warn("Token da organização expirado ou inválido")
	} else {
		logrus.WithFields(fields).Debug("Erro na resposta da API do Meta")
	}

	return apiErr
}

// containsTokenExpirationMessage verifica se a mensagem contém indicação de token expirado
func containsTokenExpirationMessage(message string) bool {
	return strings.Contains(message, "Error validating access token") ||
		strings.Contains(message, "Session has expired") ||
		strings.Contains(message, "The session has been invalidated")
}
