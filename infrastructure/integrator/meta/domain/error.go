package metadomain

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// subcódigo retornado quando a janela pedida excede o que a Graph API processa de forma síncrona
const subcodeDataTooLarge = 1487534

// APIError é o erro de uma chamada à Graph API. Sempre satisfaz errors.Is(err, domain.ErrExternalAPI).
type APIError struct {
	Type         string
	Code         int
	ErrorSubcode int
	Message      string
	FBTraceID    string
	StatusCode   int
}

// NewAPIError monta o erro a partir do corpo; corpos sem o objeto error viram erro genérico do status
func NewAPIError(statusCode int, resp *ErrorResponse) *APIError {
	if resp == nil || (resp.Error.Code == 0 && resp.Error.Message == "") {
		return &APIError{
			Type:       "http",
			Message:    http.StatusText(statusCode),
			StatusCode: statusCode,
		}
	}
	return &APIError{
		Type:         resp.Error.Type,
		Code:         resp.Error.Code,
		ErrorSubcode: resp.Error.ErrorSubcode,
		Message:      resp.Error.Message,
		FBTraceID:    resp.Error.FBTraceID,
		StatusCode:   statusCode,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meta api: status=%d type=%s code=%d subcode=%d fbtrace_id=%s: %s",
		e.StatusCode, e.Type, e.Code, e.ErrorSubcode, e.FBTraceID, e.Message)
}

func (e *APIError) Unwrap() error {
	return domain.ErrExternalAPI
}

// IsRateLimited cobre os limites de aplicação, usuário, conta e de Marketing API (80000-80014)
func (e *APIError) IsRateLimited() bool {
	switch e.Code {
	case 4, 17, 32, 613:
		return true
	}
	if e.Code >= 80000 && e.Code <= 80014 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests
}

// IsDataTooLarge indica consulta grande demais para o caminho síncrono
func (e *APIError) IsDataTooLarge() bool {
	if e.ErrorSubcode == subcodeDataTooLarge {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "reduce the amount of data")
}

// ShouldFallbackToAsync indica que a consulta deve ser refeita pelo caminho assíncrono
func (e *APIError) ShouldFallbackToAsync() bool {
	return e.IsRateLimited() || e.IsDataTooLarge()
}

// IsTokenExpired verifica se o erro é de token expirado.
// O código 190 e os subcódigos 460, 463 e 467 de OAuthException indicam token inválido.
func (e *APIError) IsTokenExpired() bool {
	return e.Code == 190 ||
		(e.Type == "OAuthException" && (e.ErrorSubcode == 460 || e.ErrorSubcode == 463 || e.ErrorSubcode == 467))
}

// IsTransient indica falha do lado da plataforma que pode ser repetida
func (e *APIError) IsTransient() bool {
	if e.StatusCode >= http.StatusInternalServerError {
		return true
	}
	// 1 e 2 são erros temporários de API/serviço
	return e.Code == 1 || e.Code == 2
}
