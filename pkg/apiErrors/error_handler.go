package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de relatórios e agendamentos (3000-3999)
	ErrClientNotFound    = "REP_001" // Cliente ou contas não encontrados
	ErrInvalidJob        = "REP_002" // Payload de job inválido
	ErrInvalidMetrics    = "REP_003" // Seleção de métricas inválida
	ErrReportExternalAPI = "REP_004" // Falha na API de anúncios
	ErrAsyncJob          = "REP_005" // Job assíncrono de insights falhou
	ErrReportPersistence = "REP_006" // Falha ao gravar relatório
	ErrRunInProgress     = "REP_007" // Relatório do cliente já em geração
	ErrInvalidSchedule   = "REP_008" // Agendamento inválido
	ErrScheduleNotFound  = "REP_009" // Agendamento não encontrado
	ErrScheduleLocked    = "REP_010" // Agendamento em alteração
	ErrQueueOperation    = "REP_011" // Falha ao operar a fila
	ErrReportNotFound    = "REP_012" // Relatório não encontrado
	ErrJobNotFound       = "REP_013" // Job não encontrado
	ErrReportUnknown     = "REP_999" // Falha não classificada

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
	ErrCommunication     = "SRV_004" // Erro de comunicação
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrClientNotFound:        http.StatusNotFound,
	ErrInvalidJob:            http.StatusBadRequest,
	ErrInvalidMetrics:        http.StatusBadRequest,
	ErrReportExternalAPI:     http.StatusBadGateway,
	ErrAsyncJob:              http.StatusBadGateway,
	ErrReportPersistence:     http.StatusInternalServerError,
	ErrRunInProgress:         http.StatusConflict,
	ErrInvalidSchedule:       http.StatusBadRequest,
	ErrScheduleNotFound:      http.StatusNotFound,
	ErrScheduleLocked:        http.StatusConflict,
	ErrQueueOperation:        http.StatusServiceUnavailable,
	ErrReportNotFound:        http.StatusNotFound,
	ErrJobNotFound:           http.StatusNotFound,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor retorna o status HTTP associado ao código
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	WriteErrorWithStatus(w, StatusFor(code), code, message, details)
}

// WriteErrorWithStatus é usado quando o status não decorre do código, como em rotas inexistentes
func WriteErrorWithStatus(w http.ResponseWriter, status int, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
// Útil para quando você quer envolver um erro existente em um erro de API
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
