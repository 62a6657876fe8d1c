package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/internal/usecases/normalizing"
	"github.com/vfg2006/traffic-report-api/internal/usecases/scheduling"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-report-api/pkg/log"
)

func CreateSchedule(service scheduling.ScheduleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req domain.ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}
		if req.ClientUUID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "clientUuid é obrigatório", nil)
			return
		}

		option, err := service.Create(r.Context(), claims.OrganizationUUID, req)
		if err != nil {
			writeScheduleError(r, w, err)
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"schedule_uuid": option.UUID,
			"client_uuid":   option.ClientUUID,
		}).Info("Agendamento criado")

		writeJSON(w, http.StatusCreated, option)
	})
}

func ReplaceSchedule(service scheduling.ScheduleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		scheduleUUID := httprouter.ParamsFromContext(r.Context()).ByName("uuid")

		var req domain.ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		option, err := service.Replace(r.Context(), claims.OrganizationUUID, scheduleUUID, req)
		if err != nil {
			writeScheduleError(r, w, err)
			return
		}

		writeJSON(w, http.StatusOK, option)
	})
}

func GetSchedule(service scheduling.ScheduleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		scheduleUUID := httprouter.ParamsFromContext(r.Context()).ByName("uuid")

		option, err := service.Get(r.Context(), claims.OrganizationUUID, scheduleUUID)
		if err != nil {
			writeScheduleError(r, w, err)
			return
		}

		writeJSON(w, http.StatusOK, option)
	})
}

func DeleteSchedule(service scheduling.ScheduleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		scheduleUUID := httprouter.ParamsFromContext(r.Context()).ByName("uuid")

		if err := service.Delete(r.Context(), claims.OrganizationUUID, scheduleUUID); err != nil {
			writeScheduleError(r, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// RunSchedule enfileira uma execução avulsa com o payload do agendamento
func RunSchedule(service scheduling.ScheduleService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		scheduleUUID := httprouter.ParamsFromContext(r.Context()).ByName("uuid")

		job, err := service.RunNow(r.Context(), claims.OrganizationUUID, scheduleUUID)
		if err != nil {
			writeScheduleError(r, w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"jobId":  job.ID,
			"status": job.Status,
		})
	})
}

func writeScheduleError(r *http.Request, w http.ResponseWriter, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	var scheduleErr *scheduling.ScheduleError
	if errors.As(err, &scheduleErr) {
		if apiErrors.StatusFor(scheduleErr.Code) >= http.StatusInternalServerError {
			logger.Error("Erro ao processar agendamento")
		} else {
			logger.Warn("Agendamento rejeitado")
		}

		var details any
		var selectionErr *normalizing.SelectionError
		if errors.As(err, &selectionErr) {
			details = map[string]any{
				"category": selectionErr.Category,
				"metrics":  selectionErr.Metrics,
			}
		}

		apiErrors.WriteError(w, scheduleErr.Code, scheduleErr.Error(), details)
		return
	}

	logger.Error("Erro inesperado no agendamento")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar agendamento", nil)
}
