package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/traffic-report-api/infrastructure/queue"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-report-api/pkg/log"
)

// recurringJobsID é atendido pela mesma rota de /v1/jobs/:id, já que o
// httprouter não aceita um segmento fixo ao lado de um parâmetro
const recurringJobsID = "recurring"

type jobResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Status       domain.JobStatus `json:"status"`
	AttemptsMade int              `json:"attemptsMade"`
	MaxAttempts  int              `json:"maxAttempts"`
	LastError    string           `json:"lastError,omitempty"`
	RecurringKey string           `json:"recurringKey,omitempty"`
	Payload      domain.ReportJob `json:"payload"`
}

func GetJob(jobQueue queue.JobQueue) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		id := httprouter.ParamsFromContext(ctx).ByName("id")
		if id == recurringJobsID {
			listRecurring(w, r, jobQueue, claims)
			return
		}

		job, err := jobQueue.GetJob(ctx, id)
		if err != nil {
			if errors.Is(err, queue.ErrJobNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Job não encontrado", map[string]string{"job_id": id})
				return
			}
			log.ForContext(ctx).WithError(err).WithField("job_id", id).Error("Erro ao consultar job")
			apiErrors.WriteError(w, apiErrors.ErrQueueOperation, "Erro ao consultar a fila", nil)
			return
		}

		var payload domain.ReportJob
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			log.ForContext(ctx).WithError(err).WithField("job_id", id).Warn("Payload do job ilegível")
		}

		if !isAdmin(claims) && payload.OrganizationUUID != claims.OrganizationUUID {
			apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "Job não encontrado", map[string]string{"job_id": id})
			return
		}

		writeJSON(w, http.StatusOK, jobResponse{
			ID:           job.ID,
			Name:         job.Name,
			Status:       job.Status,
			AttemptsMade: job.AttemptsMade,
			MaxAttempts:  job.MaxAttempts,
			LastError:    job.LastError,
			RecurringKey: job.RecurringKey,
			Payload:      payload,
		})
	})
}

func listRecurring(w http.ResponseWriter, r *http.Request, jobQueue queue.JobQueue, claims *domain.Claims) {
	all, err := jobQueue.ListRecurring(r.Context())
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao listar recorrências")
		apiErrors.WriteError(w, apiErrors.ErrQueueOperation, "Erro ao consultar a fila", nil)
		return
	}

	visible := make([]*domain.RecurringJob, 0, len(all))
	for _, rec := range all {
		if !isAdmin(claims) {
			var payload domain.ReportJob
			if err := json.Unmarshal(rec.Payload, &payload); err != nil || payload.OrganizationUUID != claims.OrganizationUUID {
				continue
			}
		}
		visible = append(visible, rec)
	}

	writeJSON(w, http.StatusOK, visible)
}

// DeleteAllJobs remove todas as recorrências e drena a fila
func DeleteAllJobs(jobQueue queue.JobQueue) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if err := jobQueue.DeleteAll(r.Context()); err != nil {
			logger.WithError(err).Error("Erro ao limpar a fila")
			apiErrors.WriteError(w, apiErrors.ErrQueueOperation, "Erro ao limpar a fila", nil)
			return
		}

		logger.Warn("Fila de relatórios limpa manualmente")
		w.WriteHeader(http.StatusNoContent)
	})
}
