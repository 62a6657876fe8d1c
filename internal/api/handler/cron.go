package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-report-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeWorker     = "worker"
	CronJobTypeReconciler = "reconciler"
	CronJobTypeAll        = "all"
)

// ManualSyncer é uma rotina agendada que também pode ser disparada sob demanda
type ManualSyncer interface {
	TriggerManualSync(ctx context.Context)
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	ReportWorker       ManualSyncer
	ScheduleReconciler ManualSyncer
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		var targets []ManualSyncer
		switch cronType {
		case CronJobTypeWorker:
			targets = append(targets, services.ReportWorker)
		case CronJobTypeReconciler:
			targets = append(targets, services.ScheduleReconciler)
		case CronJobTypeAll:
			targets = append(targets, services.ScheduleReconciler, services.ReportWorker)
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: worker, reconciler, all", nil)
			return
		}

		for _, target := range targets {
			if target == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de cron não disponível", map[string]string{"type": cronType})
				return
			}
		}

		for _, target := range targets {
			target.TriggerManualSync(r.Context())
		}

		log.ForContext(r.Context()).WithField("cron_type", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.ReportWorker != nil {
			status[CronJobTypeWorker] = services.ReportWorker.GetStatus()
		}
		if services.ScheduleReconciler != nil {
			status[CronJobTypeReconciler] = services.ScheduleReconciler.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	})
}
