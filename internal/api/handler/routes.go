package handler

import (
	"net/http"

	"github.com/vfg2006/traffic-report-api/infrastructure/queue"
	"github.com/vfg2006/traffic-report-api/internal/api/handler/router"
	"github.com/vfg2006/traffic-report-api/internal/usecases/scheduling"
	"github.com/vfg2006/traffic-report-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Reports(reports ReportReader) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/:uuid",
			Method:      http.MethodGet,
			Handler:     GetReport(reports),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Schedules(service scheduling.ScheduleService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/schedules",
			Method:      http.MethodPost,
			Handler:     CreateSchedule(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/schedules/:uuid",
			Method:      http.MethodPut,
			Handler:     ReplaceSchedule(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/schedules/:uuid",
			Method:      http.MethodGet,
			Handler:     GetSchedule(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/schedules/:uuid",
			Method:      http.MethodDelete,
			Handler:     DeleteSchedule(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/schedules/:uuid/run",
			Method:      http.MethodPost,
			Handler:     RunSchedule(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

// Jobs expõe a consulta de jobs; /v1/jobs/recurring é resolvido dentro de GetJob
func Jobs(jobQueue queue.JobQueue) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/jobs/:id",
			Method:      http.MethodGet,
			Handler:     GetJob(jobQueue),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/jobs",
			Method:      http.MethodDelete,
			Handler:     DeleteAllJobs(jobQueue),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
