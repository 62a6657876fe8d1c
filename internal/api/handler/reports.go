package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-report-api/pkg/log"
)

// ReportReader é a parte do repositório de relatórios usada pela API
type ReportReader interface {
	GetByUUID(ctx context.Context, reportUUID string) (*domain.Report, error)
}

func GetReport(reports ReportReader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.ForContext(ctx)

		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		reportUUID := httprouter.ParamsFromContext(ctx).ByName("uuid")
		if reportUUID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "UUID do relatório é obrigatório", nil)
			return
		}

		report, err := reports.GetByUUID(ctx, reportUUID)
		if err != nil {
			logger.WithError(err).WithField("report_uuid", reportUUID).Error("Erro ao buscar relatório")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar relatório", nil)
			return
		}

		// relatórios de outra organização respondem como inexistentes
		if report == nil || report.OrganizationUUID != claims.OrganizationUUID {
			apiErrors.WriteError(w, apiErrors.ErrReportNotFound, "Relatório não encontrado", map[string]string{
				"report_uuid": reportUUID,
			})
			return
		}

		writeJSON(w, http.StatusOK, report)
	})
}
