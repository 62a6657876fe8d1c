package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const reportsTable = "reports"

type ReportRepository interface {
	GetByUUID(ctx context.Context, reportUUID string) (*domain.Report, error)
	// SaveByRunID grava o relatório de uma execução; reexecuções do mesmo job sobrescrevem o registro
	SaveByRunID(ctx context.Context, report *domain.Report) error
	AttachArtifact(ctx context.Context, reportUUID, artifactURL string) error
}

type reportRepository struct {
	conn *postgres.Connection
}

func NewReportRepository(conn *postgres.Connection) ReportRepository {
	return &reportRepository{
		conn: conn,
	}
}

func (r *reportRepository) GetByUUID(ctx context.Context, reportUUID string) (*domain.Report, error) {
	query, args, err := squirrel.
		Select(
			"uuid",
			"run_id",
			"organization_uuid",
			"client_uuid",
			"report_type",
			"data",
			"metadata",
			"artifact_url",
			"created_at",
			"updated_at",
		).
		From(reportsTable).
		Where(squirrel.Eq{"uuid": reportUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	report := &domain.Report{}
	var (
		data        []byte
		metadata    []byte
		artifactURL sql.NullString
	)

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&report.UUID,
		&report.RunID,
		&report.OrganizationUUID,
		&report.ClientUUID,
		&report.ReportType,
		&data,
		&metadata,
		&artifactURL,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: erro ao buscar relatório: %v", domain.ErrPersistence, err)
	}

	report.ArtifactURL = artifactURL.String
	if err := json.Unmarshal(data, &report.Accounts); err != nil {
		return nil, fmt.Errorf("%w: dados do relatório inválidos: %v", domain.ErrPersistence, err)
	}
	if err := json.Unmarshal(metadata, &report.Metadata); err != nil {
		return nil, fmt.Errorf("%w: metadados do relatório inválidos: %v", domain.ErrPersistence, err)
	}

	return report, nil
}

func (r *reportRepository) SaveByRunID(ctx context.Context, report *domain.Report) error {
	if report.RunID == "" {
		return fmt.Errorf("%w: relatório sem identificador de execução", domain.ErrPersistence)
	}
	if report.UUID == "" {
		report.UUID = uuid.NewString()
	}

	data, err := json.Marshal(report.Accounts)
	if err != nil {
		return fmt.Errorf("erro ao serializar contas do relatório: %w", err)
	}
	metadata, err := json.Marshal(report.Metadata)
	if err != nil {
		return fmt.Errorf("erro ao serializar metadados do relatório: %w", err)
	}

	query, args, err := squirrel.
		Insert(reportsTable).
		Columns("uuid", "run_id", "organization_uuid", "client_uuid", "report_type", "data", "metadata").
		Values(report.UUID, report.RunID, report.OrganizationUUID, report.ClientUUID, report.ReportType, data, metadata).
		Suffix(`
			ON CONFLICT (run_id) DO UPDATE SET
				data = EXCLUDED.data,
				metadata = EXCLUDED.metadata,
				updated_at = CURRENT_TIMESTAMP
			RETURNING uuid, created_at, updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	// em conflito o uuid original da execução é preservado
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&report.UUID, &report.CreatedAt, &report.UpdatedAt); err != nil {
		return fmt.Errorf("%w: erro ao gravar relatório da execução %s: %v", domain.ErrPersistence, report.RunID, err)
	}

	return nil
}

func (r *reportRepository) AttachArtifact(ctx context.Context, reportUUID, artifactURL string) error {
	query, args, err := squirrel.
		Update(reportsTable).
		Set("artifact_url", artifactURL).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"uuid": reportUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de atualização: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: erro ao anexar artefato ao relatório %s: %v", domain.ErrPersistence, reportUUID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: relatório %s", domain.ErrEntityNotFound, reportUUID)
	}
	return nil
}
