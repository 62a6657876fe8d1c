package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const scheduleOptionsTable = "scheduling_options"

var scheduleOptionColumns = []string{
	"uuid",
	"client_uuid",
	"organization_uuid",
	"cron_expression",
	"timezone",
	"frequency",
	"date_preset",
	"review_needed",
	"metric_selection",
	"job_data",
	"queue_job_key",
	"last_run",
	"next_run",
	"created_at",
	"updated_at",
}

type ScheduleOptionRepository interface {
	GetByUUID(ctx context.Context, scheduleUUID string) (*domain.ScheduleOption, error)
	List(ctx context.Context) ([]*domain.ScheduleOption, error)
	ListByClient(ctx context.Context, clientUUID string) ([]*domain.ScheduleOption, error)
	Upsert(ctx context.Context, option *domain.ScheduleOption) error
	UpdateRunTimes(ctx context.Context, scheduleUUID string, lastRun, nextRun *time.Time) error
	Delete(ctx context.Context, scheduleUUID string) error
}

type scheduleOptionRepository struct {
	conn *postgres.Connection
}

func NewScheduleOptionRepository(conn *postgres.Connection) ScheduleOptionRepository {
	return &scheduleOptionRepository{
		conn: conn,
	}
}

func (r *scheduleOptionRepository) GetByUUID(ctx context.Context, scheduleUUID string) (*domain.ScheduleOption, error) {
	query, args, err := squirrel.
		Select(scheduleOptionColumns...).
		From(scheduleOptionsTable).
		Where(squirrel.Eq{"uuid": scheduleUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	option, err := scanScheduleOption(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: erro ao buscar agendamento: %v", domain.ErrPersistence, err)
	}

	return option, nil
}

func (r *scheduleOptionRepository) List(ctx context.Context) ([]*domain.ScheduleOption, error) {
	return r.list(ctx, nil)
}

func (r *scheduleOptionRepository) ListByClient(ctx context.Context, clientUUID string) ([]*domain.ScheduleOption, error) {
	return r.list(ctx, squirrel.Eq{"client_uuid": clientUUID})
}

func (r *scheduleOptionRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*domain.ScheduleOption, error) {
	builder := squirrel.
		Select(scheduleOptionColumns...).
		From(scheduleOptionsTable).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao listar agendamentos: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	options := make([]*domain.ScheduleOption, 0)
	for rows.Next() {
		option, err := scanScheduleOption(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: erro ao escanear agendamento: %v", domain.ErrPersistence, err)
		}
		options = append(options, option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: erro durante a iteração de linhas: %v", domain.ErrPersistence, err)
	}

	return options, nil
}

// Upsert grava o agendamento pelo uuid, gerando um novo quando ausente
func (r *scheduleOptionRepository) Upsert(ctx context.Context, option *domain.ScheduleOption) error {
	if option.UUID == "" {
		option.UUID = uuid.NewString()
	}

	selection, err := json.Marshal(option.MetricSelection)
	if err != nil {
		return fmt.Errorf("erro ao serializar seleção de métricas: %w", err)
	}
	jobData, err := json.Marshal(option.JobData)
	if err != nil {
		return fmt.Errorf("erro ao serializar dados do agendamento: %w", err)
	}

	query, args, err := squirrel.
		Insert(scheduleOptionsTable).
		Columns(
			"uuid",
			"client_uuid",
			"organization_uuid",
			"cron_expression",
			"timezone",
			"frequency",
			"date_preset",
			"review_needed",
			"metric_selection",
			"job_data",
			"queue_job_key",
			"next_run",
		).
		Values(
			option.UUID,
			option.ClientUUID,
			option.OrganizationUUID,
			option.CronExpression,
			option.Timezone,
			string(option.Frequency),
			option.DatePreset,
			option.ReviewNeeded,
			selection,
			jobData,
			option.QueueJobKey,
			option.NextRun,
		).
		Suffix(`
			ON CONFLICT (uuid) DO UPDATE SET
				cron_expression = EXCLUDED.cron_expression,
				timezone = EXCLUDED.timezone,
				frequency = EXCLUDED.frequency,
				date_preset = EXCLUDED.date_preset,
				review_needed = EXCLUDED.review_needed,
				metric_selection = EXCLUDED.metric_selection,
				job_data = EXCLUDED.job_data,
				queue_job_key = EXCLUDED.queue_job_key,
				next_run = EXCLUDED.next_run,
				updated_at = CURRENT_TIMESTAMP
			RETURNING created_at, updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&option.CreatedAt, &option.UpdatedAt); err != nil {
		return fmt.Errorf("%w: erro ao gravar agendamento %s: %v", domain.ErrPersistence, option.UUID, err)
	}

	return nil
}

func (r *scheduleOptionRepository) UpdateRunTimes(ctx context.Context, scheduleUUID string, lastRun, nextRun *time.Time) error {
	query, args, err := squirrel.
		Update(scheduleOptionsTable).
		Set("last_run", lastRun).
		Set("next_run", nextRun).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"uuid": scheduleUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de atualização: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: erro ao atualizar execução do agendamento %s: %v", domain.ErrPersistence, scheduleUUID, err)
	}
	return nil
}

func (r *scheduleOptionRepository) Delete(ctx context.Context, scheduleUUID string) error {
	query, args, err := squirrel.
		Delete(scheduleOptionsTable).
		Where(squirrel.Eq{"uuid": scheduleUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de remoção: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: erro ao remover agendamento %s: %v", domain.ErrPersistence, scheduleUUID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduleOption(row rowScanner) (*domain.ScheduleOption, error) {
	option := &domain.ScheduleOption{}
	var (
		frequency string
		selection []byte
		jobData   []byte
		lastRun   sql.NullTime
		nextRun   sql.NullTime
	)

	if err := row.Scan(
		&option.UUID,
		&option.ClientUUID,
		&option.OrganizationUUID,
		&option.CronExpression,
		&option.Timezone,
		&frequency,
		&option.DatePreset,
		&option.ReviewNeeded,
		&selection,
		&jobData,
		&option.QueueJobKey,
		&lastRun,
		&nextRun,
		&option.CreatedAt,
		&option.UpdatedAt,
	); err != nil {
		return nil, err
	}

	option.Frequency = domain.FrequencyKind(frequency)
	if lastRun.Valid {
		option.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		option.NextRun = &nextRun.Time
	}
	if len(selection) > 0 {
		if err := json.Unmarshal(selection, &option.MetricSelection); err != nil {
			return nil, fmt.Errorf("seleção de métricas inválida: %w", err)
		}
	}
	if len(jobData) > 0 {
		if err := json.Unmarshal(jobData, &option.JobData); err != nil {
			return nil, fmt.Errorf("dados do agendamento inválidos: %w", err)
		}
	}

	return option, nil
}
