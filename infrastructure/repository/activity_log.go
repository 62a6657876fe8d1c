package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const activityLogsTable = "activity_logs"

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}

type activityLogRepository struct {
	conn *postgres.Connection
}

func NewActivityLogRepository(conn *postgres.Connection) ActivityLogRepository {
	return &activityLogRepository{
		conn: conn,
	}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.UUID == "" {
		entry.UUID = uuid.NewString()
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("erro ao serializar metadados da atividade: %w", err)
	}

	query, args, err := squirrel.
		Insert(activityLogsTable).
		Columns("uuid", "organization_uuid", "client_uuid", "action", "target_type", "target_uuid", "actor", "metadata").
		Values(entry.UUID, entry.OrganizationUUID, entry.ClientUUID, entry.Action, entry.TargetType, entry.TargetUUID, entry.Actor, metadata).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt); err != nil {
		return fmt.Errorf("%w: erro ao registrar atividade: %v", domain.ErrPersistence, err)
	}
	return nil
}
