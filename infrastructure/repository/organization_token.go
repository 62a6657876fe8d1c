package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const organizationTokensTable = "organization_tokens"

type OrganizationTokenRepository interface {
	GetByOrganization(ctx context.Context, organizationUUID string) (*domain.OrganizationToken, error)
}

type organizationTokenRepository struct {
	conn *postgres.Connection
}

func NewOrganizationTokenRepository(conn *postgres.Connection) OrganizationTokenRepository {
	return &organizationTokenRepository{
		conn: conn,
	}
}

func (r *organizationTokenRepository) GetByOrganization(ctx context.Context, organizationUUID string) (*domain.OrganizationToken, error) {
	query, args, err := squirrel.
		Select("organization_uuid", "token").
		From(organizationTokensTable).
		Where(squirrel.Eq{"organization_uuid": organizationUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	token := &domain.OrganizationToken{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&token.OrganizationUUID, &token.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: erro ao buscar token da organização: %v", domain.ErrPersistence, err)
	}

	return token, nil
}
