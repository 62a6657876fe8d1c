package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const (
	clientsTable          = "organization_clients c"
	clientAdAccountsTable = "client_ad_accounts"
)

type ClientRepository interface {
	GetByUUID(ctx context.Context, clientUUID string) (*domain.Client, error)
	ListAdAccountIDs(ctx context.Context, clientUUID string) ([]string, error)
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) GetByUUID(ctx context.Context, clientUUID string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select("c.uuid, c.organization_uuid, c.name").
		From(clientsTable).
		Where(squirrel.Eq{"c.uuid": clientUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	client := &domain.Client{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&client.UUID, &client.OrganizationUUID, &client.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: erro ao buscar cliente: %v", domain.ErrPersistence, err)
	}

	return client, nil
}

// ListAdAccountIDs retorna as contas de anúncio vinculadas ao cliente, ordenadas
func (r *clientRepository) ListAdAccountIDs(ctx context.Context, clientUUID string) ([]string, error) {
	query, args, err := squirrel.
		Select("COALESCE(array_agg(ad_account_id ORDER BY ad_account_id), '{}')").
		From(clientAdAccountsTable).
		Where(squirrel.Eq{"client_uuid": clientUUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var ids []string
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(pq.Array(&ids)); err != nil {
		return nil, fmt.Errorf("%w: erro ao listar contas do cliente: %v", domain.ErrPersistence, err)
	}

	return ids, nil
}
