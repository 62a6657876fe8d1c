package main

import (
	"context"
	"database/sql"
	"flag"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/config"
)

// schema é aplicado em ordem; todos os comandos são idempotentes
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organization_clients (
		uuid              UUID PRIMARY KEY,
		organization_uuid UUID NOT NULL,
		name              TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS organization_clients_org_idx ON organization_clients (organization_uuid)`,
	`CREATE TABLE IF NOT EXISTS client_ad_accounts (
		client_uuid   UUID NOT NULL REFERENCES organization_clients (uuid) ON DELETE CASCADE,
		ad_account_id TEXT NOT NULL,
		PRIMARY KEY (client_uuid, ad_account_id)
	)`,
	`CREATE TABLE IF NOT EXISTS organization_tokens (
		organization_uuid UUID PRIMARY KEY,
		token             TEXT NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS scheduling_options (
		uuid              UUID PRIMARY KEY,
		client_uuid       UUID NOT NULL REFERENCES organization_clients (uuid) ON DELETE CASCADE,
		organization_uuid UUID NOT NULL,
		cron_expression   TEXT NOT NULL,
		timezone          TEXT NOT NULL DEFAULT 'UTC',
		frequency         TEXT NOT NULL,
		date_preset       TEXT NOT NULL,
		review_needed     BOOLEAN NOT NULL DEFAULT FALSE,
		metric_selection  JSONB NOT NULL DEFAULT '{}'::jsonb,
		job_data          JSONB NOT NULL DEFAULT '{}'::jsonb,
		queue_job_key     TEXT,
		last_run          TIMESTAMPTZ,
		next_run          TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS scheduling_options_client_idx ON scheduling_options (client_uuid)`,
	`CREATE TABLE IF NOT EXISTS reports (
		uuid              UUID PRIMARY KEY,
		run_id            TEXT NOT NULL UNIQUE,
		organization_uuid UUID NOT NULL,
		client_uuid       UUID NOT NULL REFERENCES organization_clients (uuid) ON DELETE CASCADE,
		report_type       TEXT NOT NULL,
		data              JSONB NOT NULL,
		metadata          JSONB NOT NULL,
		artifact_url      TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS reports_client_idx ON reports (client_uuid, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		uuid              UUID PRIMARY KEY,
		organization_uuid UUID NOT NULL,
		client_uuid       UUID,
		action            TEXT NOT NULL,
		target_type       TEXT NOT NULL,
		target_uuid       TEXT NOT NULL,
		actor             TEXT NOT NULL,
		metadata          JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

type seed struct {
	organizationUUID string
	clientName       string
	accounts         []string
	token            string
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})

	var (
		organizationUUID = flag.String("org", "", "organização do cliente de exemplo (vazio não semeia)")
		clientName       = flag.String("client", "Cliente de exemplo", "nome do cliente de exemplo")
		accounts         = flag.String("accounts", "", "contas de anúncio do cliente, separadas por vírgula")
		token            = flag.String("token", "", "token da plataforma de anúncios da organização")
	)
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()
	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := applySchema(ctx, tx); err != nil {
			return err
		}
		if *organizationUUID == "" {
			return nil
		}
		return seedClient(ctx, tx, seed{
			organizationUUID: *organizationUUID,
			clientName:       *clientName,
			accounts:         splitAccounts(*accounts),
			token:            *token,
		})
	})
	if err != nil {
		logrus.WithError(err).Fatal("Migração revertida")
	}

	logrus.WithField("duration", time.Since(startTime).String()).Info("Migração concluída")
}

func applySchema(ctx context.Context, tx *sql.Tx) error {
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			logrus.WithFields(logrus.Fields{
				"statement": i + 1,
				"total":     len(schema),
			}).WithError(err).Error("Erro ao aplicar o schema")
			return err
		}
	}
	logrus.WithField("statements", len(schema)).Info("Schema aplicado")
	return nil
}

func seedClient(ctx context.Context, tx *sql.Tx, s seed) error {
	clientUUID := uuid.NewString()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO organization_clients (uuid, organization_uuid, name) VALUES ($1, $2, $3)`,
		clientUUID, s.organizationUUID, s.clientName,
	); err != nil {
		return err
	}

	for _, account := range s.accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO client_ad_accounts (client_uuid, ad_account_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			clientUUID, account,
		); err != nil {
			return err
		}
	}

	if s.token != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO organization_tokens (organization_uuid, token) VALUES ($1, $2)
			 ON CONFLICT (organization_uuid) DO UPDATE SET token = EXCLUDED.token, updated_at = CURRENT_TIMESTAMP`,
			s.organizationUUID, s.token,
		); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"client_uuid":       clientUUID,
		"organization_uuid": s.organizationUUID,
		"accounts":          len(s.accounts),
	}).Info("Cliente de exemplo criado")

	return nil
}

func splitAccounts(raw string) []string {
	var accounts []string
	for _, a := range strings.Split(raw, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if !strings.HasPrefix(a, "act_") {
			a = "act_" + a
		}
		accounts = append(accounts, a)
	}
	return accounts
}
