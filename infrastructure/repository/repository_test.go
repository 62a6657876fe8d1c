package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

func setupMockDB(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return postgres.NewConnectionFromDB(db), mock
}

func TestScheduleOptionRepository_GetByUUID(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewScheduleOptionRepository(conn)

	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows(scheduleOptionColumns).AddRow(
		"s1", "c1", "o1", "30 9 * * MON", "America/Sao_Paulo", "weekly", "last_7d", false,
		[]byte(`{"kpis":[{"name":"spend","enabled":true,"order":0}]}`),
		[]byte(`{"clientUuid":"c1","frequency":"weekly","time":"09:30","dayOfWeek":"Monday","datePreset":"last_7d","reviewNeeded":false,"metrics":null}`),
		"report-schedule:s1", nil, now, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT uuid, client_uuid")).
		WithArgs("s1").
		WillReturnRows(rows)

	option, err := repo.GetByUUID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, option)
	assert.Equal(t, domain.FrequencyWeekly, option.Frequency)
	assert.Nil(t, option.LastRun)
	require.NotNil(t, option.NextRun)
	assert.Equal(t, now, *option.NextRun)
	assert.Equal(t, []string{"spend"}, option.MetricSelection.Enabled(domain.MetricCategoryKPIs))
	assert.Equal(t, "Monday", option.JobData.DayOfWeek)
	assert.Equal(t, "report-schedule:s1", option.QueueJobKey)
}

func TestScheduleOptionRepository_GetByUUID_NaoEncontrado(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewScheduleOptionRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT uuid")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(scheduleOptionColumns))

	option, err := repo.GetByUUID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, option)
}

func TestScheduleOptionRepository_Upsert(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewScheduleOptionRepository(conn)

	now := time.Now()
	next := now.Add(time.Hour)
	option := &domain.ScheduleOption{
		ClientUUID:       "c1",
		OrganizationUUID: "o1",
		CronExpression:   "0 14 15 * *",
		Timezone:         "UTC",
		Frequency:        domain.FrequencyMonthly,
		DatePreset:       "last_30d",
		QueueJobKey:      "report-schedule:novo",
		NextRun:          &next,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO scheduling_options")).
		WithArgs(sqlmock.AnyArg(), "c1", "o1", "0 14 15 * *", "UTC", "monthly", "last_30d", false,
			sqlmock.AnyArg(), sqlmock.AnyArg(), "report-schedule:novo", next).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Upsert(context.Background(), option))
	assert.NotEmpty(t, option.UUID, "uuid gerado quando ausente")
	assert.Equal(t, now, option.CreatedAt)
}

func TestScheduleOptionRepository_Delete_Erro(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewScheduleOptionRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scheduling_options")).
		WithArgs("s1").
		WillReturnError(errors.New("conexão perdida"))

	err := repo.Delete(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
}

func TestReportRepository_SaveByRunID(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewReportRepository(conn)

	now := time.Now()
	report := &domain.Report{
		RunID:            "job-1",
		OrganizationUUID: "o1",
		ClientUUID:       "c1",
		ReportType:       domain.ReportTypeFacebook,
		Accounts: []domain.AccountEntry{
			{AccountID: "act_1", KPIs: domain.NormalizedRow{"spend": 10.0}},
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reports")).
		WithArgs(sqlmock.AnyArg(), "job-1", "o1", "c1", "facebook", jsonArg(`[{"adAccountId":"act_1","kpis":{"spend":10}}]`), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "created_at", "updated_at"}).AddRow("r-original", now, now))

	require.NoError(t, repo.SaveByRunID(context.Background(), report))
	assert.Equal(t, "r-original", report.UUID, "reexecução mantém o uuid original")
}

func TestReportRepository_SaveByRunID_SemRunID(t *testing.T) {
	conn, _ := setupMockDB(t)
	repo := NewReportRepository(conn)

	err := repo.SaveByRunID(context.Background(), &domain.Report{})
	assert.True(t, errors.Is(err, domain.ErrPersistence))
}

func TestReportRepository_AttachArtifact(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "Relatório existente", affected: 1},
		{name: "Relatório inexistente", affected: 0, wantErr: domain.ErrEntityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := setupMockDB(t)
			repo := NewReportRepository(conn)

			mock.ExpectExec(regexp.QuoteMeta("UPDATE reports SET artifact_url = $1")).
				WithArgs("https://cdn/report.pdf", "r1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.AttachArtifact(context.Background(), "r1", "https://cdn/report.pdf")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestReportRepository_GetByUUID(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewReportRepository(conn)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT uuid, run_id")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "run_id", "organization_uuid", "client_uuid", "report_type", "data", "metadata", "artifact_url", "created_at", "updated_at"}).
			AddRow("r1", "job-1", "o1", "c1", "facebook",
				[]byte(`[{"adAccountId":"act_1","kpis":{"spend":10}}]`),
				[]byte(`{"datePreset":"last_7d","reviewNeeded":true,"metricsSelections":{}}`),
				nil, now, now))

	report, err := repo.GetByUUID(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, report.Accounts, 1)
	assert.Equal(t, "act_1", report.Accounts[0].AccountID)
	assert.Nil(t, report.Accounts[0].Ads)
	assert.True(t, report.Metadata.ReviewNeeded)
	assert.Empty(t, report.ArtifactURL)
}

func TestClientRepository(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewClientRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.uuid, c.organization_uuid, c.name FROM organization_clients c")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "organization_uuid", "name"}).AddRow("c1", "o1", "Ótica Centro"))

	mock.ExpectQuery(regexp.QuoteMeta("FROM client_ad_accounts")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"ids"}).AddRow("{act_1,act_2}"))

	client, err := repo.GetByUUID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "o1", client.OrganizationUUID)

	ids, err := repo.ListAdAccountIDs(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"act_1", "act_2"}, ids)
}

func TestOrganizationTokenRepository_NaoEncontrado(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewOrganizationTokenRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("FROM organization_tokens")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"organization_uuid", "token"}))

	token, err := repo.GetByOrganization(context.Background(), "o1")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestActivityLogRepository_Create(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewActivityLogRepository(conn)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO activity_logs")).
		WithArgs(sqlmock.AnyArg(), "o1", "c1", "report_generated", "report", "r1", "system", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	entry := &domain.ActivityLog{
		OrganizationUUID: "o1",
		ClientUUID:       "c1",
		Action:           domain.ActivityActionReportGenerated,
		TargetType:       domain.ActivityTargetReport,
		TargetUUID:       "r1",
		Actor:            domain.ActivityActorSystem,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.UUID)
	assert.Equal(t, now, entry.CreatedAt)
}

// jsonArg compara colunas jsonb pelo conteúdo serializado
type jsonArg string

func (j jsonArg) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	return ok && string(b) == string(j)
}
