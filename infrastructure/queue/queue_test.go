package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func setupQueue(t *testing.T) (*redisQueue, *miniredis.Miniredis, *testClock) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &testClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	q := &redisQueue{
		client:       client,
		prefix:       "report-queue",
		leaseTimeout: 10 * time.Minute,
		retention:    24 * time.Hour,
		now:          clock.Now,
	}
	return q, mr, clock
}

func reportPayload(client string) domain.ReportJob {
	return domain.ReportJob{ClientUUID: client, DatePreset: "last_30d"}
}

func TestRedisQueue_ReplaceRecurring(t *testing.T) {
	q, _, _ := setupQueue(t)
	ctx := context.Background()
	key := domain.ScheduleRegistrationKey("s1")

	_, err := q.AddRecurringJob(ctx, RecurringSpec{Key: key, Name: domain.JobNameGenerateReport, Payload: reportPayload("c1"), Cron: "30 9 * * MON"})
	require.NoError(t, err)
	_, err = q.AddRecurringJob(ctx, RecurringSpec{Key: "report-schedule:outro", Payload: reportPayload("c2"), Cron: "0 8 * * *"})
	require.NoError(t, err)

	removed, err := q.RemoveRecurring(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = q.AddRecurringJob(ctx, RecurringSpec{Key: key, Name: domain.JobNameGenerateReport, Payload: reportPayload("c1"), Cron: "0 14 15 * *"})
	require.NoError(t, err)

	list, err := q.ListRecurring(ctx)
	require.NoError(t, err)

	var forKey []*domain.RecurringJob
	for _, r := range list {
		if r.Key == key {
			forKey = append(forKey, r)
		}
	}
	require.Len(t, forKey, 1)
	assert.Equal(t, "0 14 15 * *", forKey[0].Cron)
	assert.Len(t, list, 2)
}

func TestRedisQueue_AddSemRemoverDuplica(t *testing.T) {
	q, _, _ := setupQueue(t)
	ctx := context.Background()
	key := domain.ScheduleRegistrationKey("s1")

	_, err := q.AddRecurringJob(ctx, RecurringSpec{Key: key, Payload: reportPayload("c1"), Cron: "30 9 * * MON"})
	require.NoError(t, err)
	_, err = q.AddRecurringJob(ctx, RecurringSpec{Key: key, Payload: reportPayload("c1"), Cron: "0 10 * * MON"})
	require.NoError(t, err)

	list, err := q.ListRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "a fila não deduplica por chave quando o cron muda")

	removed, err := q.RemoveRecurring(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestRedisQueue_AddRecurringJob_Validacao(t *testing.T) {
	q, _, _ := setupQueue(t)
	ctx := context.Background()

	_, err := q.AddRecurringJob(ctx, RecurringSpec{Key: "k", Cron: "not a cron"})
	assert.Error(t, err)

	_, err = q.AddRecurringJob(ctx, RecurringSpec{Key: "k", Cron: "0 9 * * MON", Timezone: "Marte/Olympus"})
	assert.Error(t, err)

	_, err = q.AddRecurringJob(ctx, RecurringSpec{Cron: "0 9 * * MON"})
	assert.Error(t, err)
}

func TestRedisQueue_PromoteDue(t *testing.T) {
	q, _, clock := setupQueue(t)
	ctx := context.Background()

	// segunda-feira 08:00 UTC; próxima execução às 09:30
	r, err := q.AddRecurringJob(ctx, RecurringSpec{
		Key:     "report-schedule:s1",
		Name:    domain.JobNameGenerateReport,
		Payload: reportPayload("c1"),
		Cron:    "30 9 * * MON",
		Policy:  domain.RetryPolicy{Attempts: 3, Backoff: time.Minute},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), r.NextRunAt.UTC())

	n, err := q.PromoteDue(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nada vencido ainda")

	clock.now = time.Date(2025, 3, 10, 9, 31, 0, 0, time.UTC)
	n, err = q.PromoteDue(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// segunda promoção no mesmo instante não duplica
	n, err = q.PromoteDue(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := q.ListRecurring(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, time.Date(2025, 3, 17, 9, 30, 0, 0, time.UTC), list[0].NextRunAt.UTC())

	jobs, err := q.Claim(ctx, 5)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobNameGenerateReport, jobs[0].Name)
	assert.Equal(t, "report-schedule:s1", jobs[0].RecurringKey)
	assert.Equal(t, 3, jobs[0].MaxAttempts)
	assert.Equal(t, domain.JobStatusActive, jobs[0].Status)

	var payload domain.ReportJob
	require.NoError(t, json.Unmarshal(jobs[0].Payload, &payload))
	assert.Equal(t, "c1", payload.ClientUUID)
}

func TestRedisQueue_CicloDeVida(t *testing.T) {
	q, _, clock := setupQueue(t)
	ctx := context.Background()

	job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: 3, Backoff: 5 * time.Second})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)

	claimed, err := q.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	again, err := q.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again, "job ativo não pode ser reservado de novo")

	assert.NotEmpty(t, claimed[0].LeaseToken)

	failed, err := q.Fail(ctx, job.ID, claimed[0].LeaseToken, errors.New("timeout na Graph API"), true)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusDelayed, failed.Status)
	assert.Equal(t, 1, failed.AttemptsMade)
	assert.Equal(t, clock.now.Add(5*time.Second), failed.RunAt)

	claimed, err = q.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, claimed, "backoff ainda não expirou")

	clock.now = clock.now.Add(6 * time.Second)
	claimed, err = q.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	failed, err = q.Fail(ctx, job.ID, claimed[0].LeaseToken, errors.New("timeout na Graph API"), true)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(10*time.Second), failed.RunAt, "backoff dobra a cada tentativa")

	clock.now = clock.now.Add(11 * time.Second)
	claimed, err = q.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, q.Complete(ctx, job.ID, claimed[0].LeaseToken))

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, stored.Status)
	assert.NotNil(t, stored.FinishedAt)
	assert.Equal(t, 2, stored.AttemptsMade)
}

func TestRedisQueue_Fail(t *testing.T) {
	tests := []struct {
		name       string
		attempts   int
		failures   int
		retryable  bool
		wantStatus domain.JobStatus
	}{
		{name: "Erro terminal encerra na primeira falha", attempts: 3, failures: 1, retryable: false, wantStatus: domain.JobStatusFailed},
		{name: "Tentativas esgotadas", attempts: 2, failures: 2, retryable: true, wantStatus: domain.JobStatusFailed},
		{name: "Ainda há tentativas", attempts: 3, failures: 1, retryable: true, wantStatus: domain.JobStatusDelayed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _, clock := setupQueue(t)
			ctx := context.Background()

			job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: tt.attempts, Backoff: time.Second})
			require.NoError(t, err)

			var last *domain.Job
			for i := 0; i < tt.failures; i++ {
				clock.now = clock.now.Add(time.Hour)
				claimed, err := q.Claim(ctx, 1)
				require.NoError(t, err)
				require.Len(t, claimed, 1)
				last, err = q.Fail(ctx, job.ID, claimed[0].LeaseToken, errors.New("falhou"), tt.retryable)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStatus, last.Status)
			assert.Equal(t, "falhou", last.LastError)
		})
	}
}

func TestRedisQueue_RecoverExpired(t *testing.T) {
	q, _, clock := setupQueue(t)
	ctx := context.Background()

	job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: 2, Backoff: time.Second})
	require.NoError(t, err)
	_, err = q.Claim(ctx, 1)
	require.NoError(t, err)

	n, err := q.RecoverExpired(ctx, clock.now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	clock.now = clock.now.Add(11 * time.Minute)
	n, err = q.RecoverExpired(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusDelayed, stored.Status)
	assert.Equal(t, "lease expirado", stored.LastError)
}

func TestRedisQueue_ConclusaoAposLeaseExpirado(t *testing.T) {
	tests := []struct {
		name        string
		reclaimed   bool
		wantErr     error
		wantStatus  domain.JobStatus
		wantClaimed int
	}{
		{
			name:        "Job devolvido à fila e ainda não reservado é concluído",
			wantStatus:  domain.JobStatusCompleted,
			wantClaimed: 0,
		},
		{
			name:       "Job já reservado por outro consumidor não é concluído",
			reclaimed:  true,
			wantErr:    ErrLeaseLost,
			wantStatus: domain.JobStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _, clock := setupQueue(t)
			ctx := context.Background()

			job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: 3})
			require.NoError(t, err)
			first, err := q.Claim(ctx, 1)
			require.NoError(t, err)
			require.Len(t, first, 1)

			clock.now = clock.now.Add(11 * time.Minute)
			n, err := q.RecoverExpired(ctx, clock.now)
			require.NoError(t, err)
			require.Equal(t, 1, n)

			if tt.reclaimed {
				second, err := q.Claim(ctx, 1)
				require.NoError(t, err)
				require.Len(t, second, 1)
				assert.NotEqual(t, first[0].LeaseToken, second[0].LeaseToken)
			}

			err = q.Complete(ctx, job.ID, first[0].LeaseToken)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			stored, err := q.GetJob(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)

			again, err := q.Claim(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, again, tt.wantClaimed, "job concluído não pode voltar a ser reservado")
		})
	}
}

func TestRedisQueue_FalhaSemReserva(t *testing.T) {
	q, _, clock := setupQueue(t)
	ctx := context.Background()

	job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: 3})
	require.NoError(t, err)
	claimed, err := q.Claim(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	clock.now = clock.now.Add(11 * time.Minute)
	_, err = q.RecoverExpired(ctx, clock.now)
	require.NoError(t, err)

	_, err = q.Fail(ctx, job.ID, claimed[0].LeaseToken, errors.New("falhou"), true)
	assert.ErrorIs(t, err, ErrLeaseLost)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AttemptsMade, "falha atrasada não conta outra tentativa")
	assert.Equal(t, "lease expirado", stored.LastError)
}

func TestRedisQueue_Extend(t *testing.T) {
	q, _, clock := setupQueue(t)
	ctx := context.Background()

	job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: 2})
	require.NoError(t, err)
	claimed, err := q.Claim(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	assert.ErrorIs(t, q.Extend(ctx, job.ID, "outro-token"), ErrLeaseLost)

	clock.now = clock.now.Add(8 * time.Minute)
	require.NoError(t, q.Extend(ctx, job.ID, claimed[0].LeaseToken))

	// sem a renovação o lease teria expirado aos 10 minutos
	clock.now = clock.now.Add(8 * time.Minute)
	n, err := q.RecoverExpired(ctx, clock.now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, q.Complete(ctx, job.ID, claimed[0].LeaseToken))
	assert.ErrorIs(t, q.Extend(ctx, job.ID, claimed[0].LeaseToken), ErrLeaseLost)
}

func TestRedisQueue_RemoveJobEDrain(t *testing.T) {
	q, mr, _ := setupQueue(t)
	ctx := context.Background()

	a, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("a"), domain.RetryPolicy{Attempts: 1})
	require.NoError(t, err)
	b, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("b"), domain.RetryPolicy{Attempts: 1})
	require.NoError(t, err)

	require.NoError(t, q.RemoveJob(ctx, a.ID))
	_, err = q.GetJob(ctx, a.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = q.AddRecurringJob(ctx, RecurringSpec{Key: "report-schedule:s1", Cron: "0 9 * * MON"})
	require.NoError(t, err)

	require.NoError(t, q.DeleteAll(ctx))

	_, err = q.GetJob(ctx, b.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	list, err := q.ListRecurring(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, mr.Exists("report-queue:wait"))
}

func TestRedisQueue_Trim(t *testing.T) {
	q, _, clock := setupQueue(t)
	ctx := context.Background()

	job, err := q.AddJob(ctx, domain.JobNameGenerateReport, reportPayload("c1"), domain.RetryPolicy{Attempts: 1})
	require.NoError(t, err)
	claimed, err := q.Claim(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	require.NoError(t, q.Complete(ctx, job.ID, claimed[0].LeaseToken))

	n, err := q.Trim(ctx, clock.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = q.Trim(ctx, clock.now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = q.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), Backoff(0, 1))
	assert.Equal(t, time.Second, Backoff(time.Second, 1))
	assert.Equal(t, 4*time.Second, Backoff(time.Second, 3))
	assert.Equal(t, maxBackoff, Backoff(time.Hour, 20))
}
