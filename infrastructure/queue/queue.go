package queue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrJobNotFound = errors.New("job não encontrado")

// ErrLeaseLost indica que a reserva do job não pertence mais a quem a está usando
var ErrLeaseLost = errors.New("reserva do job perdida")

// maxBackoff limita o atraso exponencial entre tentativas
const maxBackoff = 6 * time.Hour

// RecurringSpec descreve uma registração repetível
type RecurringSpec struct {
	Key      string
	Name     string
	Payload  any
	Cron     string
	Timezone string
	Policy   domain.RetryPolicy
}

// JobQueue é a fila durável de jobs avulsos e recorrentes.
// A fila não deduplica registrações por payload: substituir uma recorrência
// exige RemoveRecurring antes de AddRecurringJob.
type JobQueue interface {
	AddJob(ctx context.Context, name string, payload any, policy domain.RetryPolicy) (*domain.Job, error)
	AddRecurringJob(ctx context.Context, spec RecurringSpec) (*domain.RecurringJob, error)
	ListRecurring(ctx context.Context) ([]*domain.RecurringJob, error)
	RemoveRecurring(ctx context.Context, key string) (int, error)
	RemoveJob(ctx context.Context, id string) error
	DrainAndClean(ctx context.Context) error
	DeleteAll(ctx context.Context) error
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	PromoteDue(ctx context.Context, now time.Time) (int, error)
	RecoverExpired(ctx context.Context, now time.Time) (int, error)
	Trim(ctx context.Context, now time.Time) (int, error)
	Claim(ctx context.Context, limit int) ([]*domain.Job, error)
	Extend(ctx context.Context, id, leaseToken string) error
	Complete(ctx context.Context, id, leaseToken string) error
	Fail(ctx context.Context, id, leaseToken string, cause error, retryable bool) (*domain.Job, error)
}

type redisQueue struct {
	client       *redis.Client
	prefix       string
	leaseTimeout time.Duration
	retention    time.Duration
	now          func() time.Time
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// advanceScript move a próxima execução de uma recorrência apenas se ninguém a moveu antes
var advanceScript = redis.NewScript(`
	local current = redis.call("zscore", KEYS[1], ARGV[1])
	if current and tonumber(current) == tonumber(ARGV[2]) then
		redis.call("zadd", KEYS[1], ARGV[3], ARGV[1])
		return 1
	end
	return 0
`)

func NewRedisQueue(client *redis.Client, cfg config.Queue) JobQueue {
	return &redisQueue{
		client:       client,
		prefix:       cfg.Name,
		leaseTimeout: cfg.LeaseTimeout,
		retention:    cfg.Retention,
		now:          time.Now,
	}
}

func (q *redisQueue) jobKey(id string) string { return q.prefix + ":job:" + id }
func (q *redisQueue) waitKey() string         { return q.prefix + ":wait" }
func (q *redisQueue) activeKey() string       { return q.prefix + ":active" }
func (q *redisQueue) leaseKey() string        { return q.prefix + ":lease" }
func (q *redisQueue) completedKey() string    { return q.prefix + ":completed" }
func (q *redisQueue) failedKey() string       { return q.prefix + ":failed" }
func (q *redisQueue) repeatKey() string       { return q.prefix + ":repeat" }
func (q *redisQueue) repeatDataKey() string   { return q.prefix + ":repeat:data" }

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func (q *redisQueue) AddJob(ctx context.Context, name string, payload any, policy domain.RetryPolicy) (*domain.Job, error) {
	id, err := utils.GenerateJobID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id do job: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar payload do job: %w", err)
	}

	now := q.now()
	job := newJob(id, name, raw, policy, now)

	if _, err := q.enqueue(ctx, job, false); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_name": job.Name,
	}).Info("Job adicionado à fila")

	return job, nil
}

func newJob(id, name string, payload []byte, policy domain.RetryPolicy, now time.Time) *domain.Job {
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return &domain.Job{
		ID:          id,
		Name:        name,
		Payload:     payload,
		Status:      domain.JobStatusWaiting,
		MaxAttempts: attempts,
		Backoff:     policy.Backoff,
		RunAt:       now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// enqueue grava o job e o coloca na fila de espera. Com onlyIfAbsent, um job
// com o mesmo id já existente não é sobrescrito e retorna false.
func (q *redisQueue) enqueue(ctx context.Context, job *domain.Job, onlyIfAbsent bool) (bool, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar job: %w", err)
	}

	if onlyIfAbsent {
		created, err := q.client.SetNX(ctx, q.jobKey(job.ID), data, 0).Result()
		if err != nil {
			return false, fmt.Errorf("erro ao gravar job %s: %w", job.ID, err)
		}
		if !created {
			return false, nil
		}
		if err := q.client.ZAdd(ctx, q.waitKey(), redis.Z{Score: score(job.RunAt), Member: job.ID}).Err(); err != nil {
			return false, fmt.Errorf("erro ao enfileirar job %s: %w", job.ID, err)
		}
		return true, nil
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.jobKey(job.ID), data, 0)
		pipe.ZAdd(ctx, q.waitKey(), redis.Z{Score: score(job.RunAt), Member: job.ID})
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("erro ao enfileirar job %s: %w", job.ID, err)
	}
	return true, nil
}

func (q *redisQueue) AddRecurringJob(ctx context.Context, spec RecurringSpec) (*domain.RecurringJob, error) {
	if spec.Key == "" {
		return nil, fmt.Errorf("chave da recorrência é obrigatória")
	}

	loc := time.UTC
	if spec.Timezone != "" {
		l, err := time.LoadLocation(spec.Timezone)
		if err != nil {
			return nil, fmt.Errorf("fuso horário inválido %q: %w", spec.Timezone, err)
		}
		loc = l
	}

	schedule, err := cronParser.Parse(spec.Cron)
	if err != nil {
		return nil, fmt.Errorf("expressão cron inválida %q: %w", spec.Cron, err)
	}

	raw, err := json.Marshal(spec.Payload)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar payload da recorrência: %w", err)
	}

	now := q.now()
	recurring := &domain.RecurringJob{
		ID:        spec.Key + ":" + spec.Cron,
		Key:       spec.Key,
		Name:      spec.Name,
		Cron:      spec.Cron,
		Timezone:  loc.String(),
		Payload:   raw,
		Policy:    spec.Policy,
		NextRunAt: schedule.Next(now.In(loc)),
		CreatedAt: now,
	}

	data, err := json.Marshal(recurring)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar recorrência: %w", err)
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, q.repeatDataKey(), recurring.ID, data)
		pipe.ZAdd(ctx, q.repeatKey(), redis.Z{Score: score(recurring.NextRunAt), Member: recurring.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao registrar recorrência %s: %w", recurring.ID, err)
	}

	logrus.WithFields(logrus.Fields{
		"recurring_key": recurring.Key,
		"cron":          recurring.Cron,
		"timezone":      recurring.Timezone,
		"next_run_at":   recurring.NextRunAt,
	}).Info("Recorrência registrada")

	return recurring, nil
}

func (q *redisQueue) ListRecurring(ctx context.Context) ([]*domain.RecurringJob, error) {
	entries, err := q.client.HGetAll(ctx, q.repeatDataKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("erro ao listar recorrências: %w", err)
	}

	list := make([]*domain.RecurringJob, 0, len(entries))
	for id, data := range entries {
		var r domain.RecurringJob
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			logrus.WithFields(logrus.Fields{
				"recurring_id": id,
			}).WithError(err).Warn("Recorrência com dados inválidos ignorada")
			continue
		}
		list = append(list, &r)
	}

	sortRecurring(list)
	return list, nil
}

func sortRecurring(list []*domain.RecurringJob) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Key != list[j].Key {
			return list[i].Key < list[j].Key
		}
		return list[i].ID < list[j].ID
	})
}

// RemoveRecurring remove todas as registrações com a chave informada e retorna quantas existiam
func (q *redisQueue) RemoveRecurring(ctx context.Context, key string) (int, error) {
	all, err := q.ListRecurring(ctx)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, r := range all {
		if r.Key == key {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, q.repeatDataKey(), ids...)
		pipe.ZRem(ctx, q.repeatKey(), members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("erro ao remover recorrência %s: %w", key, err)
	}

	logrus.WithFields(logrus.Fields{
		"recurring_key": key,
		"removed":       len(ids),
	}).Info("Recorrência removida")

	return len(ids), nil
}

func (q *redisQueue) RemoveJob(ctx context.Context, id string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, q.jobKey(id))
		pipe.ZRem(ctx, q.waitKey(), id)
		pipe.ZRem(ctx, q.activeKey(), id)
		pipe.HDel(ctx, q.leaseKey(), id)
		pipe.ZRem(ctx, q.completedKey(), id)
		pipe.ZRem(ctx, q.failedKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("erro ao remover job %s: %w", id, err)
	}
	return nil
}

// DrainAndClean descarta jobs aguardando ou atrasados e limpa os finalizados. Jobs ativos são preservados.
func (q *redisQueue) DrainAndClean(ctx context.Context) error {
	for _, set := range []string{q.waitKey(), q.completedKey(), q.failedKey()} {
		ids, err := q.client.ZRange(ctx, set, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("erro ao ler %s: %w", set, err)
		}

		keys := make([]string, 0, len(ids)+1)
		for _, id := range ids {
			keys = append(keys, q.jobKey(id))
		}
		keys = append(keys, set)

		if err := q.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("erro ao limpar %s: %w", set, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"queue": q.prefix,
	}).Info("Fila drenada e limpa")

	return nil
}

// DeleteAll remove todas as recorrências e depois drena a fila
func (q *redisQueue) DeleteAll(ctx context.Context) error {
	all, err := q.ListRecurring(ctx)
	if err != nil {
		return err
	}

	removed := make(map[string]struct{})
	for _, r := range all {
		if _, done := removed[r.Key]; done {
			continue
		}
		if _, err := q.RemoveRecurring(ctx, r.Key); err != nil {
			return err
		}
		removed[r.Key] = struct{}{}
	}

	return q.DrainAndClean(ctx)
}

func (q *redisQueue) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	data, err := q.client.Get(ctx, q.jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("erro ao buscar job %s: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("erro ao decodificar job %s: %w", id, err)
	}
	return &job, nil
}

func (q *redisQueue) saveJob(ctx context.Context, pipe redis.Pipeliner, job *domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("erro ao serializar job %s: %w", job.ID, err)
	}
	pipe.Set(ctx, q.jobKey(job.ID), data, 0)
	return nil
}

// PromoteDue gera um job para cada recorrência vencida e agenda a próxima execução.
// O id do job é derivado da recorrência e do horário previsto, então duas instâncias
// promovendo a mesma execução geram um único job.
func (q *redisQueue) PromoteDue(ctx context.Context, now time.Time) (int, error) {
	due, err := q.client.ZRangeByScoreWithScores(ctx, q.repeatKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar recorrências vencidas: %w", err)
	}

	promoted := 0
	for _, z := range due {
		id, _ := z.Member.(string)

		data, err := q.client.HGet(ctx, q.repeatDataKey(), id).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				q.client.ZRem(ctx, q.repeatKey(), id)
				continue
			}
			return promoted, fmt.Errorf("erro ao ler recorrência %s: %w", id, err)
		}

		var r domain.RecurringJob
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			logrus.WithFields(logrus.Fields{"recurring_id": id}).WithError(err).Error("Recorrência com dados inválidos")
			continue
		}

		next, err := nextOccurrence(r, now)
		if err != nil {
			logrus.WithFields(logrus.Fields{"recurring_id": id}).WithError(err).Error("Erro ao calcular próxima execução")
			continue
		}

		moved, err := advanceScript.Run(ctx, q.client, []string{q.repeatKey()}, id, int64(z.Score), next.UnixMilli()).Int()
		if err != nil {
			return promoted, fmt.Errorf("erro ao avançar recorrência %s: %w", id, err)
		}
		if moved == 0 {
			continue
		}

		r.NextRunAt = next
		if updated, err := json.Marshal(r); err == nil {
			q.client.HSet(ctx, q.repeatDataKey(), id, updated)
		}

		runAt := time.UnixMilli(int64(z.Score))
		job := newJob(fmt.Sprintf("repeat:%s:%d", r.ID, runAt.UnixMilli()), r.Name, r.Payload, r.Policy, now)
		job.RecurringKey = r.Key

		created, err := q.enqueue(ctx, job, true)
		if err != nil {
			return promoted, err
		}
		if created {
			promoted++
			logrus.WithFields(logrus.Fields{
				"job_id":        job.ID,
				"recurring_key": r.Key,
				"next_run_at":   next,
			}).Info("Execução recorrente enfileirada")
		}
	}

	return promoted, nil
}

func nextOccurrence(r domain.RecurringJob, now time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(r.Cron)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return schedule.Next(now.In(loc)), nil
}

// Claim retira até limit jobs prontos e os marca como ativos com um prazo de lease.
// Cada job reservado recebe um LeaseToken que identifica o consumidor dono da reserva.
func (q *redisQueue) Claim(ctx context.Context, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		return nil, nil
	}

	now := q.now()
	ids, err := q.client.ZRangeByScore(ctx, q.waitKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar jobs prontos: %w", err)
	}

	claimed := make([]*domain.Job, 0, len(ids))
	for _, id := range ids {
		removed, err := q.client.ZRem(ctx, q.waitKey(), id).Result()
		if err != nil {
			return claimed, fmt.Errorf("erro ao reservar job %s: %w", id, err)
		}
		if removed == 0 {
			// outra instância reservou primeiro
			continue
		}

		job, err := q.GetJob(ctx, id)
		if err != nil {
			logrus.WithFields(logrus.Fields{"job_id": id}).WithError(err).Warn("Job reservado sem dados, descartando")
			continue
		}

		token, err := utils.GenerateJobID()
		if err != nil {
			return claimed, fmt.Errorf("erro ao gerar token de reserva: %w", err)
		}

		job.Status = domain.JobStatusActive
		job.UpdatedAt = now
		job.LeaseToken = token

		_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if err := q.saveJob(ctx, pipe, job); err != nil {
				return err
			}
			pipe.HSet(ctx, q.leaseKey(), id, token)
			pipe.ZAdd(ctx, q.activeKey(), redis.Z{Score: score(now.Add(q.leaseTimeout)), Member: id})
			return nil
		})
		if err != nil {
			return claimed, fmt.Errorf("erro ao ativar job %s: %w", id, err)
		}

		claimed = append(claimed, job)
	}

	return claimed, nil
}

// finishScript encerra a reserva e grava o novo estado do job numa única operação.
// Sem a reserva, só conclui um job que voltou para a fila por lease expirado e ainda
// não foi reservado por outro consumidor.
var finishScript = redis.NewScript(`
	local owner = redis.call("hget", KEYS[3], ARGV[1])
	local held = 0
	if ARGV[6] == "1" then
		local lease = redis.call("zscore", KEYS[1], ARGV[1])
		if lease and tonumber(lease) <= tonumber(ARGV[7]) then
			held = redis.call("zrem", KEYS[1], ARGV[1])
		end
	elseif owner == ARGV[2] then
		held = redis.call("zrem", KEYS[1], ARGV[1])
	elseif (not owner) and ARGV[5] == "1" then
		held = redis.call("zrem", KEYS[2], ARGV[1])
	end
	if held == 0 then
		return 0
	end
	redis.call("hdel", KEYS[3], ARGV[1])
	redis.call("set", KEYS[4], ARGV[3])
	redis.call("zadd", KEYS[5], ARGV[4], ARGV[1])
	return 1
`)

// extendScript renova o lease apenas para o dono da reserva
var extendScript = redis.NewScript(`
	if redis.call("hget", KEYS[2], ARGV[1]) == ARGV[2] and redis.call("zscore", KEYS[1], ARGV[1]) then
		redis.call("zadd", KEYS[1], ARGV[3], ARGV[1])
		return 1
	end
	return 0
`)

type finishMode int

const (
	finishOwner finishMode = iota
	finishOwnerOrWaiting
	finishExpired
)

func (q *redisQueue) finish(ctx context.Context, job *domain.Job, token, target string, at time.Time, mode finishMode, now time.Time) (bool, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar job %s: %w", job.ID, err)
	}

	allowWaiting, expired := "0", "0"
	switch mode {
	case finishOwnerOrWaiting:
		allowWaiting = "1"
	case finishExpired:
		expired = "1"
	}

	keys := []string{q.activeKey(), q.waitKey(), q.leaseKey(), q.jobKey(job.ID), target}
	n, err := finishScript.Run(ctx, q.client, keys, job.ID, token, data, int64(score(at)), allowWaiting, expired, now.UnixMilli()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Complete conclui o job reservado com leaseToken. Retorna ErrLeaseLost quando a
// reserva passou para outro consumidor ou o job já foi finalizado.
func (q *redisQueue) Complete(ctx context.Context, id, leaseToken string) error {
	job, err := q.GetJob(ctx, id)
	if err != nil {
		return err
	}

	now := q.now()
	job.Status = domain.JobStatusCompleted
	job.UpdatedAt = now
	job.FinishedAt = &now

	ok, err := q.finish(ctx, job, leaseToken, q.completedKey(), now, finishOwnerOrWaiting, now)
	if err != nil {
		return fmt.Errorf("erro ao concluir job %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLeaseLost, id)
	}
	return nil
}

// Fail registra a falha da tentativa. Erros retentáveis voltam à fila com backoff
// exponencial enquanto houver tentativas; os demais encerram o job como falho.
func (q *redisQueue) Fail(ctx context.Context, id, leaseToken string, cause error, retryable bool) (*domain.Job, error) {
	return q.fail(ctx, id, leaseToken, cause, retryable, finishOwner)
}

func (q *redisQueue) fail(ctx context.Context, id, leaseToken string, cause error, retryable bool, mode finishMode) (*domain.Job, error) {
	job, err := q.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	now := q.now()
	job.AttemptsMade++
	job.UpdatedAt = now
	if cause != nil {
		job.LastError = cause.Error()
	}

	retry := retryable && job.AttemptsMade < job.MaxAttempts
	target, at := q.failedKey(), now
	if retry {
		job.Status = domain.JobStatusDelayed
		job.RunAt = now.Add(Backoff(job.Backoff, job.AttemptsMade))
		target, at = q.waitKey(), job.RunAt
	} else {
		job.Status = domain.JobStatusFailed
		job.FinishedAt = &now
	}

	ok, err := q.finish(ctx, job, leaseToken, target, at, mode, now)
	if err != nil {
		return nil, fmt.Errorf("erro ao registrar falha do job %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLeaseLost, id)
	}

	fields := logrus.Fields{
		"job_id":        job.ID,
		"attempts_made": job.AttemptsMade,
		"max_attempts":  job.MaxAttempts,
		"retryable":     retryable,
	}
	if retry {
		logrus.WithFields(fields).WithField("run_at", job.RunAt).Warn("Job falhou, nova tentativa agendada")
	} else {
		logrus.WithFields(fields).WithError(cause).Error("Job falhou definitivamente")
	}

	return job, nil
}

// Extend renova o lease de um job em execução
func (q *redisQueue) Extend(ctx context.Context, id, leaseToken string) error {
	until := q.now().Add(q.leaseTimeout)
	n, err := extendScript.Run(ctx, q.client, []string{q.activeKey(), q.leaseKey()}, id, leaseToken, until.UnixMilli()).Int()
	if err != nil {
		return fmt.Errorf("erro ao renovar reserva do job %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLeaseLost, id)
	}
	return nil
}

// Backoff calcula base * 2^(attempt-1), limitado a maxBackoff
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt <= 0 {
		return 0
	}
	factor := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(base) * factor)
	if delay <= 0 || delay > maxBackoff {
		return maxBackoff
	}
	return delay
}

// RecoverExpired devolve à fila jobs ativos cujo lease expirou, contando como uma tentativa
func (q *redisQueue) RecoverExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := q.client.ZRangeByScore(ctx, q.activeKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar jobs com lease expirado: %w", err)
	}

	recovered := 0
	for _, id := range ids {
		if _, err := q.fail(ctx, id, "", errors.New("lease expirado"), true, finishExpired); err != nil {
			if errors.Is(err, ErrJobNotFound) {
				q.client.ZRem(ctx, q.activeKey(), id)
				q.client.HDel(ctx, q.leaseKey(), id)
				continue
			}
			if errors.Is(err, ErrLeaseLost) {
				// renovado ou finalizado depois da leitura
				continue
			}
			return recovered, err
		}
		recovered++
	}
	return recovered, nil
}

// Trim remove jobs finalizados há mais tempo que a retenção configurada
func (q *redisQueue) Trim(ctx context.Context, now time.Time) (int, error) {
	if q.retention <= 0 {
		return 0, nil
	}
	cutoff := strconv.FormatInt(now.Add(-q.retention).UnixMilli(), 10)

	total := 0
	for _, set := range []string{q.completedKey(), q.failedKey()} {
		ids, err := q.client.ZRangeByScore(ctx, set, &redis.ZRangeBy{Min: "-inf", Max: cutoff}).Result()
		if err != nil {
			return total, fmt.Errorf("erro ao buscar jobs antigos: %w", err)
		}
		if len(ids) == 0 {
			continue
		}

		keys := make([]string, len(ids))
		members := make([]any, len(ids))
		for i, id := range ids {
			keys[i] = q.jobKey(id)
			members[i] = id
		}

		_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			pipe.ZRem(ctx, set, members...)
			return nil
		})
		if err != nil {
			return total, fmt.Errorf("erro ao remover jobs antigos: %w", err)
		}
		total += len(ids)
	}
	return total, nil
}
