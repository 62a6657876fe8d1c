package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/infrastructure/queue"
	"github.com/vfg2006/traffic-report-api/infrastructure/repository"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/distlock"
)

// dueGrace tolera disparos do cron levemente adiantados em relação a nextRun
const dueGrace = time.Hour

const registrationKeyPrefix = "report-schedule:"

// SelectionValidator valida a seleção de métricas contra o catálogo
type SelectionValidator interface {
	ValidateSelection(selection domain.MetricSelection) error
}

type ScheduleService interface {
	Create(ctx context.Context, organizationUUID string, req domain.ScheduleRequest) (*domain.ScheduleOption, error)
	Replace(ctx context.Context, organizationUUID, scheduleUUID string, req domain.ScheduleRequest) (*domain.ScheduleOption, error)
	Get(ctx context.Context, organizationUUID, scheduleUUID string) (*domain.ScheduleOption, error)
	Delete(ctx context.Context, organizationUUID, scheduleUUID string) error
	RunNow(ctx context.Context, organizationUUID, scheduleUUID string) (*domain.Job, error)
	MarkRun(ctx context.Context, scheduleUUID string, at time.Time, recurring bool) error
	IsDue(ctx context.Context, scheduleUUID string, now time.Time) (bool, error)
	Reconcile(ctx context.Context) (*ReconcileResult, error)
}

// ReconcileResult resume uma passada do reconciliador
type ReconcileResult struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
	Removed  int `json:"removed"`
}

type scheduleService struct {
	scheduleRepo repository.ScheduleOptionRepository
	clientRepo   repository.ClientRepository
	jobQueue     queue.JobQueue
	locks        distlock.Provider
	validator    SelectionValidator
	queueCfg     config.Queue
	defaultTZ    string
	lockTTL      time.Duration
	now          func() time.Time
}

func NewScheduleService(
	scheduleRepo repository.ScheduleOptionRepository,
	clientRepo repository.ClientRepository,
	jobQueue queue.JobQueue,
	locks distlock.Provider,
	validator SelectionValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		clientRepo:   clientRepo,
		jobQueue:     jobQueue,
		locks:        locks,
		validator:    validator,
		queueCfg:     cfg.Queue,
		defaultTZ:    cfg.Report.DefaultTimezone,
		lockTTL:      time.Minute,
		now:          time.Now,
	}
}

// RecurringPolicy é a política de retentativa das execuções disparadas por cron
func RecurringPolicy(cfg config.Queue) domain.RetryPolicy {
	return domain.RetryPolicy{Attempts: cfg.Attempts, Backoff: cfg.RecurringBackoff}
}

// OneOffPolicy é a política de retentativa das execuções avulsas
func OneOffPolicy(cfg config.Queue) domain.RetryPolicy {
	return domain.RetryPolicy{Attempts: cfg.Attempts, Backoff: cfg.OneOffBackoff}
}

func (s *scheduleService) Create(ctx context.Context, organizationUUID string, req domain.ScheduleRequest) (*domain.ScheduleOption, error) {
	option, err := s.compile(req, nil)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByUUID(ctx, req.ClientUUID)
	if err != nil {
		return nil, NewScheduleError(err, CodeSchedulePersist, "", "erro ao buscar cliente")
	}
	if client == nil || client.OrganizationUUID != organizationUUID {
		return nil, NewScheduleError(domain.ErrEntityNotFound, CodeClientNotFound, "", "cliente "+req.ClientUUID)
	}

	option.UUID = uuid.NewString()
	option.ClientUUID = client.UUID
	option.OrganizationUUID = client.OrganizationUUID
	option.QueueJobKey = domain.ScheduleRegistrationKey(option.UUID)

	err = s.withScheduleLock(ctx, option.UUID, func(ctx context.Context) error {
		if err := s.register(ctx, option); err != nil {
			return err
		}
		if err := s.scheduleRepo.Upsert(ctx, option); err != nil {
			// sem linha persistida a recorrência ficaria órfã
			if _, rmErr := s.jobQueue.RemoveRecurring(ctx, option.QueueJobKey); rmErr != nil {
				logrus.WithFields(logrus.Fields{
					"schedule_uuid": option.UUID,
				}).WithError(rmErr).Warn("Erro ao desfazer registro da recorrência")
			}
			return NewScheduleError(err, CodeSchedulePersist, option.UUID, "erro ao gravar agendamento")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"schedule_uuid": option.UUID,
		"client_uuid":   option.ClientUUID,
		"cron":          option.CronExpression,
		"timezone":      option.Timezone,
	}).Info("Agendamento de relatório criado")

	return option, nil
}

func (s *scheduleService) Replace(ctx context.Context, organizationUUID, scheduleUUID string, req domain.ScheduleRequest) (*domain.ScheduleOption, error) {
	existing, err := s.load(ctx, organizationUUID, scheduleUUID)
	if err != nil {
		return nil, err
	}

	// o cliente de um agendamento não muda
	req.ClientUUID = existing.ClientUUID

	option, err := s.compile(req, existing)
	if err != nil {
		return nil, err
	}

	err = s.withScheduleLock(ctx, scheduleUUID, func(ctx context.Context) error {
		if err := s.register(ctx, option); err != nil {
			return err
		}
		if err := s.scheduleRepo.Upsert(ctx, option); err != nil {
			// a recorrência nova já está ativa; o reconciliador converge quando o banco voltar
			return NewScheduleError(err, CodeSchedulePersist, scheduleUUID, "erro ao gravar agendamento")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"schedule_uuid": option.UUID,
		"cron":          option.CronExpression,
		"previous_cron": existing.CronExpression,
	}).Info("Agendamento de relatório substituído")

	return option, nil
}

func (s *scheduleService) Get(ctx context.Context, organizationUUID, scheduleUUID string) (*domain.ScheduleOption, error) {
	return s.load(ctx, organizationUUID, scheduleUUID)
}

func (s *scheduleService) Delete(ctx context.Context, organizationUUID, scheduleUUID string) error {
	existing, err := s.load(ctx, organizationUUID, scheduleUUID)
	if err != nil {
		return err
	}

	return s.withScheduleLock(ctx, scheduleUUID, func(ctx context.Context) error {
		if _, err := s.jobQueue.RemoveRecurring(ctx, existing.QueueJobKey); err != nil {
			return NewScheduleError(fmt.Errorf("%w: %v", ErrQueueOperation, err), CodeQueueOperation, scheduleUUID, "erro ao remover recorrência")
		}
		if err := s.scheduleRepo.Delete(ctx, scheduleUUID); err != nil {
			return NewScheduleError(err, CodeSchedulePersist, scheduleUUID, "erro ao remover agendamento")
		}

		logrus.WithFields(logrus.Fields{
			"schedule_uuid": scheduleUUID,
		}).Info("Agendamento de relatório removido")
		return nil
	})
}

// RunNow enfileira uma execução avulsa com a configuração do agendamento
func (s *scheduleService) RunNow(ctx context.Context, organizationUUID, scheduleUUID string) (*domain.Job, error) {
	option, err := s.load(ctx, organizationUUID, scheduleUUID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobQueue.AddJob(ctx, domain.JobNameGenerateReport, option.ReportJob(), OneOffPolicy(s.queueCfg))
	if err != nil {
		return nil, NewScheduleError(fmt.Errorf("%w: %v", ErrQueueOperation, err), CodeQueueOperation, scheduleUUID, "erro ao enfileirar execução")
	}

	logrus.WithFields(logrus.Fields{
		"schedule_uuid": scheduleUUID,
		"job_id":        job.ID,
	}).Info("Execução manual enfileirada")

	return job, nil
}

// MarkRun registra a execução. Só disparos recorrentes recalculam a próxima execução;
// uma execução manual atualiza lastRun e mantém o calendário. Agendamentos removidos são ignorados.
func (s *scheduleService) MarkRun(ctx context.Context, scheduleUUID string, at time.Time, recurring bool) error {
	option, err := s.scheduleRepo.GetByUUID(ctx, scheduleUUID)
	if err != nil {
		return err
	}
	if option == nil {
		return nil
	}

	if !recurring {
		return s.scheduleRepo.UpdateRunTimes(ctx, scheduleUUID, &at, option.NextRun)
	}

	next, err := NextRun(option.JobData, at)
	if err != nil {
		return err
	}

	return s.scheduleRepo.UpdateRunTimes(ctx, scheduleUUID, &at, &next)
}

// IsDue indica se o disparo recorrente deve gerar relatório. O cron de frequências
// quinzenais e por intervalo dispara mais vezes que o período; nextRun filtra os excedentes.
func (s *scheduleService) IsDue(ctx context.Context, scheduleUUID string, now time.Time) (bool, error) {
	option, err := s.scheduleRepo.GetByUUID(ctx, scheduleUUID)
	if err != nil {
		return false, err
	}
	if option == nil {
		return false, nil
	}
	return IsDue(option, now), nil
}

func IsDue(option *domain.ScheduleOption, now time.Time) bool {
	switch option.Frequency {
	case domain.FrequencyBiweekly, domain.FrequencyCustom:
		if option.NextRun == nil {
			return true
		}
		return !now.Add(dueGrace).Before(*option.NextRun)
	default:
		return true
	}
}

// Reconcile garante exatamente uma recorrência por agendamento persistido e remove as órfãs
func (s *scheduleService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	options, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	registered, err := s.jobQueue.ListRecurring(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueueOperation, err)
	}

	byKey := make(map[string][]*domain.RecurringJob)
	for _, r := range registered {
		byKey[r.Key] = append(byKey[r.Key], r)
	}

	result := &ReconcileResult{}
	known := make(map[string]struct{}, len(options))

	for _, option := range options {
		result.Checked++
		key := domain.ScheduleRegistrationKey(option.UUID)
		known[key] = struct{}{}

		entries := byKey[key]
		if len(entries) == 1 && entries[0].Cron == option.CronExpression && sameTimezone(entries[0].Timezone, option.Timezone) {
			continue
		}

		option.QueueJobKey = key
		err := s.withScheduleLock(ctx, option.UUID, func(ctx context.Context) error {
			return s.register(ctx, option)
		})
		if err != nil {
			if errors.Is(err, ErrScheduleLocked) {
				// alteração em andamento; a próxima passada confere de novo
				continue
			}
			logrus.WithFields(logrus.Fields{
				"schedule_uuid": option.UUID,
			}).WithError(err).Error("Erro ao reparar recorrência do agendamento")
			continue
		}

		result.Repaired++
		logrus.WithFields(logrus.Fields{
			"schedule_uuid": option.UUID,
			"found":         len(entries),
			"cron":          option.CronExpression,
		}).Warn("Recorrência do agendamento reparada")
	}

	for key := range byKey {
		if !strings.HasPrefix(key, registrationKeyPrefix) {
			continue
		}
		if _, ok := known[key]; ok {
			continue
		}
		if _, err := s.jobQueue.RemoveRecurring(ctx, key); err != nil {
			logrus.WithFields(logrus.Fields{
				"recurring_key": key,
			}).WithError(err).Error("Erro ao remover recorrência órfã")
			continue
		}
		result.Removed++
	}

	return result, nil
}

func sameTimezone(a, b string) bool {
	if a == "" {
		a = "UTC"
	}
	if b == "" {
		b = "UTC"
	}
	return a == b
}

// compile valida a requisição e monta o agendamento; existing preserva identidade e histórico
func (s *scheduleService) compile(req domain.ScheduleRequest, existing *domain.ScheduleOption) (*domain.ScheduleOption, error) {
	if strings.TrimSpace(req.ClientUUID) == "" {
		return nil, newValidationError("clientUuid é obrigatório")
	}
	if strings.TrimSpace(req.DatePreset) == "" {
		return nil, newValidationError("datePreset é obrigatório")
	}
	if s.validator != nil {
		if err := s.validator.ValidateSelection(req.Metrics); err != nil {
			return nil, NewScheduleError(err, CodeInvalidSelection, "", "")
		}
	}
	if req.TimeZone == "" {
		req.TimeZone = s.defaultTZ
	}

	cronExpr, err := ToCron(req)
	if err != nil {
		return nil, err
	}

	next, err := NextRun(req, s.now())
	if err != nil {
		return nil, err
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = domain.FrequencyCron
		req.CronExpression = cronExpr
	}

	option := &domain.ScheduleOption{
		ClientUUID:      req.ClientUUID,
		CronExpression:  cronExpr,
		Timezone:        req.TimeZone,
		Frequency:       frequency,
		DatePreset:      req.DatePreset,
		ReviewNeeded:    req.ReviewNeeded,
		MetricSelection: req.Metrics,
		JobData:         req,
		NextRun:         &next,
	}
	option.JobData.Frequency = frequency

	if existing != nil {
		option.UUID = existing.UUID
		option.OrganizationUUID = existing.OrganizationUUID
		option.QueueJobKey = domain.ScheduleRegistrationKey(existing.UUID)
		option.LastRun = existing.LastRun
		option.CreatedAt = existing.CreatedAt
	}

	return option, nil
}

// register substitui a recorrência do agendamento: remove a anterior antes de adicionar a nova
func (s *scheduleService) register(ctx context.Context, option *domain.ScheduleOption) error {
	if _, err := s.jobQueue.RemoveRecurring(ctx, option.QueueJobKey); err != nil {
		return NewScheduleError(fmt.Errorf("%w: %v", ErrQueueOperation, err), CodeQueueOperation, option.UUID, "erro ao remover recorrência anterior")
	}

	_, err := s.jobQueue.AddRecurringJob(ctx, queue.RecurringSpec{
		Key:      option.QueueJobKey,
		Name:     domain.JobNameGenerateReport,
		Payload:  option.ReportJob(),
		Cron:     option.CronExpression,
		Timezone: option.Timezone,
		Policy:   RecurringPolicy(s.queueCfg),
	})
	if err != nil {
		return NewScheduleError(fmt.Errorf("%w: %v", ErrQueueOperation, err), CodeQueueOperation, option.UUID, "erro ao registrar recorrência")
	}
	return nil
}

func (s *scheduleService) load(ctx context.Context, organizationUUID, scheduleUUID string) (*domain.ScheduleOption, error) {
	option, err := s.scheduleRepo.GetByUUID(ctx, scheduleUUID)
	if err != nil {
		return nil, NewScheduleError(err, CodeSchedulePersist, scheduleUUID, "erro ao buscar agendamento")
	}
	if option == nil || option.OrganizationUUID != organizationUUID {
		return nil, NewScheduleError(domain.ErrEntityNotFound, CodeScheduleNotFound, scheduleUUID, "agendamento "+scheduleUUID)
	}
	return option, nil
}

func (s *scheduleService) withScheduleLock(ctx context.Context, scheduleUUID string, fn func(ctx context.Context) error) error {
	err := distlock.WithLock(ctx, s.locks, "schedule:"+scheduleUUID, s.lockTTL, fn)
	if errors.Is(err, distlock.ErrNotAcquired) {
		return NewScheduleError(ErrScheduleLocked, CodeScheduleLocked, scheduleUUID, "")
	}
	return err
}
