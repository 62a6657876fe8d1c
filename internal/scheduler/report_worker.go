package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/infrastructure/queue"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/internal/usecases/reporting"
)

// JobRunner executa um job de relatório reservado na fila
type JobRunner interface {
	Run(ctx context.Context, job *domain.Job) (*reporting.RunResult, error)
}

// ReportWorkerConfig representa a configuração do consumidor da fila de relatórios
type ReportWorkerConfig struct {
	PollInterval      time.Duration
	MaxConcurrentJobs int
	LeaseTimeout      time.Duration
	Enabled           bool
}

// ReportWorker consome a fila de relatórios em intervalos fixos
type ReportWorker struct {
	scheduler           *gocron.Scheduler
	config              ReportWorkerConfig
	jobQueue            queue.JobQueue
	runner              JobRunner
	pollRunning         bool
	pollMutex           sync.Mutex
	lastPollStartedAt   time.Time
	lastPollCompletedAt time.Time
	completedJobs       int
	failedJobs          int
	now                 func() time.Time
}

func NewReportWorker(jobQueue queue.JobQueue, runner JobRunner, appConfig *config.Config) *ReportWorker {
	workerConfig := ReportWorkerConfig{
		PollInterval:      appConfig.ReportWorker.PollInterval,
		MaxConcurrentJobs: appConfig.ReportWorker.MaxConcurrentJobs,
		LeaseTimeout:      appConfig.Queue.LeaseTimeout,
		Enabled:           appConfig.ReportWorker.Enabled,
	}
	if workerConfig.PollInterval <= 0 {
		workerConfig.PollInterval = 15 * time.Second
	}
	if workerConfig.MaxConcurrentJobs <= 0 {
		workerConfig.MaxConcurrentJobs = 1
	}

	logrus.WithFields(logrus.Fields{
		"poll_interval":       workerConfig.PollInterval.String(),
		"max_concurrent_jobs": workerConfig.MaxConcurrentJobs,
		"worker_enabled":      workerConfig.Enabled,
	}).Info("Configuração do consumidor de relatórios carregada")

	return &ReportWorker{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    workerConfig,
		jobQueue:  jobQueue,
		runner:    runner,
		now:       time.Now,
	}
}

// Start inicia o consumo da fila
func (w *ReportWorker) Start(ctx context.Context) error {
	if !w.config.Enabled {
		logrus.Info("Consumidor de relatórios desabilitado por configuração")
		return nil
	}

	_, err := w.scheduler.Every(w.config.PollInterval).Do(func() {
		w.poll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar consumidor de relatórios: %w", err)
	}

	w.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando consumidor de relatórios")
		w.scheduler.Stop()
	}()

	return nil
}

// poll faz a manutenção da fila e processa um lote de jobs
func (w *ReportWorker) poll(ctx context.Context) {
	w.pollMutex.Lock()
	if w.pollRunning {
		w.pollMutex.Unlock()
		logrus.Debug("Consumo da fila já em andamento, ignorando")
		return
	}
	w.pollRunning = true
	w.lastPollStartedAt = w.now()
	w.pollMutex.Unlock()

	defer func() {
		w.pollMutex.Lock()
		w.pollRunning = false
		w.lastPollCompletedAt = w.now()
		w.pollMutex.Unlock()
	}()

	w.maintain(ctx)

	jobs, err := w.jobQueue.Claim(ctx, w.config.MaxConcurrentJobs)
	if err != nil {
		logrus.WithError(err).Error("Erro ao reservar jobs de relatório")
		return
	}
	if len(jobs) == 0 {
		return
	}

	logrus.WithField("jobs", len(jobs)).Info("Processando jobs de relatório")

	// Claim já limita o lote a MaxConcurrentJobs
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(j *domain.Job) {
			defer wg.Done()
			w.process(ctx, j)
		}(job)
	}
	wg.Wait()
}

// maintain promove recorrências vencidas, recupera reservas expiradas e apaga jobs antigos
func (w *ReportWorker) maintain(ctx context.Context) {
	now := w.now()

	if promoted, err := w.jobQueue.PromoteDue(ctx, now); err != nil {
		logrus.WithError(err).Error("Erro ao promover recorrências vencidas")
	} else if promoted > 0 {
		logrus.WithField("promoted", promoted).Info("Recorrências vencidas enfileiradas")
	}

	if recovered, err := w.jobQueue.RecoverExpired(ctx, now); err != nil {
		logrus.WithError(err).Error("Erro ao recuperar jobs com reserva expirada")
	} else if recovered > 0 {
		logrus.WithField("recovered", recovered).Warn("Jobs com reserva expirada devolvidos à fila")
	}

	if trimmed, err := w.jobQueue.Trim(ctx, now); err != nil {
		logrus.WithError(err).Error("Erro ao remover jobs finalizados antigos")
	} else if trimmed > 0 {
		logrus.WithField("trimmed", trimmed).Debug("Jobs finalizados antigos removidos")
	}
}

func (w *ReportWorker) process(ctx context.Context, job *domain.Job) {
	fields := logrus.Fields{
		"job_id":        job.ID,
		"recurring_key": job.RecurringKey,
		"attempt":       job.AttemptsMade + 1,
		"max_attempts":  job.MaxAttempts,
	}

	runCtx, cancel := context.WithCancel(ctx)
	stopHeartbeat := w.keepLease(runCtx, cancel, job, fields)
	result, runErr := w.runner.Run(runCtx, job)
	stopHeartbeat()
	cancel()

	if runErr != nil {
		retryable := reporting.IsRetryable(runErr)
		failed, err := w.jobQueue.Fail(ctx, job.ID, job.LeaseToken, runErr, retryable)
		if err != nil {
			if errors.Is(err, queue.ErrLeaseLost) {
				logrus.WithFields(fields).WithError(runErr).Warn("Reserva do job perdida, falha não registrada")
				return
			}
			logrus.WithFields(fields).WithError(err).Error("Erro ao registrar falha do job na fila")
			return
		}

		w.count(false)
		entry := logrus.WithFields(fields).WithFields(logrus.Fields{
			"retryable": retryable,
			"status":    failed.Status,
			"error":     runErr.Error(),
		})
		if failed.Status == domain.JobStatusFailed {
			entry.Error("Job de relatório falhou definitivamente")
		} else {
			entry.Warn("Job de relatório falhou, nova tentativa agendada")
		}
		return
	}

	if err := w.jobQueue.Complete(ctx, job.ID, job.LeaseToken); err != nil {
		if errors.Is(err, queue.ErrLeaseLost) {
			logrus.WithFields(fields).Warn("Job concluído, mas já reservado por outro consumidor")
			return
		}
		logrus.WithFields(fields).WithError(err).Error("Erro ao concluir job na fila")
		return
	}

	w.count(true)
	if result != nil && result.Skipped {
		logrus.WithFields(fields).Info("Job de relatório concluído sem geração")
		return
	}
	logrus.WithFields(fields).Info("Job de relatório concluído")
}

// keepLease renova a reserva do job a cada terço do lease. Se a reserva for perdida,
// a execução é cancelada para não rodar em paralelo com outro consumidor.
func (w *ReportWorker) keepLease(ctx context.Context, cancel context.CancelFunc, job *domain.Job, fields logrus.Fields) func() {
	interval := w.config.LeaseTimeout / 3
	if interval <= 0 {
		return func() {}
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := w.jobQueue.Extend(ctx, job.ID, job.LeaseToken)
				if err == nil {
					continue
				}
				if errors.Is(err, queue.ErrLeaseLost) {
					logrus.WithFields(fields).Warn("Reserva do job perdida, interrompendo execução")
					cancel()
					return
				}
				logrus.WithFields(fields).WithError(err).Warn("Erro ao renovar reserva do job")
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func (w *ReportWorker) count(success bool) {
	w.pollMutex.Lock()
	defer w.pollMutex.Unlock()
	if success {
		w.completedJobs++
		return
	}
	w.failedJobs++
}

// TriggerManualSync consome a fila imediatamente, fora do intervalo
func (w *ReportWorker) TriggerManualSync(ctx context.Context) {
	w.pollMutex.Lock()
	if w.pollRunning {
		w.pollMutex.Unlock()
		logrus.Info("Consumo da fila já em andamento, ignorando solicitação manual")
		return
	}
	w.pollMutex.Unlock()

	logrus.Info("Iniciando consumo manual da fila de relatórios")
	go w.poll(context.WithoutCancel(ctx))
}

// GetStatus retorna o status atual do consumidor
func (w *ReportWorker) GetStatus() map[string]any {
	w.pollMutex.Lock()
	defer w.pollMutex.Unlock()

	return map[string]any{
		"worker_enabled":         w.config.Enabled,
		"poll_interval":          w.config.PollInterval.String(),
		"max_concurrent_jobs":    w.config.MaxConcurrentJobs,
		"lease_timeout":          w.config.LeaseTimeout.String(),
		"poll_running":           w.pollRunning,
		"completed_jobs":         w.completedJobs,
		"failed_jobs":            w.failedJobs,
		"last_poll_started_at":   w.lastPollStartedAt,
		"last_poll_completed_at": w.lastPollCompletedAt,
	}
}
