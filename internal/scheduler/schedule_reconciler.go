package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/usecases/scheduling"
)

// Reconciler converge as recorrências da fila com os agendamentos gravados
type Reconciler interface {
	Reconcile(ctx context.Context) (*scheduling.ReconcileResult, error)
}

// ScheduleReconciler executa a reconciliação periodicamente
type ScheduleReconciler struct {
	scheduler    *gocron.Scheduler
	cronSchedule string
	enabled      bool
	reconciler   Reconciler
	running      bool
	mutex        sync.Mutex
	lastRunAt    time.Time
	lastResult   *scheduling.ReconcileResult
	lastError    string
}

func NewScheduleReconciler(reconciler Reconciler, appConfig *config.Config) *ScheduleReconciler {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":      appConfig.ScheduleReconciler.CronSchedule,
		"reconciler_enabled": appConfig.ScheduleReconciler.Enabled,
	}).Info("Configuração do reconciliador de agendamentos carregada")

	return &ScheduleReconciler{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.ScheduleReconciler.CronSchedule,
		enabled:      appConfig.ScheduleReconciler.Enabled,
		reconciler:   reconciler,
	}
}

// Start agenda a reconciliação e executa uma passada imediata
func (s *ScheduleReconciler) Start(ctx context.Context) error {
	if !s.enabled {
		logrus.Info("Reconciliador de agendamentos desabilitado por configuração")
		return nil
	}

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.reconcile(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reconciliador de agendamentos: %w", err)
	}

	s.scheduler.StartAsync()
	go s.reconcile(ctx)

	go func() {
		<-ctx.Done()
		logrus.Info("Parando reconciliador de agendamentos")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ScheduleReconciler) reconcile(ctx context.Context) {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		logrus.Info("Reconciliação de agendamentos já em andamento, ignorando")
		return
	}
	s.running = true
	s.mutex.Unlock()

	startTime := time.Now()
	result, err := s.reconciler.Reconcile(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.running = false
	s.lastRunAt = startTime

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro ao reconciliar agendamentos")
		return
	}

	s.lastError = ""
	s.lastResult = result
	logrus.WithFields(logrus.Fields{
		"checked":  result.Checked,
		"repaired": result.Repaired,
		"removed":  result.Removed,
		"duration": time.Since(startTime).String(),
	}).Info("Reconciliação de agendamentos concluída")
}

// TriggerManualSync dispara uma reconciliação imediata
func (s *ScheduleReconciler) TriggerManualSync(ctx context.Context) {
	logrus.Info("Iniciando reconciliação manual de agendamentos")
	go s.reconcile(context.WithoutCancel(ctx))
}

// GetStatus retorna o status atual do reconciliador
func (s *ScheduleReconciler) GetStatus() map[string]any {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return map[string]any{
		"reconciler_enabled": s.enabled,
		"reconciler_cron":    s.cronSchedule,
		"running":            s.running,
		"last_run_at":        s.lastRunAt,
		"last_result":        s.lastResult,
		"last_error":         s.lastError,
	}
}
