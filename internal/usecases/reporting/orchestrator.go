package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta"
	"github.com/vfg2006/traffic-report-api/infrastructure/repository"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/internal/usecases/insighting"
	"github.com/vfg2006/traffic-report-api/internal/usecases/normalizing"
	"github.com/vfg2006/traffic-report-api/internal/usecases/ranking"
	"github.com/vfg2006/traffic-report-api/pkg/distlock"
	"github.com/vfg2006/traffic-report-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	runLockPrefix   = "report-run:"
	pdfContentType  = "application/pdf"
	defaultLockTTL  = 30 * time.Minute
	artifactKeyDate = "2006-01-02"
)

// Dependencies reúne os colaboradores de uma execução
type Dependencies struct {
	Clients    repository.ClientRepository
	Reports    repository.ReportRepository
	Activities repository.ActivityLogRepository
	Schedules  ScheduleTracker
	Sources    insighting.SourceFactory
	Normalizer *normalizing.Normalizer
	Renderer   Renderer
	Storage    ArtifactStorage
	Notifier   Notifier
	Locks      distlock.Provider
}

// RunResult descreve o desfecho de uma execução
type RunResult struct {
	RunID   string
	State   State
	Report  *domain.Report
	Skipped bool
}

type Orchestrator struct {
	deps Dependencies
	cfg  *config.Config
	now  func() time.Time
}

func NewOrchestrator(deps Dependencies, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		deps: deps,
		cfg:  cfg,
		now:  time.Now,
	}
}

// execution acompanha a etapa corrente de uma execução
type execution struct {
	runID     string
	job       domain.ReportJob
	recurring bool
	state     State
	logger    log.Logger
}

func (e *execution) advance(state State) {
	e.state = state
	e.logger.WithField("stage", state).Debug("Etapa do relatório concluída")
}

func (e *execution) fail(stage State, err error) error {
	e.state = StateFailed
	wrapped := errors.Wrapf(err, "etapa %s", stage)
	e.logger.WithFields(log.Fields{
		"stage": stage,
		"error": err.Error(),
	}).Error("Falha na geração do relatório")
	return &RunError{Stage: stage, Code: codeFor(err), Err: wrapped}
}

// Run executa um job de relatório. O identificador do job é o identificador da execução,
// então uma nova tentativa do mesmo job sobrescreve o relatório já gravado.
func (o *Orchestrator) Run(ctx context.Context, job *domain.Job) (*RunResult, error) {
	ctx = log.ContextWithCorrelationID(ctx, job.ID)

	exec := &execution{
		runID:     job.ID,
		recurring: job.RecurringKey != "",
		state:     StateStarted,
		logger: log.ForContext(ctx).WithFields(log.Fields{
			"job_id":        job.ID,
			"recurring_key": job.RecurringKey,
		}),
	}

	if err := json.Unmarshal(job.Payload, &exec.job); err != nil {
		return o.failed(exec, StateStarted, fmt.Errorf("%w: payload do job inválido: %v", domain.ErrValidation, err))
	}
	if exec.job.ClientUUID == "" || exec.job.OrganizationUUID == "" {
		return o.failed(exec, StateStarted, fmt.Errorf("%w: job sem cliente ou organização", domain.ErrValidation))
	}
	exec.logger = exec.logger.WithFields(log.Fields{
		"client_uuid":       exec.job.ClientUUID,
		"organization_uuid": exec.job.OrganizationUUID,
		"schedule_uuid":     exec.job.ScheduleUUID,
	})

	if job.RecurringKey != "" && exec.job.ScheduleUUID != "" {
		due, err := o.deps.Schedules.IsDue(ctx, exec.job.ScheduleUUID, o.now())
		if err != nil {
			return o.failed(exec, StateStarted, err)
		}
		if !due {
			exec.logger.Info("Disparo recorrente fora do período do agendamento, ignorando")
			return &RunResult{RunID: job.ID, State: StateCompleted, Skipped: true}, nil
		}
	}

	ttl := o.cfg.Report.RunLockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	var result *RunResult
	err := distlock.WithLock(ctx, o.deps.Locks, runLockPrefix+exec.job.ClientUUID, ttl, func(ctx context.Context) error {
		var runErr error
		result, runErr = o.execute(ctx, exec)
		return runErr
	})
	if errors.Is(err, distlock.ErrNotAcquired) {
		return o.failed(exec, StateStarted, fmt.Errorf("%w: cliente %s", domain.ErrRunInProgress, exec.job.ClientUUID))
	}
	if err != nil {
		var runErr *RunError
		if !errors.As(err, &runErr) {
			return o.failed(exec, exec.state, err)
		}
		return &RunResult{RunID: job.ID, State: StateFailed}, err
	}

	return result, nil
}

func (o *Orchestrator) failed(exec *execution, stage State, err error) (*RunResult, error) {
	return &RunResult{RunID: exec.runID, State: StateFailed}, exec.fail(stage, err)
}

func (o *Orchestrator) execute(ctx context.Context, exec *execution) (*RunResult, error) {
	job := exec.job
	exec.logger.Info("Iniciando geração de relatório")

	client, err := o.deps.Clients.GetByUUID(ctx, job.ClientUUID)
	if err == nil && (client == nil || client.OrganizationUUID != job.OrganizationUUID) {
		err = fmt.Errorf("%w: cliente %s", domain.ErrEntityNotFound, job.ClientUUID)
	}
	if err != nil {
		return nil, exec.fail(StateClientResolved, err)
	}
	exec.advance(StateClientResolved)

	if err := o.deps.Normalizer.Catalog().ValidateSelection(job.MetricSelection); err != nil {
		return nil, exec.fail(StateAccountsFetched, err)
	}

	accountIDs := job.AccountRefs
	if len(accountIDs) == 0 {
		accountIDs, err = o.deps.Clients.ListAdAccountIDs(ctx, client.UUID)
		if err != nil {
			return nil, exec.fail(StateAccountsFetched, err)
		}
	}
	if len(accountIDs) == 0 {
		return nil, exec.fail(StateAccountsFetched, fmt.Errorf("%w: cliente %s sem contas de anúncio", domain.ErrEntityNotFound, client.UUID))
	}
	exec.logger.WithField("accounts", len(accountIDs)).Info("Contas de anúncio do cliente resolvidas")
	exec.advance(StateAccountsFetched)

	source, err := o.deps.Sources.ForOrganization(ctx, job.OrganizationUUID)
	if err != nil {
		return nil, exec.fail(StatePerAccountFetched, err)
	}

	opts := domain.InsightOptions{DatePreset: job.DatePreset}
	raws, err := o.fetchAccounts(ctx, source, accountIDs, job.MetricSelection, opts)
	if err != nil {
		return nil, exec.fail(StatePerAccountFetched, err)
	}
	exec.advance(StatePerAccountFetched)

	topK := o.cfg.Report.TopAds
	for _, raw := range raws {
		if raw.Ads != nil {
			raw.Ads = ranking.TopK(raw.Ads, ranking.AdRankingField, topK)
		}
	}
	exec.advance(StateRanked)

	if err := o.resolveAssets(ctx, source, raws); err != nil {
		return nil, exec.fail(StateAssetsResolved, err)
	}
	exec.advance(StateAssetsResolved)

	entries, err := o.normalize(raws, job.MetricSelection)
	if err != nil {
		return nil, exec.fail(StateNormalized, err)
	}
	exec.advance(StateNormalized)

	report := &domain.Report{
		UUID:             uuid.NewString(),
		RunID:            exec.runID,
		OrganizationUUID: job.OrganizationUUID,
		ClientUUID:       job.ClientUUID,
		ReportType:       domain.ReportTypeFacebook,
		Accounts:         entries,
		Metadata: domain.ReportMetadata{
			DatePreset:        job.DatePreset,
			ReviewNeeded:      job.ReviewNeeded,
			MetricsSelections: job.MetricSelection,
			Messages:          job.Messages,
		},
	}
	if err := o.deps.Reports.SaveByRunID(ctx, report); err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil, exec.fail(StatePersisted, err)
	}
	exec.logger = exec.logger.WithField("report_uuid", report.UUID)
	exec.advance(StatePersisted)

	if job.ScheduleUUID != "" {
		if err := o.deps.Schedules.MarkRun(ctx, job.ScheduleUUID, o.now(), exec.recurring); err != nil {
			exec.logger.WithError(err).Warn("Erro ao atualizar última execução do agendamento")
		}
	}

	if !job.ReviewNeeded {
		if o.generateArtifact(ctx, exec, report) {
			exec.advance(StateArtifactGenerated)
		}
	}

	o.notify(ctx, exec, report)
	exec.advance(StateNotified)

	o.recordActivity(ctx, exec, report)

	exec.advance(StateCompleted)
	exec.logger.Info("Relatório gerado com sucesso")

	return &RunResult{RunID: exec.runID, State: StateCompleted, Report: report}, nil
}

// fetchAccounts busca as contas em paralelo respeitando o limite configurado
func (o *Orchestrator) fetchAccounts(
	ctx context.Context,
	source insighting.AccountSource,
	accountIDs []string,
	selection domain.MetricSelection,
	opts domain.InsightOptions,
) ([]*domain.AccountRawData, error) {
	raws := make([]*domain.AccountRawData, len(accountIDs))

	g, gctx := errgroup.WithContext(ctx)
	if limit := o.cfg.Insights.MaxConcurrentAccounts; limit > 0 {
		g.SetLimit(limit)
	}
	for i, accountID := range accountIDs {
		i, accountID := i, accountID
		g.Go(func() error {
			raw, err := source.FetchAccount(gctx, accountID, selection, opts)
			if err != nil {
				return err
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raws, nil
}

// resolveAssets troca os anúncios ranqueados pelos registros achatados com a mídia do criativo
func (o *Orchestrator) resolveAssets(ctx context.Context, source insighting.AccountSource, raws []*domain.AccountRawData) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit := o.cfg.Insights.MaxConcurrentAccounts; limit > 0 {
		g.SetLimit(limit)
	}
	for _, raw := range raws {
		if len(raw.Ads) == 0 {
			continue
		}
		raw := raw
		g.Go(func() error {
			assets, err := source.ResolveCreatives(gctx, raw.AccountID, raw.Ads)
			if err != nil {
				return err
			}
			flat := make([]domain.RawInsightRecord, 0, len(raw.Ads))
			for _, ad := range raw.Ads {
				flat = append(flat, meta.FlattenAdRecord(ad, assets[ad.String("id")]))
			}
			raw.Ads = flat
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) normalize(raws []*domain.AccountRawData, selection domain.MetricSelection) ([]domain.AccountEntry, error) {
	normalizer := o.deps.Normalizer
	entries := make([]domain.AccountEntry, 0, len(raws))

	for _, raw := range raws {
		entry := domain.AccountEntry{AccountID: raw.AccountID}

		if records, ok := raw.Section(domain.MetricCategoryKPIs); ok {
			row, err := normalizer.NormalizeSingle(records, selection.Enabled(domain.MetricCategoryKPIs), normalizing.MandatoryKeys(domain.MetricCategoryKPIs))
			if err != nil {
				return nil, err
			}
			entry.KPIs = row
		}

		for _, category := range []domain.MetricCategory{domain.MetricCategoryAds, domain.MetricCategoryCampaigns, domain.MetricCategoryGraphs} {
			records, ok := raw.Section(category)
			if !ok {
				continue
			}
			rows, err := normalizer.Normalize(records, selection.Enabled(category), normalizing.MandatoryKeys(category))
			if err != nil {
				return nil, err
			}
			switch category {
			case domain.MetricCategoryAds:
				entry.Ads = rows
			case domain.MetricCategoryCampaigns:
				entry.Campaigns = rows
			case domain.MetricCategoryGraphs:
				entry.Graphs = rows
			}
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// generateArtifact renderiza, envia e anexa o PDF. Falhas aqui não desfazem o relatório gravado.
func (o *Orchestrator) generateArtifact(ctx context.Context, exec *execution, report *domain.Report) bool {
	if o.deps.Renderer == nil || o.deps.Storage == nil {
		return false
	}

	pdf, err := o.deps.Renderer.Render(ctx, report)
	if err != nil {
		exec.logger.WithError(err).Error("Erro ao renderizar PDF do relatório")
		return false
	}

	url, err := o.deps.Storage.Upload(ctx, ArtifactKey(report, o.now()), pdf, pdfContentType)
	if err != nil {
		exec.logger.WithError(err).Error("Erro ao enviar PDF do relatório")
		return false
	}

	if err := o.deps.Reports.AttachArtifact(ctx, report.UUID, url); err != nil {
		exec.logger.WithError(err).Error("Erro ao anexar PDF ao relatório")
		return false
	}
	report.ArtifactURL = url
	return true
}

func (o *Orchestrator) notify(ctx context.Context, exec *execution, report *domain.Report) {
	if o.deps.Notifier == nil {
		return
	}

	channel := domain.ChannelSendReport
	if report.Metadata.ReviewNeeded {
		channel = domain.ChannelReportReady
	}

	notification := domain.ReportNotification{
		ReportURL:        report.ArtifactURL,
		ClientUUID:       report.ClientUUID,
		OrganizationUUID: report.OrganizationUUID,
		ReportUUID:       report.UUID,
		Messages:         report.Metadata.Messages,
	}
	if err := o.deps.Notifier.Publish(ctx, channel, notification); err != nil {
		exec.logger.WithError(err).Error("Erro ao publicar notificação do relatório")
	}
}

func (o *Orchestrator) recordActivity(ctx context.Context, exec *execution, report *domain.Report) {
	entry := &domain.ActivityLog{
		UUID:             uuid.NewString(),
		OrganizationUUID: report.OrganizationUUID,
		ClientUUID:       report.ClientUUID,
		Action:           domain.ActivityActionReportGenerated,
		TargetType:       domain.ActivityTargetReport,
		TargetUUID:       report.UUID,
		Actor:            domain.ActivityActorSystem,
		Metadata: map[string]any{
			"runId":        report.RunID,
			"datePreset":   report.Metadata.DatePreset,
			"reviewNeeded": report.Metadata.ReviewNeeded,
			"accounts":     len(report.Accounts),
		},
		CreatedAt: o.now(),
	}
	if err := o.deps.Activities.Create(ctx, entry); err != nil {
		exec.logger.WithError(err).Warn("Erro ao registrar atividade do relatório")
	}
}

// ArtifactKey monta o caminho do PDF no bucket
func ArtifactKey(report *domain.Report, at time.Time) string {
	return fmt.Sprintf("report/%s-%s-report-%s-%s.pdf",
		report.ClientUUID,
		report.ReportType,
		report.Metadata.DatePreset,
		at.Format(artifactKeyDate),
	)
}
