package main

import (
	"context"
	"net/http"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-report-api/infrastructure/database/redisdb"
	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/infrastructure/notifier"
	"github.com/vfg2006/traffic-report-api/infrastructure/queue"
	"github.com/vfg2006/traffic-report-api/infrastructure/renderer"
	"github.com/vfg2006/traffic-report-api/infrastructure/repository"
	"github.com/vfg2006/traffic-report-api/infrastructure/storage"
	"github.com/vfg2006/traffic-report-api/internal/api"
	"github.com/vfg2006/traffic-report-api/internal/api/handler"
	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/scheduler"
	"github.com/vfg2006/traffic-report-api/internal/usecases/authenticating"
	"github.com/vfg2006/traffic-report-api/internal/usecases/insighting"
	"github.com/vfg2006/traffic-report-api/internal/usecases/normalizing"
	"github.com/vfg2006/traffic-report-api/internal/usecases/reporting"
	"github.com/vfg2006/traffic-report-api/internal/usecases/scheduling"
	"github.com/vfg2006/traffic-report-api/pkg/distlock"
	"github.com/vfg2006/traffic-report-api/pkg/httpretry"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	redisClient := redisconn(ctx, cfg.Redis)
	defer redisClient.Close()

	locks := distlock.NewProvider(redisClient, pgConn.DB)
	jobQueue := queue.NewRedisQueue(redisClient, cfg.Queue)

	clientRepo := repository.NewClientRepository(pgConn)
	reportRepo := repository.NewReportRepository(pgConn)
	activityRepo := repository.NewActivityLogRepository(pgConn)
	tokenRepo := repository.NewOrganizationTokenRepository(pgConn)
	scheduleRepo := repository.NewScheduleOptionRepository(pgConn)

	catalog, err := normalizing.LoadDefaultCatalog(metadomain.InsightFields)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar o catálogo de métricas")
	}
	normalizer := normalizing.NewNormalizer(catalog)

	// Limite global de concorrência contra a Graph API; 429 volta ao fetcher, que cai para o modo assíncrono
	metaDoer := httpretry.NewRetryClient(
		&http.Client{Timeout: cfg.Meta.RequestTimeout},
		cfg.Meta.MaxRetries,
		httpretry.WithMaxConcurrency(cfg.Meta.MaxConcurrentRequests),
		httpretry.WithoutRateLimitRetry(),
	)

	var insightsCache insighting.Cache
	if cfg.Insights.CacheEnabled {
		insightsCache = insighting.NewRedisCache(redisClient, cfg.Insights.CacheTTL)
	}
	insightService := insighting.NewService(cfg, tokenRepo, metaDoer, catalog, insightsCache)

	scheduleService := scheduling.NewScheduleService(scheduleRepo, clientRepo, jobQueue, locks, catalog, cfg)

	artifactStorage, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar o armazenamento de relatórios")
	}

	rendererClient := renderer.NewClient(cfg.Renderer, httpretry.NewRetryClient(
		&http.Client{Timeout: cfg.Renderer.Timeout},
		1,
	))

	orchestrator := reporting.NewOrchestrator(reporting.Dependencies{
		Clients:    clientRepo,
		Reports:    reportRepo,
		Activities: activityRepo,
		Schedules:  scheduleService,
		Sources:    insightService,
		Normalizer: normalizer,
		Renderer:   rendererClient,
		Storage:    artifactStorage,
		Notifier:   notifier.NewRedisNotifier(redisClient),
		Locks:      locks,
	}, cfg)

	reportWorker := scheduler.NewReportWorker(jobQueue, orchestrator, cfg)
	scheduleReconciler := scheduler.NewScheduleReconciler(scheduleService, cfg)

	// Inicia os agendadores em background
	if err := scheduleReconciler.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o reconciliador de agendamentos")
	} else {
		logrus.Info("Reconciliador de agendamentos iniciado com sucesso")
	}

	if err := reportWorker.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o consumidor da fila de relatórios")
	} else {
		logrus.Info("Consumidor da fila de relatórios iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticating.NewService(cfg),
		Schedules:     scheduleService,
		Reports:       reportRepo,
		JobQueue:      jobQueue,
		Cron: handler.CronJobServices{
			ReportWorker:       reportWorker,
			ScheduleReconciler: scheduleReconciler,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// redisconn cria o cliente Redis da fila, dos locks e do cache
func redisconn(ctx context.Context, redisConfig config.Redis) *redis.Client {
	client, err := redisdb.NewClient(ctx, redisConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.Info("Conexão com Redis estabelecida com sucesso")
	return client
}
