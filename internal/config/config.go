package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Meta               Meta               `mapstructure:",squash"`
	Insights           Insights           `mapstructure:",squash"`
	Redis              Redis              `mapstructure:",squash"`
	Queue              Queue              `mapstructure:",squash"`
	ReportWorker       ReportWorker       `mapstructure:",squash"`
	ScheduleReconciler ScheduleReconciler `mapstructure:",squash"`
	Storage            Storage            `mapstructure:",squash"`
	Renderer           Renderer           `mapstructure:",squash"`
	Report             Report             `mapstructure:",squash"`
	Auth               Auth               `mapstructure:",squash"`
}

type App struct {
	LogLevel    string `mapstructure:"log_level"`
	Environment string `mapstructure:"app_env"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN             string        `mapstructure:"-"`
	Driver          string        `mapstructure:"database_driver"`
	Password        string        `mapstructure:"database_password"`
	URL             string        `mapstructure:"database_url"`
	User            string        `mapstructure:"database_user"`
	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type Meta struct {
	BaseURL               string        `mapstructure:"meta_base_url"`
	URL                   string        `mapstructure:"meta_url"`
	Version               string        `mapstructure:"meta_version"`
	RequestTimeout        time.Duration `mapstructure:"meta_request_timeout"`
	MaxConcurrentRequests int           `mapstructure:"meta_max_concurrent_requests"`
	MaxRetries            int           `mapstructure:"meta_max_retries"`
}

type Insights struct {
	AsyncPollInterval     time.Duration `mapstructure:"insights_async_poll_interval"`
	AsyncMaxPollAttempts  int           `mapstructure:"insights_async_max_poll_attempts"`
	MaxConcurrentAccounts int           `mapstructure:"insights_max_concurrent_accounts"`
	CacheEnabled          bool          `mapstructure:"insights_cache_enabled"`
	CacheTTL              time.Duration `mapstructure:"insights_cache_ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type Queue struct {
	Name             string        `mapstructure:"queue_name"`
	Attempts         int           `mapstructure:"queue_attempts"`
	OneOffBackoff    time.Duration `mapstructure:"queue_one_off_backoff"`
	RecurringBackoff time.Duration `mapstructure:"queue_recurring_backoff"`
	LeaseTimeout     time.Duration `mapstructure:"queue_lease_timeout"`
	Retention        time.Duration `mapstructure:"queue_retention"`
}

type ReportWorker struct {
	Enabled           bool          `mapstructure:"report_worker_enabled"`
	PollInterval      time.Duration `mapstructure:"report_worker_poll_interval"`
	MaxConcurrentJobs int           `mapstructure:"report_worker_max_concurrent_jobs"`
}

type ScheduleReconciler struct {
	Enabled      bool   `mapstructure:"schedule_reconciler_enabled"`
	CronSchedule string `mapstructure:"schedule_reconciler_cron"`
}

type Storage struct {
	Bucket        string `mapstructure:"storage_bucket"`
	Region        string `mapstructure:"storage_region"`
	Prefix        string `mapstructure:"storage_prefix"`
	PublicBaseURL string `mapstructure:"storage_public_base_url"`
}

type Renderer struct {
	URL     string        `mapstructure:"renderer_url"`
	APIKey  string        `mapstructure:"renderer_api_key"`
	Timeout time.Duration `mapstructure:"renderer_timeout"`
}

type Report struct {
	RunLockTTL      time.Duration `mapstructure:"report_run_lock_ttl"`
	DefaultTimezone string        `mapstructure:"report_default_timezone"`
	TopAds          int           `mapstructure:"report_top_ads"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/reports?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_REQUEST_TIMEOUT", "60s")
	viper.SetDefault("META_MAX_CONCURRENT_REQUESTS", 8) // Limite global de requisições simultâneas à Graph API
	viper.SetDefault("META_MAX_RETRIES", 2)

	viper.SetDefault("INSIGHTS_ASYNC_POLL_INTERVAL", "2s")
	viper.SetDefault("INSIGHTS_ASYNC_MAX_POLL_ATTEMPTS", 60)
	viper.SetDefault("INSIGHTS_MAX_CONCURRENT_ACCOUNTS", 3)
	viper.SetDefault("INSIGHTS_CACHE_ENABLED", true)
	viper.SetDefault("INSIGHTS_CACHE_TTL", "1h")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("QUEUE_NAME", "report-queue")
	viper.SetDefault("QUEUE_ATTEMPTS", 3)
	viper.SetDefault("QUEUE_ONE_OFF_BACKOFF", "5s")
	viper.SetDefault("QUEUE_RECURRING_BACKOFF", "1m")
	viper.SetDefault("QUEUE_LEASE_TIMEOUT", "30m")
	viper.SetDefault("QUEUE_RETENTION", "168h") // Jobs finalizados ficam consultáveis por 7 dias

	viper.SetDefault("REPORT_WORKER_ENABLED", true)
	viper.SetDefault("REPORT_WORKER_POLL_INTERVAL", "15s")
	viper.SetDefault("REPORT_WORKER_MAX_CONCURRENT_JOBS", 2)

	viper.SetDefault("SCHEDULE_RECONCILER_ENABLED", true)
	viper.SetDefault("SCHEDULE_RECONCILER_CRON", "*/30 * * * *") // A cada 30 minutos

	viper.SetDefault("STORAGE_BUCKET", "client-reports")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_PREFIX", "")
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "")

	viper.SetDefault("RENDERER_URL", "http://localhost:4200")
	viper.SetDefault("RENDERER_API_KEY", "")
	viper.SetDefault("RENDERER_TIMEOUT", "2m")

	viper.SetDefault("REPORT_RUN_LOCK_TTL", "30m")
	viper.SetDefault("REPORT_DEFAULT_TIMEZONE", "UTC")
	viper.SetDefault("REPORT_TOP_ADS", 10)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.finalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// finalize monta os valores derivados de outras chaves
func (c *Config) finalize() {
	c.Meta.URL = fmt.Sprintf("%s/%s", strings.TrimSuffix(c.Meta.BaseURL, "/"), c.Meta.Version)

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

// Validate garante que os valores usados pelos componentes de execução são utilizáveis
func (c *Config) Validate() error {
	if c.Insights.AsyncMaxPollAttempts <= 0 {
		return fmt.Errorf("config: INSIGHTS_ASYNC_MAX_POLL_ATTEMPTS deve ser maior que zero")
	}
	if c.Insights.AsyncPollInterval <= 0 {
		return fmt.Errorf("config: INSIGHTS_ASYNC_POLL_INTERVAL deve ser maior que zero")
	}
	if c.Queue.Attempts <= 0 {
		return fmt.Errorf("config: QUEUE_ATTEMPTS deve ser maior que zero")
	}
	if c.ReportWorker.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("config: REPORT_WORKER_MAX_CONCURRENT_JOBS deve ser maior que zero")
	}
	if _, err := time.LoadLocation(c.Report.DefaultTimezone); err != nil {
		return fmt.Errorf("config: REPORT_DEFAULT_TIMEZONE inválido: %w", err)
	}
	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
