package domain

import (
	"encoding/json"
	"time"
)

const JobNameGenerateReport = "generate-report"

// ReportJob é o payload dos jobs de geração de relatório
type ReportJob struct {
	ScheduleUUID     string            `json:"scheduleUuid,omitempty"`
	ClientUUID       string            `json:"clientUuid"`
	OrganizationUUID string            `json:"organizationUuid"`
	AccountRefs      []string          `json:"accountRefs,omitempty"`
	DatePreset       string            `json:"datePreset"`
	MetricSelection  MetricSelection   `json:"metricSelection"`
	ReviewNeeded     bool              `json:"reviewNeeded"`
	Messages         map[string]string `json:"messages,omitempty"`
}

type JobStatus string

const (
	JobStatusWaiting   JobStatus = "waiting"
	JobStatusDelayed   JobStatus = "delayed"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// RetryPolicy define tentativas e o atraso base do backoff exponencial
type RetryPolicy struct {
	Attempts int           `json:"attempts"`
	Backoff  time.Duration `json:"backoff"`
}

type Job struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Payload      json.RawMessage `json:"payload"`
	Status       JobStatus       `json:"status"`
	AttemptsMade int             `json:"attemptsMade"`
	MaxAttempts  int             `json:"maxAttempts"`
	Backoff      time.Duration   `json:"backoff"`
	RecurringKey string          `json:"recurringKey,omitempty"`
	LastError    string          `json:"lastError,omitempty"`
	RunAt        time.Time       `json:"runAt"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	FinishedAt   *time.Time      `json:"finishedAt,omitempty"`

	// LeaseToken identifica a reserva feita por Claim; não é persistido com o job
	LeaseToken string `json:"-"`
}

// RecurringJob é uma registração repetível; o ID combina chave e expressão cron
type RecurringJob struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Cron      string          `json:"cron"`
	Timezone  string          `json:"timezone"`
	Payload   json.RawMessage `json:"payload"`
	Policy    RetryPolicy     `json:"policy"`
	NextRunAt time.Time       `json:"nextRunAt"`
	CreatedAt time.Time       `json:"createdAt"`
}
