package domain

import "time"

type FrequencyKind string

const (
	FrequencyWeekly   FrequencyKind = "weekly"
	FrequencyBiweekly FrequencyKind = "biweekly"
	FrequencyMonthly  FrequencyKind = "monthly"
	FrequencyCustom   FrequencyKind = "custom"
	FrequencyCron     FrequencyKind = "cron"
)

// ScheduleRequest é a descrição estruturada de uma recorrência de relatório
type ScheduleRequest struct {
	ClientUUID     string            `json:"clientUuid"`
	Frequency      FrequencyKind     `json:"frequency"`
	Time           string            `json:"time"`
	DayOfWeek      string            `json:"dayOfWeek,omitempty"`
	DayOfMonth     int               `json:"dayOfMonth,omitempty"`
	IntervalDays   int               `json:"intervalDays,omitempty"`
	CronExpression string            `json:"cronExpression,omitempty"`
	TimeZone       string            `json:"timeZone,omitempty"`
	DatePreset     string            `json:"datePreset"`
	ReviewNeeded   bool              `json:"reviewNeeded"`
	Metrics        MetricSelection   `json:"metrics"`
	Messages       map[string]string `json:"messages,omitempty"`
}

type ScheduleOption struct {
	UUID             string          `json:"uuid"`
	ClientUUID       string          `json:"clientUuid"`
	OrganizationUUID string          `json:"organizationUuid"`
	CronExpression   string          `json:"cronExpression"`
	Timezone         string          `json:"timezone"`
	Frequency        FrequencyKind   `json:"frequency"`
	DatePreset       string          `json:"datePreset"`
	ReviewNeeded     bool            `json:"reviewNeeded"`
	MetricSelection  MetricSelection `json:"metricSelection"`
	JobData          ScheduleRequest `json:"jobData"`
	QueueJobKey      string          `json:"bullJobId"`
	LastRun          *time.Time      `json:"lastRun"`
	NextRun          *time.Time      `json:"nextRun"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ScheduleRegistrationKey é a chave determinística da recorrência de um agendamento na fila
func ScheduleRegistrationKey(scheduleUUID string) string {
	return "report-schedule:" + scheduleUUID
}

// ReportJob converte o agendamento no payload da fila
func (s *ScheduleOption) ReportJob() ReportJob {
	return ReportJob{
		ScheduleUUID:     s.UUID,
		ClientUUID:       s.ClientUUID,
		OrganizationUUID: s.OrganizationUUID,
		DatePreset:       s.DatePreset,
		MetricSelection:  s.MetricSelection,
		ReviewNeeded:     s.ReviewNeeded,
		Messages:         s.JobData.Messages,
	}
}
