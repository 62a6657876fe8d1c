package domain

import "time"

const (
	ActivityActionReportGenerated = "report_generated"
	ActivityTargetReport          = "report"
	ActivityActorSystem           = "system"
)

type ActivityLog struct {
	UUID             string         `json:"uuid"`
	OrganizationUUID string         `json:"organizationUuid"`
	ClientUUID       string         `json:"clientUuid"`
	Action           string         `json:"action"`
	TargetType       string         `json:"targetType"`
	TargetUUID       string         `json:"targetUuid"`
	Actor            string         `json:"actor"`
	Metadata         map[string]any `json:"metadata"`
	CreatedAt        time.Time      `json:"createdAt"`
}
