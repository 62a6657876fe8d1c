package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// Renderer gera o PDF de um relatório gravado
type Renderer interface {
	Render(ctx context.Context, report *domain.Report) ([]byte, error)
}

// ArtifactStorage guarda o arquivo gerado e devolve a URL pública
type ArtifactStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type Notifier interface {
	Publish(ctx context.Context, channel string, notification domain.ReportNotification) error
}

// ScheduleTracker é a parte do fluxo de agendamentos usada pela execução
type ScheduleTracker interface {
	IsDue(ctx context.Context, scheduleUUID string, now time.Time) (bool, error)
	MarkRun(ctx context.Context, scheduleUUID string, at time.Time, recurring bool) error
}
