package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

func TestRedisNotifier_Publish(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	sub := client.Subscribe(ctx, domain.ChannelSendReport)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	notifier := NewRedisNotifier(client)
	err = notifier.Publish(ctx, domain.ChannelSendReport, domain.ReportNotification{
		ReportURL:        "https://cdn/r.pdf",
		ClientUUID:       "c1",
		OrganizationUUID: "o1",
		ReportUUID:       "r1",
		Messages:         map[string]string{"intro": "Olá"},
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, domain.ChannelSendReport, msg.Channel)
		assert.JSONEq(t, `{"reportUrl":"https://cdn/r.pdf","clientUuid":"c1","organizationUuid":"o1","reportUuid":"r1","messages":{"intro":"Olá"}}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("notificação não recebida")
	}
}

func TestRedisNotifier_PublishSemAssinantes(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	notifier := NewRedisNotifier(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	assert.NoError(t, notifier.Publish(context.Background(), domain.ChannelReportReady, domain.ReportNotification{ReportUUID: "r1"}))
}

func TestRedisNotifier_PublishRedisIndisponivel(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	notifier := NewRedisNotifier(client)
	err = notifier.Publish(context.Background(), domain.ChannelReportReady, domain.ReportNotification{ReportUUID: "r1"})
	assert.ErrorContains(t, err, "erro ao publicar no canal notification-report-ready")
}
