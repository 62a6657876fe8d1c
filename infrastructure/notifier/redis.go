package notifier

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisNotifier publica os avisos de relatório nos canais consumidos pelo serviço de mensagens
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, channel string, notification domain.ReportNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("erro ao serializar notificação: %w", err)
	}

	receivers, err := n.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("erro ao publicar no canal %s: %w", channel, err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"channel":     channel,
		"report_uuid": notification.ReportUUID,
		"client_uuid": notification.ClientUUID,
		"receivers":   receivers,
	})
	if receivers == 0 {
		entry.Warn("Notificação publicada sem assinantes")
		return nil
	}
	entry.Info("Notificação de relatório publicada")
	return nil
}
