package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/md-rashed-zaman/apptdesk/libs/kafkax"
)

// KafkaNotifier publishes toasts to a topic so other surfaces (mobile push,
// ops dashboards) can consume them. Publish failures are logged and dropped;
// notifications must never block or fail a fetch or delete.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaNotifier(brokers string, topic string, logger *slog.Logger) *KafkaNotifier {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  kafkax.SplitBrokers(brokers),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &KafkaNotifier{writer: writer, logger: logger}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

func (n *KafkaNotifier) Success(ctx context.Context, message string) {
	n.publish(ctx, newEvent(LevelSuccess, message))
}

func (n *KafkaNotifier) Failure(ctx context.Context, message string) {
	n.publish(ctx, newEvent(LevelError, message))
}

func (n *KafkaNotifier) publish(ctx context.Context, evt Event) {
	raw, err := json.Marshal(evt)
	if err != nil {
		n.logger.Error("notify event marshal failed", "err", err)
		return
	}

	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(evt.ID)},
		{Key: "event_type", Value: []byte("console.toast.v1")},
	}
	headers = kafkax.InjectTraceHeaders(ctx, headers)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := n.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(evt.ID),
		Value:   raw,
		Headers: headers,
	}); err != nil {
		n.logger.Warn("notify publish failed", "err", err)
	}
}
