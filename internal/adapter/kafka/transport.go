// Package kafka publishes mesh messages to a Kafka topic instead of a
// radio. Gateway deployments use it to bridge weather broadcasts into
// the rest of the data platform, and it doubles as a radio-free uplink
// for staging.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/iaintshootinmis/MeshWttr/internal/config"
	"github.com/iaintshootinmis/MeshWttr/internal/transmit"
	kafkago "github.com/segmentio/kafka-go"
)

// Transport opens producer sessions to the configured topic.
// It implements transmit.Transport.
type Transport struct {
	brokers []string
	topic   string
	logger  *slog.Logger
}

// NewTransport creates a Kafka uplink transport.
func NewTransport(cfg *config.Config, logger *slog.Logger) *Transport {
	return &Transport{
		brokers: cfg.KafkaBrokers,
		topic:   cfg.KafkaTopic,
		logger:  logger,
	}
}

// Open creates a producer session. The writer connects lazily, so open
// errors surface on the first send rather than here.
func (t *Transport) Open(_ context.Context) (transmit.Session, error) {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(t.brokers...),
		Topic:        t.topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	t.logger.Info("kafka uplink ready", "topic", t.topic)
	return &session{writer: w}, nil
}

type session struct {
	writer *kafkago.Writer
}

// SendText publishes one message, keyed by channel so messages for the
// same channel stay ordered within a partition.
func (s *session) SendText(ctx context.Context, message string, channel int) error {
	if err := s.writer.WriteMessages(ctx, buildMessage(message, channel, time.Now().UTC())); err != nil {
		return fmt.Errorf("publish to %s: %w", s.writer.Topic, err)
	}
	return nil
}

func (s *session) Close() error {
	return s.writer.Close()
}

// buildMessage shapes one mesh text message as a Kafka record.
func buildMessage(message string, channel int, sentAt time.Time) kafkago.Message {
	ch := strconv.Itoa(channel)
	return kafkago.Message{
		Key:   []byte(ch),
		Value: []byte(message),
		Headers: []kafkago.Header{
			{Key: "channel", Value: []byte(ch)},
			{Key: "sent_at", Value: []byte(sentAt.Format(time.RFC3339))},
		},
	}
}
