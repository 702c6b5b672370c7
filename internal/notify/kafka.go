// Package notify delivers order confirmations to customers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/checkout-demo/internal/logger"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventOrderConfirmed = "order.confirmed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher publishes confirmations for the mailer to pick up.
type KafkaDispatcher struct {
	writer  messageWriter
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaWriter builds a writer keyed by order id, so events of one order
// land on one partition.
func NewKafkaWriter(brokersCSV, topic string) (*kafka.Writer, error) {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is empty")
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}

func NewKafkaDispatcher(writer messageWriter, timeout time.Duration, logger *zap.Logger) *KafkaDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaDispatcher{
		writer:  writer,
		timeout: timeout,
		logger:  logger.With(zap.String("component", "notify")),
	}
}

type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    port.OrderConfirmation `json:"payload"`
}

func (d *KafkaDispatcher) SendOrderConfirmation(ctx context.Context, msg port.OrderConfirmation) error {
	if msg.Email == "" {
		return fmt.Errorf("email is empty")
	}

	data, err := json.Marshal(envelope{
		Type:       EventOrderConfirmed,
		OccurredAt: time.Now().UTC(),
		Payload:    msg,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	// the caller's request may already be finishing
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventOrderConfirmed)},
		},
	})
	if err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	logger.WithSpan(ctx, d.logger).Info("order confirmation published", zap.String("order_id", msg.OrderID), zap.String("order_number", msg.OrderNumber))

	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// LogDispatcher only logs confirmations. It is used when no broker is configured.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With(zap.String("component", "notify"))}
}

func (d *LogDispatcher) SendOrderConfirmation(ctx context.Context, msg port.OrderConfirmation) error {
	logger.WithSpan(ctx, d.logger).Info("order confirmation",
		zap.String("order_id", msg.OrderID),
		zap.String("order_number", msg.OrderNumber),
		zap.String("email", msg.Email),
		zap.String("amount", msg.Amount),
		zap.String("currency", msg.Currency),
		zap.String("method", string(msg.Method)),
	)
	return nil
}
