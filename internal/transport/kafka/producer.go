package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes delivery status changes
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
	failures prometheus.Counter
}

// ProducerOption configures a Producer.
type ProducerOption func(*Producer)

// WithFailuresCounter counts messages that could not be sent.
func WithFailuresCounter(c prometheus.Counter) ProducerOption {
	return func(p *Producer) { p.failures = c }
}

// NewProducer creates a synchronous producer. It returns nil when Kafka is not configured;
// a nil *Producer publishes nothing.
func NewProducer(logger logx.Logger, brokers []string, topic string, opts ...ProducerOption) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Net.DialTimeout = 10 * time.Second

	sp, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newProducer(sp, topic, logger, opts...), nil
}

func newProducer(sp sarama.SyncProducer, topic string, logger logx.Logger, opts ...ProducerOption) *Producer {
	p := &Producer{
		producer: sp,
		topic:    topic,
		logger:   logger.With(logx.String("topic", topic)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishStatusChanged sends c keyed by delivery id, so events of one delivery stay ordered.
func (p *Producer) PublishStatusChanged(ctx context.Context, c domain.StatusChange) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(FromStatusChange(c))
	if err != nil {
		return fmt.Errorf("encode status change: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(c.DeliveryID),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		if p.failures != nil {
			p.failures.Inc()
		}
		return fmt.Errorf("send status change: %w", err)
	}

	p.logger.Debug("status change published",
		logx.String("delivery_id", c.DeliveryID),
		logx.Int("partition", int(partition)),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
