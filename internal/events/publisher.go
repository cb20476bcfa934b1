// Package events publishes analysis results to Kafka so downstream
// dialer components can react to verdicts without holding a connection
// to this service.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"amd-detection-service/internal/observability/metrics"
)

// Event types carried on the bus.
const (
	EventTypeResult = "amd.analysis.result"
	EventTypeFinal  = "amd.analysis.final"
)

// Publisher publishes analysis events to separate Kafka topics: one per
// completed window, one terminal verdict per call.
type Publisher struct {
	writerResult *kafka.Writer
	writerFinal  *kafka.Writer
	principal    string
	topicResult  string
	topicFinal   string
	enabled      bool
	metrics      *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers     []string
	TopicResult string
	TopicFinal  string
	Principal   string
	Enabled     bool
}

// New creates a Kafka publisher. With Kafka disabled or unconfigured the
// publisher runs in log-only mode and every publish succeeds locally.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, publishing in log-only mode")
		p := &Publisher{enabled: false, metrics: m}
		if cfg != nil {
			p.principal = cfg.Principal
			p.topicResult = cfg.TopicResult
			p.topicFinal = cfg.TopicFinal
		}
		return p
	}

	// Longer dial timeout for DNS resolution inside Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{Dial: dialer.DialFunc}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicResult", cfg.TopicResult).
		Str("topicFinal", cfg.TopicFinal).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerResult: newWriter(cfg.TopicResult),
		writerFinal:  newWriter(cfg.TopicFinal),
		principal:    cfg.Principal,
		topicResult:  cfg.TopicResult,
		topicFinal:   cfg.TopicFinal,
		enabled:      true,
		metrics:      m,
	}
}

// PublishResult publishes one window analysis event, keyed by call SID so
// a call's events stay ordered within a partition.
func (p *Publisher) PublishResult(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerResult, p.topicResult, EventTypeResult, key, event)
}

// PublishFinal publishes the terminal per-call verdict.
func (p *Publisher) PublishFinal(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerFinal, p.topicFinal, EventTypeFinal, key, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerResult != nil {
		if e := p.writerResult.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing result writer")
			err = e
		}
	}
	if p.writerFinal != nil {
		if e := p.writerFinal.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing final writer")
			err = e
		}
	}
	return err
}
