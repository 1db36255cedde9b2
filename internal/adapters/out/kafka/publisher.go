// Package kafka publishes committed domain events to a Kafka topic. Messages
// are keyed by aggregate id so the events of one order stay in one partition
// and keep their order.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/metrics"
	"fulfillment/internal/pkg/ddd"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

const DefaultTopic = "order-events"

// Envelope is the JSON value of every message.
type Envelope struct {
	EventName   string          `json:"event_name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logrus.FieldLogger
}

// NewEventPublisher connects a synchronous producer that waits for all
// in-sync replicas.
func NewEventPublisher(brokers []string, topic string, logger logrus.FieldLogger) (*EventPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return NewEventPublisherWithProducer(producer, topic, logger), nil
}

func NewEventPublisherWithProducer(producer sarama.SyncProducer, topic string, logger logrus.FieldLogger) *EventPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends the events as one batch. Events that fail to encode are
// skipped and reported in the returned error together with send failures.
func (p *EventPublisher) Publish(_ context.Context, events ...ddd.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	var encodeErrs []error
	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		msg, err := p.message(event)
		if err != nil {
			metrics.DomainEventsPublishedTotal.WithLabelValues(event.EventName(), metrics.ResultError).Inc()
			encodeErrs = append(encodeErrs, err)
			continue
		}
		msgs = append(msgs, msg)
	}

	sendErr := p.producer.SendMessages(msgs)

	failed := make(map[*sarama.ProducerMessage]bool)
	var producerErrs sarama.ProducerErrors
	if errors.As(sendErr, &producerErrs) {
		for _, pe := range producerErrs {
			failed[pe.Msg] = true
		}
	}

	for _, msg := range msgs {
		name := headerValue(msg, "event_name")
		if failed[msg] || (sendErr != nil && len(producerErrs) == 0) {
			metrics.DomainEventsPublishedTotal.WithLabelValues(name, metrics.ResultError).Inc()
			continue
		}
		metrics.DomainEventsPublishedTotal.WithLabelValues(name, metrics.ResultOK).Inc()
		p.logger.WithFields(logrus.Fields{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
			"event":     name,
			"key":       keyString(msg),
		}).Debug("event published to Kafka")
	}

	if err := errors.Join(append(encodeErrs, sendErr)...); err != nil {
		p.logger.WithError(err).WithField("events", len(events)).Error("failed to publish events to Kafka")
		return err
	}
	return nil
}

func (p *EventPublisher) message(event ddd.DomainEvent) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(Envelope{
		EventName:   event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC(),
		Payload:     payload,
	})
	if err != nil {
		return nil, err
	}

	return &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.AggregateID()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_name"), Value: []byte(event.EventName())},
		},
		Timestamp: event.OccurredAt(),
	}, nil
}

func (p *EventPublisher) Close() error {
	return p.producer.Close()
}

func headerValue(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func keyString(msg *sarama.ProducerMessage) string {
	if msg.Key == nil {
		return ""
	}
	b, err := msg.Key.Encode()
	if err != nil {
		return ""
	}
	return string(b)
}
