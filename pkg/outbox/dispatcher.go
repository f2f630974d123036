package outbox

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

// NewKafkaWriter builds the writer used in production. The topic is set per
// message by the dispatcher.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	msg := kafka.Message{
		Topic: d.topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
		Time: event.CreatedAt,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("outbox dispatch failed", "event_id", event.ID, "err", err)
		return err
	}
	d.log.Debug("outbox dispatched", "event_id", event.ID, "type", event.Type)
	return nil
}
