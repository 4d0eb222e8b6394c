package events

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
)

var ErrProducerClosed = errors.New("events: producer is closed")

// Producer wraps a kafka-go writer. A nil *Producer is a valid disabled
// producer whose Publish is a no-op, so callers do not branch on whether
// eventing is configured.
type Producer struct {
	writer *kafka.Writer
	mu     sync.RWMutex
	closed bool
}

// NewProducer returns nil (eventing disabled) when no brokers are
// configured.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by key keeps per-room ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
	}

	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, msg Message) error {
	if p == nil {
		return nil
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	p.mu.RUnlock()

	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  msg.Timestamp,
	}
	for k, v := range msg.Headers {
		kafkaMsg.Headers = append(kafkaMsg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return p.writer.WriteMessages(ctx, kafkaMsg)
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
