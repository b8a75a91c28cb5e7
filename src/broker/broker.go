// Package broker publishes analysis events. It has an in-memory
// implementation for tests and local use and a Redpanda/Kafka one.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gh-triage-mcp/src/contracts"
)

// ErrClosed is returned by operations on a closed broker.
var ErrClosed = errors.New("broker is closed")

// Broker abstracts message publishing and consumption.
type Broker interface {
	// Publish sends a message to a topic with an optional key for partitioning.
	// For in-memory broker, key is only carried through to subscribers.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel for consuming messages from a topic.
	// groupID is used for consumer group coordination in Kafka.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	// Close shuts down the broker connection gracefully.
	Close() error
}

// Message represents a consumed message from a broker.
type Message struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int32
	Timestamp int64
}

// Publisher encodes analysis records as JSON and publishes them to a topic.
type Publisher struct {
	broker Broker
	topic  string
}

// NewPublisher creates a Publisher. An empty topic uses contracts.TopicLogAnalyses.
func NewPublisher(b Broker, topic string) *Publisher {
	if topic == "" {
		topic = contracts.TopicLogAnalyses
	}
	return &Publisher{broker: b, topic: topic}
}

// Topic returns the topic records are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishAnalysis publishes one record keyed by its repository.
func (p *Publisher) PublishAnalysis(ctx context.Context, record contracts.AnalysisRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode analysis record: %w", err)
	}
	return p.broker.Publish(ctx, p.topic, record.Key(), data)
}

// DecodeAnalysis decodes a message produced by PublishAnalysis.
func DecodeAnalysis(msg Message) (contracts.AnalysisRecord, error) {
	var record contracts.AnalysisRecord
	if err := json.Unmarshal(msg.Value, &record); err != nil {
		return record, fmt.Errorf("failed to decode analysis record: %w", err)
	}
	return record, nil
}

// Watch subscribes to topic and passes every decoded analysis record to
// handle until ctx is done or the subscription closes. Messages that do not
// decode are reported to onError and skipped.
func Watch(ctx context.Context, b Broker, topic, groupID string, handle func(contracts.AnalysisRecord), onError func(error)) error {
	if topic == "" {
		topic = contracts.TopicLogAnalyses
	}
	msgs, err := b.Subscribe(ctx, topic, groupID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			record, err := DecodeAnalysis(msg)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			handle(record)
		}
	}
}
