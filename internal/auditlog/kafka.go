package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaWriter appends audit records as JSON messages to a Kafka topic.
// The record key is the query text so per-query history lands in one
// partition.
type KafkaWriter struct {
	topic  string
	client *kgo.Client
}

type kafkaRecord struct {
	Timestamp string `json:"timestamp"`
	Query     string `json:"query"`
	Response  string `json:"response"`
}

// NewKafkaWriter connects a producer to brokers for topic.
func NewKafkaWriter(brokers []string, topic string) (*KafkaWriter, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("create kafka audit producer: %w", err)
	}
	return &KafkaWriter{topic: topic, client: client}, nil
}

// Write produces one record synchronously, bounded by ctx.
func (w *KafkaWriter) Write(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(kafkaRecord{
		Timestamp: entry.Timestamp.UTC().Format(time.RFC3339Nano),
		Query:     entry.Query,
		Response:  entry.Response,
	})
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	record := &kgo.Record{
		Topic: w.topic,
		Key:   []byte(entry.Query),
		Value: value,
	}
	results := w.client.ProduceSync(ctx, record)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (w *KafkaWriter) Close() {
	if w != nil && w.client != nil {
		w.client.Close()
	}
}
