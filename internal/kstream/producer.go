package kstream

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"uic-travel-backend/internal/model"
)

// AuditTopic carries policy.issued and policy.downloaded events.
const AuditTopic = "policy.audit"

// kafkaWriter constructs a Kafka producer using segmentio/kafka-go.
// kafka.Writer provides async publishing with automatic batching, so
// audit events never hold up the purchase flow.
func kafkaWriter(topic string) *kafka.Writer {
	broker := getenv("KAFKA_BROKER", "kafka:9092")
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// PublishPolicyEvent publishes one audit event. Fire-and-forget from
// the caller's side: a publish failure is logged and the purchase flow
// continues.
func PublishPolicyEvent(ctx context.Context, evt model.PolicyEvent) error {
	w := kafkaWriter(AuditTopic)
	defer w.Close()

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Key by policy number so events for one policy stay ordered on
	// one partition.
	msg := kafka.Message{
		Key:   []byte(evt.PolicyNo),
		Value: data,
		Time:  time.Now(),
	}
	return w.WriteMessages(ctx, msg)
}
