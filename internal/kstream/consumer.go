package kstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/kafka-go"

	"uic-travel-backend/internal/model"
)

// kafkaReader creates a Kafka consumer using segmentio/kafka-go with
// consumer-group offset management.
func kafkaReader(topic, groupID string) *kafka.Reader {
	broker := getenv("KAFKA_BROKER", "kafka:9092")
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// ConsumeAuditTopic archives policy audit events to daily JSONL files.
// It blocks until the context is cancelled.
func ConsumeAuditTopic(ctx context.Context) error {
	reader := kafkaReader(AuditTopic, "audit-archiver")
	defer reader.Close()

	dir := getenv("AUDIT_DIR", "./data/audit")
	log.Printf("audit: consuming from %s into %s", AuditTopic, dir)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var evt model.PolicyEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Printf("audit: failed to unmarshal event: %v", err)
			continue
		}

		if err := archiveEvent(dir, evt); err != nil {
			log.Printf("audit: failed to archive %s for %s: %v", evt.Type, evt.PolicyNo, err)
		}
	}
}

func archiveEvent(dir string, evt model.PolicyEvent) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	fpath := filepath.Join(dir, fmt.Sprintf("audit_%s.jsonl", time.Now().UTC().Format("2006-01-02")))
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	_, err = f.Write(append(data, '\n'))
	return err
}
