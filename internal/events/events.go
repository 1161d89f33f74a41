// Package events fans recorded audit events out to other systems.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"genetrack-backend-go/internal/models"

	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
	Close() error
}

// Message is the wire form of an event.
type Message struct {
	ID        string           `json:"id"`
	Type      models.EventType `json:"type"`
	Label     string           `json:"label"`
	EventTime time.Time        `json:"eventTime"`
	SubjectID *string          `json:"subjectId,omitempty"`
	UserID    *string          `json:"userId,omitempty"`
	Comment   *string          `json:"comment,omitempty"`
	Data      json.RawMessage  `json:"data,omitempty"`
}

func NewMessage(ev models.Event) Message {
	msg := Message{
		ID:        ev.ID,
		Type:      ev.Type,
		Label:     ev.Type.Label(),
		EventTime: ev.EventTime.UTC(),
		SubjectID: ev.SubjectID,
		UserID:    ev.UserID,
		Comment:   ev.Comment,
	}
	if ev.Data.Valid && len(ev.Data.JSONText) > 0 {
		msg.Data = json.RawMessage(ev.Data.JSONText)
	}
	return msg
}

// messageWriter is the part of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish keys messages by subject so one subject's history stays ordered
// within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, ev models.Event) error {
	value, err := json.Marshal(NewMessage(ev))
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.ID, err)
	}
	key := ev.ID
	if ev.SubjectID != nil && *ev.SubjectID != "" {
		key = *ev.SubjectID
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish event %s to %s: %w", ev.ID, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher writes events to a logger; used when no broker is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, ev models.Event) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	msg := NewMessage(ev)
	logger.InfoContext(ctx, "event recorded", "id", msg.ID, "type", msg.Type, "subject", msg.SubjectID)
	return nil
}

func (p LogPublisher) Close() error { return nil }
