package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=events.go -destination=mock_events.go -package=services

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// publishTimeout bounds how long a request waits for its event to be written.
var publishTimeout = 2 * time.Second

// publishEvent publishes a committed chat change. Publishing failures are
// logged and never fail the request. A nil writer disables publishing.
// The write outlives a cancelled request but never publishTimeout.
func publishEvent(ctx context.Context, w KafkaWriter, event models.Event) {
	event.EventID = uuid.NewString()
	event.Timestamp = time.Now().Unix()

	if w == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "event_id", event.EventID, "type", event.Type)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	// Keyed by chat so that events of one chat keep their order within a partition.
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ChatID, 10)),
		Value: data,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "event_id", event.EventID, "type", event.Type, "error", err)
	} else {
		logger.Log.Infow("Event published to Kafka", "event_id", event.EventID, "type", event.Type, "chat_id", event.ChatID)
	}
}
