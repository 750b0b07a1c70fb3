package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
)

const (
	routingKeySnapshot = "snapshot.created"
	publishTimeout     = 5 * time.Second
)

// SnapshotCreatedEvent is emitted after a score distribution has been
// committed to the ledger and durably snapshotted.
type SnapshotCreatedEvent struct {
	EventID             string  `json:"event_id"`
	Block               uint64  `json:"block"`
	Timestamp           int64   `json:"timestamp"`
	TotalWeightedVolume float64 `json:"total_weighted_volume"`
	ActiveIdentities    int     `json:"active_identities"`
}

// QueueManager publishes validator events to an AMQP topic exchange. It is
// nil-safe: a nil manager drops events silently, which is how the queue
// section being absent from the config behaves.
type QueueManager struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	conn, err := amqp.Dial(cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the queue: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a queue channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return &QueueManager{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
	}, nil
}

// SendSnapshotCreatedEvent publishes the event. Failures are returned to
// the caller, which treats them as best-effort.
func (qm *QueueManager) SendSnapshotCreatedEvent(ctx context.Context, event *SnapshotCreatedEvent) error {
	if qm == nil {
		return nil
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return qm.channel.PublishWithContext(ctx, qm.exchange, routingKeySnapshot, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   event.EventID,
		Timestamp:   time.Now(),
		Body:        body,
	})
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	if qm == nil {
		return
	}
	log.Info().Msg("Shutting down queue manager")
	if err := qm.channel.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close queue channel")
	}
	if err := qm.conn.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close queue connection")
	}
}
