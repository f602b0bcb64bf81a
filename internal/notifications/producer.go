package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gigtune/internal/bookings"
	"gigtune/internal/shared/config"
	"gigtune/pkg/logger"

	"github.com/IBM/sarama"
)

// BookingEventEnvelope is the wire shape of a booking lifecycle event.
type BookingEventEnvelope struct {
	EventType       string    `json:"event_type"`
	BookingID       string    `json:"booking_id"`
	ClientID        string    `json:"client_id"`
	ArtistProfileID string    `json:"artist_profile_id"`
	Status          string    `json:"status"`
	EscrowStatus    string    `json:"escrow_status"`
	EscrowAmount    float64   `json:"escrow_amount"`
	Version         int       `json:"version"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingEventProducer publishes booking lifecycle events to Kafka.
// Messages are keyed by booking ID so every booking's events land on
// one partition in order.
type BookingEventProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewBookingEventProducer(cfg *config.Config, log *logger.Logger) (*BookingEventProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("booking event producer created", "topic", cfg.Kafka.BookingsTopic)
	return &BookingEventProducer{
		producer: producer,
		topic:    cfg.Kafka.BookingsTopic,
		log:      log,
	}, nil
}

// PublishBookingEvent implements bookings.EventPublisher.
func (p *BookingEventProducer) PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking) error {
	envelope := BookingEventEnvelope{
		EventType:       eventType,
		BookingID:       booking.ID.String(),
		ClientID:        booking.ClientID.String(),
		ArtistProfileID: booking.ArtistProfileID.String(),
		Status:          booking.Status.String(),
		EscrowStatus:    booking.EscrowStatus.String(),
		EscrowAmount:    booking.EscrowAmount,
		Version:         booking.Version,
		OccurredAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(envelope.BookingID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("booking_id"), Value: []byte(envelope.BookingID)},
			{Key: []byte("artist_profile_id"), Value: []byte(envelope.ArtistProfileID)},
			{Key: []byte("occurred_at"), Value: []byte(envelope.OccurredAt.Format(time.RFC3339))},
		},
		Timestamp: envelope.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	p.log.DebugWithContext(ctx, "booking event published", map[string]interface{}{
		"event_type": eventType,
		"booking_id": envelope.BookingID,
		"partition":  partition,
		"offset":     offset,
	})
	return nil
}

func (p *BookingEventProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// NoopPublisher satisfies bookings.EventPublisher when Kafka is
// disabled; events are dropped silently.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *bookings.Booking) error {
	return nil
}
