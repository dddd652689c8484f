package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/thukha/backoffice/pkg/logger"
)

// Publisher wraps a synchronous Kafka producer.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{producer: producer, brokers: brokers}, nil
}

// PublishSaleCompleted publishes a sale completed event.
func (p *Publisher) PublishSaleCompleted(ctx context.Context, event SaleCompletedEvent) error {
	event.EventType = EventTypeSaleCompleted
	key := fmt.Sprintf("sale_%d", event.SaleID)
	return p.publish(ctx, TopicSaleCompleted, key, event.EventType, &event.EventID, &event.Timestamp, &event)
}

// PublishStockAdjusted publishes a stock adjusted event.
func (p *Publisher) PublishStockAdjusted(ctx context.Context, event StockAdjustedEvent) error {
	event.EventType = EventTypeStockAdjusted
	key := fmt.Sprintf("item_%d", event.ItemID)
	return p.publish(ctx, TopicStockAdjusted, key, event.EventType, &event.EventID, &event.Timestamp, &event)
}

// PublishLeaseCreated publishes a lease created event.
func (p *Publisher) PublishLeaseCreated(ctx context.Context, event LeaseCreatedEvent) error {
	event.EventType = EventTypeLeaseCreated
	key := fmt.Sprintf("unit_%d", event.UnitID)
	return p.publish(ctx, TopicLeaseCreated, key, event.EventType, &event.EventID, &event.Timestamp, &event)
}

func (p *Publisher) publish(ctx context.Context, topic, key, eventType string, eventID *string, timestamp *time.Time, payload interface{}) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("event.type", eventType),
		),
	)
	defer span.End()

	if *eventID == "" {
		*eventID = uuid.NewString()
	}
	*timestamp = time.Now()
	span.SetAttributes(attribute.String("event.id", *eventID))

	eventBytes, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(*eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", topic).
			Str("event_id", *eventID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message: %w", err)
	}

	logger.Logger.Info().
		Str("topic", topic).
		Str("event_id", *eventID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
