package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"storemirror/internal/logger"
	"storemirror/internal/models"
)

const TypeProductCreated = "product.created"

// Event is the wire payload for catalog events.
type Event struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	SKU        string    `json:"sku"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes catalog events to Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers, topic string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) ProductCreated(ctx context.Context, product *models.Product, variant *models.ProductVariant, category string) error {
	event := Event{
		Type:       TypeProductCreated,
		ProductID:  product.ID,
		SKU:        variant.SKU,
		Title:      product.Title,
		Category:   category,
		Price:      variant.Price.InexactFloat64(),
		OccurredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.logger.Debug("Publishing %s for product %s", event.Type, event.ProductID)

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProductID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
