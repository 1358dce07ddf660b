package worker

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"storemirror/internal/events"
	"storemirror/internal/logger"
	"storemirror/internal/models"
)

// EventStore is the slice of the repository the processor writes through.
type EventStore interface {
	CreateEvent(event *models.CatalogEvent) error
}

// Processor turns consumed catalog events into audit rows.
type Processor struct {
	store  EventStore
	logger *logger.Logger
}

func NewProcessor(store EventStore, logger *logger.Logger) *Processor {
	return &Processor{
		store:  store,
		logger: logger,
	}
}

func (p *Processor) Process(payload []byte) error {
	var event events.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}

	switch event.Type {
	case events.TypeProductCreated:
		return p.recordEvent(&event)
	default:
		p.logger.Warn("Skipping event with unknown type %q", event.Type)
		return nil
	}
}

func (p *Processor) recordEvent(event *events.Event) error {
	row := &models.CatalogEvent{
		Type:       event.Type,
		ProductID:  event.ProductID,
		SKU:        event.SKU,
		Title:      event.Title,
		Category:   event.Category,
		Price:      decimal.NewFromFloat(event.Price),
		OccurredAt: event.OccurredAt,
	}

	if err := p.store.CreateEvent(row); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	p.logger.Info("Recorded %s for product %s (%s)", event.Type, event.ProductID, event.SKU)
	return nil
}
