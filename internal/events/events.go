// Package events publishes and consumes product lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gudang/internal/models"

	"github.com/google/uuid"
)

// MessagePublisher is the transport used to deliver encoded events.
type MessagePublisher interface {
	Publish(routingKey string, body []byte) error
}

// Publisher turns product changes into ProductEvent messages.
// Delivery is best effort: failures are logged and never reach the caller.
type Publisher struct {
	transport MessagePublisher
	now       func() time.Time
}

// NewPublisher creates a Publisher on top of transport.
func NewPublisher(transport MessagePublisher) *Publisher {
	return &Publisher{
		transport: transport,
		now:       time.Now,
	}
}

// PublishProductEvent encodes product as an eventType event and sends it with
// eventType as the routing key.
func (p *Publisher) PublishProductEvent(ctx context.Context, eventType string, product *models.Product) {
	if p == nil || p.transport == nil || product == nil {
		return
	}
	if ctx.Err() != nil {
		log.Printf("Skipping %s event for product %s: %v", eventType, product.ID, ctx.Err())
		return
	}

	event := models.ProductEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		ProductID:  product.ID,
		OwnerID:    product.CreatedBy,
		SKU:        product.SKU,
		Quantity:   product.Quantity,
		IsActive:   product.IsActive,
		OccurredAt: p.now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	if err := p.transport.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", eventType, product.ID, err)
		return
	}
	log.Printf("Published %s event for product %s", eventType, product.ID)
}

// Decode parses a message body into a ProductEvent.
func Decode(body []byte) (*models.ProductEvent, error) {
	var event models.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode product event: %w", err)
	}
	if event.Type == "" || event.ProductID == "" {
		return nil, fmt.Errorf("product event is missing type or productId")
	}
	return &event, nil
}

// AuditLogger writes one line per consumed event.
type AuditLogger struct {
	logger *log.Logger
}

// NewAuditLogger creates an AuditLogger. A nil logger uses the standard logger.
func NewAuditLogger(logger *log.Logger) *AuditLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &AuditLogger{logger: logger}
}

// Handle records a single event message.
func (a *AuditLogger) Handle(body []byte) error {
	event, err := Decode(body)
	if err != nil {
		return err
	}
	a.logger.Printf("audit: %s product=%s owner=%s sku=%s quantity=%g active=%t at=%s",
		event.Type, event.ProductID, event.OwnerID, event.SKU, event.Quantity, event.IsActive,
		event.OccurredAt.Format(time.RFC3339))
	return nil
}
