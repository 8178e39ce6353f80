package models

import "time"

// Product lifecycle event types.
const (
	EventProductCreated          = "product.created"
	EventProductUpdated          = "product.updated"
	EventProductDeleted          = "product.deleted"
	EventProductQuantityAdjusted = "product.quantity_adjusted"
)

// ProductEvent is the message published when a product changes.
type ProductEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	OwnerID    string    `json:"ownerId"`
	SKU        string    `json:"sku"`
	Quantity   float64   `json:"quantity"`
	IsActive   bool      `json:"isActive"`
	OccurredAt time.Time `json:"occurredAt"`
}
