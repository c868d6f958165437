package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLowStockAlert = "inventory.low_stock"
	EventTypeExpiryAlert   = "inventory.expiring"
	EventTypeProductSaved  = "inventory.product_saved"
)

// AlertEvent is published once per alert fan-out, after the emails were handed to the mailer.
type AlertEvent struct {
	BaseEvent
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Recipients int    `json:"recipients"`
}

func newAlertEvent(eventType string, productID int64, name, sku string, recipients int, extra map[string]interface{}) *AlertEvent {
	data := map[string]interface{}{
		"product_id": productID,
		"name":       name,
		"sku":        sku,
		"recipients": recipients,
	}
	for k, v := range extra {
		data[k] = v
	}
	return &AlertEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		ProductID:  productID,
		Name:       name,
		SKU:        sku,
		Recipients: recipients,
	}
}

func NewLowStockAlertEvent(productID int64, name, sku string, currentStock, minStock, recipients int) *AlertEvent {
	return newAlertEvent(EventTypeLowStockAlert, productID, name, sku, recipients, map[string]interface{}{
		"current_stock":   currentStock,
		"min_stock_level": minStock,
	})
}

func NewExpiryAlertEvent(productID int64, name, sku string, expiryDate string, daysLeft, recipients int) *AlertEvent {
	return newAlertEvent(EventTypeExpiryAlert, productID, name, sku, recipients, map[string]interface{}{
		"expiry_date":       expiryDate,
		"days_until_expiry": daysLeft,
	})
}

// ProductSavedEvent fires after a product create or update commits.
type ProductSavedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
	ActorID   int64 `json:"actor_id"`
	Created   bool  `json:"created"`
}

func NewProductSavedEvent(productID, actorID int64, created bool) *ProductSavedEvent {
	return &ProductSavedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeProductSaved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"product_id": productID,
				"actor_id":   actorID,
				"created":    created,
			},
		},
		ProductID: productID,
		ActorID:   actorID,
		Created:   created,
	}
}
