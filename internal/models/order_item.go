package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a line on an order. PriceAtOrder is snapshotted from the menu
// item when the line is first created and never changes afterwards, even if
// the menu item is repriced.
type OrderItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OrderID      uuid.UUID `json:"order_id" db:"order_id"`
	MenuItemID   uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	PriceAtOrder float64   `json:"price_at_order" db:"price_at_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
