package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "DRAFT"
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderDraft, OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// orderTransitions is the single source of truth for legal status changes.
// Every mutation path, including the administrative one, consults it.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderDraft:     {OrderPending, OrderConfirmed, OrderCancelled},
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("order status must be one of: DRAFT, PENDING, CONFIRMED, DELIVERED, CANCELLED")
	}
	return st, nil
}

type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"user_id" db:"user_id"`
	RestaurantID    uuid.UUID   `json:"restaurant_id" db:"restaurant_id"`
	Status          OrderStatus `json:"status" db:"status"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	DeliveryAddress *string     `json:"delivery_address" db:"delivery_address"`
	PaymentMethodID *uuid.UUID  `json:"payment_method_id" db:"payment_method_id"`
	CheckedOutAt    *time.Time  `json:"checked_out_at" db:"checked_out_at"`
	PaidAt          *time.Time  `json:"paid_at" db:"paid_at"`
	CancelledAt     *time.Time  `json:"cancelled_at" db:"cancelled_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`

	// Items is populated on detail reads.
	Items []*OrderItem `json:"items,omitempty" db:"-"`
}

// OrderFilter narrows the administrative order listing. Country filters via
// a join on the restaurant's country.
type OrderFilter struct {
	UserID       *uuid.UUID   `json:"user_id,omitempty"`
	RestaurantID *uuid.UUID   `json:"restaurant_id,omitempty"`
	Status       *OrderStatus `json:"status,omitempty"`
	Country      *Country     `json:"country,omitempty"`
	Limit        int          `json:"limit,omitempty"`
	Offset       int          `json:"offset,omitempty"`
}
