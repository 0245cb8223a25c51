package models

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	ImageURL     *string   `json:"image_url" db:"image_url"`
	Country      Country   `json:"country" db:"country"`
	Cuisine      *string   `json:"cuisine" db:"cuisine"`
	Rating       float64   `json:"rating" db:"rating"`
	DeliveryTime *string   `json:"delivery_time" db:"delivery_time"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// MenuItems is populated on detail reads only (available items).
	MenuItems []*MenuItem `json:"menu_items,omitempty" db:"-"`
}

// RestaurantUpdate carries partial-update fields; nil means leave untouched.
// Country is immutable after creation and deliberately absent.
type RestaurantUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	Cuisine      *string  `json:"cuisine,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	DeliveryTime *string  `json:"delivery_time,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}
