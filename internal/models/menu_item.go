package models

import (
	"time"

	"github.com/google/uuid"
)

type MenuItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	Price        float64   `json:"price" db:"price"`
	ImageURL     *string   `json:"image_url" db:"image_url"`
	Category     string    `json:"category" db:"category"`
	IsAvailable  bool      `json:"is_available" db:"is_available"`
	IsVegetarian bool      `json:"is_vegetarian" db:"is_vegetarian"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItemFilter holds the optional equality filters for menu listings.
// IsAvailable defaults to true at the service layer unless the caller
// overrides it explicitly.
type MenuItemFilter struct {
	Category     *string `json:"category,omitempty"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
	IsVegetarian *bool   `json:"is_vegetarian,omitempty"`
}

// MenuItemUpdate carries partial-update fields; nil means leave untouched.
type MenuItemUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	Category     *string  `json:"category,omitempty"`
	IsAvailable  *bool    `json:"is_available,omitempty"`
	IsVegetarian *bool    `json:"is_vegetarian,omitempty"`
}
