package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id" db:"user_id"`
	Type        string     `json:"type" db:"type"`
	Provider    string     `json:"provider" db:"provider"`
	Last4Digits string     `json:"last4_digits" db:"last4_digits"`
	ExpiryMonth int        `json:"expiry_month" db:"expiry_month"`
	ExpiryYear  int        `json:"expiry_year" db:"expiry_year"`
	IsDefault   bool       `json:"is_default" db:"is_default"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PaymentMethodUpdate carries partial-update fields; nil means leave untouched.
type PaymentMethodUpdate struct {
	Type        *string `json:"type,omitempty"`
	Provider    *string `json:"provider,omitempty"`
	Last4Digits *string `json:"last4_digits,omitempty"`
	ExpiryMonth *int    `json:"expiry_month,omitempty"`
	ExpiryYear  *int    `json:"expiry_year,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}
