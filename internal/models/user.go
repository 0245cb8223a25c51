package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the access level carried by every authenticated actor.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// Country scopes catalog and order access for non-admin actors.
type Country string

const (
	CountryIndia   Country = "INDIA"
	CountryAmerica Country = "AMERICA"
)

func (c Country) Valid() bool {
	switch c {
	case CountryIndia, CountryAmerica:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("role must be one of: ADMIN, MANAGER, MEMBER")
	}
	return r, nil
}

func ParseCountry(s string) (Country, error) {
	c := Country(s)
	if !c.Valid() {
		return "", fmt.Errorf("country must be one of: INDIA, AMERICA")
	}
	return c, nil
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	Country      Country   `json:"country" db:"country"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role    *Role    `json:"role,omitempty"`
	Country *Country `json:"country,omitempty"`
}

// Actor is the authenticated identity attached to each request by the JWT
// middleware. It is not persisted; the identity provider supplies it.
type Actor struct {
	ID      uuid.UUID
	Role    Role
	Country Country
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
