package services

import (
	"mealmart/internal/models"
)

// Access rules shared across the services:
//   - ADMIN operates on every country.
//   - MANAGER and MEMBER are confined to their own country.
//   - Orders additionally carry ownership: only the owner or an admin may
//     read or mutate one.
//   - Checkout, payment capture and cancellation are purchasing actions,
//     closed to MEMBER.

// CountryAllowed reports whether the actor may touch resources in country.
func CountryAllowed(actor models.Actor, country models.Country) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Country == country
}

// CanManageOrder reports whether the actor owns the order or is an admin.
func CanManageOrder(actor models.Actor, order *models.Order) bool {
	if actor.IsAdmin() {
		return true
	}
	return order.UserID == actor.ID
}

// CanPurchase reports whether the actor's role permits checkout and
// cancellation.
func CanPurchase(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleManager
}
