package services

import (
	"testing"

	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCountryAllowed(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		country models.Country
		target  models.Country
		allowed bool
	}{
		{"admin crosses countries", models.RoleAdmin, models.CountryIndia, models.CountryAmerica, true},
		{"admin same country", models.RoleAdmin, models.CountryIndia, models.CountryIndia, true},
		{"manager same country", models.RoleManager, models.CountryIndia, models.CountryIndia, true},
		{"manager cross country", models.RoleManager, models.CountryIndia, models.CountryAmerica, false},
		{"member same country", models.RoleMember, models.CountryAmerica, models.CountryAmerica, true},
		{"member cross country", models.RoleMember, models.CountryAmerica, models.CountryIndia, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := models.Actor{ID: uuid.New(), Role: tt.role, Country: tt.country}
			assert.Equal(t, tt.allowed, CountryAllowed(actor, tt.target))
		})
	}
}

func TestCanManageOrder(t *testing.T) {
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner}

	ownerActor := models.Actor{ID: owner, Role: models.RoleMember, Country: models.CountryIndia}
	assert.True(t, CanManageOrder(ownerActor, order))

	strangerActor := models.Actor{ID: uuid.New(), Role: models.RoleManager, Country: models.CountryIndia}
	assert.False(t, CanManageOrder(strangerActor, order))

	adminActor := models.Actor{ID: uuid.New(), Role: models.RoleAdmin, Country: models.CountryAmerica}
	assert.True(t, CanManageOrder(adminActor, order))
}

func TestCanPurchase(t *testing.T) {
	assert.True(t, CanPurchase(models.Actor{Role: models.RoleAdmin}))
	assert.True(t, CanPurchase(models.Actor{Role: models.RoleManager}))
	assert.False(t, CanPurchase(models.Actor{Role: models.RoleMember}))
}
