package repositories

import (
	"context"
	"errors"
	"fmt"

	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Update(ctx context.Context, id uuid.UUID, upd *models.RestaurantUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, country *models.Country, isActive *bool) ([]*models.Restaurant, error)
}

type restaurantRepo struct {
	db Database
}

func NewRestaurantRepo(db Database) RestaurantRepository {
	return &restaurantRepo{db: db}
}

func (r *restaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, description, image_url, country, cuisine, rating, delivery_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, restaurant.ID, restaurant.Name, restaurant.Description, restaurant.ImageURL, restaurant.Country, restaurant.Cuisine, restaurant.Rating, restaurant.DeliveryTime, restaurant.IsActive)
	return err
}

func (r *restaurantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{}
	query := `
		SELECT id, name, description, image_url, country, cuisine, rating, delivery_time, is_active, created_at, updated_at
		FROM restaurants
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&restaurant.ID, &restaurant.Name, &restaurant.Description, &restaurant.ImageURL, &restaurant.Country, &restaurant.Cuisine, &restaurant.Rating, &restaurant.DeliveryTime, &restaurant.IsActive, &restaurant.CreatedAt, &restaurant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return restaurant, nil
}

// Update applies only the fields set on upd. Country is never updated.
func (r *restaurantRepo) Update(ctx context.Context, id uuid.UUID, upd *models.RestaurantUpdate) error {
	setClauses := ""
	args := []interface{}{}
	conditionCount := 0

	addSet := func(column string, value interface{}) {
		conditionCount++
		setClauses += fmt.Sprintf("%s = $%d, ", column, conditionCount)
		args = append(args, value)
	}

	if upd.Name != nil {
		addSet("name", *upd.Name)
	}
	if upd.Description != nil {
		addSet("description", *upd.Description)
	}
	if upd.ImageURL != nil {
		addSet("image_url", *upd.ImageURL)
	}
	if upd.Cuisine != nil {
		addSet("cuisine", *upd.Cuisine)
	}
	if upd.Rating != nil {
		addSet("rating", *upd.Rating)
	}
	if upd.DeliveryTime != nil {
		addSet("delivery_time", *upd.DeliveryTime)
	}
	if upd.IsActive != nil {
		addSet("is_active", *upd.IsActive)
	}
	if conditionCount == 0 {
		return nil
	}

	conditionCount++
	query := fmt.Sprintf(`UPDATE restaurants SET %supdated_at = NOW() WHERE id = $%d`, setClauses, conditionCount)
	args = append(args, id)
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *restaurantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM restaurants WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// List returns restaurants best first. Country and active filters are
// optional; non-admin callers always pass both.
func (r *restaurantRepo) List(ctx context.Context, country *models.Country, isActive *bool) ([]*models.Restaurant, error) {
	queryBase := `
		SELECT id, name, description, image_url, country, cuisine, rating, delivery_time, is_active, created_at, updated_at
		FROM restaurants
		WHERE 1=1
	`
	args := []interface{}{}
	conditionCount := 0

	if country != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND country = $%d`, conditionCount)
		args = append(args, *country)
	}
	if isActive != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND is_active = $%d`, conditionCount)
		args = append(args, *isActive)
	}
	queryBase += ` ORDER BY rating DESC`

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	for rows.Next() {
		restaurant := &models.Restaurant{}
		if err := rows.Scan(&restaurant.ID, &restaurant.Name, &restaurant.Description, &restaurant.ImageURL, &restaurant.Country, &restaurant.Cuisine, &restaurant.Rating, &restaurant.DeliveryTime, &restaurant.IsActive, &restaurant.CreatedAt, &restaurant.UpdatedAt); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}
