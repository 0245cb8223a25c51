package repositories

import (
	"context"
	"errors"
	"fmt"

	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Update(ctx context.Context, id uuid.UUID, upd *models.MenuItemUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error)
}

type menuItemRepo struct {
	db Database
}

func NewMenuItemRepo(db Database) MenuItemRepository {
	return &menuItemRepo{db: db}
}

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, restaurant_id, name, description, price, image_url, category, is_available, is_vegetarian, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.RestaurantID, item.Name, item.Description, item.Price, item.ImageURL, item.Category, item.IsAvailable, item.IsVegetarian)
	return err
}

func (r *menuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT id, restaurant_id, name, description, price, image_url, category, is_available, is_vegetarian, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Category, &item.IsAvailable, &item.IsVegetarian, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies only the fields set on upd.
func (r *menuItemRepo) Update(ctx context.Context, id uuid.UUID, upd *models.MenuItemUpdate) error {
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
	if upd.Price != nil {
		addSet("price", *upd.Price)
	}
	if upd.ImageURL != nil {
		addSet("image_url", *upd.ImageURL)
	}
	if upd.Category != nil {
		addSet("category", *upd.Category)
	}
	if upd.IsAvailable != nil {
		addSet("is_available", *upd.IsAvailable)
	}
	if upd.IsVegetarian != nil {
		addSet("is_vegetarian", *upd.IsVegetarian)
	}
	if conditionCount == 0 {
		return nil
	}

	conditionCount++
	query := fmt.Sprintf(`UPDATE menu_items SET %supdated_at = NOW() WHERE id = $%d`, setClauses, conditionCount)
	args = append(args, id)
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *menuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// ListByRestaurant returns the menu grouped for display: category first,
// then name.
func (r *menuItemRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error) {
	queryBase := `
		SELECT id, restaurant_id, name, description, price, image_url, category, is_available, is_vegetarian, created_at, updated_at
		FROM menu_items
		WHERE restaurant_id = $1
	`
	args := []interface{}{restaurantID}
	conditionCount := 1

	if filter != nil && filter.Category != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, *filter.Category)
	}
	if filter != nil && filter.IsAvailable != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND is_available = $%d`, conditionCount)
		args = append(args, *filter.IsAvailable)
	}
	if filter != nil && filter.IsVegetarian != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND is_vegetarian = $%d`, conditionCount)
		args = append(args, *filter.IsVegetarian)
	}
	queryBase += ` ORDER BY category ASC, name ASC`

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Category, &item.IsAvailable, &item.IsVegetarian, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
