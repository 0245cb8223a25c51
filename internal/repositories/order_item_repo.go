package repositories

import (
	"context"
	"errors"

	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	UpsertQuantity(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepo(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

// UpsertQuantity inserts a line or, when the order already holds the same
// menu item, increments its quantity. The conflict target is the unique
// (order_id, menu_item_id) pair, so the merge is atomic and the first
// snapshotted price_at_order is kept.
func (r *orderItemRepo) UpsertQuantity(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, menu_item_id, quantity, price_at_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (order_id, menu_item_id)
		DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.MenuItemID, item.Quantity, item.PriceAtOrder)
	return err
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := `
		SELECT id, order_id, menu_item_id, quantity, price_at_order, created_at, updated_at
		FROM order_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.PriceAtOrder, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, menu_item_id, quantity, price_at_order, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.PriceAtOrder, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateQuantity sets an absolute quantity. price_at_order stays frozen.
func (r *orderItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE order_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, quantity, id)
	return err
}

func (r *orderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM order_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
