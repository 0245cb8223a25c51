package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error)
	RecomputeTotal(ctx context.Context, orderID uuid.UUID) (float64, error)
	ListStaleDrafts(ctx context.Context, olderThan time.Time) ([]*models.Order, error)
	CountActiveByPaymentMethod(ctx context.Context, paymentMethodID uuid.UUID) (int, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, checked_out_at, paid_at, cancelled_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.UserID, &order.RestaurantID, &order.Status, &order.TotalAmount, &order.DeliveryAddress, &order.PaymentMethodID, &order.CheckedOutAt, &order.PaidAt, &order.CancelledAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.UserID, order.RestaurantID, order.Status, order.TotalAmount, order.DeliveryAddress, order.PaymentMethodID)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET status = $1, total_amount = $2, delivery_address = $3, payment_method_id = $4, checked_out_at = $5, paid_at = $6, cancelled_at = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, order.Status, order.TotalAmount, order.DeliveryAddress, order.PaymentMethodID, order.CheckedOutAt, order.PaidAt, order.CancelledAt, order.ID)
	return err
}

// List serves the administrative listing. Country filters through the
// restaurant the order was placed against.
func (r *orderRepo) List(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error) {
	queryBase := `
		SELECT o.id, o.user_id, o.restaurant_id, o.status, o.total_amount, o.delivery_address, o.payment_method_id, o.checked_out_at, o.paid_at, o.cancelled_at, o.created_at, o.updated_at
		FROM orders o
		WHERE 1=1
	`
	args := []interface{}{}
	conditionCount := 0

	if filter.UserID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.user_id = $%d`, conditionCount)
		args = append(args, *filter.UserID)
	}
	if filter.RestaurantID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.restaurant_id = $%d`, conditionCount)
		args = append(args, *filter.RestaurantID)
	}
	if filter.Status != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND o.status = $%d`, conditionCount)
		args = append(args, *filter.Status)
	}
	if filter.Country != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM restaurants r
			WHERE r.id = o.restaurant_id AND r.country = $%d
		)`, conditionCount)
		args = append(args, *filter.Country)
	}
	queryBase += ` ORDER BY o.created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ListByUser pages one user's orders, optionally narrowed to a status.
func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1`
	args := []interface{}{userID}
	conditionCount := 1

	if status != nil {
		conditionCount++
		query += fmt.Sprintf(` AND status = $%d`, conditionCount)
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, conditionCount+1, conditionCount+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// RecomputeTotal recalculates total_amount from the order lines in a single
// statement so concurrent item edits can never leave a stale sum.
func (r *orderRepo) RecomputeTotal(ctx context.Context, orderID uuid.UUID) (float64, error) {
	query := `
		UPDATE orders
		SET total_amount = (
			SELECT COALESCE(SUM(price_at_order * quantity), 0)
			FROM order_items
			WHERE order_id = $1
		), updated_at = NOW()
		WHERE id = $1
		RETURNING total_amount
	`
	var total float64
	if err := r.db.QueryRow(ctx, query, orderID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// CountActiveByPaymentMethod counts live orders holding a reference to the
// payment method. There is no foreign-key cascade; deletion is refused while
// this is non-zero.
func (r *orderRepo) CountActiveByPaymentMethod(ctx context.Context, paymentMethodID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE payment_method_id = $1 AND status IN ('PENDING', 'CONFIRMED')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, paymentMethodID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListStaleDrafts returns draft orders untouched since olderThan. Used by the
// background sweep that cancels abandoned carts.
func (r *orderRepo) ListStaleDrafts(ctx context.Context, olderThan time.Time) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'DRAFT' AND updated_at < $1
		ORDER BY updated_at ASC
	`
	rows, err := r.db.Query(ctx, query, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
