package repositories

import (
	"context"
	"errors"
	"fmt"

	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentMethodRepository interface {
	Create(ctx context.Context, pm *models.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	List(ctx context.Context) ([]*models.PaymentMethod, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PaymentMethod, error)
	Update(ctx context.Context, id uuid.UUID, upd *models.PaymentMethodUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) error
	UnsetDefault(ctx context.Context, id uuid.UUID) error
	ListExpiringBefore(ctx context.Context, year, month int) ([]*models.PaymentMethod, error)
}

type paymentMethodRepo struct {
	db Database
}

func NewPaymentMethodRepo(db Database) PaymentMethodRepository {
	return &paymentMethodRepo{db: db}
}

const paymentMethodColumns = `id, user_id, type, provider, last4_digits, expiry_month, expiry_year, is_default, created_at, updated_at`

func scanPaymentMethod(row pgx.Row) (*models.PaymentMethod, error) {
	pm := &models.PaymentMethod{}
	err := row.Scan(&pm.ID, &pm.UserID, &pm.Type, &pm.Provider, &pm.Last4Digits, &pm.ExpiryMonth, &pm.ExpiryYear, &pm.IsDefault, &pm.CreatedAt, &pm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return pm, nil
}

func (r *paymentMethodRepo) Create(ctx context.Context, pm *models.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, user_id, type, provider, last4_digits, expiry_month, expiry_year, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, pm.ID, pm.UserID, pm.Type, pm.Provider, pm.Last4Digits, pm.ExpiryMonth, pm.ExpiryYear, pm.IsDefault)
	return err
}

func (r *paymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE id = $1
	`
	pm, err := scanPaymentMethod(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pm, nil
}

func (r *paymentMethodRepo) List(ctx context.Context) ([]*models.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPaymentMethods(rows)
}

func (r *paymentMethodRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY is_default DESC, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPaymentMethods(rows)
}

// Update applies only the fields set on upd. IsDefault is handled by
// SetDefault so the single-default rule cannot be bypassed here.
func (r *paymentMethodRepo) Update(ctx context.Context, id uuid.UUID, upd *models.PaymentMethodUpdate) error {
	setClauses := ""
	args := []interface{}{}
	conditionCount := 0

	addSet := func(column string, value interface{}) {
		conditionCount++
		setClauses += fmt.Sprintf("%s = $%d, ", column, conditionCount)
		args = append(args, value)
	}

	if upd.Type != nil {
		addSet("type", *upd.Type)
	}
	if upd.Provider != nil {
		addSet("provider", *upd.Provider)
	}
	if upd.Last4Digits != nil {
		addSet("last4_digits", *upd.Last4Digits)
	}
	if upd.ExpiryMonth != nil {
		addSet("expiry_month", *upd.ExpiryMonth)
	}
	if upd.ExpiryYear != nil {
		addSet("expiry_year", *upd.ExpiryYear)
	}
	if conditionCount == 0 {
		return nil
	}

	conditionCount++
	query := fmt.Sprintf(`UPDATE payment_methods SET %supdated_at = NOW() WHERE id = $%d`, setClauses, conditionCount)
	args = append(args, id)
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *paymentMethodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payment_methods WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// SetDefault promotes one method to default. The default is a single slot
// across the whole registry, owned and shared methods alike, so the clear
// carries no owner predicate. Clear and set run in one transaction so at
// most one default ever survives.
func (r *paymentMethodRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	clearQuery := `
		UPDATE payment_methods
		SET is_default = false, updated_at = NOW()
		WHERE is_default = true
	`
	if _, err := tx.Exec(ctx, clearQuery); err != nil {
		return err
	}

	setQuery := `
		UPDATE payment_methods
		SET is_default = true, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, setQuery, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UnsetDefault demotes a single method. No transaction needed: clearing a
// flag cannot violate the single-default rule.
func (r *paymentMethodRepo) UnsetDefault(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE payment_methods
		SET is_default = false, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// ListExpiringBefore returns cards whose expiry falls on or before the given
// month. Used by the daily expiry report job.
func (r *paymentMethodRepo) ListExpiringBefore(ctx context.Context, year, month int) ([]*models.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE expiry_year * 12 + expiry_month <= $1 * 12 + $2
		ORDER BY expiry_year ASC, expiry_month ASC
	`
	rows, err := r.db.Query(ctx, query, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPaymentMethods(rows)
}

func collectPaymentMethods(rows pgx.Rows) ([]*models.PaymentMethod, error) {
	var methods []*models.PaymentMethod
	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	return methods, nil
}
