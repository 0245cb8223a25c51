package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"mealmart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock         pgxmock.PgxPoolIface
	repo         OrderRepository
	orderID      uuid.UUID
	userID       uuid.UUID
	restaurantID uuid.UUID
	context      context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.userID = uuid.New()
	suite.restaurantID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) TestCreate_Success() {
	order := &models.Order{
		ID:           suite.orderID,
		UserID:       suite.userID,
		RestaurantID: suite.restaurantID,
		Status:       models.OrderDraft,
		TotalAmount:  0,
	}

	suite.mock.ExpectExec(`
		INSERT INTO orders \(id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(order.ID, order.UserID, order.RestaurantID, order.Status, order.TotalAmount, order.DeliveryAddress, order.PaymentMethodID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, order)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestGetByID_Found() {
	now := time.Now()

	suite.mock.ExpectQuery(`
		SELECT id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, checked_out_at, paid_at, cancelled_at, created_at, updated_at
		FROM orders
		WHERE id = \$1
	`).WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "restaurant_id", "status", "total_amount", "delivery_address", "payment_method_id", "checked_out_at", "paid_at", "cancelled_at", "created_at", "updated_at"}).
			AddRow(suite.orderID, suite.userID, suite.restaurantID, models.OrderDraft, 150.0, nil, nil, nil, nil, nil, now, now))

	result, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.orderID, result.ID)
	assert.Equal(suite.T(), models.OrderDraft, result.Status)
	assert.Equal(suite.T(), 150.0, result.TotalAmount)
	assert.Nil(suite.T(), result.PaidAt)
}

func (suite *OrderRepoTestSuite) TestGetByID_MissingReturnsNil() {
	suite.mock.ExpectQuery(`
		SELECT id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, checked_out_at, paid_at, cancelled_at, created_at, updated_at
		FROM orders
		WHERE id = \$1
	`).WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "restaurant_id", "status", "total_amount", "delivery_address", "payment_method_id", "checked_out_at", "paid_at", "cancelled_at", "created_at", "updated_at"}))

	result, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), result)
}

func (suite *OrderRepoTestSuite) TestUpdate_PersistsStatusAndTimestamps() {
	now := time.Now()
	order := &models.Order{
		ID:           suite.orderID,
		UserID:       suite.userID,
		RestaurantID: suite.restaurantID,
		Status:       models.OrderPending,
		TotalAmount:  300.0,
		CheckedOutAt: &now,
	}

	suite.mock.ExpectExec(`
		UPDATE orders
		SET status = \$1, total_amount = \$2, delivery_address = \$3, payment_method_id = \$4, checked_out_at = \$5, paid_at = \$6, cancelled_at = \$7, updated_at = NOW\(\)
		WHERE id = \$8
	`).WithArgs(order.Status, order.TotalAmount, order.DeliveryAddress, order.PaymentMethodID, order.CheckedOutAt, order.PaidAt, order.CancelledAt, order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, order)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestRecomputeTotal_ReturnsFreshSum() {
	suite.mock.ExpectQuery(`
		UPDATE orders
		SET total_amount = \(
			SELECT COALESCE\(SUM\(price_at_order \* quantity\), 0\)
			FROM order_items
			WHERE order_id = \$1
		\), updated_at = NOW\(\)
		WHERE id = \$1
		RETURNING total_amount
	`).WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"total_amount"}).AddRow(300.0))

	total, err := suite.repo.RecomputeTotal(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 300.0, total)
}

func (suite *OrderRepoTestSuite) TestRecomputeTotal_DatabaseError() {
	suite.mock.ExpectQuery(`UPDATE orders`).
		WithArgs(suite.orderID).
		WillReturnError(errors.New("database connection failed"))

	total, err := suite.repo.RecomputeTotal(suite.context, suite.orderID)
	assert.Error(suite.T(), err)
	assert.Zero(suite.T(), total)
}

func (suite *OrderRepoTestSuite) TestListByUser_Success() {
	now := time.Now()
	limit, offset := 10, 0

	rows := pgxmock.NewRows([]string{"id", "user_id", "restaurant_id", "status", "total_amount", "delivery_address", "payment_method_id", "checked_out_at", "paid_at", "cancelled_at", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.userID, suite.restaurantID, models.OrderDelivered, 420.0, nil, nil, &now, &now, nil, now, now).
		AddRow(uuid.New(), suite.userID, suite.restaurantID, models.OrderDraft, 0.0, nil, nil, nil, nil, nil, now, now)

	suite.mock.ExpectQuery(`
		SELECT id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, checked_out_at, paid_at, cancelled_at, created_at, updated_at
		FROM orders
		WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.userID, limit, offset).
		WillReturnRows(rows)

	result, err := suite.repo.ListByUser(suite.context, suite.userID, nil, limit, offset)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), models.OrderDelivered, result[0].Status)
}

func (suite *OrderRepoTestSuite) TestListByUser_StatusFilter() {
	now := time.Now()
	status := models.OrderDelivered
	limit, offset := 10, 0

	rows := pgxmock.NewRows([]string{"id", "user_id", "restaurant_id", "status", "total_amount", "delivery_address", "payment_method_id", "checked_out_at", "paid_at", "cancelled_at", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.userID, suite.restaurantID, models.OrderDelivered, 420.0, nil, nil, &now, &now, nil, now, now)

	suite.mock.ExpectQuery(`WHERE user_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(suite.userID, status, limit, offset).
		WillReturnRows(rows)

	result, err := suite.repo.ListByUser(suite.context, suite.userID, &status, limit, offset)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.OrderDelivered, result[0].Status)
}

func (suite *OrderRepoTestSuite) TestList_CountryFilterJoinsRestaurant() {
	now := time.Now()
	country := models.CountryIndia
	filter := &models.OrderFilter{Country: &country}

	rows := pgxmock.NewRows([]string{"id", "user_id", "restaurant_id", "status", "total_amount", "delivery_address", "payment_method_id", "checked_out_at", "paid_at", "cancelled_at", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.userID, suite.restaurantID, models.OrderConfirmed, 99.0, nil, nil, &now, &now, nil, now, now)

	suite.mock.ExpectQuery(`FROM orders o`).
		WithArgs(country, 50).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.OrderConfirmed, result[0].Status)
}

func (suite *OrderRepoTestSuite) TestCountActiveByPaymentMethod_CountsLiveStatuses() {
	paymentMethodID := uuid.New()

	suite.mock.ExpectQuery(`
		SELECT COUNT\(\*\)
		FROM orders
		WHERE payment_method_id = \$1 AND status IN \('PENDING', 'CONFIRMED'\)
	`).WithArgs(paymentMethodID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.CountActiveByPaymentMethod(suite.context, paymentMethodID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}

func (suite *OrderRepoTestSuite) TestListStaleDrafts_Success() {
	now := time.Now()
	cutoff := now.Add(-7 * 24 * time.Hour)

	rows := pgxmock.NewRows([]string{"id", "user_id", "restaurant_id", "status", "total_amount", "delivery_address", "payment_method_id", "checked_out_at", "paid_at", "cancelled_at", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.userID, suite.restaurantID, models.OrderDraft, 10.0, nil, nil, nil, nil, nil, now, now)

	suite.mock.ExpectQuery(`
		SELECT id, user_id, restaurant_id, status, total_amount, delivery_address, payment_method_id, checked_out_at, paid_at, cancelled_at, created_at, updated_at
		FROM orders
		WHERE status = 'DRAFT' AND updated_at < \$1
		ORDER BY updated_at ASC
	`).WithArgs(cutoff).
		WillReturnRows(rows)

	result, err := suite.repo.ListStaleDrafts(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.OrderDraft, result[0].Status)
}
