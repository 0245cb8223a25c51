package services

import (
	"context"
	"time"

	"mealmart/internal/events"
	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepo) Update(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) List(ctx context.Context, filter *models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	if orders := args.Get(0); orders != nil {
		return orders.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if orders := args.Get(0); orders != nil {
		return orders.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepo) RecomputeTotal(ctx context.Context, orderID uuid.UUID) (float64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOrderRepo) CountActiveByPaymentMethod(ctx context.Context, paymentMethodID uuid.UUID) (int, error) {
	args := m.Called(ctx, paymentMethodID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepo) ListStaleDrafts(ctx context.Context, olderThan time.Time) ([]*models.Order, error) {
	args := m.Called(ctx, olderThan)
	if orders := args.Get(0); orders != nil {
		return orders.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderItemRepo struct {
	mock.Mock
}

func (m *MockOrderItemRepo) UpsertQuantity(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	args := m.Called(ctx, id)
	if item := args.Get(0); item != nil {
		return item.(*models.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if items := args.Get(0); items != nil {
		return items.([]*models.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockOrderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMenuItemRepo struct {
	mock.Mock
}

func (m *MockMenuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if item := args.Get(0); item != nil {
		return item.(*models.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMenuItemRepo) Update(ctx context.Context, id uuid.UUID, upd *models.MenuItemUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockMenuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuItemRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error) {
	args := m.Called(ctx, restaurantID, filter)
	if items := args.Get(0); items != nil {
		return items.([]*models.MenuItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRestaurantRepo struct {
	mock.Mock
}

func (m *MockRestaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if restaurant := args.Get(0); restaurant != nil {
		return restaurant.(*models.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRestaurantRepo) Update(ctx context.Context, id uuid.UUID, upd *models.RestaurantUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockRestaurantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRestaurantRepo) List(ctx context.Context, country *models.Country, isActive *bool) ([]*models.Restaurant, error) {
	args := m.Called(ctx, country, isActive)
	if restaurants := args.Get(0); restaurants != nil {
		return restaurants.([]*models.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPaymentMethodRepo struct {
	mock.Mock
}

func (m *MockPaymentMethodRepo) Create(ctx context.Context, pm *models.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *MockPaymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if pm := args.Get(0); pm != nil {
		return pm.(*models.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentMethodRepo) List(ctx context.Context) ([]*models.PaymentMethod, error) {
	args := m.Called(ctx)
	if methods := args.Get(0); methods != nil {
		return methods.([]*models.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentMethodRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	if methods := args.Get(0); methods != nil {
		return methods.([]*models.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentMethodRepo) Update(ctx context.Context, id uuid.UUID, upd *models.PaymentMethodUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockPaymentMethodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentMethodRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentMethodRepo) UnsetDefault(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentMethodRepo) ListExpiringBefore(ctx context.Context, year, month int) ([]*models.PaymentMethod, error) {
	args := m.Called(ctx, year, month)
	if methods := args.Get(0); methods != nil {
		return methods.([]*models.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) List(ctx context.Context, filter *models.UserFilter) ([]*models.User, error) {
	args := m.Called(ctx, filter)
	if users := args.Get(0); users != nil {
		return users.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	callArgs := make([]interface{}, 0, len(keys)+1)
	callArgs = append(callArgs, ctx)
	for _, key := range keys {
		callArgs = append(callArgs, key)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *MockCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(ctx context.Context, event *events.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
