package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"mealmart/internal/common"
	"mealmart/internal/events"
	"mealmart/internal/models"
	"mealmart/internal/repositories"
)

// OrderServiceInterface defines the interface for order lifecycle operations
type OrderServiceInterface interface {
	CreateDraft(ctx context.Context, actor models.Actor, restaurantID uuid.UUID, deliveryAddress *string) (*models.Order, error)
	GetOrder(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, error)
	ListMyOrders(ctx context.Context, actor models.Actor, status *models.OrderStatus, limit, offset int) ([]*models.Order, error)
	ListOrders(ctx context.Context, actor models.Actor, filter *models.OrderFilter) ([]*models.Order, error)
	AddItem(ctx context.Context, actor models.Actor, orderID, menuItemID uuid.UUID, quantity int) (*models.Order, error)
	UpdateItemQuantity(ctx context.Context, actor models.Actor, orderID, itemID uuid.UUID, quantity int) (*models.Order, error)
	RemoveItem(ctx context.Context, actor models.Actor, orderID, itemID uuid.UUID) (*models.Order, error)
	Checkout(ctx context.Context, actor models.Actor, orderID, paymentMethodID uuid.UUID, deliveryAddress *string) (*models.Order, error)
	CancelOrder(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, error)
	ProcessPayment(ctx context.Context, actor models.Actor, orderID, paymentMethodID uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, actor models.Actor, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
	PickupCode(ctx context.Context, actor models.Actor, orderID uuid.UUID) ([]byte, error)
	CancelStaleDrafts(ctx context.Context, maxAge time.Duration) (int, error)
}

type orderService struct {
	orderRepo         repositories.OrderRepository
	orderItemRepo     repositories.OrderItemRepository
	menuItemRepo      repositories.MenuItemRepository
	restaurantRepo    repositories.RestaurantRepository
	paymentMethodRepo repositories.PaymentMethodRepository
	publisher         events.Publisher
}

// NewOrderService creates a new order service instance
func NewOrderService(
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	menuItemRepo repositories.MenuItemRepository,
	restaurantRepo repositories.RestaurantRepository,
	paymentMethodRepo repositories.PaymentMethodRepository,
	publisher events.Publisher,
) OrderServiceInterface {
	return &orderService{
		orderRepo:         orderRepo,
		orderItemRepo:     orderItemRepo,
		menuItemRepo:      menuItemRepo,
		restaurantRepo:    restaurantRepo,
		paymentMethodRepo: paymentMethodRepo,
		publisher:         publisher,
	}
}

// CreateDraft opens an empty cart against a restaurant the actor can see.
func (s *orderService) CreateDraft(ctx context.Context, actor models.Actor, restaurantID uuid.UUID, deliveryAddress *string) (*models.Order, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, common.UnavailableError("fetch restaurant", err)
	}
	if restaurant == nil {
		return nil, common.NotFoundError("restaurant")
	}
	if !CountryAllowed(actor, restaurant.Country) {
		return nil, common.ForbiddenError("restaurant is outside your country")
	}
	if !restaurant.IsActive {
		return nil, common.InvalidStateError("restaurant is not accepting orders")
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          actor.ID,
		RestaurantID:    restaurantID,
		Status:          models.OrderDraft,
		TotalAmount:     0,
		DeliveryAddress: deliveryAddress,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, common.UnavailableError("create order", err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, order)
}

// ListMyOrders pages the actor's own orders, newest first, optionally
// narrowed to a status.
func (s *orderService) ListMyOrders(ctx context.Context, actor models.Actor, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	orders, err := s.orderRepo.ListByUser(ctx, actor.ID, status, limit, offset)
	if err != nil {
		return nil, common.UnavailableError("list orders", err)
	}
	return orders, nil
}

// ListOrders is the administrative listing across all users.
func (s *orderService) ListOrders(ctx context.Context, actor models.Actor, filter *models.OrderFilter) ([]*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may list all orders")
	}
	if filter == nil {
		filter = &models.OrderFilter{}
	}
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, common.UnavailableError("list orders", err)
	}
	return orders, nil
}

// AddItem puts a menu item on a draft order. Adding an item that is already
// on the order increments its quantity; the price snapshotted on first add
// is kept. The total is recomputed from the lines afterwards.
func (s *orderService) AddItem(ctx context.Context, actor models.Actor, orderID, menuItemID uuid.UUID, quantity int) (*models.Order, error) {
	if err := common.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderDraft {
		return nil, common.InvalidStateError("items can only change while the order is a draft")
	}

	menuItem, err := s.menuItemRepo.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, common.UnavailableError("fetch menu item", err)
	}
	if menuItem == nil {
		return nil, common.NotFoundError("menu item")
	}
	if menuItem.RestaurantID != order.RestaurantID {
		return nil, common.ValidationError("menu item belongs to a different restaurant")
	}
	if !menuItem.IsAvailable {
		return nil, common.InvalidStateError("menu item is currently unavailable")
	}

	line := &models.OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		MenuItemID:   menuItemID,
		Quantity:     quantity,
		PriceAtOrder: menuItem.Price,
	}
	if err := s.orderItemRepo.UpsertQuantity(ctx, line); err != nil {
		return nil, common.UnavailableError("add order item", err)
	}
	return s.refreshTotal(ctx, actor, orderID)
}

// UpdateItemQuantity sets an absolute quantity on an existing line.
func (s *orderService) UpdateItemQuantity(ctx context.Context, actor models.Actor, orderID, itemID uuid.UUID, quantity int) (*models.Order, error) {
	if err := common.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderDraft {
		return nil, common.InvalidStateError("items can only change while the order is a draft")
	}

	item, err := s.orderItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.UnavailableError("fetch order item", err)
	}
	if item == nil || item.OrderID != orderID {
		return nil, common.NotFoundError("order item")
	}
	if err := s.orderItemRepo.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return nil, common.UnavailableError("update order item", err)
	}
	return s.refreshTotal(ctx, actor, orderID)
}

func (s *orderService) RemoveItem(ctx context.Context, actor models.Actor, orderID, itemID uuid.UUID) (*models.Order, error) {
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderDraft {
		return nil, common.InvalidStateError("items can only change while the order is a draft")
	}

	item, err := s.orderItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.UnavailableError("fetch order item", err)
	}
	if item == nil || item.OrderID != orderID {
		return nil, common.NotFoundError("order item")
	}
	if err := s.orderItemRepo.Delete(ctx, itemID); err != nil {
		return nil, common.UnavailableError("remove order item", err)
	}
	return s.refreshTotal(ctx, actor, orderID)
}

// Checkout submits a draft for payment. The order must have at least one
// line and reference a payment method reachable by its owner.
func (s *orderService) Checkout(ctx context.Context, actor models.Actor, orderID, paymentMethodID uuid.UUID, deliveryAddress *string) (*models.Order, error) {
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !CanPurchase(actor) {
		return nil, common.ForbiddenError("your role cannot check out orders")
	}
	if order.Status != models.OrderDraft {
		return nil, common.InvalidStateError("only draft orders can be checked out")
	}

	items, err := s.orderItemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, common.UnavailableError("fetch order items", err)
	}
	if len(items) == 0 {
		return nil, common.InvalidStateError("cannot check out an empty order")
	}

	method, err := s.paymentMethodRepo.GetByID(ctx, paymentMethodID)
	if err != nil {
		return nil, common.UnavailableError("fetch payment method", err)
	}
	if method == nil {
		return nil, common.NotFoundError("payment method")
	}
	if method.UserID != nil && *method.UserID != order.UserID {
		return nil, common.ForbiddenError("payment method belongs to another user")
	}

	total, err := s.orderRepo.RecomputeTotal(ctx, orderID)
	if err != nil {
		return nil, common.UnavailableError("recompute order total", err)
	}
	order.TotalAmount = total
	order.PaymentMethodID = &paymentMethodID
	if deliveryAddress != nil {
		order.DeliveryAddress = deliveryAddress
	}
	if err := s.transition(order, models.OrderPending); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, common.UnavailableError("update order", err)
	}
	s.publish(ctx, order)
	return s.attachItems(ctx, order)
}

// CancelOrder aborts an order that has not been confirmed yet.
func (s *orderService) CancelOrder(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !CanPurchase(actor) {
		return nil, common.ForbiddenError("your role cannot cancel orders")
	}
	if err := s.transition(order, models.OrderCancelled); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, common.UnavailableError("update order", err)
	}
	s.publish(ctx, order)
	return s.attachItems(ctx, order)
}

// ProcessPayment is the administrative capture: it confirms a draft or
// pending order against the method being charged and stamps the payment
// time. The method is recorded on the order so a confirmed order always
// says what it was paid with.
func (s *orderService) ProcessPayment(ctx context.Context, actor models.Actor, orderID, paymentMethodID uuid.UUID) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may capture payments")
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.UnavailableError("fetch order", err)
	}
	if order == nil {
		return nil, common.NotFoundError("order")
	}
	method, err := s.paymentMethodRepo.GetByID(ctx, paymentMethodID)
	if err != nil {
		return nil, common.UnavailableError("fetch payment method", err)
	}
	if method == nil {
		return nil, common.NotFoundError("payment method")
	}
	order.PaymentMethodID = &paymentMethodID
	if err := s.transition(order, models.OrderConfirmed); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, common.UnavailableError("update order", err)
	}
	s.publish(ctx, order)
	return s.attachItems(ctx, order)
}

// UpdateOrderStatus is the administrative override. It still runs through
// the transition table, so even admins cannot resurrect a terminal order.
func (s *orderService) UpdateOrderStatus(ctx context.Context, actor models.Actor, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may set order status directly")
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.UnavailableError("fetch order", err)
	}
	if order == nil {
		return nil, common.NotFoundError("order")
	}
	if err := s.transition(order, status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, common.UnavailableError("update order", err)
	}
	s.publish(ctx, order)
	return s.attachItems(ctx, order)
}

// PickupCode renders a QR png the restaurant scans at handover. Only
// confirmed orders carry one.
func (s *orderService) PickupCode(ctx context.Context, actor models.Actor, orderID uuid.UUID) ([]byte, error) {
	order, err := s.getOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderConfirmed {
		return nil, common.InvalidStateError("pickup code is only issued for confirmed orders")
	}
	png, err := qrcode.Encode(fmt.Sprintf("mealmart:order:%s", order.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, common.UnavailableError("render pickup code", err)
	}
	return png, nil
}

// CancelStaleDrafts sweeps carts abandoned longer than maxAge. Called by the
// background scheduler; there is no acting user.
func (s *orderService) CancelStaleDrafts(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	drafts, err := s.orderRepo.ListStaleDrafts(ctx, cutoff)
	if err != nil {
		return 0, common.UnavailableError("list stale drafts", err)
	}

	cancelled := 0
	for _, order := range drafts {
		if err := s.transition(order, models.OrderCancelled); err != nil {
			continue
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			log.Printf("stale draft %s: cancel failed: %v", order.ID, err)
			continue
		}
		s.publish(ctx, order)
		cancelled++
	}
	return cancelled, nil
}

// getOwnedOrder fetches the order and authorizes the actor against it.
// Existence is checked first so non-owners get the same answer for a
// missing order as everyone else.
func (s *orderService) getOwnedOrder(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.UnavailableError("fetch order", err)
	}
	if order == nil {
		return nil, common.NotFoundError("order")
	}
	if !CanManageOrder(actor, order) {
		return nil, common.ForbiddenError("order belongs to another user")
	}
	return order, nil
}

// transition applies the status change and its timestamp stamps in memory.
// The caller persists.
func (s *orderService) transition(order *models.Order, to models.OrderStatus) error {
	if !models.CanTransition(order.Status, to) {
		return common.InvalidStateError(fmt.Sprintf("cannot move order from %s to %s", order.Status, to))
	}
	now := time.Now()
	switch to {
	case models.OrderPending:
		if order.CheckedOutAt == nil {
			order.CheckedOutAt = &now
		}
	case models.OrderConfirmed, models.OrderDelivered:
		if order.PaidAt == nil {
			order.PaidAt = &now
		}
	case models.OrderCancelled:
		order.CancelledAt = &now
	}
	order.Status = to
	return nil
}

func (s *orderService) refreshTotal(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, error) {
	if _, err := s.orderRepo.RecomputeTotal(ctx, orderID); err != nil {
		return nil, common.UnavailableError("recompute order total", err)
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.UnavailableError("fetch order", err)
	}
	if order == nil {
		return nil, common.NotFoundError("order")
	}
	return s.attachItems(ctx, order)
}

func (s *orderService) attachItems(ctx context.Context, order *models.Order) (*models.Order, error) {
	items, err := s.orderItemRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, common.UnavailableError("fetch order items", err)
	}
	order.Items = items
	return order, nil
}

// publish emits the lifecycle event. Best effort: a broker outage must not
// fail the customer's request.
func (s *orderService) publish(ctx context.Context, order *models.Order) {
	event := &events.OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("order event publish failed for %s: %v", order.ID, err)
	}
}
