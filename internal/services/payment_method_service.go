package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mealmart/internal/common"
	"mealmart/internal/models"
	"mealmart/internal/repositories"
)

// PaymentMethodServiceInterface manages the payment method registry. The
// registry is administrative; managers only get the read-only "available"
// view they need for checkout.
type PaymentMethodServiceInterface interface {
	CreatePaymentMethod(ctx context.Context, actor models.Actor, pm *models.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, actor models.Actor) ([]*models.PaymentMethod, error)
	ListAvailable(ctx context.Context, actor models.Actor) ([]*models.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID, upd *models.PaymentMethodUpdate) (*models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID) error
	SetDefaultPaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.PaymentMethod, error)
	ExpiringSoon(ctx context.Context, within time.Duration) ([]*models.PaymentMethod, error)
}

type paymentMethodService struct {
	paymentMethodRepo repositories.PaymentMethodRepository
	orderRepo         repositories.OrderRepository
}

func NewPaymentMethodService(paymentMethodRepo repositories.PaymentMethodRepository, orderRepo repositories.OrderRepository) PaymentMethodServiceInterface {
	return &paymentMethodService{
		paymentMethodRepo: paymentMethodRepo,
		orderRepo:         orderRepo,
	}
}

func validatePaymentMethodFields(pmType, provider, last4 string, month, year int) error {
	if err := common.ValidateRequiredString(pmType, "type"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(provider, "provider"); err != nil {
		return err
	}
	if len(last4) != 4 {
		return common.ValidationError("last4_digits must be exactly 4 digits")
	}
	for _, c := range last4 {
		if c < '0' || c > '9' {
			return common.ValidationError("last4_digits must be exactly 4 digits")
		}
	}
	return common.ValidateExpiry(month, year)
}

func (s *paymentMethodService) CreatePaymentMethod(ctx context.Context, actor models.Actor, pm *models.PaymentMethod) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may manage payment methods")
	}
	if err := validatePaymentMethodFields(pm.Type, pm.Provider, pm.Last4Digits, pm.ExpiryMonth, pm.ExpiryYear); err != nil {
		return err
	}

	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	wantDefault := pm.IsDefault
	pm.IsDefault = false
	if err := s.paymentMethodRepo.Create(ctx, pm); err != nil {
		return common.UnavailableError("create payment method", err)
	}
	// Promotion goes through SetDefault so the previous default, whoever
	// owned it, is cleared atomically.
	if wantDefault {
		if err := s.paymentMethodRepo.SetDefault(ctx, pm.ID); err != nil {
			return common.UnavailableError("set default payment method", err)
		}
		pm.IsDefault = true
	}
	return nil
}

func (s *paymentMethodService) GetPaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.PaymentMethod, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may manage payment methods")
	}
	pm, err := s.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch payment method", err)
	}
	if pm == nil {
		return nil, common.NotFoundError("payment method")
	}
	return pm, nil
}

func (s *paymentMethodService) ListPaymentMethods(ctx context.Context, actor models.Actor) ([]*models.PaymentMethod, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may manage payment methods")
	}
	methods, err := s.paymentMethodRepo.List(ctx)
	if err != nil {
		return nil, common.UnavailableError("list payment methods", err)
	}
	return methods, nil
}

// ListAvailable returns the methods the actor can pay with: their own plus
// the shared pool, expired cards excluded. Members cannot check out, so they
// get nothing here.
func (s *paymentMethodService) ListAvailable(ctx context.Context, actor models.Actor) ([]*models.PaymentMethod, error) {
	if !CanPurchase(actor) {
		return nil, common.ForbiddenError("your role cannot use payment methods")
	}
	methods, err := s.paymentMethodRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, common.UnavailableError("list payment methods", err)
	}
	currentYear := time.Now().Year()
	available := make([]*models.PaymentMethod, 0, len(methods))
	for _, pm := range methods {
		if pm.ExpiryYear >= currentYear {
			available = append(available, pm)
		}
	}
	return available, nil
}

func (s *paymentMethodService) UpdatePaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID, upd *models.PaymentMethodUpdate) (*models.PaymentMethod, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may manage payment methods")
	}
	pm, err := s.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch payment method", err)
	}
	if pm == nil {
		return nil, common.NotFoundError("payment method")
	}
	if upd.ExpiryMonth != nil || upd.ExpiryYear != nil {
		month, year := pm.ExpiryMonth, pm.ExpiryYear
		if upd.ExpiryMonth != nil {
			month = *upd.ExpiryMonth
		}
		if upd.ExpiryYear != nil {
			year = *upd.ExpiryYear
		}
		if err := common.ValidateExpiry(month, year); err != nil {
			return nil, err
		}
	}
	if upd.Last4Digits != nil {
		if err := validatePaymentMethodFields(pm.Type, pm.Provider, *upd.Last4Digits, pm.ExpiryMonth, pm.ExpiryYear); err != nil {
			return nil, err
		}
	}

	if err := s.paymentMethodRepo.Update(ctx, id, upd); err != nil {
		return nil, common.UnavailableError("update payment method", err)
	}
	if upd.IsDefault != nil {
		if *upd.IsDefault {
			if err := s.paymentMethodRepo.SetDefault(ctx, id); err != nil {
				return nil, common.UnavailableError("set default payment method", err)
			}
		} else {
			if err := s.paymentMethodRepo.UnsetDefault(ctx, id); err != nil {
				return nil, common.UnavailableError("unset default payment method", err)
			}
		}
	}

	updated, err := s.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch payment method", err)
	}
	return updated, nil
}

func (s *paymentMethodService) DeletePaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may manage payment methods")
	}
	pm, err := s.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return common.UnavailableError("fetch payment method", err)
	}
	if pm == nil {
		return common.NotFoundError("payment method")
	}
	// No foreign-key cascade on orders.payment_method_id; refuse deletion
	// while a live order still references the method.
	active, err := s.orderRepo.CountActiveByPaymentMethod(ctx, id)
	if err != nil {
		return common.UnavailableError("check payment method usage", err)
	}
	if active > 0 {
		return common.InvalidStateError("payment method is referenced by active orders")
	}
	if err := s.paymentMethodRepo.Delete(ctx, id); err != nil {
		return common.UnavailableError("delete payment method", err)
	}
	return nil
}

func (s *paymentMethodService) SetDefaultPaymentMethod(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.PaymentMethod, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may manage payment methods")
	}
	pm, err := s.paymentMethodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch payment method", err)
	}
	if pm == nil {
		return nil, common.NotFoundError("payment method")
	}
	if err := s.paymentMethodRepo.SetDefault(ctx, id); err != nil {
		return nil, common.UnavailableError("set default payment method", err)
	}
	pm.IsDefault = true
	return pm, nil
}

// ExpiringSoon lists cards that expire within the window. Consumed by the
// daily report job.
func (s *paymentMethodService) ExpiringSoon(ctx context.Context, within time.Duration) ([]*models.PaymentMethod, error) {
	horizon := time.Now().Add(within)
	methods, err := s.paymentMethodRepo.ListExpiringBefore(ctx, horizon.Year(), int(horizon.Month()))
	if err != nil {
		return nil, common.UnavailableError("list expiring payment methods", err)
	}
	return methods, nil
}
