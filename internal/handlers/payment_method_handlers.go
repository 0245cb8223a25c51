package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/middleware"
	"mealmart/internal/models"
	"mealmart/internal/services"
)

type PaymentMethodHandlers struct {
	paymentMethodService services.PaymentMethodServiceInterface
}

func NewPaymentMethodHandlers(paymentMethodService services.PaymentMethodServiceInterface) *PaymentMethodHandlers {
	return &PaymentMethodHandlers{paymentMethodService: paymentMethodService}
}

func (h *PaymentMethodHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/payment-methods", h.List, middleware.RequireRole(models.RoleAdmin))
	g.GET("/payment-methods/available", h.ListAvailable, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	g.GET("/payment-methods/:id", h.Get, middleware.RequireRole(models.RoleAdmin))
	g.POST("/payment-methods", h.Create, middleware.RequireRole(models.RoleAdmin))
	g.PUT("/payment-methods/:id", h.Update, middleware.RequireRole(models.RoleAdmin))
	g.DELETE("/payment-methods/:id", h.Delete, middleware.RequireRole(models.RoleAdmin))
	g.POST("/payment-methods/:id/default", h.SetDefault, middleware.RequireRole(models.RoleAdmin))
}

// List handles GET /payment-methods
func (h *PaymentMethodHandlers) List(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	methods, err := h.paymentMethodService.ListPaymentMethods(c.Request().Context(), actor)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, methods)
}

// ListAvailable handles GET /payment-methods/available. Returns the methods
// the caller may check out with, shared methods included.
func (h *PaymentMethodHandlers) ListAvailable(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	methods, err := h.paymentMethodService.ListAvailable(c.Request().Context(), actor)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, methods)
}

// Get handles GET /payment-methods/:id
func (h *PaymentMethodHandlers) Get(c echo.Context) error {
	actor, id, err := h.actorAndID(c)
	if err != nil {
		return err
	}
	method, err := h.paymentMethodService.GetPaymentMethod(c.Request().Context(), actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, method)
}

// Create handles POST /payment-methods
func (h *PaymentMethodHandlers) Create(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		UserID      *string `json:"user_id"`
		Type        string  `json:"type"`
		Provider    string  `json:"provider"`
		Last4Digits string  `json:"last4_digits"`
		ExpiryMonth int     `json:"expiry_month"`
		ExpiryYear  int     `json:"expiry_year"`
		IsDefault   bool    `json:"is_default"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	var userID *uuid.UUID
	if req.UserID != nil && *req.UserID != "" {
		parsed, err := common.ValidateUUID(*req.UserID, "user_id")
		if err != nil {
			return common.SendDomainError(c, err)
		}
		userID = &parsed
	}

	pm := &models.PaymentMethod{
		UserID:      userID,
		Type:        req.Type,
		Provider:    req.Provider,
		Last4Digits: req.Last4Digits,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		IsDefault:   req.IsDefault,
	}
	if err := h.paymentMethodService.CreatePaymentMethod(c.Request().Context(), actor, pm); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, pm)
}

// Update handles PUT /payment-methods/:id
func (h *PaymentMethodHandlers) Update(c echo.Context) error {
	actor, id, err := h.actorAndID(c)
	if err != nil {
		return err
	}

	var upd models.PaymentMethodUpdate
	if err := c.Bind(&upd); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	method, err := h.paymentMethodService.UpdatePaymentMethod(c.Request().Context(), actor, id, &upd)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, method)
}

// Delete handles DELETE /payment-methods/:id
func (h *PaymentMethodHandlers) Delete(c echo.Context) error {
	actor, id, err := h.actorAndID(c)
	if err != nil {
		return err
	}
	if err := h.paymentMethodService.DeletePaymentMethod(c.Request().Context(), actor, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetDefault handles POST /payment-methods/:id/default
func (h *PaymentMethodHandlers) SetDefault(c echo.Context) error {
	actor, id, err := h.actorAndID(c)
	if err != nil {
		return err
	}
	method, err := h.paymentMethodService.SetDefaultPaymentMethod(c.Request().Context(), actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, method)
}

func (h *PaymentMethodHandlers) actorAndID(c echo.Context) (models.Actor, uuid.UUID, error) {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return models.Actor{}, uuid.Nil, common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "payment method id")
	if err != nil {
		return models.Actor{}, uuid.Nil, common.SendDomainError(c, err)
	}
	return actor, id, nil
}
