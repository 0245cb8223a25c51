package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/middleware"
	"mealmart/internal/models"
	"mealmart/internal/services"
)

type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

func (h *OrderHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.CreateDraft)
	g.GET("/orders", h.ListMyOrders)
	g.GET("/orders/all", h.ListAllOrders, middleware.RequireRole(models.RoleAdmin))
	g.GET("/orders/:id", h.GetOrder)
	g.POST("/orders/:id/items", h.AddItem)
	g.PUT("/orders/:id/items/:itemID", h.UpdateItemQuantity)
	g.DELETE("/orders/:id/items/:itemID", h.RemoveItem)
	g.POST("/orders/:id/checkout", h.Checkout, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	g.POST("/orders/:id/cancel", h.Cancel, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	g.POST("/orders/:id/pay", h.ProcessPayment, middleware.RequireRole(models.RoleAdmin))
	g.PUT("/orders/:id/status", h.UpdateStatus, middleware.RequireRole(models.RoleAdmin))
	g.GET("/orders/:id/qr", h.PickupCode)
}

// CreateDraft handles POST /orders
func (h *OrderHandlers) CreateDraft(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		RestaurantID    string  `json:"restaurant_id"`
		DeliveryAddress *string `json:"delivery_address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	restaurantID, err := common.ValidateUUID(req.RestaurantID, "restaurant_id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	order, err := h.orderService.CreateDraft(c.Request().Context(), actor, restaurantID, req.DeliveryAddress)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders handles GET /orders
func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var status *models.OrderStatus
	if statusStr := c.QueryParam("status"); statusStr != "" {
		parsed, err := models.ParseOrderStatus(statusStr)
		if err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
		status = &parsed
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	orders, err := h.orderService.ListMyOrders(c.Request().Context(), actor, status, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAllOrders handles GET /orders/all with admin filters
func (h *OrderHandlers) ListAllOrders(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter := &models.OrderFilter{}
	if userIDStr := c.QueryParam("user_id"); userIDStr != "" {
		userID, err := common.ValidateUUID(userIDStr, "user_id")
		if err != nil {
			return common.SendDomainError(c, err)
		}
		filter.UserID = &userID
	}
	if restaurantIDStr := c.QueryParam("restaurant_id"); restaurantIDStr != "" {
		restaurantID, err := common.ValidateUUID(restaurantIDStr, "restaurant_id")
		if err != nil {
			return common.SendDomainError(c, err)
		}
		filter.RestaurantID = &restaurantID
	}
	if statusStr := c.QueryParam("status"); statusStr != "" {
		status, err := models.ParseOrderStatus(statusStr)
		if err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
		filter.Status = &status
	}
	if countryStr := c.QueryParam("country"); countryStr != "" {
		country, err := models.ParseCountry(countryStr)
		if err != nil {
			return common.SendValidationError(c, "country", err.Error())
		}
		filter.Country = &country
	}
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.orderService.ListOrders(c.Request().Context(), actor, filter)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.GetOrder(c.Request().Context(), actor, orderID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// AddItem handles POST /orders/:id/items
func (h *OrderHandlers) AddItem(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}

	var req struct {
		MenuItemID string `json:"menu_item_id"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	menuItemID, err := common.ValidateUUID(req.MenuItemID, "menu_item_id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	order, err := h.orderService.AddItem(c.Request().Context(), actor, orderID, menuItemID, req.Quantity)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateItemQuantity handles PUT /orders/:id/items/:itemID
func (h *OrderHandlers) UpdateItemQuantity(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}
	itemID, err := common.ValidateUUID(c.Param("itemID"), "order item id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	order, err := h.orderService.UpdateItemQuantity(c.Request().Context(), actor, orderID, itemID, req.Quantity)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// RemoveItem handles DELETE /orders/:id/items/:itemID
func (h *OrderHandlers) RemoveItem(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}
	itemID, err := common.ValidateUUID(c.Param("itemID"), "order item id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	order, err := h.orderService.RemoveItem(c.Request().Context(), actor, orderID, itemID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Checkout handles POST /orders/:id/checkout
func (h *OrderHandlers) Checkout(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}

	var req struct {
		PaymentMethodID string  `json:"payment_method_id"`
		DeliveryAddress *string `json:"delivery_address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	paymentMethodID, err := common.ValidateUUID(req.PaymentMethodID, "payment_method_id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	order, err := h.orderService.Checkout(c.Request().Context(), actor, orderID, paymentMethodID, req.DeliveryAddress)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandlers) Cancel(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.CancelOrder(c.Request().Context(), actor, orderID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ProcessPayment handles POST /orders/:id/pay
func (h *OrderHandlers) ProcessPayment(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}

	var req struct {
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	paymentMethodID, err := common.ValidateUUID(req.PaymentMethodID, "payment_method_id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	order, err := h.orderService.ProcessPayment(c.Request().Context(), actor, orderID, paymentMethodID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request().Context(), actor, orderID, status)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// PickupCode handles GET /orders/:id/qr
func (h *OrderHandlers) PickupCode(c echo.Context) error {
	actor, orderID, err := h.actorAndOrderID(c)
	if err != nil {
		return err
	}
	png, err := h.orderService.PickupCode(c.Request().Context(), actor, orderID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *OrderHandlers) actorAndOrderID(c echo.Context) (models.Actor, uuid.UUID, error) {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return models.Actor{}, uuid.Nil, common.SendUnauthorizedError(c)
	}
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return models.Actor{}, uuid.Nil, common.SendDomainError(c, err)
	}
	return actor, orderID, nil
}
