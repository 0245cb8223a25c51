package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/middleware"
	"mealmart/internal/models"
	"mealmart/internal/services"
)

type UserHandlers struct {
	userService services.UserServiceInterface
}

func NewUserHandlers(userService services.UserServiceInterface) *UserHandlers {
	return &UserHandlers{userService: userService}
}

func (h *UserHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
	g.GET("/users", h.ListUsers, middleware.RequireRole(models.RoleAdmin))
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser, middleware.RequireRole(models.RoleAdmin))
}

// Me handles GET /me
func (h *UserHandlers) Me(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	user, err := h.userService.GetUser(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users
func (h *UserHandlers) ListUsers(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter := &models.UserFilter{}
	if roleStr := c.QueryParam("role"); roleStr != "" {
		role, err := models.ParseRole(roleStr)
		if err != nil {
			return common.SendValidationError(c, "role", err.Error())
		}
		filter.Role = &role
	}
	if countryStr := c.QueryParam("country"); countryStr != "" {
		country, err := models.ParseCountry(countryStr)
		if err != nil {
			return common.SendValidationError(c, "country", err.Error())
		}
		filter.Country = &country
	}

	users, err := h.userService.ListUsers(c.Request().Context(), actor, filter)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (h *UserHandlers) GetUser(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	user, err := h.userService.GetUser(c.Request().Context(), actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	var req struct {
		Name    *string `json:"name"`
		Role    *string `json:"role"`
		Country *string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	var role *models.Role
	if req.Role != nil {
		parsed, err := models.ParseRole(*req.Role)
		if err != nil {
			return common.SendValidationError(c, "role", err.Error())
		}
		role = &parsed
	}
	var country *models.Country
	if req.Country != nil {
		parsed, err := models.ParseCountry(*req.Country)
		if err != nil {
			return common.SendValidationError(c, "country", err.Error())
		}
		country = &parsed
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), actor, id, req.Name, role, country)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandlers) DeleteUser(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	if err := h.userService.DeleteUser(c.Request().Context(), actor, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
