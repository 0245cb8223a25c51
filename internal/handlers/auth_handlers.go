package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/models"
	"mealmart/internal/services"
)

type AuthHandlers struct {
	authService services.AuthServiceInterface
}

func NewAuthHandlers(authService services.AuthServiceInterface) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

func (h *AuthHandlers) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
	e.POST("/auth/logout", h.Logout)
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		Country  string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return common.SendValidationError(c, "role", err.Error())
	}
	country, err := models.ParseCountry(req.Country)
	if err != nil {
		return common.SendValidationError(c, "country", err.Error())
	}

	tokens, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name, role, country)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, tokens)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "refresh_token is required")
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
