package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/middleware"
	"mealmart/internal/models"
	"mealmart/internal/services"
)

const presignedImageExpiry = 24 * time.Hour

type MenuItemHandlers struct {
	menuItemService services.MenuItemServiceInterface
	minioService    services.MinioServiceInterface
}

func NewMenuItemHandlers(menuItemService services.MenuItemServiceInterface, minioService services.MinioServiceInterface) *MenuItemHandlers {
	return &MenuItemHandlers{
		menuItemService: menuItemService,
		minioService:    minioService,
	}
}

func (h *MenuItemHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/restaurants/:id/menu-items", h.ListMenu)
	g.POST("/restaurants/:id/menu-items", h.CreateMenuItem, middleware.RequireRole(models.RoleAdmin))
	g.GET("/menu-items/:id", h.GetMenuItem)
	g.PUT("/menu-items/:id", h.UpdateMenuItem, middleware.RequireRole(models.RoleAdmin))
	g.DELETE("/menu-items/:id", h.DeleteMenuItem, middleware.RequireRole(models.RoleAdmin))
	g.POST("/menu-items/:id/image", h.UploadImage, middleware.RequireRole(models.RoleAdmin))
}

// ListMenu handles GET /restaurants/:id/menu-items
func (h *MenuItemHandlers) ListMenu(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	restaurantID, err := common.ValidateUUID(c.Param("id"), "restaurant id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	filter := &models.MenuItemFilter{}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}
	if availableStr := c.QueryParam("is_available"); availableStr != "" {
		parsed, err := strconv.ParseBool(availableStr)
		if err != nil {
			return common.SendValidationError(c, "is_available", "is_available must be true or false")
		}
		filter.IsAvailable = &parsed
	}
	if vegStr := c.QueryParam("is_vegetarian"); vegStr != "" {
		parsed, err := strconv.ParseBool(vegStr)
		if err != nil {
			return common.SendValidationError(c, "is_vegetarian", "is_vegetarian must be true or false")
		}
		filter.IsVegetarian = &parsed
	}

	items, err := h.menuItemService.ListMenu(c.Request().Context(), actor, restaurantID, filter)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// CreateMenuItem handles POST /restaurants/:id/menu-items
func (h *MenuItemHandlers) CreateMenuItem(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	restaurantID, err := common.ValidateUUID(c.Param("id"), "restaurant id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	var req struct {
		Name         string  `json:"name"`
		Description  *string `json:"description"`
		Price        float64 `json:"price"`
		Category     string  `json:"category"`
		IsAvailable  *bool   `json:"is_available"`
		IsVegetarian bool    `json:"is_vegetarian"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		IsAvailable:  available,
		IsVegetarian: req.IsVegetarian,
	}
	if err := h.menuItemService.CreateMenuItem(c.Request().Context(), actor, item); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// GetMenuItem handles GET /menu-items/:id
func (h *MenuItemHandlers) GetMenuItem(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "menu item id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	item, err := h.menuItemService.GetMenuItem(c.Request().Context(), actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateMenuItem handles PUT /menu-items/:id
func (h *MenuItemHandlers) UpdateMenuItem(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "menu item id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	var upd models.MenuItemUpdate
	if err := c.Bind(&upd); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	item, err := h.menuItemService.UpdateMenuItem(c.Request().Context(), actor, id, &upd)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /menu-items/:id
func (h *MenuItemHandlers) DeleteMenuItem(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "menu item id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	if err := h.menuItemService.DeleteMenuItem(c.Request().Context(), actor, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /menu-items/:id/image. The file lands in object
// storage; the item keeps the object name and clients read via a presigned
// URL.
func (h *MenuItemHandlers) UploadImage(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "menu item id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendClientError(c, "could not read uploaded file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("menu-items/%s/%s", id, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := h.minioService.UploadImage(c.Request().Context(), objectName, file, fileHeader.Size, contentType); err != nil {
		return common.SendDomainError(c, common.UnavailableError("upload image", err))
	}

	item, err := h.menuItemService.UpdateMenuItem(c.Request().Context(), actor, id, &models.MenuItemUpdate{ImageURL: &objectName})
	if err != nil {
		return common.SendDomainError(c, err)
	}

	url, err := h.minioService.GetPresignedURL(c.Request().Context(), objectName, presignedImageExpiry)
	if err != nil {
		return common.SendDomainError(c, common.UnavailableError("presign image", err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"menu_item": item,
		"image_url": url,
	})
}
