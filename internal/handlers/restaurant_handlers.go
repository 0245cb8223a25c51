package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mealmart/internal/common"
	"mealmart/internal/middleware"
	"mealmart/internal/models"
	"mealmart/internal/services"
)

type RestaurantHandlers struct {
	restaurantService services.RestaurantServiceInterface
}

func NewRestaurantHandlers(restaurantService services.RestaurantServiceInterface) *RestaurantHandlers {
	return &RestaurantHandlers{restaurantService: restaurantService}
}

func (h *RestaurantHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/restaurants", h.ListRestaurants)
	g.GET("/restaurants/all", h.ListAllRestaurants, middleware.RequireRole(models.RoleAdmin))
	g.GET("/restaurants/:id", h.GetRestaurant)
	g.POST("/restaurants", h.CreateRestaurant, middleware.RequireRole(models.RoleAdmin))
	g.PUT("/restaurants/:id", h.UpdateRestaurant, middleware.RequireRole(models.RoleAdmin))
	g.DELETE("/restaurants/:id", h.DeleteRestaurant, middleware.RequireRole(models.RoleAdmin))
}

// ListRestaurants handles GET /restaurants
func (h *RestaurantHandlers) ListRestaurants(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	restaurants, err := h.restaurantService.ListRestaurants(c.Request().Context(), actor)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, restaurants)
}

// ListAllRestaurants handles GET /restaurants/all with admin filters
func (h *RestaurantHandlers) ListAllRestaurants(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var country *models.Country
	if countryStr := c.QueryParam("country"); countryStr != "" {
		parsed, err := models.ParseCountry(countryStr)
		if err != nil {
			return common.SendValidationError(c, "country", err.Error())
		}
		country = &parsed
	}
	var isActive *bool
	if activeStr := c.QueryParam("is_active"); activeStr != "" {
		parsed, err := strconv.ParseBool(activeStr)
		if err != nil {
			return common.SendValidationError(c, "is_active", "is_active must be true or false")
		}
		isActive = &parsed
	}

	restaurants, err := h.restaurantService.ListAllRestaurants(c.Request().Context(), actor, country, isActive)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant handles GET /restaurants/:id
func (h *RestaurantHandlers) GetRestaurant(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "restaurant id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	restaurant, err := h.restaurantService.GetRestaurant(c.Request().Context(), actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

// CreateRestaurant handles POST /restaurants
func (h *RestaurantHandlers) CreateRestaurant(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name         string  `json:"name"`
		Description  *string `json:"description"`
		ImageURL     *string `json:"image_url"`
		Country      string  `json:"country"`
		Cuisine      *string `json:"cuisine"`
		Rating       float64 `json:"rating"`
		DeliveryTime *string `json:"delivery_time"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	country, err := models.ParseCountry(req.Country)
	if err != nil {
		return common.SendValidationError(c, "country", err.Error())
	}

	restaurant := &models.Restaurant{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Country:      country,
		Cuisine:      req.Cuisine,
		Rating:       req.Rating,
		DeliveryTime: req.DeliveryTime,
	}
	if err := h.restaurantService.CreateRestaurant(c.Request().Context(), actor, restaurant); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, restaurant)
}

// UpdateRestaurant handles PUT /restaurants/:id
func (h *RestaurantHandlers) UpdateRestaurant(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "restaurant id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	var upd models.RestaurantUpdate
	if err := c.Bind(&upd); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	restaurant, err := h.restaurantService.UpdateRestaurant(c.Request().Context(), actor, id, &upd)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

// DeleteRestaurant handles DELETE /restaurants/:id
func (h *RestaurantHandlers) DeleteRestaurant(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "restaurant id")
	if err != nil {
		return common.SendDomainError(c, err)
	}

	if err := h.restaurantService.DeleteRestaurant(c.Request().Context(), actor, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
