package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"mealmart/internal/caching"
	"mealmart/internal/common"
	"mealmart/internal/models"
	"mealmart/internal/repositories"
)

// RestaurantServiceInterface defines the interface for restaurant operations
type RestaurantServiceInterface interface {
	CreateRestaurant(ctx context.Context, actor models.Actor, restaurant *models.Restaurant) error
	GetRestaurant(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context, actor models.Actor) ([]*models.Restaurant, error)
	ListAllRestaurants(ctx context.Context, actor models.Actor, country *models.Country, isActive *bool) ([]*models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, actor models.Actor, id uuid.UUID, upd *models.RestaurantUpdate) (*models.Restaurant, error)
	DeleteRestaurant(ctx context.Context, actor models.Actor, id uuid.UUID) error
}

const restaurantListTTL = 5 * time.Minute

type restaurantService struct {
	restaurantRepo repositories.RestaurantRepository
	menuItemRepo   repositories.MenuItemRepository
	cache          caching.CacheService
}

func NewRestaurantService(restaurantRepo repositories.RestaurantRepository, menuItemRepo repositories.MenuItemRepository, cache caching.CacheService) RestaurantServiceInterface {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		menuItemRepo:   menuItemRepo,
		cache:          cache,
	}
}

func restaurantListKey(country models.Country) string {
	return "restaurants:" + string(country)
}

// CreateRestaurant registers a restaurant. Catalog writes are admin-only.
// New restaurants open active.
func (s *restaurantService) CreateRestaurant(ctx context.Context, actor models.Actor, restaurant *models.Restaurant) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may manage restaurants")
	}
	if err := common.ValidateRequiredString(restaurant.Name, "name"); err != nil {
		return err
	}
	if !restaurant.Country.Valid() {
		return common.ValidationError("country must be one of: INDIA, AMERICA")
	}
	if restaurant.Rating < 0 || restaurant.Rating > 5 {
		return common.ValidationError("rating must be between 0 and 5")
	}

	if restaurant.ID == uuid.Nil {
		restaurant.ID = uuid.New()
	}
	restaurant.IsActive = true

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return common.UnavailableError("create restaurant", err)
	}
	s.invalidateListCache(ctx, restaurant.Country)
	return nil
}

// GetRestaurant returns the restaurant with its available menu attached.
// Existence is checked before authorization so a cross-country probe cannot
// distinguish "missing" from "hidden".
func (s *restaurantService) GetRestaurant(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch restaurant", err)
	}
	if restaurant == nil {
		return nil, common.NotFoundError("restaurant")
	}
	if !CountryAllowed(actor, restaurant.Country) {
		return nil, common.ForbiddenError("restaurant is outside your country")
	}

	available := true
	items, err := s.menuItemRepo.ListByRestaurant(ctx, id, &models.MenuItemFilter{IsAvailable: &available})
	if err != nil {
		return nil, common.UnavailableError("fetch menu", err)
	}
	restaurant.MenuItems = items
	return restaurant, nil
}

// ListRestaurants is the browse listing: active restaurants in the actor's
// country, best rated first. Admins see every country. The non-admin path is
// served through the cache.
func (s *restaurantService) ListRestaurants(ctx context.Context, actor models.Actor) ([]*models.Restaurant, error) {
	active := true
	if actor.IsAdmin() {
		restaurants, err := s.restaurantRepo.List(ctx, nil, &active)
		if err != nil {
			return nil, common.UnavailableError("list restaurants", err)
		}
		return restaurants, nil
	}

	var cached []*models.Restaurant
	if err := s.cache.Get(ctx, restaurantListKey(actor.Country), &cached); err == nil {
		return cached, nil
	}

	country := actor.Country
	restaurants, err := s.restaurantRepo.List(ctx, &country, &active)
	if err != nil {
		return nil, common.UnavailableError("list restaurants", err)
	}
	if err := s.cache.Set(ctx, restaurantListKey(country), restaurants, restaurantListTTL); err != nil {
		log.Printf("restaurant list cache set failed: %v", err)
	}
	return restaurants, nil
}

// ListAllRestaurants is the administrative listing with explicit filters.
func (s *restaurantService) ListAllRestaurants(ctx context.Context, actor models.Actor, country *models.Country, isActive *bool) ([]*models.Restaurant, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may list all restaurants")
	}
	restaurants, err := s.restaurantRepo.List(ctx, country, isActive)
	if err != nil {
		return nil, common.UnavailableError("list restaurants", err)
	}
	return restaurants, nil
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, actor models.Actor, id uuid.UUID, upd *models.RestaurantUpdate) (*models.Restaurant, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may manage restaurants")
	}
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch restaurant", err)
	}
	if restaurant == nil {
		return nil, common.NotFoundError("restaurant")
	}
	if upd.Rating != nil && (*upd.Rating < 0 || *upd.Rating > 5) {
		return nil, common.ValidationError("rating must be between 0 and 5")
	}
	if upd.Name != nil {
		if err := common.ValidateRequiredString(*upd.Name, "name"); err != nil {
			return nil, err
		}
	}

	if err := s.restaurantRepo.Update(ctx, id, upd); err != nil {
		return nil, common.UnavailableError("update restaurant", err)
	}
	s.invalidateListCache(ctx, restaurant.Country)

	updated, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch restaurant", err)
	}
	return updated, nil
}

func (s *restaurantService) DeleteRestaurant(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may manage restaurants")
	}
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return common.UnavailableError("fetch restaurant", err)
	}
	if restaurant == nil {
		return common.NotFoundError("restaurant")
	}
	if err := s.restaurantRepo.Delete(ctx, id); err != nil {
		return common.UnavailableError("delete restaurant", err)
	}
	s.invalidateListCache(ctx, restaurant.Country)
	return nil
}

func (s *restaurantService) invalidateListCache(ctx context.Context, country models.Country) {
	if err := s.cache.Delete(ctx, restaurantListKey(country)); err != nil {
		log.Printf("restaurant list cache invalidation failed: %v", err)
	}
}
