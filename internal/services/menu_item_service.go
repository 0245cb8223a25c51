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

type MenuItemServiceInterface interface {
	CreateMenuItem(ctx context.Context, actor models.Actor, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.MenuItem, error)
	ListMenu(ctx context.Context, actor models.Actor, restaurantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, actor models.Actor, id uuid.UUID, upd *models.MenuItemUpdate) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, actor models.Actor, id uuid.UUID) error
}

const menuListTTL = 5 * time.Minute

type menuItemService struct {
	menuItemRepo   repositories.MenuItemRepository
	restaurantRepo repositories.RestaurantRepository
	cache          caching.CacheService
}

func NewMenuItemService(menuItemRepo repositories.MenuItemRepository, restaurantRepo repositories.RestaurantRepository, cache caching.CacheService) MenuItemServiceInterface {
	return &menuItemService{
		menuItemRepo:   menuItemRepo,
		restaurantRepo: restaurantRepo,
		cache:          cache,
	}
}

func menuListKey(restaurantID uuid.UUID) string {
	return "menu:" + restaurantID.String()
}

// CreateMenuItem adds a dish to a restaurant's menu. Menu writes are
// admin-only.
func (s *menuItemService) CreateMenuItem(ctx context.Context, actor models.Actor, item *models.MenuItem) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may manage menu items")
	}
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(item.Category, "category"); err != nil {
		return err
	}
	if err := common.ValidatePrice(item.Price); err != nil {
		return err
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, item.RestaurantID)
	if err != nil {
		return common.UnavailableError("fetch restaurant", err)
	}
	if restaurant == nil {
		return common.NotFoundError("restaurant")
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := s.menuItemRepo.Create(ctx, item); err != nil {
		return common.UnavailableError("create menu item", err)
	}
	s.invalidateMenuCache(ctx, item.RestaurantID)
	return nil
}

func (s *menuItemService) GetMenuItem(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch menu item", err)
	}
	if item == nil {
		return nil, common.NotFoundError("menu item")
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, item.RestaurantID)
	if err != nil {
		return nil, common.UnavailableError("fetch restaurant", err)
	}
	if restaurant == nil {
		return nil, common.NotFoundError("restaurant")
	}
	if !CountryAllowed(actor, restaurant.Country) {
		return nil, common.ForbiddenError("menu item is outside your country")
	}
	return item, nil
}

// ListMenu returns a restaurant's menu, category then name. Unless the
// caller filters explicitly, only available items are shown; members can
// never see hidden items.
func (s *menuItemService) ListMenu(ctx context.Context, actor models.Actor, restaurantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error) {
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

	if filter == nil {
		filter = &models.MenuItemFilter{}
	}
	available := true
	if filter.IsAvailable == nil || actor.Role == models.RoleMember {
		filter.IsAvailable = &available
	}

	// Only the plain available listing is cached; filtered views go to the
	// database.
	cacheable := filter.Category == nil && filter.IsVegetarian == nil && *filter.IsAvailable
	if cacheable {
		var cached []*models.MenuItem
		if err := s.cache.Get(ctx, menuListKey(restaurantID), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.menuItemRepo.ListByRestaurant(ctx, restaurantID, filter)
	if err != nil {
		return nil, common.UnavailableError("list menu", err)
	}
	if cacheable {
		if err := s.cache.Set(ctx, menuListKey(restaurantID), items, menuListTTL); err != nil {
			log.Printf("menu cache set failed: %v", err)
		}
	}
	return items, nil
}

func (s *menuItemService) UpdateMenuItem(ctx context.Context, actor models.Actor, id uuid.UUID, upd *models.MenuItemUpdate) (*models.MenuItem, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may manage menu items")
	}
	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch menu item", err)
	}
	if item == nil {
		return nil, common.NotFoundError("menu item")
	}
	if upd.Price != nil {
		if err := common.ValidatePrice(*upd.Price); err != nil {
			return nil, err
		}
	}
	if upd.Name != nil {
		if err := common.ValidateRequiredString(*upd.Name, "name"); err != nil {
			return nil, err
		}
	}

	if err := s.menuItemRepo.Update(ctx, id, upd); err != nil {
		return nil, common.UnavailableError("update menu item", err)
	}
	s.invalidateMenuCache(ctx, item.RestaurantID)

	updated, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch menu item", err)
	}
	return updated, nil
}

func (s *menuItemService) DeleteMenuItem(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may manage menu items")
	}
	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return common.UnavailableError("fetch menu item", err)
	}
	if item == nil {
		return common.NotFoundError("menu item")
	}

	if err := s.menuItemRepo.Delete(ctx, id); err != nil {
		return common.UnavailableError("delete menu item", err)
	}
	s.invalidateMenuCache(ctx, item.RestaurantID)
	return nil
}

func (s *menuItemService) invalidateMenuCache(ctx context.Context, restaurantID uuid.UUID) {
	if err := s.cache.Delete(ctx, menuListKey(restaurantID)); err != nil {
		log.Printf("menu cache invalidation failed: %v", err)
	}
}
