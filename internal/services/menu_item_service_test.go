package services

import (
	"context"
	"testing"

	"mealmart/internal/caching"
	"mealmart/internal/common"
	"mealmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MenuItemServiceTestSuite struct {
	suite.Suite
	menuItemRepo   *MockMenuItemRepo
	restaurantRepo *MockRestaurantRepo
	cache          *MockCache
	service        MenuItemServiceInterface

	ctx          context.Context
	admin        models.Actor
	manager      models.Actor
	member       models.Actor
	restaurantID uuid.UUID
}

func (suite *MenuItemServiceTestSuite) SetupTest() {
	suite.menuItemRepo = new(MockMenuItemRepo)
	suite.restaurantRepo = new(MockRestaurantRepo)
	suite.cache = new(MockCache)
	suite.service = NewMenuItemService(suite.menuItemRepo, suite.restaurantRepo, suite.cache)

	suite.ctx = context.Background()
	suite.admin = models.Actor{ID: uuid.New(), Role: models.RoleAdmin, Country: models.CountryAmerica}
	suite.manager = models.Actor{ID: uuid.New(), Role: models.RoleManager, Country: models.CountryIndia}
	suite.member = models.Actor{ID: uuid.New(), Role: models.RoleMember, Country: models.CountryIndia}
	suite.restaurantID = uuid.New()
}

func TestMenuItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MenuItemServiceTestSuite))
}

func (suite *MenuItemServiceTestSuite) indianRestaurant() *models.Restaurant {
	return &models.Restaurant{ID: suite.restaurantID, Name: "Dosa House", Country: models.CountryIndia, IsActive: true}
}

func (suite *MenuItemServiceTestSuite) TestCreate_RestaurantMissing() {
	suite.restaurantRepo.On("GetByID", suite.ctx, suite.restaurantID).Return(nil, nil)

	item := &models.MenuItem{RestaurantID: suite.restaurantID, Name: "Idli", Category: "Breakfast", Price: 40}
	err := suite.service.CreateMenuItem(suite.ctx, suite.admin, item)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *MenuItemServiceTestSuite) TestCreate_NegativePriceRejected() {
	item := &models.MenuItem{RestaurantID: suite.restaurantID, Name: "Idli", Category: "Breakfast", Price: -1}
	err := suite.service.CreateMenuItem(suite.ctx, suite.admin, item)
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *MenuItemServiceTestSuite) TestCreate_Success() {
	suite.restaurantRepo.On("GetByID", suite.ctx, suite.restaurantID).Return(suite.indianRestaurant(), nil)
	suite.menuItemRepo.On("Create", suite.ctx, mock.Anything).Return(nil)
	suite.cache.On("Delete", suite.ctx, "menu:"+suite.restaurantID.String()).Return(nil)

	item := &models.MenuItem{RestaurantID: suite.restaurantID, Name: "Idli", Category: "Breakfast", Price: 40, IsAvailable: true}
	err := suite.service.CreateMenuItem(suite.ctx, suite.admin, item)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, item.ID)
}

// Menu writes are admin-only; a manager never reaches the repository.
func (suite *MenuItemServiceTestSuite) TestCreate_ManagerForbidden() {
	item := &models.MenuItem{RestaurantID: suite.restaurantID, Name: "Idli", Category: "Breakfast", Price: 40}
	err := suite.service.CreateMenuItem(suite.ctx, suite.manager, item)
	assert.True(suite.T(), common.IsForbidden(err))
	suite.menuItemRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, mock.Anything)
}

// Members always see the available menu, even when they ask for hidden
// items explicitly.
func (suite *MenuItemServiceTestSuite) TestListMenu_MemberCannotSeeUnavailable() {
	hidden := false
	suite.restaurantRepo.On("GetByID", suite.ctx, suite.restaurantID).Return(suite.indianRestaurant(), nil)
	suite.cache.On("Get", suite.ctx, "menu:"+suite.restaurantID.String(), mock.Anything).Return(caching.ErrCacheMiss)
	suite.cache.On("Set", suite.ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.menuItemRepo.On("ListByRestaurant", suite.ctx, suite.restaurantID, mock.MatchedBy(func(filter *models.MenuItemFilter) bool {
		return filter.IsAvailable != nil && *filter.IsAvailable
	})).Return([]*models.MenuItem{}, nil)

	_, err := suite.service.ListMenu(suite.ctx, suite.member, suite.restaurantID, &models.MenuItemFilter{IsAvailable: &hidden})
	assert.NoError(suite.T(), err)
}

func (suite *MenuItemServiceTestSuite) TestListMenu_ManagerMayFilterUnavailable() {
	hidden := false
	suite.restaurantRepo.On("GetByID", suite.ctx, suite.restaurantID).Return(suite.indianRestaurant(), nil)
	suite.menuItemRepo.On("ListByRestaurant", suite.ctx, suite.restaurantID, mock.MatchedBy(func(filter *models.MenuItemFilter) bool {
		return filter.IsAvailable != nil && !*filter.IsAvailable
	})).Return([]*models.MenuItem{}, nil)

	_, err := suite.service.ListMenu(suite.ctx, suite.manager, suite.restaurantID, &models.MenuItemFilter{IsAvailable: &hidden})
	assert.NoError(suite.T(), err)
	suite.cache.AssertNotCalled(suite.T(), "Get", suite.ctx, mock.Anything, mock.Anything)
}

func (suite *MenuItemServiceTestSuite) TestUpdate_ManagerForbidden() {
	itemID := uuid.New()

	newName := "Nachos"
	_, err := suite.service.UpdateMenuItem(suite.ctx, suite.manager, itemID, &models.MenuItemUpdate{Name: &newName})
	assert.True(suite.T(), common.IsForbidden(err))
	suite.menuItemRepo.AssertNotCalled(suite.T(), "Update", suite.ctx, itemID, mock.Anything)
}

func (suite *MenuItemServiceTestSuite) TestDelete_InvalidatesMenuCache() {
	itemID := uuid.New()
	item := &models.MenuItem{ID: itemID, RestaurantID: suite.restaurantID, Name: "Idli"}

	suite.menuItemRepo.On("GetByID", suite.ctx, itemID).Return(item, nil)
	suite.menuItemRepo.On("Delete", suite.ctx, itemID).Return(nil)
	suite.cache.On("Delete", suite.ctx, "menu:"+suite.restaurantID.String()).Return(nil)

	err := suite.service.DeleteMenuItem(suite.ctx, suite.admin, itemID)
	assert.NoError(suite.T(), err)
	suite.cache.AssertCalled(suite.T(), "Delete", suite.ctx, "menu:"+suite.restaurantID.String())
}
