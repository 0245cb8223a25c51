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

type RestaurantServiceTestSuite struct {
	suite.Suite
	restaurantRepo *MockRestaurantRepo
	menuItemRepo   *MockMenuItemRepo
	cache          *MockCache
	service        RestaurantServiceInterface

	ctx     context.Context
	admin   models.Actor
	manager models.Actor
}

func (suite *RestaurantServiceTestSuite) SetupTest() {
	suite.restaurantRepo = new(MockRestaurantRepo)
	suite.menuItemRepo = new(MockMenuItemRepo)
	suite.cache = new(MockCache)
	suite.service = NewRestaurantService(suite.restaurantRepo, suite.menuItemRepo, suite.cache)

	suite.ctx = context.Background()
	suite.admin = models.Actor{ID: uuid.New(), Role: models.RoleAdmin, Country: models.CountryAmerica}
	suite.manager = models.Actor{ID: uuid.New(), Role: models.RoleManager, Country: models.CountryIndia}
}

func TestRestaurantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RestaurantServiceTestSuite))
}

// Restaurant writes are admin-only; a manager never reaches the repository.
func (suite *RestaurantServiceTestSuite) TestCreate_ManagerForbidden() {
	restaurant := &models.Restaurant{Name: "Taco Town", Country: models.CountryAmerica}

	err := suite.service.CreateRestaurant(suite.ctx, suite.manager, restaurant)
	assert.True(suite.T(), common.IsForbidden(err))
	suite.restaurantRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, mock.Anything)
}

func (suite *RestaurantServiceTestSuite) TestCreate_AdminAnyCountry() {
	restaurant := &models.Restaurant{Name: "Spice Route", Country: models.CountryIndia}
	suite.restaurantRepo.On("Create", suite.ctx, restaurant).Return(nil)
	suite.cache.On("Delete", suite.ctx, "restaurants:INDIA").Return(nil)

	err := suite.service.CreateRestaurant(suite.ctx, suite.admin, restaurant)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), restaurant.IsActive)
	assert.NotEqual(suite.T(), uuid.Nil, restaurant.ID)
}

func (suite *RestaurantServiceTestSuite) TestCreate_MissingNameRejected() {
	restaurant := &models.Restaurant{Name: "  ", Country: models.CountryIndia}

	err := suite.service.CreateRestaurant(suite.ctx, suite.admin, restaurant)
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *RestaurantServiceTestSuite) TestList_CacheMissFallsThrough() {
	country := models.CountryIndia
	active := true
	fromDB := []*models.Restaurant{{ID: uuid.New(), Name: "Dosa House", Country: country, IsActive: true}}

	suite.cache.On("Get", suite.ctx, "restaurants:INDIA", mock.Anything).Return(caching.ErrCacheMiss)
	suite.restaurantRepo.On("List", suite.ctx, &country, &active).Return(fromDB, nil)
	suite.cache.On("Set", suite.ctx, "restaurants:INDIA", fromDB, restaurantListTTL).Return(nil)

	result, err := suite.service.ListRestaurants(suite.ctx, suite.manager)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	suite.cache.AssertCalled(suite.T(), "Set", suite.ctx, "restaurants:INDIA", fromDB, restaurantListTTL)
}

func (suite *RestaurantServiceTestSuite) TestList_CacheHitSkipsDatabase() {
	cached := []*models.Restaurant{{ID: uuid.New(), Name: "Cached Curry", Country: models.CountryIndia}}

	suite.cache.On("Get", suite.ctx, "restaurants:INDIA", mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(2).(*[]*models.Restaurant)
		*dest = cached
	}).Return(nil)

	result, err := suite.service.ListRestaurants(suite.ctx, suite.manager)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, result)
	suite.restaurantRepo.AssertNotCalled(suite.T(), "List", suite.ctx, mock.Anything, mock.Anything)
}

func (suite *RestaurantServiceTestSuite) TestList_AdminSeesAllCountries() {
	active := true
	suite.restaurantRepo.On("List", suite.ctx, (*models.Country)(nil), &active).
		Return([]*models.Restaurant{}, nil)

	_, err := suite.service.ListRestaurants(suite.ctx, suite.admin)
	assert.NoError(suite.T(), err)
	suite.cache.AssertNotCalled(suite.T(), "Get", suite.ctx, mock.Anything, mock.Anything)
}

func (suite *RestaurantServiceTestSuite) TestGet_MissingNotFound() {
	id := uuid.New()
	suite.restaurantRepo.On("GetByID", suite.ctx, id).Return(nil, nil)

	_, err := suite.service.GetRestaurant(suite.ctx, suite.manager, id)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *RestaurantServiceTestSuite) TestGet_CrossCountryForbidden() {
	id := uuid.New()
	restaurant := &models.Restaurant{ID: id, Name: "Burger Barn", Country: models.CountryAmerica, IsActive: true}
	suite.restaurantRepo.On("GetByID", suite.ctx, id).Return(restaurant, nil)

	_, err := suite.service.GetRestaurant(suite.ctx, suite.manager, id)
	assert.True(suite.T(), common.IsForbidden(err))
}

func (suite *RestaurantServiceTestSuite) TestGet_AttachesAvailableMenu() {
	id := uuid.New()
	restaurant := &models.Restaurant{ID: id, Name: "Dosa House", Country: models.CountryIndia, IsActive: true}
	menu := []*models.MenuItem{{ID: uuid.New(), RestaurantID: id, Name: "Masala Dosa", IsAvailable: true}}

	suite.restaurantRepo.On("GetByID", suite.ctx, id).Return(restaurant, nil)
	suite.menuItemRepo.On("ListByRestaurant", suite.ctx, id, mock.MatchedBy(func(filter *models.MenuItemFilter) bool {
		return filter.IsAvailable != nil && *filter.IsAvailable
	})).Return(menu, nil)

	result, err := suite.service.GetRestaurant(suite.ctx, suite.manager, id)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result.MenuItems, 1)
}

func (suite *RestaurantServiceTestSuite) TestUpdate_RatingOutOfRange() {
	id := uuid.New()
	restaurant := &models.Restaurant{ID: id, Name: "Dosa House", Country: models.CountryIndia}
	rating := 9.5
	suite.restaurantRepo.On("GetByID", suite.ctx, id).Return(restaurant, nil)

	_, err := suite.service.UpdateRestaurant(suite.ctx, suite.admin, id, &models.RestaurantUpdate{Rating: &rating})
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *RestaurantServiceTestSuite) TestUpdate_ManagerForbidden() {
	id := uuid.New()
	newName := "Renamed"

	_, err := suite.service.UpdateRestaurant(suite.ctx, suite.manager, id, &models.RestaurantUpdate{Name: &newName})
	assert.True(suite.T(), common.IsForbidden(err))
	suite.restaurantRepo.AssertNotCalled(suite.T(), "Update", suite.ctx, id, mock.Anything)
}

func (suite *RestaurantServiceTestSuite) TestListAll_NonAdminForbidden() {
	_, err := suite.service.ListAllRestaurants(suite.ctx, suite.manager, nil, nil)
	assert.True(suite.T(), common.IsForbidden(err))
}
