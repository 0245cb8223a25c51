package services

import (
	"context"

	"github.com/google/uuid"

	"mealmart/internal/common"
	"mealmart/internal/models"
	"mealmart/internal/repositories"
)

type UserServiceInterface interface {
	GetUser(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, actor models.Actor, filter *models.UserFilter) ([]*models.User, error)
	UpdateUser(ctx context.Context, actor models.Actor, id uuid.UUID, name *string, role *models.Role, country *models.Country) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, id uuid.UUID) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserServiceInterface {
	return &userService{userRepo: userRepo}
}

// GetUser returns a profile. Users may read themselves; everything else is
// admin-only.
func (s *userService) GetUser(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, common.ForbiddenError("cannot read another user's profile")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch user", err)
	}
	if user == nil {
		return nil, common.NotFoundError("user")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor models.Actor, filter *models.UserFilter) ([]*models.User, error) {
	if !actor.IsAdmin() {
		return nil, common.ForbiddenError("only admins may list users")
	}
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, common.UnavailableError("list users", err)
	}
	return users, nil
}

// UpdateUser changes profile fields. Role and country assignments are
// admin-only; users may rename themselves.
func (s *userService) UpdateUser(ctx context.Context, actor models.Actor, id uuid.UUID, name *string, role *models.Role, country *models.Country) (*models.User, error) {
	if !actor.IsAdmin() {
		if actor.ID != id {
			return nil, common.ForbiddenError("cannot update another user")
		}
		if role != nil || country != nil {
			return nil, common.ForbiddenError("only admins may change role or country")
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, common.UnavailableError("fetch user", err)
	}
	if user == nil {
		return nil, common.NotFoundError("user")
	}

	if name != nil {
		if err := common.ValidateRequiredString(*name, "name"); err != nil {
			return nil, err
		}
		user.Name = *name
	}
	if role != nil {
		if !role.Valid() {
			return nil, common.ValidationError("role must be one of: ADMIN, MANAGER, MEMBER")
		}
		user.Role = *role
	}
	if country != nil {
		if !country.Valid() {
			return nil, common.ValidationError("country must be one of: INDIA, AMERICA")
		}
		user.Country = *country
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, common.UnavailableError("update user", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return common.ForbiddenError("only admins may delete users")
	}
	if actor.ID == id {
		return common.InvalidStateError("cannot delete your own account")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return common.UnavailableError("fetch user", err)
	}
	if user == nil {
		return common.NotFoundError("user")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return common.UnavailableError("delete user", err)
	}
	return nil
}
