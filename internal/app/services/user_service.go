package services

import (
	"context"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

// UserService manages staff accounts within a school.
type UserService interface {
	ListUsers(ctx context.Context, schoolID int64) ([]*models.User, error)
	GetUser(ctx context.Context, schoolID, id int64) (*models.User, error)
	AssignRole(ctx context.Context, schoolID, userID int64, roleID *int64) error
}

type userServiceImpl struct {
	users *repositories.UserRepository
	roles *repositories.RoleRepository
}

// NewUserService creates a new user service instance
func NewUserService(users *repositories.UserRepository, roles *repositories.RoleRepository) UserService {
	return &userServiceImpl{
		users: users,
		roles: roles,
	}
}

// ListUsers returns a school's staff accounts.
func (s *userServiceImpl) ListUsers(ctx context.Context, schoolID int64) ([]*models.User, error) {
	return s.users.ListBySchool(ctx, schoolID)
}

// GetUser returns one account, refusing cross-school lookups.
func (s *userServiceImpl) GetUser(ctx context.Context, schoolID, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.SchoolID != schoolID {
		return nil, apperrors.ErrUserNotFound
	}
	if user.RoleID != nil {
		if role, err := s.roles.GetByID(ctx, schoolID, *user.RoleID); err == nil {
			user.Role = role
		}
	}
	return user, nil
}

// AssignRole sets or clears a user's role. The role must belong to the same
// school and must not be archived.
func (s *userServiceImpl) AssignRole(ctx context.Context, schoolID, userID int64, roleID *int64) error {
	if roleID != nil {
		role, err := s.roles.GetByID(ctx, schoolID, *roleID)
		if err != nil {
			return err
		}
		if role.IsArchived {
			return apperrors.NewBadRequestError("cannot assign an archived role")
		}
	}
	return s.users.AssignRole(ctx, schoolID, userID, roleID)
}
