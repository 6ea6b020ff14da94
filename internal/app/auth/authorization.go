package auth

import (
	"context"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// RoleStore resolves the permission names a user currently holds.
type RoleStore interface {
	GetPermissionsForUser(ctx context.Context, userID int64) ([]string, error)
}

// AuthorizationService answers permission questions for route guards.
// Permissions are resolved from the database on every check, so archiving a
// role or reassigning a user takes effect on their next request.
type AuthorizationService struct {
	roles RoleStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(roles RoleStore) *AuthorizationService {
	return &AuthorizationService{roles: roles}
}

// HasAnyPermission reports whether the user holds at least one of the
// required permissions. Holding "Assume Any Role" satisfies every check.
// An empty required set means the route is open to any authenticated user.
func (s *AuthorizationService) HasAnyPermission(ctx context.Context, userID int64, required ...string) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}

	held, err := s.roles.GetPermissionsForUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error resolving user permissions")
		return false, err
	}

	heldSet := make(map[string]struct{}, len(held))
	for _, p := range held {
		heldSet[p] = struct{}{}
	}

	if _, ok := heldSet[models.PermissionAssumeAnyRole]; ok {
		return true, nil
	}
	for _, p := range required {
		if _, ok := heldSet[p]; ok {
			return true, nil
		}
	}

	return false, nil
}

// RequireAnyPermission returns ErrPermissionDenied unless the user holds at
// least one of the required permissions.
func (s *AuthorizationService) RequireAnyPermission(ctx context.Context, userID int64, required ...string) error {
	ok, err := s.HasAnyPermission(ctx, userID, required...)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ResolvePermissions returns the user's effective permission set.
func (s *AuthorizationService) ResolvePermissions(ctx context.Context, userID int64) ([]string, error) {
	return s.roles.GetPermissionsForUser(ctx, userID)
}
