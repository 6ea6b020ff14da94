package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// RoleService manages a school's roles and their permission grants.
type RoleService interface {
	CreateRole(ctx context.Context, schoolID int64, req *dto.CreateRoleRequest) (*models.Role, error)
	GetRole(ctx context.Context, schoolID, id int64) (*models.Role, error)
	ListRoles(ctx context.Context, schoolID int64, includeArchived bool) ([]*models.Role, error)
	ArchiveRole(ctx context.Context, schoolID, id, archivedBy int64, reason string) error
	RestoreRole(ctx context.Context, schoolID, id int64) error
	ListPermissions(ctx context.Context) ([]models.Permission, error)
}

type roleServiceImpl struct {
	roles *repositories.RoleRepository
}

// NewRoleService creates a new role service instance
func NewRoleService(roles *repositories.RoleRepository) RoleService {
	return &roleServiceImpl{roles: roles}
}

// CreateRole defines a role within a school. Every requested permission
// must exist in the catalog.
func (s *roleServiceImpl) CreateRole(ctx context.Context, schoolID int64, req *dto.CreateRoleRequest) (*models.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name cannot be empty", apperrors.ErrValidationFailed)
	}

	known := make(map[string]struct{})
	for _, p := range models.PermissionCatalog() {
		known[p] = struct{}{}
	}
	for _, p := range req.Permissions {
		if _, ok := known[p]; !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownPermission, p)
		}
	}

	role := &models.Role{
		SchoolID:    schoolID,
		Name:        name,
		Description: req.Description,
		Permissions: req.Permissions,
	}
	id, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Str("name", name).
		Msg("Role created")

	return s.roles.GetByID(ctx, schoolID, id)
}

// GetRole returns one role with its permissions.
func (s *roleServiceImpl) GetRole(ctx context.Context, schoolID, id int64) (*models.Role, error) {
	return s.roles.GetByID(ctx, schoolID, id)
}

// ListRoles returns a school's roles.
func (s *roleServiceImpl) ListRoles(ctx context.Context, schoolID int64, includeArchived bool) ([]*models.Role, error) {
	return s.roles.ListBySchool(ctx, schoolID, includeArchived)
}

// ArchiveRole soft-removes a role. Holders keep the assignment but lose the
// grants until the role is restored.
func (s *roleServiceImpl) ArchiveRole(ctx context.Context, schoolID, id, archivedBy int64, reason string) error {
	return s.roles.Archive(ctx, schoolID, id, archivedBy, reason)
}

// RestoreRole brings an archived role back into effect.
func (s *roleServiceImpl) RestoreRole(ctx context.Context, schoolID, id int64) error {
	return s.roles.Unarchive(ctx, schoolID, id)
}

// ListPermissions returns the permission catalog.
func (s *roleServiceImpl) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	return s.roles.ListPermissions(ctx)
}
