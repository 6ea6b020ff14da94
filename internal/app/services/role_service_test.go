package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

func TestCreateRoleValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(nil) // validation paths return before touching the repository

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, 1, &dto.CreateRoleRequest{
			Name:        "   ",
			Permissions: []string{models.PermissionAddStudent},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects permissions outside the catalog", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, 1, &dto.CreateRoleRequest{
			Name:        "recruiter",
			Permissions: []string{models.PermissionAddStudent, "Delete Everything"},
		})
		assert.ErrorIs(t, err, apperrors.ErrUnknownPermission)
	})
}

func TestPermissionCatalog(t *testing.T) {
	catalog := models.PermissionCatalog()

	// every permission a stage route guard references must be grantable
	for _, def := range models.PipelineStages() {
		assert.Contains(t, catalog, def.Permission, "stage %s", def.Stage)
	}
	auditor, _ := models.DefinitionFor(models.StageAuditor)
	assert.Contains(t, catalog, auditor.Permission)

	assert.Contains(t, catalog, models.PermissionAssumeAnyRole)
	assert.Contains(t, catalog, models.PermissionManagePersonalProfile)
}
