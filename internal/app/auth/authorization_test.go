package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

type fakeRoleStore struct {
	perms map[int64][]string
	err   error
}

// GetPermissionsForUser mirrors the repository contract: unknown users are
// ErrUserNotFound, known users without grants resolve to an empty set.
func (f *fakeRoleStore) GetPermissionsForUser(_ context.Context, userID int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	perms, ok := f.perms[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return perms, nil
}

func TestHasAnyPermission(t *testing.T) {
	ctx := context.Background()
	store := &fakeRoleStore{perms: map[int64][]string{
		1: {models.PermissionAddStudent, models.PermissionManagePersonalProfile},
		2: {models.PermissionAssumeAnyRole},
		3: {},
	}}
	svc := NewAuthorizationService(store)

	t.Run("grants on intersection", func(t *testing.T) {
		ok, err := svc.HasAnyPermission(ctx, 1, models.PermissionAddStudent)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.HasAnyPermission(ctx, 1, models.PermissionCertificate, models.PermissionAddStudent)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("denies without intersection", func(t *testing.T) {
		ok, err := svc.HasAnyPermission(ctx, 1, models.PermissionCertificate)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = svc.HasAnyPermission(ctx, 3, models.PermissionAddStudent)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("assume any role satisfies every check", func(t *testing.T) {
		ok, err := svc.HasAnyPermission(ctx, 2, models.PermissionCertificate)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.HasAnyPermission(ctx, 2, models.PermissionAudit)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty required set is open", func(t *testing.T) {
		ok, err := svc.HasAnyPermission(ctx, 3)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown user surfaces as not found", func(t *testing.T) {
		_, err := svc.HasAnyPermission(ctx, 99, models.PermissionAddStudent)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		broken := NewAuthorizationService(&fakeRoleStore{err: errors.New("connection reset")})
		_, err := broken.HasAnyPermission(ctx, 1, models.PermissionAddStudent)
		assert.Error(t, err)
	})
}

func TestRequireAnyPermission(t *testing.T) {
	ctx := context.Background()
	store := &fakeRoleStore{perms: map[int64][]string{
		1: {models.PermissionAudit},
	}}
	svc := NewAuthorizationService(store)

	assert.NoError(t, svc.RequireAnyPermission(ctx, 1, models.PermissionAudit))

	err := svc.RequireAnyPermission(ctx, 1, models.PermissionCertificate)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
