package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

type fakeArchiveStore struct {
	archived map[int64]string // studentID -> reason
}

func (f *fakeArchiveStore) Archive(_ context.Context, _, id, _ int64, reason string) error {
	if _, ok := f.archived[id]; ok {
		return apperrors.ErrStudentNotFound
	}
	f.archived[id] = reason
	return nil
}

func (f *fakeArchiveStore) Unarchive(_ context.Context, _, id int64) error {
	if _, ok := f.archived[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.archived, id)
	return nil
}

func (f *fakeArchiveStore) ListArchived(_ context.Context, _ int64, _ dto.ArchivedListQuery) ([]*models.ProspectiveStudent, int64, error) {
	out := make([]*models.ProspectiveStudent, 0, len(f.archived))
	for id := range f.archived {
		out = append(out, &models.ProspectiveStudent{ID: id, IsArchived: true})
	}
	return out, int64(len(out)), nil
}

func TestArchiveStudent(t *testing.T) {
	ctx := context.Background()
	store := &fakeArchiveStore{archived: map[int64]string{}}
	svc := NewArchiveService(store)

	require.NoError(t, svc.ArchiveStudent(ctx, 1, 5, 10, "withdrew application"))
	assert.Equal(t, "withdrew application", store.archived[5])

	// an already archived record cannot be archived again
	err := svc.ArchiveStudent(ctx, 1, 5, 10, "")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	students, total, err := svc.ListArchived(ctx, 1, dto.ArchivedListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	assert.True(t, students[0].IsArchived)

	require.NoError(t, svc.RestoreStudent(ctx, 1, 5))
	assert.Empty(t, store.archived)

	err = svc.RestoreStudent(ctx, 1, 5)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
