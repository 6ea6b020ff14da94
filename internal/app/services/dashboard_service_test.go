package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
)

type fakeDashboardStore struct {
	moves  []string
	counts map[models.Stage]int64
	err    error
}

func (f *fakeDashboardStore) MoveStage(_ context.Context, _, _ int64, from, to models.Stage) error {
	if f.err != nil {
		return f.err
	}
	f.moves = append(f.moves, string(from)+"->"+string(to))
	return nil
}

func (f *fakeDashboardStore) CountByStage(_ context.Context, _ int64) (map[models.Stage]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func TestMoveStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("moves between known stages", func(t *testing.T) {
		store := &fakeDashboardStore{}
		svc := NewDashboardService(store)

		err := svc.MoveStudent(ctx, 1, 5, models.StageBKSD, models.StageAccessor)
		require.NoError(t, err)
		assert.Equal(t, []string{"BKSD->ACCESSOR"}, store.moves)
	})

	t.Run("rejects unknown stages", func(t *testing.T) {
		store := &fakeDashboardStore{}
		svc := NewDashboardService(store)

		err := svc.MoveStudent(ctx, 1, 5, models.Stage("JANITOR"), models.StageBKSD)
		assert.ErrorIs(t, err, apperrors.ErrUnknownStage)

		err = svc.MoveStudent(ctx, 1, 5, models.StageBKSD, models.Stage("JANITOR"))
		assert.ErrorIs(t, err, apperrors.ErrUnknownStage)
		assert.Empty(t, store.moves)
	})

	t.Run("rejects a no-op move", func(t *testing.T) {
		store := &fakeDashboardStore{}
		svc := NewDashboardService(store)

		err := svc.MoveStudent(ctx, 1, 5, models.StageBKSD, models.StageBKSD)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Empty(t, store.moves)
	})

	t.Run("store miss propagates", func(t *testing.T) {
		store := &fakeDashboardStore{err: apperrors.ErrStudentNotFound}
		svc := NewDashboardService(store)

		err := svc.MoveStudent(ctx, 1, 5, models.StageBKSD, models.StageAccessor)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("zero-fills every pipeline stage", func(t *testing.T) {
		store := &fakeDashboardStore{counts: map[models.Stage]int64{
			models.StageRecruiter: 3,
			models.StageLazer:     1,
		}}
		svc := NewDashboardService(store)

		summary, err := svc.Summary(ctx, 1)
		require.NoError(t, err)
		require.Len(t, summary, len(models.PipelineStages()))

		byStage := map[models.Stage]int64{}
		for _, row := range summary {
			byStage[row.Stage] = row.Count
		}
		assert.Equal(t, int64(3), byStage[models.StageRecruiter])
		assert.Equal(t, int64(1), byStage[models.StageLazer])
		assert.Equal(t, int64(0), byStage[models.StageBKSD])
		assert.Equal(t, int64(0), byStage[models.StageCertificate])
	})

	t.Run("keeps pipeline order", func(t *testing.T) {
		store := &fakeDashboardStore{counts: map[models.Stage]int64{}}
		svc := NewDashboardService(store)

		summary, err := svc.Summary(ctx, 1)
		require.NoError(t, err)
		for i, def := range models.PipelineStages() {
			assert.Equal(t, def.Stage, summary[i].Stage)
		}
	})
}
