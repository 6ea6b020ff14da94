package services

import (
	"context"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// DashboardStore is the persistence surface for dashboard moves and counts.
type DashboardStore interface {
	MoveStage(ctx context.Context, schoolID, id int64, from, to models.Stage) error
	CountByStage(ctx context.Context, schoolID int64) (map[models.Stage]int64, error)
}

// StageCount is one row of the dashboard summary.
type StageCount struct {
	Stage models.Stage `json:"stage"`
	Count int64        `json:"count"`
}

// DashboardService moves records between stage dashboards and summarizes
// them.
type DashboardService interface {
	MoveStudent(ctx context.Context, schoolID, studentID int64, from, to models.Stage) error
	Summary(ctx context.Context, schoolID int64) ([]StageCount, error)
}

type dashboardServiceImpl struct {
	students DashboardStore
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(students DashboardStore) DashboardService {
	return &dashboardServiceImpl{students: students}
}

// MoveStudent relocates one record between dashboards as a single atomic
// mutation. The record never exists on both dashboards, and a failed move
// leaves it where it was.
func (s *dashboardServiceImpl) MoveStudent(ctx context.Context, schoolID, studentID int64, from, to models.Stage) error {
	if _, ok := models.DefinitionFor(from); !ok {
		return apperrors.ErrUnknownStage
	}
	if _, ok := models.DefinitionFor(to); !ok {
		return apperrors.ErrUnknownStage
	}
	if from == to {
		return apperrors.NewBadRequestError("source and destination stage are the same")
	}

	if err := s.students.MoveStage(ctx, schoolID, studentID, from, to); err != nil {
		return err
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Int64("studentID", studentID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Student moved between dashboards")

	return nil
}

// Summary returns the record count per pipeline dashboard, zero-filled so
// every stage appears.
func (s *dashboardServiceImpl) Summary(ctx context.Context, schoolID int64) ([]StageCount, error) {
	counts, err := s.students.CountByStage(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	summary := make([]StageCount, 0, len(models.PipelineStages()))
	for _, def := range models.PipelineStages() {
		summary = append(summary, StageCount{Stage: def.Stage, Count: counts[def.Stage]})
	}
	return summary, nil
}
