package services

import (
	"context"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// ArchiveStore is the persistence surface for the archive subsystem.
type ArchiveStore interface {
	Archive(ctx context.Context, schoolID, id, archivedBy int64, reason string) error
	Unarchive(ctx context.Context, schoolID, id int64) error
	ListArchived(ctx context.Context, schoolID int64, params dto.ArchivedListQuery) ([]*models.ProspectiveStudent, int64, error)
}

// ArchiveService removes student records from the working dashboards and
// restores them. Archiving never deletes data; a restored record rejoins
// the pipeline with all its statuses intact.
type ArchiveService interface {
	ArchiveStudent(ctx context.Context, schoolID, studentID, archivedBy int64, reason string) error
	RestoreStudent(ctx context.Context, schoolID, studentID int64) error
	ListArchived(ctx context.Context, schoolID int64, params dto.ArchivedListQuery) ([]*models.ProspectiveStudent, int64, error)
}

type archiveServiceImpl struct {
	students ArchiveStore
}

// NewArchiveService creates a new archive service instance
func NewArchiveService(students ArchiveStore) ArchiveService {
	return &archiveServiceImpl{students: students}
}

// ArchiveStudent hides a record from every stage dashboard.
func (s *archiveServiceImpl) ArchiveStudent(ctx context.Context, schoolID, studentID, archivedBy int64, reason string) error {
	if err := s.students.Archive(ctx, schoolID, studentID, archivedBy, reason); err != nil {
		return err
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Int64("studentID", studentID).
		Int64("archivedBy", archivedBy).
		Msg("Student archived")

	return nil
}

// RestoreStudent returns an archived record to the dashboards.
func (s *archiveServiceImpl) RestoreStudent(ctx context.Context, schoolID, studentID int64) error {
	if err := s.students.Unarchive(ctx, schoolID, studentID); err != nil {
		return err
	}

	logger.Info().
		Int64("schoolID", schoolID).
		Int64("studentID", studentID).
		Msg("Student restored from archive")

	return nil
}

// ListArchived pages through a school's archived records.
func (s *archiveServiceImpl) ListArchived(ctx context.Context, schoolID int64, params dto.ArchivedListQuery) ([]*models.ProspectiveStudent, int64, error) {
	return s.students.ListArchived(ctx, schoolID, params)
}
