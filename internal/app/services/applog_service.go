package services

import (
	"context"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// AppLogService records and organizes per-user action logs. Recording is
// best-effort: a failed append never fails the operation that triggered it.
type AppLogService interface {
	Record(ctx context.Context, userID int64, action, detail string)
	List(ctx context.Context, userID int64, folderID *int64, page, limit int) ([]*models.ActionLog, int64, error)
	CreateFolder(ctx context.Context, userID int64, name string) (*models.LogFolder, error)
	ListFolders(ctx context.Context, userID int64) ([]*models.LogFolder, error)
	MoveEntry(ctx context.Context, userID, entryID int64, folderID *int64) error
	DeleteEntry(ctx context.Context, userID, entryID int64) error
}

type appLogServiceImpl struct {
	logs *repositories.AppLogRepository
}

// NewAppLogService creates a new action log service instance
func NewAppLogService(logs *repositories.AppLogRepository) AppLogService {
	return &appLogServiceImpl{logs: logs}
}

// Record appends one log entry. Errors are logged and swallowed.
func (s *appLogServiceImpl) Record(ctx context.Context, userID int64, action, detail string) {
	entry := &models.ActionLog{
		UserID: userID,
		Action: action,
		Detail: detail,
	}
	if _, err := s.logs.Append(ctx, entry); err != nil {
		logger.Error().Err(err).
			Int64("userID", userID).
			Str("action", action).
			Msg("Failed to record action log")
	}
}

// List pages through a user's log entries.
func (s *appLogServiceImpl) List(ctx context.Context, userID int64, folderID *int64, page, limit int) ([]*models.ActionLog, int64, error) {
	if folderID != nil {
		ok, err := s.logs.FolderBelongsToUser(ctx, *folderID, userID)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, 0, apperrors.NewNotFoundError("log folder not found")
		}
	}
	return s.logs.List(ctx, userID, folderID, page, limit)
}

// CreateFolder creates a log folder for the user.
func (s *appLogServiceImpl) CreateFolder(ctx context.Context, userID int64, name string) (*models.LogFolder, error) {
	folder := &models.LogFolder{UserID: userID, Name: name}
	id, err := s.logs.CreateFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	folder.ID = id
	return folder, nil
}

// ListFolders returns the user's log folders.
func (s *appLogServiceImpl) ListFolders(ctx context.Context, userID int64) ([]*models.LogFolder, error) {
	return s.logs.ListFolders(ctx, userID)
}

// MoveEntry files an entry into one of the user's folders; nil unfiles it.
func (s *appLogServiceImpl) MoveEntry(ctx context.Context, userID, entryID int64, folderID *int64) error {
	if folderID != nil {
		ok, err := s.logs.FolderBelongsToUser(ctx, *folderID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewNotFoundError("log folder not found")
		}
	}
	return s.logs.MoveToFolder(ctx, userID, entryID, folderID)
}

// DeleteEntry soft-deletes one entry.
func (s *appLogServiceImpl) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	return s.logs.SoftDelete(ctx, userID, entryID)
}
