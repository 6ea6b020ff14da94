package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/helpers"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// AppLogRepository handles database operations for action logs and their
// folders.
type AppLogRepository struct {
	db *pgxpool.Pool
}

// NewAppLogRepository creates a new AppLogRepository
func NewAppLogRepository(db *pgxpool.Pool) *AppLogRepository {
	return &AppLogRepository{db: db}
}

// Append records one action-log entry for a user.
func (r *AppLogRepository) Append(ctx context.Context, entry *models.ActionLog) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO action_logs (user_id, folder_id, action, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		entry.UserID, entry.FolderID, entry.Action, entry.Detail).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error appending action log: %w", err)
	}
	return id, nil
}

// CreateFolder inserts a log folder for a user.
func (r *AppLogRepository) CreateFolder(ctx context.Context, folder *models.LogFolder) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO log_folders (user_id, name)
		VALUES ($1, $2)
		RETURNING id`,
		folder.UserID, folder.Name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating log folder: %w", err)
	}
	return id, nil
}

// ListFolders returns the log folders of a user.
func (r *AppLogRepository) ListFolders(ctx context.Context, userID int64) ([]*models.LogFolder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM log_folders
		WHERE user_id = $1
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing log folders: %w", err)
	}
	defer rows.Close()

	folders := make([]*models.LogFolder, 0)
	for rows.Next() {
		folder := &models.LogFolder{}
		if err := rows.Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

// FolderBelongsToUser checks folder ownership before filing entries.
func (r *AppLogRepository) FolderBelongsToUser(ctx context.Context, folderID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM log_folders WHERE id = $1 AND user_id = $2)`,
		folderID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking log folder: %w", err)
	}
	return exists, nil
}

func scanActionLog(row pgx.Row) (*models.ActionLog, error) {
	entry := &models.ActionLog{}
	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.FolderID, &entry.Action, &entry.Detail,
		&entry.CreatedAt, &entry.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("log entry not found")
		}
		return nil, err
	}
	return entry, nil
}

// List retrieves a paginated set of a user's log entries, newest first.
// Soft-deleted entries are excluded.
func (r *AppLogRepository) List(ctx context.Context, userID int64, folderID *int64, page, limit int) ([]*models.ActionLog, int64, error) {
	base := squirrel.And{
		squirrel.Eq{"user_id": userID},
		squirrel.Expr("deleted_at IS NULL"),
	}
	if folderID != nil {
		base = append(base, squirrel.Eq{"folder_id": *folderID})
	}

	countSql, countArgs, err := squirrel.Select("count(*)").
		From("action_logs").
		Where(base).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count action logs SQL")
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.ActionLog{}, 0, nil
	}

	offset, normLimit := helpers.CalculateOffsetLimit(page, limit)
	sqlStr, args, err := squirrel.Select("id", "user_id", "folder_id", "action", "detail", "created_at", "deleted_at").
		From("action_logs").
		Where(base).
		OrderBy("created_at DESC").
		Limit(uint64(normLimit)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list action logs SQL")
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*models.ActionLog, 0)
	for rows.Next() {
		entry, err := scanActionLog(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

// MoveToFolder files a log entry into a folder; nil unfiles it.
func (r *AppLogRepository) MoveToFolder(ctx context.Context, userID, id int64, folderID *int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE action_logs
		SET folder_id = $1
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`,
		folderID, id, userID)
	if err != nil {
		return fmt.Errorf("failed to move log entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("log entry not found")
	}
	return nil
}

// SoftDelete marks a log entry deleted without removing the row.
func (r *AppLogRepository) SoftDelete(ctx context.Context, userID, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE action_logs
		SET deleted_at = $1
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`,
		time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete log entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("log entry not found")
	}
	return nil
}
