package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/pkg/apperrors"
	"github.com/audease/audease-backend/internal/pkg/helpers"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// DocumentRepository handles database operations for folders and documents.
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateFolder inserts a folder, optionally nested under a parent.
func (r *DocumentRepository) CreateFolder(ctx context.Context, folder *models.Folder) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO folders (school_id, name, parent_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		folder.SchoolID, folder.Name, folder.ParentID, folder.CreatedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating folder: %w", err)
	}
	return id, nil
}

// GetFolder retrieves a folder scoped to a school.
func (r *DocumentRepository) GetFolder(ctx context.Context, schoolID, id int64) (*models.Folder, error) {
	folder := &models.Folder{}
	err := r.db.QueryRow(ctx, `
		SELECT id, school_id, name, parent_id, created_by, created_at
		FROM folders
		WHERE id = $1 AND school_id = $2`, id, schoolID).Scan(
		&folder.ID, &folder.SchoolID, &folder.Name, &folder.ParentID,
		&folder.CreatedBy, &folder.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("folder not found")
		}
		return nil, err
	}
	return folder, nil
}

// ListFolders returns the folders of a school.
func (r *DocumentRepository) ListFolders(ctx context.Context, schoolID int64) ([]*models.Folder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, school_id, name, parent_id, created_by, created_at
		FROM folders
		WHERE school_id = $1
		ORDER BY name`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing folders: %w", err)
	}
	defer rows.Close()

	folders := make([]*models.Folder, 0)
	for rows.Next() {
		folder := &models.Folder{}
		err := rows.Scan(
			&folder.ID, &folder.SchoolID, &folder.Name, &folder.ParentID,
			&folder.CreatedBy, &folder.CreatedAt)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

// CreateDocument inserts a document record for an uploaded file.
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *models.Document) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO documents (school_id, user_id, student_id, folder_id, file_name, file_path, file_url, file_size, file_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		doc.SchoolID, doc.UserID, doc.StudentID, doc.FolderID,
		doc.FileName, doc.FilePath, doc.FileURL, doc.FileSize, doc.FileType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating document: %w", err)
	}
	return id, nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	doc := &models.Document{}
	err := row.Scan(
		&doc.ID, &doc.SchoolID, &doc.UserID, &doc.StudentID, &doc.FolderID,
		&doc.FileName, &doc.FilePath, &doc.FileURL, &doc.FileSize, &doc.FileType,
		&doc.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document not found")
		}
		return nil, err
	}
	return doc, nil
}

// GetDocument retrieves a document scoped to a school.
func (r *DocumentRepository) GetDocument(ctx context.Context, schoolID, id int64) (*models.Document, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, school_id, user_id, student_id, folder_id, file_name, file_path, file_url, file_size, file_type, uploaded_at
		FROM documents
		WHERE id = $1 AND school_id = $2`, id, schoolID)
	return scanDocument(row)
}

// ListDocuments retrieves a paginated set of documents for a school,
// optionally filtered by student or folder.
func (r *DocumentRepository) ListDocuments(ctx context.Context, schoolID int64, studentID, folderID *int64, page, limit int) ([]*models.Document, int64, error) {
	base := squirrel.And{squirrel.Eq{"school_id": schoolID}}
	if studentID != nil {
		base = append(base, squirrel.Eq{"student_id": *studentID})
	}
	if folderID != nil {
		base = append(base, squirrel.Eq{"folder_id": *folderID})
	}

	countSql, countArgs, err := squirrel.Select("count(*)").
		From("documents").
		Where(base).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count documents SQL")
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Document{}, 0, nil
	}

	offset, normLimit := helpers.CalculateOffsetLimit(page, limit)
	sqlStr, args, err := squirrel.Select(
		"id", "school_id", "user_id", "student_id", "folder_id",
		"file_name", "file_path", "file_url", "file_size", "file_type", "uploaded_at").
		From("documents").
		Where(base).
		OrderBy("uploaded_at DESC").
		Limit(uint64(normLimit)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list documents SQL")
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

// MoveDocument reassigns a document to another folder; nil moves it to the
// root.
func (r *DocumentRepository) MoveDocument(ctx context.Context, schoolID, id int64, folderID *int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET folder_id = $1
		WHERE id = $2 AND school_id = $3`,
		folderID, id, schoolID)
	if err != nil {
		return fmt.Errorf("failed to move document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document not found")
	}
	return nil
}

// DeleteDocument removes a document record.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, schoolID, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM documents
		WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document not found")
	}
	return nil
}
