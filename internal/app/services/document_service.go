package services

import (
	"context"
	"mime/multipart"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/repositories"
	"github.com/audease/audease-backend/internal/pkg/filestorage"
	"github.com/audease/audease-backend/internal/pkg/logger"
)

// DocumentService stores uploaded files and organizes them into folders.
type DocumentService interface {
	Upload(ctx context.Context, schoolID, userID int64, studentID, folderID *int64, fileHeader *multipart.FileHeader) (*models.Document, error)
	Get(ctx context.Context, schoolID, id int64) (*models.Document, error)
	List(ctx context.Context, schoolID int64, studentID, folderID *int64, page, limit int) ([]*models.Document, int64, error)
	Move(ctx context.Context, schoolID, id int64, folderID *int64) error
	Delete(ctx context.Context, schoolID, id int64) error
	CreateFolder(ctx context.Context, schoolID, userID int64, name string, parentID *int64) (*models.Folder, error)
	ListFolders(ctx context.Context, schoolID int64) ([]*models.Folder, error)
}

type documentServiceImpl struct {
	documents *repositories.DocumentRepository
	students  StudentLookup
	storage   filestorage.FileStorage
}

// NewDocumentService creates a new document service instance
func NewDocumentService(documents *repositories.DocumentRepository, students StudentLookup, storage filestorage.FileStorage) DocumentService {
	return &documentServiceImpl{
		documents: documents,
		students:  students,
		storage:   storage,
	}
}

// Upload persists the file to storage and records it. When a student is
// named, the record must belong to the caller's school.
func (s *documentServiceImpl) Upload(ctx context.Context, schoolID, userID int64, studentID, folderID *int64, fileHeader *multipart.FileHeader) (*models.Document, error) {
	if studentID != nil {
		if _, err := s.students.GetByID(ctx, schoolID, *studentID, nil); err != nil {
			return nil, err
		}
	}
	if folderID != nil {
		if _, err := s.documents.GetFolder(ctx, schoolID, *folderID); err != nil {
			return nil, err
		}
	}

	path, err := s.storage.SaveFile(fileHeader)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		SchoolID:  schoolID,
		UserID:    userID,
		StudentID: studentID,
		FolderID:  folderID,
		FileName:  fileHeader.Filename,
		FilePath:  path,
		FileURL:   path,
		FileSize:  fileHeader.Size,
		FileType:  fileHeader.Header.Get("Content-Type"),
	}
	id, err := s.documents.CreateDocument(ctx, doc)
	if err != nil {
		// The record failed; remove the orphaned file.
		if delErr := s.storage.DeleteFile(path); delErr != nil {
			logger.Warn().Err(delErr).Str("path", path).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	return s.documents.GetDocument(ctx, schoolID, id)
}

// Get returns one document record.
func (s *documentServiceImpl) Get(ctx context.Context, schoolID, id int64) (*models.Document, error) {
	return s.documents.GetDocument(ctx, schoolID, id)
}

// List pages through a school's documents.
func (s *documentServiceImpl) List(ctx context.Context, schoolID int64, studentID, folderID *int64, page, limit int) ([]*models.Document, int64, error) {
	return s.documents.ListDocuments(ctx, schoolID, studentID, folderID, page, limit)
}

// Move reassigns a document to another folder.
func (s *documentServiceImpl) Move(ctx context.Context, schoolID, id int64, folderID *int64) error {
	if folderID != nil {
		if _, err := s.documents.GetFolder(ctx, schoolID, *folderID); err != nil {
			return err
		}
	}
	return s.documents.MoveDocument(ctx, schoolID, id, folderID)
}

// Delete removes the record and then the stored file. A failed file removal
// is logged, not surfaced: the record is already gone.
func (s *documentServiceImpl) Delete(ctx context.Context, schoolID, id int64) error {
	doc, err := s.documents.GetDocument(ctx, schoolID, id)
	if err != nil {
		return err
	}
	if err := s.documents.DeleteDocument(ctx, schoolID, id); err != nil {
		return err
	}
	if err := s.storage.DeleteFile(doc.FilePath); err != nil {
		logger.Warn().Err(err).Str("path", doc.FilePath).Msg("Failed to delete stored file")
	}
	return nil
}

// CreateFolder creates a document folder, optionally nested.
func (s *documentServiceImpl) CreateFolder(ctx context.Context, schoolID, userID int64, name string, parentID *int64) (*models.Folder, error) {
	if parentID != nil {
		if _, err := s.documents.GetFolder(ctx, schoolID, *parentID); err != nil {
			return nil, err
		}
	}
	folder := &models.Folder{
		SchoolID:  schoolID,
		Name:      name,
		ParentID:  parentID,
		CreatedBy: userID,
	}
	id, err := s.documents.CreateFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	return s.documents.GetFolder(ctx, schoolID, id)
}

// ListFolders returns a school's folders.
func (s *documentServiceImpl) ListFolders(ctx context.Context, schoolID int64) ([]*models.Folder, error) {
	return s.documents.ListFolders(ctx, schoolID)
}
