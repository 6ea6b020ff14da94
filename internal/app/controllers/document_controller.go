package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
	"github.com/audease/audease-backend/internal/pkg/helpers"
)

// DocumentController handles document uploads and folder organisation.
type DocumentController struct {
	documentService services.DocumentService
	actionLogs      services.AppLogService
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, actionLogs services.AppLogService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		actionLogs:      actionLogs,
	}
}

// optionalFormID parses an optional numeric form field. The second return
// is false when the field is present but not a positive number.
func optionalFormID(ctx *gin.Context, name string) (*int64, bool) {
	raw := ctx.PostForm(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, false
	}
	return &id, true
}

func optionalQueryID(ctx *gin.Context, name string) (*int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, false
	}
	return &id, true
}

// Upload handles multipart document uploads
// @Summary Upload a document
// @Description Stores a file, optionally attached to a student and filed into a folder
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param studentId formData int false "Student to attach the document to"
// @Param folderId formData int false "Folder to file the document into"
// @Success 201 {object} dto.APIResponse{data=models.Document} "Document uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 404 {object} dto.ErrorResponse "Student or folder not found"
// @Router /documents [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	studentID, ok := optionalFormID(ctx, "studentId")
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "studentId must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	folderID, ok := optionalFormID(ctx, "folderId")
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "folderId must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	document, err := c.documentService.Upload(ctx, schoolID, userID, studentID, folderID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "document.upload", "uploaded "+document.FileName)

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      document,
		Timestamp: time.Now(),
	})
}

// ListDocuments handles browsing stored documents
// @Summary List documents
// @Description Lists documents, filterable by student and folder
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param folderId query int false "Filter by folder"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ListResponse "Documents retrieved successfully"
// @Router /documents [get]
func (c *DocumentController) ListDocuments(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	studentID, ok := optionalQueryID(ctx, "studentId")
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "studentId must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	folderID, ok := optionalQueryID(ctx, "folderId")
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "folderId must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	page, limit = helpers.NormalizePage(page, limit)

	documents, total, err := c.documentService.List(ctx, schoolID, studentID, folderID, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ListResponse{
		Data:     documents,
		Total:    total,
		Page:     page,
		LastPage: helpers.LastPage(total, limit),
	})
}

// GetDocument handles fetching one document's metadata
// @Summary Get a document
// @Description Retrieves one document record
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=models.Document} "Document retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [get]
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	document, err := c.documentService.Get(ctx, schoolID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      document,
		Timestamp: time.Now(),
	})
}

// MoveDocument handles filing a document into another folder
// @Summary Move a document
// @Description Reassigns a document to another folder, or to the root when folderId is null
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param request body dto.MoveDocumentRequest true "Destination folder"
// @Success 200 {object} dto.SuccessResponse "Document moved successfully"
// @Failure 404 {object} dto.ErrorResponse "Document or folder not found"
// @Router /documents/{id}/move [post]
func (c *DocumentController) MoveDocument(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MoveDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid move request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.documentService.Move(ctx, schoolID, id, req.FolderID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "document.move", "moved a document")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Document moved successfully"})
}

// DeleteDocument handles removing a document and its stored file
// @Summary Delete a document
// @Description Deletes a document record and its file from storage
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.SuccessResponse "Document deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.documentService.Delete(ctx, schoolID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "document.delete", "deleted a document")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Document deleted successfully"})
}

// CreateFolder handles document folder creation
// @Summary Create a document folder
// @Description Creates a folder, optionally nested under a parent
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFolderRequest true "Folder name and parent"
// @Success 201 {object} dto.APIResponse{data=models.Folder} "Folder created successfully"
// @Failure 404 {object} dto.ErrorResponse "Parent folder not found"
// @Router /documents/folders [post]
func (c *DocumentController) CreateFolder(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	var req dto.CreateFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid folder data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	folder, err := c.documentService.CreateFolder(ctx, schoolID, userID, req.Name, req.ParentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "folder.create", "created folder "+folder.Name)

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      folder,
		Timestamp: time.Now(),
	})
}

// ListFolders handles listing the school's document folders
// @Summary List document folders
// @Description Lists every document folder in the caller's school
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Folders retrieved successfully"
// @Router /documents/folders [get]
func (c *DocumentController) ListFolders(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	folders, err := c.documentService.ListFolders(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      folders,
		Timestamp: time.Now(),
	})
}
