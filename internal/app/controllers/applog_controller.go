package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
	"github.com/audease/audease-backend/internal/pkg/helpers"
)

// AppLogController serves a user's own action-log history and log folders.
type AppLogController struct {
	logService services.AppLogService
}

// NewAppLogController creates a new AppLogController
func NewAppLogController(logService services.AppLogService) *AppLogController {
	return &AppLogController{logService: logService}
}

// ListLogs handles browsing the caller's action log
// @Summary List action-log entries
// @Description Lists the caller's own log entries, optionally scoped to one folder
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param folderId query int false "Filter by log folder"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ListResponse "Log entries retrieved successfully"
// @Router /logs [get]
func (c *AppLogController) ListLogs(ctx *gin.Context) {
	userID, _, ok := requestScope(ctx)
	if !ok {
		return
	}

	var params dto.LogListQuery
	if err := ctx.ShouldBindQuery(&params); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, limit := helpers.NormalizePage(params.Page, params.Limit)
	entries, total, err := c.logService.List(ctx, userID, params.FolderID, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ListResponse{
		Data:     entries,
		Total:    total,
		Page:     page,
		LastPage: helpers.LastPage(total, limit),
	})
}

// CreateFolder handles log folder creation
// @Summary Create a log folder
// @Description Creates a private folder for filing the caller's log entries
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFolderRequest true "Folder name"
// @Success 201 {object} dto.APIResponse{data=models.LogFolder} "Folder created successfully"
// @Router /logs/folders [post]
func (c *AppLogController) CreateFolder(ctx *gin.Context) {
	userID, _, ok := requestScope(ctx)
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

	folder, err := c.logService.CreateFolder(ctx, userID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      folder,
		Timestamp: time.Now(),
	})
}

// ListFolders handles listing the caller's log folders
// @Summary List log folders
// @Description Lists the caller's own log folders
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Folders retrieved successfully"
// @Router /logs/folders [get]
func (c *AppLogController) ListFolders(ctx *gin.Context) {
	userID, _, ok := requestScope(ctx)
	if !ok {
		return
	}

	folders, err := c.logService.ListFolders(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      folders,
		Timestamp: time.Now(),
	})
}

// MoveLog handles filing a log entry into a folder
// @Summary Move a log entry
// @Description Files one of the caller's log entries into a folder, or back to the root when folderId is null
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log entry ID"
// @Param request body dto.MoveLogRequest true "Destination folder"
// @Success 200 {object} dto.SuccessResponse "Log entry moved successfully"
// @Failure 404 {object} dto.ErrorResponse "Log entry or folder not found"
// @Router /logs/{id}/move [post]
func (c *AppLogController) MoveLog(ctx *gin.Context) {
	userID, _, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MoveLogRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid move request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.logService.MoveEntry(ctx, userID, id, req.FolderID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Log entry moved successfully"})
}

// DeleteLog handles hiding a log entry
// @Summary Delete a log entry
// @Description Soft-deletes one of the caller's log entries
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log entry ID"
// @Success 200 {object} dto.SuccessResponse "Log entry deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Log entry not found"
// @Router /logs/{id} [delete]
func (c *AppLogController) DeleteLog(ctx *gin.Context) {
	userID, _, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.logService.DeleteEntry(ctx, userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Log entry deleted successfully"})
}
