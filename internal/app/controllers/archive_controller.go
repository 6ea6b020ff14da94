package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
	"github.com/audease/audease-backend/internal/pkg/helpers"
)

// ArchiveController handles soft-deleting students and browsing the archive.
type ArchiveController struct {
	archiveService services.ArchiveService
	actionLogs     services.AppLogService
}

// NewArchiveController creates a new ArchiveController
func NewArchiveController(archiveService services.ArchiveService, actionLogs services.AppLogService) *ArchiveController {
	return &ArchiveController{
		archiveService: archiveService,
		actionLogs:     actionLogs,
	}
}

// ArchiveStudent handles moving a student record into the archive
// @Summary Archive a student
// @Description Soft-deletes a student record, removing it from every dashboard
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.ArchiveStudentRequest false "Optional archive reason"
// @Success 200 {object} dto.SuccessResponse "Student archived successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /archive/students/{id} [post]
func (c *ArchiveController) ArchiveStudent(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	// reason body is optional
	var req dto.ArchiveStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid archive request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.archiveService.ArchiveStudent(ctx, schoolID, id, userID, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "student.archive", "archived a student record")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student archived successfully"})
}

// RestoreStudent handles bringing an archived student back onto its dashboard
// @Summary Restore an archived student
// @Description Returns an archived student to the stage it was archived from
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.SuccessResponse "Student restored successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found in the archive"
// @Router /archive/students/{id}/restore [post]
func (c *ArchiveController) RestoreStudent(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.archiveService.RestoreStudent(ctx, schoolID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "student.restore", "restored a student record")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student restored successfully"})
}

// ListArchived handles browsing the archive
// @Summary List archived students
// @Description Lists archived students with search and archive-date filtering
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name/email search"
// @Param archivedFrom query string false "Archived on or after (YYYY-MM-DD)"
// @Param archivedTo query string false "Archived on or before (YYYY-MM-DD)"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ListResponse "Archived students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /archive/students [get]
func (c *ArchiveController) ListArchived(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	var params dto.ArchivedListQuery
	if err := ctx.ShouldBindQuery(&params); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	students, total, err := c.archiveService.ListArchived(ctx, schoolID, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, limit := helpers.NormalizePage(params.Page, params.Limit)
	ctx.JSON(http.StatusOK, dto.ListResponse{
		Data:     students,
		Total:    total,
		Page:     page,
		LastPage: helpers.LastPage(total, limit),
	})
}
