package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
	"github.com/audease/audease-backend/internal/pkg/helpers"
)

// StageController serves the per-stage student dashboards. Each stage's
// routes are registered with the stage baked in, so a handler never trusts
// a stage named by the client.
type StageController struct {
	stageService services.StageService
	actionLogs   services.AppLogService
}

// NewStageController creates a new StageController
func NewStageController(stageService services.StageService, actionLogs services.AppLogService) *StageController {
	return &StageController{
		stageService: stageService,
		actionLogs:   actionLogs,
	}
}

func requestScope(ctx *gin.Context) (userID, schoolID int64, ok bool) {
	userID, ok = middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, 0, false
	}
	schoolID, ok = middleware.GetSchoolID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, 0, false
	}
	return userID, schoolID, true
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// CreateStudent handles new student intake on the recruiter dashboard
// @Summary Add a prospective student
// @Description Records a new prospective student on the recruiter dashboard
// @Tags stages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.ProspectiveStudent} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /recruiter/students [post]
func (c *StageController) CreateStudent(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.stageService.CreateStudent(ctx, schoolID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "student.create", "created prospective student "+student.FullName())

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// ListStudents returns the handler for one stage's student listing
// @Summary List students on a stage dashboard
// @Description Lists the students the stage's gate admits, with search and filters
// @Tags stages
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name/email search"
// @Param funding query string false "Funding filter"
// @Param chosenCourse query string false "Course filter"
// @Param applicationStatus query string false "Application status filter"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ListResponse "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /{stage}/students [get]
func (c *StageController) ListStudents(stage models.Stage) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_, schoolID, ok := requestScope(ctx)
		if !ok {
			return
		}

		var params dto.StudentListQuery
		if err := ctx.ShouldBindQuery(&params); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		students, total, err := c.stageService.ListStudents(ctx, schoolID, stage, params)
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
}

// GetStudent returns the handler for one stage's student detail view
// @Summary Get a student on a stage dashboard
// @Description Retrieves one student if the stage's gate admits the record
// @Tags stages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.ProspectiveStudent} "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /{stage}/students/{id} [get]
func (c *StageController) GetStudent(stage models.Stage) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_, schoolID, ok := requestScope(ctx)
		if !ok {
			return
		}
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}

		student, err := c.stageService.GetStudent(ctx, schoolID, stage, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, dto.APIResponse{
			Data:      student,
			Timestamp: time.Now(),
		})
	}
}

// UpdateStudent returns the handler for editing a student's details
// @Summary Update a student's details
// @Description Rewrites the editable personal and program fields
// @Tags stages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Editable fields"
// @Success 200 {object} dto.APIResponse{data=models.ProspectiveStudent} "Student updated successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /{stage}/students/{id} [put]
func (c *StageController) UpdateStudent(stage models.Stage) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, schoolID, ok := requestScope(ctx)
		if !ok {
			return
		}
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}

		var req dto.UpdateStudentRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		student, err := c.stageService.UpdateStudent(ctx, schoolID, stage, id, &req)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		c.actionLogs.Record(ctx, userID, "student.update", "updated student "+student.FullName())

		ctx.JSON(http.StatusOK, dto.APIResponse{
			Data:      student,
			Timestamp: time.Now(),
		})
	}
}

// Approve returns the handler for a stage's approve decision
// @Summary Approve a student at a stage
// @Description Applies the stage's approve transition to the record
// @Tags stages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.ProspectiveStudent} "Decision applied"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Record was modified concurrently"
// @Router /{stage}/students/{id}/approve [post]
func (c *StageController) Approve(stage models.Stage) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, schoolID, ok := requestScope(ctx)
		if !ok {
			return
		}
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}

		student, err := c.stageService.Approve(ctx, schoolID, stage, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		c.actionLogs.Record(ctx, userID, "student.approve", "approved student "+student.FullName())

		ctx.JSON(http.StatusOK, dto.APIResponse{
			Data:      student,
			Timestamp: time.Now(),
		})
	}
}

// Reject returns the handler for a stage's reject decision
// @Summary Reject a student at a stage
// @Description Applies the stage's reject transition to the record
// @Tags stages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.ProspectiveStudent} "Decision applied"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Record was modified concurrently"
// @Router /{stage}/students/{id}/reject [post]
func (c *StageController) Reject(stage models.Stage) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, schoolID, ok := requestScope(ctx)
		if !ok {
			return
		}
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}

		student, err := c.stageService.Reject(ctx, schoolID, stage, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		c.actionLogs.Record(ctx, userID, "student.reject", "rejected student "+student.FullName())

		ctx.JSON(http.StatusOK, dto.APIResponse{
			Data:      student,
			Timestamp: time.Now(),
		})
	}
}
