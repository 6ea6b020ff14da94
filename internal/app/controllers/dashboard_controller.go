package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
)

// DashboardController handles cross-stage operations: moving a record
// between dashboards and the per-stage head counts.
type DashboardController struct {
	dashboardService services.DashboardService
	actionLogs       services.AppLogService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService, actionLogs services.AppLogService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		actionLogs:       actionLogs,
	}
}

// MoveStudent handles relocating a student between stage dashboards
// @Summary Move a student between dashboards
// @Description Relocates one student record from one stage dashboard to another in a single atomic step
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.MoveStudentRequest true "Source and destination stages"
// @Success 200 {object} dto.SuccessResponse "Student moved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not on the source dashboard"
// @Router /dashboard/students/{id}/move [post]
func (c *DashboardController) MoveStudent(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MoveStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid move request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	from := models.Stage(strings.ToUpper(req.From))
	to := models.Stage(strings.ToUpper(req.To))
	if err := c.dashboardService.MoveStudent(ctx, schoolID, id, from, to); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "student.move", "moved student between dashboards")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student moved successfully"})
}

// Summary handles the per-stage student counts
// @Summary Pipeline summary
// @Description Returns the student head count of every pipeline dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Summary retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /dashboard/summary [get]
func (c *DashboardController) Summary(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	counts, err := c.dashboardService.Summary(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      counts,
		Timestamp: time.Now(),
	})
}
