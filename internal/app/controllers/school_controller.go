package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
)

// SchoolController handles school onboarding and registration progress.
type SchoolController struct {
	schoolService services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService services.SchoolService) *SchoolController {
	return &SchoolController{schoolService: schoolService}
}

// Onboard handles new school sign-up
// @Summary Onboard a school
// @Description Creates a school, its admin role and its admin user in a single transaction
// @Tags schools
// @Accept json
// @Produce json
// @Param request body dto.OnboardSchoolRequest true "School and admin information"
// @Success 201 {object} dto.APIResponse "School created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "School name, username or email already taken"
// @Router /schools [post]
func (c *SchoolController) Onboard(ctx *gin.Context) {
	var req dto.OnboardSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid school data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	school, admin, err := c.schoolService.Onboard(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: gin.H{
			"school": school,
			"admin":  admin,
		},
		Timestamp: time.Now(),
	})
}

// GetSchool handles fetching the caller's school
// @Summary Get own school
// @Description Returns the authenticated user's school record
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.School} "School retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /schools/me [get]
func (c *SchoolController) GetSchool(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	school, err := c.schoolService.GetSchool(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      school,
		Timestamp: time.Now(),
	})
}

// AdvanceRegistration handles moving the school to the next onboarding step
// @Summary Advance registration status
// @Description Steps the school's registration status forward. Completed schools stay completed.
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.School} "Registration advanced"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /schools/me/registration/advance [post]
func (c *SchoolController) AdvanceRegistration(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	school, err := c.schoolService.AdvanceRegistration(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      school,
		Timestamp: time.Now(),
	})
}
