package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
)

// UserController handles staff listing and role assignment.
type UserController struct {
	userService services.UserService
	actionLogs  services.AppLogService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, actionLogs services.AppLogService) *UserController {
	return &UserController{
		userService: userService,
		actionLogs:  actionLogs,
	}
}

// ListUsers handles listing the school's staff
// @Summary List users
// @Description Lists every user in the caller's school
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Users retrieved successfully"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	users, err := c.userService.ListUsers(ctx, schoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      users,
		Timestamp: time.Now(),
	})
}

// GetUser handles fetching one staff member
// @Summary Get a user
// @Description Retrieves one user from the caller's school
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "User retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, schoolID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// AssignRole handles granting or clearing a user's role
// @Summary Assign a role to a user
// @Description Grants an active role from the caller's school to a user, or clears the role when roleId is null
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.AssignRoleRequest true "Role to grant"
// @Success 200 {object} dto.SuccessResponse "Role assigned successfully"
// @Failure 404 {object} dto.ErrorResponse "User or role not found"
// @Router /users/{id}/role [put]
func (c *UserController) AssignRole(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid role assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.AssignRole(ctx, schoolID, id, req.RoleID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "user.assign_role", "changed a user's role")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role assigned successfully"})
}
