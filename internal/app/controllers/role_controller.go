package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/middleware"
)

// RoleController handles role management within a school.
type RoleController struct {
	roleService services.RoleService
	actionLogs  services.AppLogService
}

// NewRoleController creates a new RoleController
func NewRoleController(roleService services.RoleService, actionLogs services.AppLogService) *RoleController {
	return &RoleController{
		roleService: roleService,
		actionLogs:  actionLogs,
	}
}

// CreateRole handles role creation
// @Summary Create a role
// @Description Creates a role with a set of permission grants from the permission catalog
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoleRequest true "Role definition"
// @Success 201 {object} dto.APIResponse{data=models.Role} "Role created successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown permission name"
// @Router /roles [post]
func (c *RoleController) CreateRole(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	var req dto.CreateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid role data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	role, err := c.roleService.CreateRole(ctx, schoolID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "role.create", "created role "+role.Name)

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      role,
		Timestamp: time.Now(),
	})
}

// ListRoles handles listing a school's roles
// @Summary List roles
// @Description Lists the caller's school roles, optionally including archived ones
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param includeArchived query bool false "Include archived roles"
// @Success 200 {object} dto.APIResponse "Roles retrieved successfully"
// @Router /roles [get]
func (c *RoleController) ListRoles(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}

	includeArchived := ctx.Query("includeArchived") == "true"
	roles, err := c.roleService.ListRoles(ctx, schoolID, includeArchived)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      roles,
		Timestamp: time.Now(),
	})
}

// GetRole handles fetching one role with its permissions
// @Summary Get a role
// @Description Retrieves one role with its permission grants
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} dto.APIResponse{data=models.Role} "Role retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /roles/{id} [get]
func (c *RoleController) GetRole(ctx *gin.Context) {
	_, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	role, err := c.roleService.GetRole(ctx, schoolID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      role,
		Timestamp: time.Now(),
	})
}

// ArchiveRole handles retiring a role
// @Summary Archive a role
// @Description Archives a role so it no longer grants permissions to its holders
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param request body dto.ArchiveRoleRequest false "Optional archive reason"
// @Success 200 {object} dto.SuccessResponse "Role archived successfully"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /roles/{id}/archive [post]
func (c *RoleController) ArchiveRole(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	// reason body is optional
	var req dto.ArchiveRoleRequest
	_ = ctx.ShouldBindJSON(&req)

	if err := c.roleService.ArchiveRole(ctx, schoolID, id, userID, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "role.archive", "archived a role")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role archived successfully"})
}

// RestoreRole handles un-archiving a role
// @Summary Restore a role
// @Description Restores an archived role
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} dto.SuccessResponse "Role restored successfully"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /roles/{id}/restore [post]
func (c *RoleController) RestoreRole(ctx *gin.Context) {
	userID, schoolID, ok := requestScope(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.roleService.RestoreRole(ctx, schoolID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.actionLogs.Record(ctx, userID, "role.restore", "restored a role")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role restored successfully"})
}

// ListPermissions handles the global permission catalog
// @Summary List permissions
// @Description Lists every permission roles can be granted
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Permissions retrieved successfully"
// @Router /permissions [get]
func (c *RoleController) ListPermissions(ctx *gin.Context) {
	permissions, err := c.roleService.ListPermissions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      permissions,
		Timestamp: time.Now(),
	})
}
