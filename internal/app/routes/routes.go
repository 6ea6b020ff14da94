package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/audease/audease-backend/internal/app/controllers"
	"github.com/audease/audease-backend/internal/app/models"
	"github.com/audease/audease-backend/internal/app/models/dto"
	"github.com/audease/audease-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	schoolController *controllers.SchoolController,
	stageController *controllers.StageController,
	dashboardController *controllers.DashboardController,
	archiveController *controllers.ArchiveController,
	roleController *controllers.RoleController,
	userController *controllers.UserController,
	formController *controllers.FormController,
	documentController *controllers.DocumentController,
	appLogController *controllers.AppLogController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// School self-registration is the entry point for new tenants.
	v1.POST("/schools", schoolController.Onboard)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// Profile routes are open to every authenticated user.
		profile := authenticated.Group("/profile")
		{
			profile.GET("", authController.GetProfile)
			profile.PUT("", authController.UpdateProfile)
			profile.PUT("/password", authController.ChangePassword)
		}

		// School routes
		schools := authenticated.Group("/schools")
		{
			schools.GET("/me", schoolController.GetSchool)

			schoolsAdmin := schools.Group("")
			schoolsAdmin.Use(authMiddleware.PermissionRequired(models.PermissionAssumeAnyRole))
			{
				schoolsAdmin.POST("/me/registration/advance", schoolController.AdvanceRegistration)
			}
		}

		// Stage dashboards. Each pipeline stage mounts the same handler set
		// under its own path, guarded by the stage's permission; the auditor
		// mounts the read-only subset.
		registerStageRoutes(authenticated, stageController, authMiddleware)

		// Dashboard-level operations
		dashboard := authenticated.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardController.Summary)

			dashboardAdmin := dashboard.Group("")
			dashboardAdmin.Use(authMiddleware.PermissionRequired(models.PermissionAssumeAnyRole))
			{
				dashboardAdmin.POST("/students/:id/move", dashboardController.MoveStudent)
			}
		}

		// Archive routes
		archive := authenticated.Group("/archive")
		archive.Use(authMiddleware.PermissionRequired(models.PermissionAssumeAnyRole))
		{
			archive.GET("/students", archiveController.ListArchived)
			archive.POST("/students/:id", archiveController.ArchiveStudent)
			archive.POST("/students/:id/restore", archiveController.RestoreStudent)
		}

		// Role management (admin only)
		roles := authenticated.Group("/roles")
		roles.Use(authMiddleware.PermissionRequired(models.PermissionAssumeAnyRole))
		{
			roles.POST("", roleController.CreateRole)
			roles.GET("", roleController.ListRoles)
			roles.GET("/:id", roleController.GetRole)
			roles.POST("/:id/archive", roleController.ArchiveRole)
			roles.POST("/:id/restore", roleController.RestoreRole)
		}
		authenticated.GET("/permissions", roleController.ListPermissions)

		// User management (admin only)
		users := authenticated.Group("/users")
		users.Use(authMiddleware.PermissionRequired(models.PermissionAssumeAnyRole))
		{
			users.POST("", authController.CreateUser)
			users.GET("", userController.ListUsers)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id/role", userController.AssignRole)
		}

		// Form workflow routes
		forms := authenticated.Group("/forms")
		{
			forms.GET("", formController.ListForms)
			forms.POST("/submissions", formController.CreateDraft)
			forms.GET("/submissions/:id", formController.GetSubmission)
			forms.PUT("/submissions/:id", formController.UpdateDraft)
			forms.POST("/submissions/:id/submit", formController.Submit)

			formsReview := forms.Group("")
			formsReview.Use(authMiddleware.PermissionRequired(models.PermissionApproveRejectApplication))
			{
				formsReview.POST("/submissions/:id/review", formController.Review)
			}
		}
		authenticated.GET("/students/:id/submissions", formController.ListByStudent)
		authenticated.POST("/students/:id/submissions/submit", formController.SubmitForStudent)

		// Document routes
		documents := authenticated.Group("/documents")
		{
			documents.POST("", documentController.Upload)
			documents.GET("", documentController.ListDocuments)
			documents.GET("/folders", documentController.ListFolders)
			documents.POST("/folders", documentController.CreateFolder)
			documents.GET("/:id", documentController.GetDocument)
			documents.POST("/:id/move", documentController.MoveDocument)
			documents.DELETE("/:id", documentController.DeleteDocument)
		}

		// Action-log routes (a user sees only their own entries)
		logs := authenticated.Group("/logs")
		{
			logs.GET("", appLogController.ListLogs)
			logs.GET("/folders", appLogController.ListFolders)
			logs.POST("/folders", appLogController.CreateFolder)
			logs.POST("/:id/move", appLogController.MoveLog)
			logs.DELETE("/:id", appLogController.DeleteLog)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}

// registerStageRoutes mounts the per-stage dashboards. The stage is fixed at
// registration, so a request can never address a dashboard its permission
// does not cover.
func registerStageRoutes(parent *gin.RouterGroup, stageController *controllers.StageController, authMiddleware *middleware.AuthMiddleware) {
	for _, def := range models.PipelineStages() {
		group := parent.Group("/" + strings.ToLower(string(def.Stage)))
		group.Use(authMiddleware.PermissionRequired(def.Permission))

		group.GET("/students", stageController.ListStudents(def.Stage))
		group.GET("/students/:id", stageController.GetStudent(def.Stage))
		group.PUT("/students/:id", stageController.UpdateStudent(def.Stage))
		if def.Stage == models.StageRecruiter {
			group.POST("/students", stageController.CreateStudent)
		}
		if def.CanApprove() {
			group.POST("/students/:id/approve", stageController.Approve(def.Stage))
		}
		if def.CanReject() {
			group.POST("/students/:id/reject", stageController.Reject(def.Stage))
		}
	}

	// Auditor sees every record, read-only.
	auditorDef, _ := models.DefinitionFor(models.StageAuditor)
	auditor := parent.Group("/" + strings.ToLower(string(models.StageAuditor)))
	auditor.Use(authMiddleware.PermissionRequired(auditorDef.Permission))
	{
		auditor.GET("/students", stageController.ListStudents(models.StageAuditor))
		auditor.GET("/students/:id", stageController.GetStudent(models.StageAuditor))
	}
}
