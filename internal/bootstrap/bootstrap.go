package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/audease/audease-backend/docs" // Import generated swagger docs
	appAuth "github.com/audease/audease-backend/internal/app/auth"
	appControllers "github.com/audease/audease-backend/internal/app/controllers"
	appMigrations "github.com/audease/audease-backend/internal/app/migrations"
	appRepos "github.com/audease/audease-backend/internal/app/repositories"
	appRoutes "github.com/audease/audease-backend/internal/app/routes"
	appServices "github.com/audease/audease-backend/internal/app/services"
	"github.com/audease/audease-backend/internal/config"
	"github.com/audease/audease-backend/internal/db"
	appMiddleware "github.com/audease/audease-backend/internal/middleware"
	pkgAuth "github.com/audease/audease-backend/internal/pkg/auth"
	"github.com/audease/audease-backend/internal/pkg/email"
	"github.com/audease/audease-backend/internal/pkg/filestorage"
	"github.com/audease/audease-backend/internal/pkg/helpers"
	"github.com/audease/audease-backend/internal/pkg/logger"
	"github.com/audease/audease-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      appServices.AuthService
	SchoolService    appServices.SchoolService
	StageService     appServices.StageService
	DashboardService appServices.DashboardService
	ArchiveService   appServices.ArchiveService
	RoleService      appServices.RoleService
	UserService      appServices.UserService
	FormService      appServices.FormService
	DocumentService  appServices.DocumentService
	AppLogService    appServices.AppLogService

	AuthController      *appControllers.AuthController
	SchoolController    *appControllers.SchoolController
	StageController     *appControllers.StageController
	DashboardController *appControllers.DashboardController
	ArchiveController   *appControllers.ArchiveController
	RoleController      *appControllers.RoleController
	UserController      *appControllers.UserController
	FormController      *appControllers.FormController
	DocumentController  *appControllers.DocumentController
	AppLogController    *appControllers.AppLogController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Notifier       *email.Notifier
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the permission catalog.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// The permission catalog must exist before the first role is created.
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	dbPool := database.Pool

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	storageBaseURL := cfg.Storage.BaseURL
	if storageBaseURL == "" {
		storageBaseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, storageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, lgr)
	deps.Notifier = email.NewNotifier(emailService, lgr)

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.RoleRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.RoleRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.Notifier,
	)
	deps.SchoolService = appServices.NewSchoolService(
		deps.Repos.SchoolRepository,
		deps.Repos.UserRepository,
		deps.Repos.RoleRepository,
		database,
		deps.Notifier,
	)
	deps.StageService = appServices.NewStageService(deps.Repos.StudentRepository, deps.Notifier)
	deps.DashboardService = appServices.NewDashboardService(deps.Repos.StudentRepository)
	deps.ArchiveService = appServices.NewArchiveService(deps.Repos.StudentRepository)
	deps.RoleService = appServices.NewRoleService(deps.Repos.RoleRepository)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.RoleRepository)
	deps.FormService = appServices.NewFormService(deps.Repos.FormRepository, deps.Repos.StudentRepository)
	deps.DocumentService = appServices.NewDocumentService(deps.Repos.DocumentRepository, deps.Repos.StudentRepository, deps.FileStorage)
	deps.AppLogService = appServices.NewAppLogService(deps.Repos.AppLogRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.AppLogService)
	deps.SchoolController = appControllers.NewSchoolController(deps.SchoolService)
	deps.StageController = appControllers.NewStageController(deps.StageService, deps.AppLogService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService, deps.AppLogService)
	deps.ArchiveController = appControllers.NewArchiveController(deps.ArchiveService, deps.AppLogService)
	deps.RoleController = appControllers.NewRoleController(deps.RoleService, deps.AppLogService)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.AppLogService)
	deps.FormController = appControllers.NewFormController(deps.FormService, deps.AppLogService)
	deps.DocumentController = appControllers.NewDocumentController(deps.DocumentService, deps.AppLogService)
	deps.AppLogController = appControllers.NewAppLogController(deps.AppLogService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.Use(appMiddleware.RequestLogger())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Serve uploaded documents
	router.Static("/uploads", cfg.Storage.BasePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.SchoolController,
		deps.StageController,
		deps.DashboardController,
		deps.ArchiveController,
		deps.RoleController,
		deps.UserController,
		deps.FormController,
		deps.DocumentController,
		deps.AppLogController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
