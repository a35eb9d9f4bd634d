package bootstrap

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ozgur/courseselect/docs" // Import generated swagger docs
	appControllers "github.com/ozgur/courseselect/internal/app/controllers"
	appMigrations "github.com/ozgur/courseselect/internal/app/migrations"
	appRepos "github.com/ozgur/courseselect/internal/app/repositories"
	appRoutes "github.com/ozgur/courseselect/internal/app/routes"
	appServices "github.com/ozgur/courseselect/internal/app/services"
	"github.com/ozgur/courseselect/internal/config"
	"github.com/ozgur/courseselect/internal/db"
	appMiddleware "github.com/ozgur/courseselect/internal/middleware"
	pkgAuth "github.com/ozgur/courseselect/internal/pkg/auth"
	"github.com/ozgur/courseselect/internal/pkg/events"
	"github.com/ozgur/courseselect/internal/pkg/logger"
	"github.com/ozgur/courseselect/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store               appRepos.Store
	CourseService       *appServices.CourseService
	SelectionService    *appServices.SelectionService
	CourseController    *appControllers.CourseController
	SelectionController *appControllers.SelectionController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	JWTService          *pkgAuth.JWTService
	Publisher           events.Publisher
	Logger              zerolog.Logger
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

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// optionally seeds demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Database.RunMigrations {
		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(dbPool)
		if err := migrator.Run(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			dbPool.Close()
			return nil, err
		}
		lgr.Info().Msg("Database migrations successfully applied.")
	}

	if cfg.Database.SeedDemoData {
		if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes the store, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Store = appRepos.NewStore(dbPool)
	deps.Publisher = events.NewLogPublisher(lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.CourseService = appServices.NewCourseService(deps.Store, deps.Publisher)
	deps.SelectionService = appServices.NewSelectionService(deps.Store, deps.Publisher)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.SelectionController = appControllers.NewSelectionController(deps.SelectionService)

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

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.SelectionController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
