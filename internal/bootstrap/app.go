package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/compensation_dashboard/internal/auth"
	"github.com/locvowork/compensation_dashboard/internal/cache"
	"github.com/locvowork/compensation_dashboard/internal/config"
	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/dataset"
	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/handler"
	"github.com/locvowork/compensation_dashboard/internal/logger"
	"github.com/locvowork/compensation_dashboard/internal/observability"
	"github.com/locvowork/compensation_dashboard/internal/repository"
	"github.com/locvowork/compensation_dashboard/internal/service"
)

type App struct {
	Echo    *echo.Echo
	DB      *sql.DB
	Store   *dataset.Store
	Metrics *observability.Metrics
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo:    e,
		Metrics: observability.NewMetrics(),
	}
}

// DatabaseConfig maps the environment onto connection settings.
func DatabaseConfig() database.Config {
	return database.Config{
		Host:            config.DefaultEnvConfig.DB_HOST,
		Port:            config.DefaultEnvConfig.DB_PORT,
		User:            config.DefaultEnvConfig.DB_USER,
		Password:        config.DefaultEnvConfig.DB_PASSWORD,
		DBName:          config.DefaultEnvConfig.DB_NAME,
		SSLMode:         config.DefaultEnvConfig.DB_SSL_MODE,
		MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	authenticator, err := auth.NewAuthenticator(cfg.DASHBOARD_PASSWORD, cfg.DASHBOARD_PASSWORD_HASH, cfg.SESSION_TTL)
	if err != nil {
		return fmt.Errorf("failed to initialize auth: %w", err)
	}

	loader, err := a.datasetLoader(ctx)
	if err != nil {
		return err
	}
	store, err := dataset.Open(ctx, loader)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.Store = store
	a.Metrics.SetDatasetAvailable(store.Available())

	// Initialize dependencies
	summaries := cache.NewSummaryCache(cfg.SUMMARY_CACHE_SIZE, a.Metrics)
	dashSvc := service.NewDashboardService(store, summaries, a.Metrics, cfg.INTERVAL_POLICY)
	dashHandler := handler.NewDashboardHandler(dashSvc, dataset.MissingDataMessage(cfg.DATA_FILE_PATH))
	authHandler := handler.NewAuthHandler(authenticator, a.Metrics)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(authenticator, authHandler, dashHandler)

	return nil
}

// datasetLoader picks the backing source of the four tables.
func (a *App) datasetLoader(ctx context.Context) (domain.DatasetLoader, error) {
	cfg := config.DefaultEnvConfig
	if cfg.DATA_SOURCE != config.DataSourcePostgres {
		return dataset.NewExcelLoader(cfg.DATA_FILE_PATH), nil
	}

	db, err := database.NewPostgresDB(ctx, DatabaseConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	return repository.NewCompensationRepository(db), nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(a.Metrics.Middleware())
	a.Echo.Use(requestLogger)
}

// requestLogger attaches a logger tagged with the request ID to the request context.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		ctx := logger.WithLogger(req.Context(), map[string]interface{}{"request_id": id})
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (a *App) RegisterRoutes(authenticator *auth.Authenticator, authHandler *handler.AuthHandler, dashHandler *handler.DashboardHandler) {
	a.Echo.GET("/healthz", dashHandler.HealthHandler)
	a.Echo.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))

	a.Echo.POST("/api/login", authHandler.LoginHandler)
	a.Echo.POST("/api/logout", authHandler.LogoutHandler)

	api := a.Echo.Group("/api", auth.Middleware(authenticator))
	api.GET("/options", dashHandler.OptionsHandler)
	api.GET("/dashboard", dashHandler.DashboardHandler)
	api.GET("/employees", dashHandler.EmployeesHandler)
	api.GET("/paybands", dashHandler.PayBandsHandler)
	api.GET("/export", dashHandler.ExportHandler)
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
