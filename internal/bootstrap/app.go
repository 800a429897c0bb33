package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/config"
	"github.com/synergysphere/backend/internal/database"
	"github.com/synergysphere/backend/internal/handler"
	"github.com/synergysphere/backend/internal/logger"
	"github.com/synergysphere/backend/internal/realtime"
	"github.com/synergysphere/backend/internal/repository"
	"github.com/synergysphere/backend/internal/service"
)

type App struct {
	Echo     *echo.Echo
	DB       *sqlx.DB
	Realtime *realtime.Server
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

type handlers struct {
	auth          *handler.AuthHandler
	projects      *handler.ProjectHandler
	tasks         *handler.TaskHandler
	events        *handler.EventHandler
	calendar      *handler.CalendarHandler
	notifications *handler.NotificationHandler
	health        *handler.HealthHandler
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.SetLevel(config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	serverCfg, err := config.LoadServerConfig(config.DefaultEnvConfig.SERVER_CONFIG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	// Initialize database connection
	dbConfig := database.Config{
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

	db, err := database.NewPostgresDB(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Realtime fan-out
	tokens := auth.NewTokenManager(config.DefaultEnvConfig.JWT_SECRET, serverCfg.TokenTTL)
	registry := realtime.NewRegistry()
	notifier := realtime.NewNotifier(registry, memberRepo)
	a.Realtime = realtime.NewServer(registry, tokens, serverCfg.PingInterval)

	// Services
	authSvc := service.NewAuthService(userRepo, tokens)
	projectSvc := service.NewProjectService(projectRepo, memberRepo, notifier)
	taskSvc := service.NewTaskService(taskRepo, projectRepo, memberRepo, notificationRepo, notifier)
	eventSvc := service.NewEventService(eventRepo, memberRepo, notifier)
	notificationSvc := service.NewNotificationService(notificationRepo)

	h := handlers{
		auth:          handler.NewAuthHandler(authSvc),
		projects:      handler.NewProjectHandler(projectSvc, taskSvc),
		tasks:         handler.NewTaskHandler(taskSvc),
		events:        handler.NewEventHandler(eventSvc),
		calendar:      handler.NewCalendarHandler(taskSvc, projectSvc),
		notifications: handler.NewNotificationHandler(notificationSvc),
		health:        handler.NewHealthHandler(registry, projectRepo, taskRepo, notificationRepo),
	}

	// Register Middlewares
	a.RegisterMiddlewares(serverCfg)

	// Register Routes
	a.RegisterRoutes(tokens, h)

	return nil
}

func (a *App) RegisterMiddlewares(cfg *config.ServerConfig) {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))
}

func (a *App) RegisterRoutes(tokens *auth.TokenManager, h handlers) {
	a.Echo.POST("/auth/signup", h.auth.SignupHandler)
	a.Echo.POST("/auth/login", h.auth.LoginHandler)
	a.Echo.GET("/health", h.health.StatusHandler)
	// Token verification happens inside the upgrade handshake.
	a.Echo.GET("/ws", a.Realtime.Handle)

	api := a.Echo.Group("")
	api.Use(auth.Middleware(tokens))

	api.GET("/projects", h.projects.ListHandler)
	api.POST("/projects", h.projects.CreateHandler)
	api.GET("/projects/:id", h.projects.GetHandler)
	api.PUT("/projects/:id", h.projects.UpdateHandler)
	api.DELETE("/projects/:id", h.projects.DeleteHandler)
	api.GET("/projects/:id/members", h.projects.MembersHandler)
	api.POST("/projects/:id/members", h.projects.AddMemberHandler)
	api.DELETE("/projects/:id/members/:userId", h.projects.RemoveMemberHandler)
	api.GET("/projects/:id/export", h.projects.ExportHandler)

	api.GET("/tasks", h.tasks.ListHandler)
	api.GET("/tasks/mine", h.tasks.MineHandler)
	api.POST("/tasks", h.tasks.CreateHandler)
	api.GET("/tasks/:id", h.tasks.GetHandler)
	api.PUT("/tasks/:id", h.tasks.UpdateHandler)
	api.DELETE("/tasks/:id", h.tasks.DeleteHandler)

	api.GET("/events", h.events.ListHandler)
	api.GET("/events/range", h.events.RangeHandler)
	api.POST("/events", h.events.CreateHandler)
	api.GET("/events/:id", h.events.GetHandler)
	api.PUT("/events/:id", h.events.UpdateHandler)
	api.DELETE("/events/:id", h.events.DeleteHandler)

	api.GET("/calendar/task-deadlines", h.calendar.TaskDeadlinesHandler)
	api.GET("/calendar/project-deadlines", h.calendar.ProjectDeadlinesHandler)

	api.GET("/notifications", h.notifications.ListHandler)
	api.GET("/notifications/unread", h.notifications.UnreadHandler)
	api.PUT("/notifications/:id/read", h.notifications.MarkReadHandler)
}

func (a *App) Run() error {
	defer a.DB.Close()
	defer a.Realtime.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
