package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"therapist-crm/config"
	deliveryHttp "therapist-crm/internal/delivery/http"
	"therapist-crm/internal/delivery/http/handler"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/infrastructure/assistant"
	"therapist-crm/internal/infrastructure/cache"
	"therapist-crm/internal/infrastructure/database"
	"therapist-crm/internal/infrastructure/notify"
	"therapist-crm/internal/infrastructure/storage"
	"therapist-crm/internal/repository"
	"therapist-crm/internal/service"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/clientip"
	"therapist-crm/pkg/jwt"
	"therapist-crm/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	workers     []func(ctx context.Context)
	stopWorkers context.CancelFunc
	workerGroup conc.WaitGroup
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Startup.Timeout)
	defer cancel()

	// Initialize database
	db, err := database.NewPostgresConnection(ctx, cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := database.RunMigrations(db); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Migrations applied successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initializeServer(cfg, db, redisClient); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// Migrate connects to the database, applies pending migrations and disconnects.
func Migrate() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Startup.Timeout)
	defer cancel()

	db, err := database.NewPostgresConnection(ctx, cfg.DB, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	logrus.Info("Migrations applied successfully")
	return nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server and background workers
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) error {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)
	tokenStore := cache.NewTokenStore(redisClient)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize infrastructure
	notifier, err := notify.New(cfg.Notify, log)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	uploader, err := storage.NewCloudinaryUploader(cfg.Cloudinary)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	terms, err := service.LoadLegalTerms(cfg.Legal.TermsPath, cfg.Legal.CurrentVersion, log)
	if err != nil {
		return fmt.Errorf("failed to load legal terms: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	consentRepo := repository.NewLegalConsentRepository(db)
	therapistRepo := repository.NewTherapistRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	progressRepo := repository.NewCourseProgressRepository(db)
	certRepo := repository.NewCertificationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, notificationRepo, notifier, cfg.Outbox)
	exportService := service.NewExportService()

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, profileRepo, jwtService, tokenStore, notificationService, auditService, cfg.App.SiteURL)
	accessUsecase := usecase.NewAccessUsecase(log, profileRepo, consentRepo, auditService, terms)
	intakeUsecase := usecase.NewIntakeUsecase(log, patientRepo, leadRepo, profileRepo, notificationService, cfg.Notify.AdminEmail, cfg.Intake.RedirectDelay)
	dashboardUsecase := usecase.NewDashboardUsecase(log, therapistRepo, patientRepo, leadRepo, notificationService, auditService, authUsecase, cfg.App.SiteURL)
	leadUsecase := usecase.NewLeadUsecase(log, therapistRepo, patientRepo, leadRepo, auditService)
	therapistUsecase := usecase.NewTherapistUsecase(log, therapistRepo, profileRepo, reviewRepo, appointmentRepo, auditService)
	portalUsecase := usecase.NewPatientPortalUsecase(log, patientRepo, appointmentRepo, reviewRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, therapistRepo, patientRepo)
	courseUsecase := usecase.NewCourseUsecase(log, progressRepo, certRepo)
	mediaUsecase := usecase.NewMediaUsecase(log, uploader, profileRepo, therapistRepo, auditService)
	exportUsecase := usecase.NewExportUsecase(log, therapistRepo, patientRepo, leadRepo, exportService)
	notificationUsecase := usecase.NewNotificationUsecase(log, notificationService, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	var assistantClient assistant.Client
	if c := assistant.New(cfg.Assistant, nil); c != nil {
		assistantClient = c
	} else {
		log.Info("Course assistant API key not set; answering with the setup notice")
	}
	assistantUsecase := usecase.NewAssistantUsecase(log, assistantClient)

	ips, err := clientip.NewResolver(cfg.App.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, customValidator, jwtService),
		Access:       handler.NewAccessHandler(accessUsecase, customValidator, ips),
		Intake:       handler.NewIntakeHandler(intakeUsecase, customValidator),
		Dashboard:    handler.NewDashboardHandler(dashboardUsecase, customValidator),
		Lead:         handler.NewLeadHandler(leadUsecase, customValidator),
		Therapist:    handler.NewTherapistHandler(therapistUsecase, mediaUsecase, customValidator),
		Portal:       handler.NewPortalHandler(portalUsecase, mediaUsecase, customValidator),
		Course:       handler.NewCourseHandler(courseUsecase, customValidator),
		Assistant:    handler.NewAssistantHandler(assistantUsecase, customValidator),
		Appointment:  handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Export:       handler.NewExportHandler(exportUsecase, customValidator),
		Notification: handler.NewNotificationHandler(notificationUsecase),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase, customValidator),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtService, tokenStore)
	accessMiddleware := middleware.NewAccessMiddleware(accessUsecase)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(cfg.Intake.RatePerMinute, cfg.Intake.Burst, ips)
	assistantLimiter := middleware.NewRateLimiter(cfg.Assistant.RatePerMinute, cfg.Assistant.Burst, ips)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, accessMiddleware, corsMiddleware, rateLimiter, assistantLimiter)
	httpRouter := router.Setup()

	// Background workers
	app.workers = []func(ctx context.Context){
		notificationService.Run,
		rateLimiter.Run,
		assistantLimiter.Run,
	}

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	app.stopWorkers = cancel
	for _, worker := range app.workers {
		worker := worker
		app.workerGroup.Go(func() { worker(ctx) })
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Stop outbox worker and limiter cleanup
	if app.stopWorkers != nil {
		app.stopWorkers()
		app.workerGroup.Wait()
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
