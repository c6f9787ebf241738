package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"smartfreelance_backend/database"
	"smartfreelance_backend/internal/clients"
	"smartfreelance_backend/internal/config"
	"smartfreelance_backend/internal/handlers"
	"smartfreelance_backend/internal/logger"
	"smartfreelance_backend/internal/middleware"
	"smartfreelance_backend/internal/repositories"
	"smartfreelance_backend/internal/routes"
	"smartfreelance_backend/internal/services"
	"smartfreelance_backend/internal/validator"
	"smartfreelance_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	ginRouter := SetupRouter(cfg, gormDB)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	startWorkers(workerCtx, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	offerRepo := repositories.NewOfferRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	txRunner := repositories.NewGormTxRunner(gormDB)

	contractClient := clients.NewHTTPContractClient(
		cfg.Services.Contract.URL,
		time.Duration(cfg.Services.Contract.TimeoutSeconds)*time.Second,
	)

	notificationService := services.NewNotificationService(notificationRepo, cfg.Notifications.PageSize)
	offerService := services.NewOfferService(offerRepo, applicationRepo)
	applicationService := services.NewApplicationService(
		applicationRepo,
		offerRepo,
		txRunner,
		contractClient,
		notificationService,
	)

	return &services.ServiceContainer{
		OfferService:        offerService,
		ApplicationService:  applicationService,
		NotificationService: notificationService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		OfferHandler:        handlers.NewOfferHandler(baseHandler, serviceContainer.OfferService, serviceContainer.ApplicationService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, serviceContainer.ApplicationService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func startWorkers(ctx context.Context, gormDB *gorm.DB) {
	offerRepo := repositories.NewOfferRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	offerWorker := workers.NewOfferWorker(offerRepo, notificationRepo)
	offerWorker.Start(ctx)
	logger.Info("Background workers started")
}
