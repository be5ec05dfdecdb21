package app

import (
	"context"
	"fmt"
	"time"

	"cuponera_backend/database"
	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/config"
	"cuponera_backend/internal/dispatch"
	"cuponera_backend/internal/email"
	"cuponera_backend/internal/handlers"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/repositories"
	"cuponera_backend/internal/routes"
	"cuponera_backend/internal/services"
	"cuponera_backend/internal/storage"
	"cuponera_backend/internal/validator"
	"cuponera_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
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

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	if err := database.SeedOnboardingSequence(gormDB); err != nil {
		logger.Fatal("Failed to seed onboarding sequence", "error", err)
	}
	if err := seedSuperadmin(gormDB); err != nil {
		logger.Fatal("Failed to seed superadmin", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unavailable, contact throttle will degrade open", "error", err)
	}

	ginRouter, container := SetupRouter(cfg, gormDB, rdb)

	if err := container.BroadcastService.RearmScheduled(context.Background()); err != nil {
		logger.WithError("Failed to re-arm scheduled broadcasts", err)
	}

	sweeper := workers.NewLifecycleWorker(container.LifecycleService, 6*time.Hour)
	sweeper.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires storage, services and handlers onto a gin engine. Split
// from Run so tests can build the full router against fakes.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, rdb *redis.Client) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	container := initializeServices(cfg, gormDB, rdb)
	appHandlers := initializeHandlers(container, storageInstance)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	if cfg.Storage.Type == "local" {
		ginRouter.Static("/files", cfg.Storage.BasePath)
	}
	return ginRouter, container
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, rdb *redis.Client) *services.ServiceContainer {
	clk := clock.RealClock{}

	businessRepo := repositories.NewBusinessRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)
	stepRepo := repositories.NewOnboardingStepRepository(gormDB)
	campaignRepo := repositories.NewCampaignRepository(gormDB)
	walletRepo := repositories.NewWalletRepository(gormDB)
	clientRepo := repositories.NewClientRepository(gormDB)
	broadcastRepo := repositories.NewBroadcastRepository(gormDB)
	userRepo := repositories.NewUserRepository(gormDB)
	contactStore := repositories.NewRedisContactStore(rdb)

	var notifier services.ExpiryNotifier
	if cfg.Email.SMTPHost != "" && cfg.Email.OperatorTo != "" {
		notifier = email.NewExpiryNotifier(email.NewSMTPProvider(cfg.Email), cfg.Email.OperatorTo)
	}

	var dispatcher dispatch.Dispatcher
	switch cfg.Dispatch.Provider {
	case "gateway":
		dispatcher = dispatch.NewGatewayDispatcher(dispatch.GatewayConfig{
			BaseURL: cfg.Dispatch.GatewayURL,
			APIKey:  cfg.Dispatch.APIKey,
			Sender:  cfg.Dispatch.Sender,
		})
	default:
		dispatcher = dispatch.NewMockDispatcher()
	}
	logger.Info("Dispatcher initialized", "provider", dispatcher.Name())

	segmentSvc := services.NewSegmentService(clientRepo, clk)
	throttleSvc := services.NewThrottleService(contactStore, clk)

	return &services.ServiceContainer{
		Clock:             clk,
		AuthService:       services.NewAuthService(userRepo),
		LifecycleService:  services.NewLifecycleService(businessRepo, paymentRepo, clk, notifier),
		OnboardingService: services.NewOnboardingService(stepRepo, clk),
		WalletService:     services.NewWalletService(walletRepo, campaignRepo, clientRepo, clk),
		SegmentService:    segmentSvc,
		ThrottleService:   throttleSvc,
		BroadcastService:  services.NewBroadcastService(broadcastRepo, clientRepo, segmentSvc, throttleSvc, dispatcher, clk),
		MarketingAI:       services.NewMarketingAIService(context.Background(), cfg.AI),
		ReportService:     services.NewReportService(businessRepo, clientRepo, campaignRepo, walletRepo, paymentRepo, clk),
	}
}

func initializeHandlers(container *services.ServiceContainer, storageInstance storage.Storage) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(base, container.AuthService),
		BusinessHandler:   handlers.NewBusinessHandler(base, container.LifecycleService, container.OnboardingService, container.Clock),
		OnboardingHandler: handlers.NewOnboardingHandler(base, container.OnboardingService),
		CampaignHandler:   handlers.NewCampaignHandler(base, container.WalletService, container.SegmentService),
		BroadcastHandler:  handlers.NewBroadcastHandler(base, container.BroadcastService, container.LifecycleService, storageInstance),
		MarketingHandler:  handlers.NewMarketingHandler(base, container.MarketingAI, container.WalletService, container.LifecycleService),
		ReportHandler:     handlers.NewReportHandler(base, container.ReportService, container.Clock),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		gin.Recovery(),
	)
	return ginRouter
}
