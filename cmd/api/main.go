// @title Study Buddy API
// @version 1.0
// @description Turns PDF study notes into quizzes and keeps the topic view of all stored quizzes.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:5001
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "study-buddy/cmd/api/docs"
	"study-buddy/internal/adapter"
	"study-buddy/internal/adapter/extractor"
	"study-buddy/internal/adapter/quizgen"
	"study-buddy/internal/cache"
	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/handler"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate swag init -d ../.. -g cmd/api/main.go -o ./docs --parseInternal

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		appLogger.Fatal("Server stopped with error", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	appLogger := logger.Get()

	// Connect to database
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db, cfg.DB); err != nil {
			return err
		}
	}

	// Initialize repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	sessionRepository := repository.NewSessionDatabaseAdapter(db)
	settingsRepository := repository.NewSettingsDatabaseAdapter(db)

	// Generation cache is optional
	var generationCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, generation cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			generationCache = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		}
	}

	// Initialize LLM generator
	generator, err := quizgen.New(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create quiz generator: %w", err)
	}
	appLogger.Info("Quiz generator initialized", zap.String("generator", generator.Name()))

	// Initialize services
	validator := service.NewPayloadValidator(cfg.LLM.StrictValidation)
	synthesizer := service.NewQuizSynthesizer(generator, validator, generationCache, service.SynthesizerConfig{
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		CacheTTL:    cfg.Cache.GenerationTTL,
	})
	quizService := service.NewQuizService(quizRepository, extractor.NewPDFExtractor(), synthesizer, validator)
	topicService := service.NewTopicService(quizRepository)
	progressService := service.NewProgressService(sessionRepository)
	settingsService := service.NewSettingsService(settingsRepository)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))

	handler.RegisterRoutes(app, handler.Handlers{
		Quiz:     handler.NewQuizHandler(quizService),
		Topic:    handler.NewTopicHandler(topicService),
		Progress: handler.NewProgressHandler(progressService),
		Settings: handler.NewSettingsHandler(settingsService),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
