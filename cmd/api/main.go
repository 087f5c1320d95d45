package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/GTDGit/customer_portal/internal/assistant"
	"github.com/GTDGit/customer_portal/internal/cache"
	"github.com/GTDGit/customer_portal/internal/config"
	"github.com/GTDGit/customer_portal/internal/database"
	"github.com/GTDGit/customer_portal/internal/handler"
	"github.com/GTDGit/customer_portal/internal/middleware"
	"github.com/GTDGit/customer_portal/internal/repository"
	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/sse"
	"github.com/GTDGit/customer_portal/internal/storage"
	"github.com/GTDGit/customer_portal/internal/utils"
	"github.com/GTDGit/customer_portal/internal/worker"
	"github.com/GTDGit/customer_portal/pkg/elevenlabs"
	"github.com/GTDGit/customer_portal/pkg/openai"
	"github.com/GTDGit/customer_portal/pkg/sheets"
)

const (
	invalidAuthLimit  = 5
	invalidAuthWindow = time.Minute
	shutdownTimeout   = 10 * time.Second
)

// main is the entrypoint for the customer portal API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env, cfg.Log)
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Backend).Msg("starting customer portal")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open the record store
	store, closeStore, err := openRowStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("record store unavailable")
		fmt.Fprintf(os.Stderr, "record store unavailable: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	// 3a. Connect to Redis
	redisClient, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	sessions := cache.NewSessionCache(redisClient)
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Store.CatalogCacheTTL)

	// 4. Initialize repositories
	customerRepo := repository.NewCustomerRepository(store, cfg.Timeouts.Store)
	orderRepo := repository.NewOrderRepository(store, customerRepo, cfg.Timeouts.Store)
	productRepo := repository.NewProductRepository(store, cfg.Timeouts.Store)
	interactionRepo := repository.NewInteractionRepository(store, cfg.Timeouts.Store)

	// 5. Initialize provider clients
	var completer assistant.Completer
	if cfg.OpenAI.APIKey != "" {
		completer = openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		})
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set - chat will answer with the fallback reply")
	}

	var synth service.Synthesizer
	if cfg.Voice.ElevenLabsAPIKey != "" {
		synth = elevenlabs.NewClient(cfg.Voice.ElevenLabsAPIKey, cfg.Voice.ElevenLabsBaseURL)
	} else {
		log.Warn().Msg("ELEVENLABS_API_KEY not set - voice synthesis disabled")
	}

	audioStore, err := openAudioStore(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("audio storage initialization failed - voice synthesis disabled")
	}

	// 6. Background workers and live feed
	var mailer worker.Mailer = worker.LogMailer{}
	if cfg.SMTP.Host != "" {
		mailer = worker.NewSMTPMailer(cfg.SMTP)
	}
	notifyWorker := worker.NewNotificationWorker(customerRepo, mailer, cfg.Worker.NotifyQueueSize)

	hub := sse.NewHub()
	activity := sse.NewHubNotifier(hub)

	// 7. Initialize services
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(customerRepo, sessions, jwtManager, cfg.Admin)
	customerSvc := service.NewCustomerService(customerRepo, orderRepo)
	orderSvc := service.NewOrderService(orderRepo, notifyWorker, activity)
	productSvc := service.NewProductService(productRepo, catalogCache)
	chatSvc := service.NewChatService(customerRepo, orderRepo, interactionRepo,
		assistant.New(completer, cfg.Timeouts.LLM), activity)
	voiceSvc := service.NewVoiceService(synth, audioStore, cfg.Timeouts.TTS)
	analyticsSvc := service.NewAnalyticsService(customerRepo, orderRepo, interactionRepo)

	// 8. Initialize handlers
	validate := validatorv10.New()
	handlers := &handler.Handlers{
		Health:    handler.NewHealthHandler(redisClient),
		Auth:      handler.NewAuthHandler(authSvc, validate),
		Customer:  handler.NewCustomerHandler(customerSvc, analyticsSvc),
		Chat:      handler.NewChatHandler(chatSvc, voiceSvc, validate),
		Product:   handler.NewProductHandler(productSvc),
		Order:     handler.NewOrderHandler(orderSvc, validate),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		SSE:       handler.NewSSEHandler(hub),
		WS:        handler.NewWSHandler(chatSvc),
	}

	// 9. Initialize middleware
	rateLimiter := middleware.NewInvalidAuthRateLimiter(invalidAuthLimit, invalidAuthWindow)
	jwtMw := middleware.NewJWTMiddleware(authSvc, rateLimiter)

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	router.Static("/audio", cfg.Voice.AudioDir)
	handler.SetupRoutes(router, handlers, jwtMw)

	// 11. Start workers
	go notifyWorker.Start(ctx)
	go rateLimiter.StartCleanup(ctx, invalidAuthWindow)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// openRowStore builds the configured record store backend. The returned
// func releases its resources.
func openRowStore(ctx context.Context, cfg *config.Config) (repository.RowStore, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := database.Connect(ctx, &cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, "file://migrations"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("migrations completed successfully")
		return repository.NewPostgresRowStore(db), func() { _ = db.Close() }, nil

	case config.StoreBackendMemory:
		log.Warn().Msg("using in-memory record store - data is lost on restart")
		return repository.NewMemoryRowStore(), func() {}, nil

	default:
		client, err := sheets.NewClient(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsPath: cfg.Sheets.CredentialsPath,
		})
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSheetsRowStore(client), func() {}, nil
	}
}

// openAudioStore uses S3 when a bucket is configured and the local audio
// directory otherwise.
func openAudioStore(ctx context.Context, cfg *config.Config) (storage.AudioStore, error) {
	if cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3AudioStore(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	local, err := storage.NewLocalAudioStore(cfg.Voice.AudioDir, "/audio")
	if err != nil {
		return nil, err
	}
	return local, nil
}

func setupLogger(env string, lc config.LogConfig) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var out io.Writer = os.Stdout
	if lc.File != "" {
		out = zerolog.MultiLevelWriter(os.Stdout, &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAgeDays,
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
