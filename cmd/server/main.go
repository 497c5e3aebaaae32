package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"treasuremap-backend/internal/config"
	"treasuremap-backend/internal/database"
	"treasuremap-backend/internal/handlers"
	"treasuremap-backend/internal/logging"
	"treasuremap-backend/internal/middleware"
	"treasuremap-backend/internal/router"
	"treasuremap-backend/internal/services"
	"treasuremap-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Invalid configuration: %v", err)
	}

	// ──── Step 2: Initialize Logger ────
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	logger.Info("Starting treasure map backend", zap.String("env", cfg.Env))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ──── Step 3: Initialize Text Generator ────
	generator, closeGenerator, err := newGenerator(ctx, cfg)
	if err != nil {
		logger.Fatal("✗ Generator initialization failed", zap.Error(err))
	}
	defer closeGenerator()
	if cfg.Provider == config.ProviderGemini && cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is empty; chat requests will fail upstream")
	}
	logger.Info("✓ Generator initialized", zap.String("backend", cfg.BackendName()))

	// ──── Step 4: Diagnostics Feed (optional) ────
	jwtAuth := middleware.NewJWTAuth(cfg.OperatorJWTSecret)
	var publisher services.EventPublisher = services.NopEventPublisher{}
	var wsHub *websocket.Hub

	if cfg.DiagnosticsEnabled() {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("✗ Redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()

		publisher = services.NewRedisEventPublisher(redisClient, cfg.DiagnosticsChannel, logger)
		wsHub = websocket.NewHub(jwtAuth, logger)
		defer wsHub.Close()
		go wsHub.Listen(ctx, redisClient, cfg.DiagnosticsChannel)
		logger.Info("✓ Diagnostics feed enabled", zap.String("channel", cfg.DiagnosticsChannel))
	}

	// ──── Step 5: Initialize Services & Handlers ────
	relayService := services.NewRelayService(generator, publisher, cfg.BackendName())
	chatHandler := handlers.NewChatHandler(relayService)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(cfg.BackendName(), cfg.DiagnosticsEnabled())

	// Operator routes: 30 req/min per IP
	operatorLimiter := middleware.NewRateLimiter(30, time.Minute)
	defer operatorLimiter.Stop()

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		logger,
		jwtAuth,
		operatorLimiter,
		chatHandler,
		diagnosticsHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown incomplete", zap.Error(err))
		}
	}()

	logger.Info("✓ Treasure map backend ready",
		zap.String("addr", "http://localhost:"+cfg.Port),
		zap.String("chat", "POST /api/chat"),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
	<-shutdownDone
}

// newGenerator builds the configured backend and a function releasing it.
func newGenerator(ctx context.Context, cfg *config.Config) (services.Generator, func(), error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return services.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), func() {}, nil
	default:
		gemini, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return gemini, func() { gemini.Close() }, nil
	}
}
