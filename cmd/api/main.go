package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/DaichiHaraguchi/sample-chat-bot/internal/api/router"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/catalog"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/channels/line"
	appconfig "github.com/DaichiHaraguchi/sample-chat-bot/internal/config"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/conversation"
	"github.com/DaichiHaraguchi/sample-chat-bot/internal/http/handlers"
	observemetrics "github.com/DaichiHaraguchi/sample-chat-bot/internal/observability/metrics"
	"github.com/DaichiHaraguchi/sample-chat-bot/pkg/logging"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sample-chat-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"reply_mode", cfg.ReplyMode,
	)

	// Missing credentials are fatal before the listener starts.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	responder, cleanup, err := buildResponder(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build responder", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	reg := prometheus.NewRegistry()
	relayMetrics := observemetrics.NewRelayMetrics(reg)

	lineClient := line.NewClient(cfg.LineChannelAccessToken)
	webhookHandler := handlers.NewLineWebhookHandler(handlers.LineWebhookConfig{
		ChannelSecret: cfg.LineChannelSecret,
		Responder:     responder,
		Sender:        lineClient,
		Strategy:      cfg.ReplyMode,
		Logger:        logger,
		Metrics:       relayMetrics,
	})

	r := router.New(&router.Config{
		Logger:         logger,
		WebhookHandler: webhookHandler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildResponder wires the reply strategy selected by REPLY_MODE. The cleanup
// func releases the Gemini client when one was created.
func buildResponder(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.Responder, func(), error) {
	if cfg.ReplyMode == appconfig.ReplyModeStatic {
		return conversation.NewStaticResponder(), func() {}, nil
	}

	cat, err := catalog.Load(cfg.SyllabusCSVPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("syllabus catalog loaded", "path", cfg.SyllabusCSVPath, "records", cat.Len())

	geminiClient, err := conversation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}

	history := buildHistoryStore(cfg, logger)
	svc := conversation.NewLLMService(geminiClient, history, cat, cfg.GeminiModel, cfg.HistoryWindow, logger)

	cleanup := func() {
		if err := geminiClient.Close(); err != nil {
			logger.Warn("failed to close gemini client", "error", err)
		}
	}
	return svc, cleanup, nil
}

func buildHistoryStore(cfg *appconfig.Config, logger *logging.Logger) conversation.HistoryStore {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory conversation history")
		return conversation.NewMemoryHistoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	logger.Info("using redis conversation history", "addr", cfg.RedisAddr)
	return conversation.NewRedisHistoryStore(client, nil)
}
