package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/botmitra/whatsbiz-platform/internal/api/router"
	"github.com/botmitra/whatsbiz-platform/internal/business"
	appconfig "github.com/botmitra/whatsbiz-platform/internal/config"
	"github.com/botmitra/whatsbiz-platform/internal/conversation"
	"github.com/botmitra/whatsbiz-platform/internal/dashboard"
	"github.com/botmitra/whatsbiz-platform/internal/leads"
	"github.com/botmitra/whatsbiz-platform/internal/notify"
	"github.com/botmitra/whatsbiz-platform/internal/observability/metrics"
	"github.com/botmitra/whatsbiz-platform/internal/payments"
	"github.com/botmitra/whatsbiz-platform/internal/sheets"
	"github.com/botmitra/whatsbiz-platform/internal/webchat"
	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// Demo seed numbers shown on a fresh dashboard.
const (
	seedTotalChats = 248
	seedTotalLeads = 42
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsbiz-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	chatMetrics := metrics.NewChatMetrics(registry)

	// Storage: Postgres when configured, in-memory demo data otherwise.
	var (
		profileStore business.Store
		leadsRepo    leads.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		profileStore = business.NewPostgresStore(pool)
		leadsRepo = leads.NewPostgresRepository(pool)
		logger.Info("using postgres storage")
	} else {
		profileStore = business.NewMemoryStore()
		leadsRepo = leads.NewSeededRepository()
		logger.Info("using in-memory storage with demo seed data")
	}

	// Transcript mirror: optional, only when Redis is configured.
	var transcript webchat.TranscriptStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}
		transcript = conversation.NewTranscriptStore(redisClient, cfg.TranscriptTTL, nil)
		logger.Info("transcript persistence enabled", "addr", cfg.RedisAddr)
	}

	// Remote model. Without an API key the pipeline stays up and every reply
	// degrades to the fallback apology.
	var llm conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiReplyModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llm = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, replies will use the fallback message")
		llm = conversation.UnavailableLLMClient{}
	}

	replyService := conversation.NewReplyService(llm, conversation.ReplyServiceConfig{
		ReplyModel: cfg.GeminiReplyModel,
		FAQModel:   cfg.GeminiFAQModel,
		MaxTokens:  int32(cfg.GeminiMaxTokens),
	}, logger, chatMetrics)

	statsTracker := dashboard.NewTracker(seedTotalChats, seedTotalLeads)

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifier := notify.NewService(emailSender, cfg.OwnerEmail, "", cfg.PublicBaseURL, logger)

	checkout := payments.NewFakeCheckoutService(cfg.AllowFakePayments, cfg.FakeCheckoutDelay, logger)
	syncer := sheets.NewSyncer(cfg.SheetSyncStageWait, logger)

	webchatHandler := webchat.NewHandler(replyService, profileStore, leadsRepo, notifier, statsTracker, transcript, chatMetrics, logger,
		webchat.WithHistoryWindow(cfg.HistoryWindow),
		webchat.WithGreeting(cfg.SessionGreeter),
	)

	routerCfg := &router.Config{
		Logger:             logger,
		BusinessHandler:    business.NewHandler(profileStore, replyService, logger),
		LeadsHandler:       leads.NewHandler(leadsRepo, logger),
		DashboardHandler:   dashboard.NewHandler(statsTracker, logger),
		SheetsHandler:      sheets.NewHandler(syncer, logger),
		PaymentsHandler:    payments.NewHandler(checkout, logger),
		WebchatHandler:     webchatHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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
