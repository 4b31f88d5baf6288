// Package main is the entry point for the Summit Ridge lead-generation server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/chat"
	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/database"
	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/handler"
	"github.com/summitridge/leadgen/internal/logging"
	"github.com/summitridge/leadgen/internal/mail"
	"github.com/summitridge/leadgen/internal/metrics"
	"github.com/summitridge/leadgen/internal/middleware"
	"github.com/summitridge/leadgen/internal/ratelimit"
	"github.com/summitridge/leadgen/internal/repository"
	"github.com/summitridge/leadgen/internal/service"
	"github.com/summitridge/leadgen/internal/shutdown"
	"github.com/summitridge/leadgen/internal/tools"
)

func main() {
	// A missing .env is fine: production injects environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(&logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Environment,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.Zap()
	defer func() { _ = logger.Sync() }()

	logger.Info("starting lead-generation server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Environment),
		zap.Bool("database_configured", cfg.Database.Configured()),
		zap.Bool("ai_configured", cfg.OpenAI.Configured()),
		zap.Bool("mail_configured", cfg.Mail.Configured()),
	)

	ctx := context.Background()

	// Persistence is optional: without a database credential every lead
	// still reaches the owner as an email.
	var db *database.DB
	var leadRepo domain.LeadRepository
	var eventRepo domain.WebhookEventRepository
	if cfg.Database.Configured() {
		db, err = database.New(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		leadRepo = repository.NewLeadRepository(db.Pool)
		eventRepo = repository.NewWebhookEventRepository(db.Pool)
	} else {
		logger.Warn("database not configured, leads will not be persisted")
	}

	mailer, err := mail.NewMailer(cfg.Mail, cfg.Business, logger)
	if err != nil {
		logger.Fatal("failed to initialize mailer", zap.Error(err))
	}

	completer := ai.NewClient(&cfg.OpenAI, logger)

	m := metrics.NewMetrics()
	events := metrics.NewBusinessEventLogger(logger)

	aiLimiter := ratelimit.NewAILimiter(&ratelimit.AILimiterConfig{
		MaxPerMinute:  cfg.AILimit.PerMinute,
		MaxPerHour:    cfg.AILimit.PerHour,
		MaxPerDay:     cfg.AILimit.PerDay,
		MaxConcurrent: cfg.AILimit.MaxConcurrent,
	}, logger)

	sessions, err := chat.NewSessionStore(chat.DefaultSessionCapacity, logger)
	if err != nil {
		logger.Fatal("failed to initialize session store", zap.Error(err))
	}
	extractor := chat.NewExtractor(completer, logger)
	engine := chat.NewEngine(completer, extractor, sessions, cfg.Business, logger)

	estimator := tools.NewEstimator(completer, cfg.Business.ServiceArea, logger)
	planner := tools.NewPlanner(completer, cfg.Business.ServiceArea, logger)
	scorer := tools.NewScorer(completer, logger)

	chatService := service.NewChatService(engine, aiLimiter, m, events, logger)
	leadService := service.NewLeadService(leadRepo, mailer, scorer, m, events, logger)
	toolService := service.NewToolService(estimator, planner, aiLimiter, m, logger)
	webhookService := service.NewWebhookService(eventRepo, m, events, logger)

	requestLimiter := middleware.NewRateLimiter(
		cfg.RateLimit.Requests,
		cfg.RateLimit.Window,
		func() { m.RecordRateLimitHit("http") },
		logger,
	)

	var dbPinger handler.Pinger
	if db != nil {
		dbPinger = db
	}

	coord := shutdown.NewCoordinator(shutdown.DefaultTimeout, logger)

	h := handler.New(handler.Config{
		Chat:     handler.NewChatHandler(chatService, logger),
		Tools:    handler.NewToolsHandler(toolService, logger),
		Leads:    handler.NewLeadHandler(leadService, chatService, cfg.Business, logger),
		Webhooks: handler.NewWebhookHandler(webhookService, cfg.Webhook.VerifyToken, logger),
		Health:   handler.NewHealthHandler(dbPinger, completer, mailer, coord, logger),
		LogLevel: log,
		Metrics:  m,
		Limiter:  requestLimiter,
		Logger:   logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(log.Named("http").Zap()),
	}

	// Feed the pool gauges while the server runs.
	statsDone := make(chan struct{})
	go func() {
		defer close(statsDone)
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if db != nil {
					stat := db.Stats()
					m.UpdateDBConnections(int(stat.TotalConns()), int(stat.AcquiredConns()))
				}
				if completer.Configured() {
					state := 0
					if completer.IsCircuitOpen() {
						state = 1
					}
					m.SetCircuitBreakerState("openai", state)
				}
			case <-coord.Begun():
				return
			}
		}
	}()

	coord.Register(shutdown.PhaseListeners, "http-server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})
	coord.Register(shutdown.PhaseWorkers, "stats-reporter", func(ctx context.Context) error {
		select {
		case <-statsDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	coord.Register(shutdown.PhaseResources, "database", func(ctx context.Context) error {
		if db != nil {
			db.Close()
		}
		return nil
	})

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("received shutdown signal")
	if err := coord.Shutdown(ctx); err != nil {
		logger.Error("shutdown completed with errors", zap.Error(err))
	}
}
