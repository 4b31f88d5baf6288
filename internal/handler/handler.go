package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/metrics"
	"github.com/summitridge/leadgen/internal/middleware"
)

// Handler aggregates every route group and its middleware dependencies.
type Handler struct {
	chat     *ChatHandler
	tools    *ToolsHandler
	leads    *LeadHandler
	webhooks *WebhookHandler
	health   *HealthHandler
	logLevel http.Handler
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	logger   *zap.Logger
}

// Config holds the fully constructed sub-handlers.
type Config struct {
	Chat     *ChatHandler
	Tools    *ToolsHandler
	Leads    *LeadHandler
	Webhooks *WebhookHandler
	Health   *HealthHandler
	LogLevel http.Handler
	Metrics  *metrics.Metrics
	Limiter  *middleware.RateLimiter
	Logger   *zap.Logger
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		panic("logger is required")
	}
	return &Handler{
		chat:     cfg.Chat,
		tools:    cfg.Tools,
		leads:    cfg.Leads,
		webhooks: cfg.Webhooks,
		health:   cfg.Health,
		logLevel: cfg.LogLevel,
		metrics:  cfg.Metrics,
		limiter:  cfg.Limiter,
		logger:   cfg.Logger,
	}
}

// Router builds the full middleware chain and route table.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestCorrelation(h.logger))
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestLogger(h.logger))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Probes stay outside the rate limiter so orchestrators are never
	// throttled.
	r.Get("/health", h.health.HandleHealth)
	r.Get("/ready", h.health.HandleReadiness)
	r.Get("/live", h.health.HandleLiveness)

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	if h.logLevel != nil {
		r.Handle("/debug/log-level", h.logLevel)
	}

	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(middleware.RateLimit(h.limiter))
		}
		r.Use(middleware.BodySizeLimiter(middleware.MaxJSONBodySize))

		r.Post("/api/chat", h.chat.HandleChat)
		r.Post("/api/estimate", h.tools.HandleEstimate)
		r.Post("/api/project-planner", h.tools.HandlePlan)

		r.Route("/api/leads", func(r chi.Router) {
			r.Post("/", h.leads.HandleCreate)
			r.Post("/from-chat", h.leads.HandleFromChat)
			r.Post("/from-estimate", h.leads.HandleFromEstimate)
			r.Post("/from-planner", h.leads.HandleFromPlanner)
			r.Post("/deal-quote", h.leads.HandleDealQuote)
			r.Post("/service-materials-inquiry", h.leads.HandleMaterialsInquiry)
			r.Post("/price-beat", h.leads.HandlePriceBeat)
		})
	})

	// Webhooks take larger bodies and skip the per-IP limiter: the
	// platforms deliver from shared egress ranges.
	r.Group(func(r chi.Router) {
		r.Use(middleware.BodySizeLimiter(middleware.MaxWebhookBodySize))
		r.Get("/webhook/{platform}", h.webhooks.HandleVerify)
		r.Post("/webhook/{platform}", h.webhooks.HandleEvent)
	})

	return r
}
