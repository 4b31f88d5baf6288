package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/metrics"
)

// WebhookService records inbound social platform deliveries. Processing is
// store-and-acknowledge: no per-platform parsing happens yet, so events are
// kept verbatim for later replay.
type WebhookService struct {
	repo    domain.WebhookEventRepository
	metrics *metrics.Metrics
	events  *metrics.BusinessEventLogger
	logger  *zap.Logger
}

func NewWebhookService(
	repo domain.WebhookEventRepository,
	m *metrics.Metrics,
	events *metrics.BusinessEventLogger,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{repo: repo, metrics: m, events: events, logger: logger}
}

// Record stores a delivery. Always succeeds from the platform's point of
// view; a failed write is logged and the delivery acknowledged anyway so the
// platform does not disable the subscription over our database trouble.
func (s *WebhookService) Record(ctx context.Context, platform string, payload json.RawMessage) {
	s.metrics.RecordWebhook(platform)
	s.events.WebhookReceived(platform, len(payload))

	if s.repo == nil {
		return
	}
	event := domain.NewWebhookEvent(platform, payload)
	if err := s.repo.Insert(ctx, event); err != nil {
		s.logger.Warn("webhook event not persisted",
			zap.String("platform", platform),
			zap.Error(err))
	}
}
