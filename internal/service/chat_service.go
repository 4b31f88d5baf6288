package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/chat"
	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/metrics"
	"github.com/summitridge/leadgen/internal/ratelimit"
)

// ChatService wraps the conversation engine with AI cost limiting and
// metrics. Turn never fails: when the limiter rejects, the caller gets the
// same conservative fallback a provider outage produces.
type ChatService struct {
	engine  *chat.Engine
	limiter *ratelimit.AILimiter
	metrics *metrics.Metrics
	events  *metrics.BusinessEventLogger
	logger  *zap.Logger
}

func NewChatService(
	engine *chat.Engine,
	limiter *ratelimit.AILimiter,
	m *metrics.Metrics,
	events *metrics.BusinessEventLogger,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		engine:  engine,
		limiter: limiter,
		metrics: m,
		events:  events,
		logger:  logger,
	}
}

// Turn serves one conversation turn.
func (s *ChatService) Turn(ctx context.Context, sessionID string, turns []domain.ConversationTurn, currentPage string) chat.TurnResult {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.RecordRateLimitHit("ai")
		s.metrics.RecordChatTurn(true)
		s.logger.Warn("chat turn rejected by AI limiter",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return chat.TurnResult{
			Reply:                ai.UnavailableText,
			ShouldCollectContact: true,
			Details:              s.engine.SessionDetails(sessionID),
			Degraded:             true,
		}
	}
	defer s.limiter.Release()

	res := s.engine.Respond(ctx, sessionID, turns, currentPage)

	s.metrics.RecordChatTurn(res.Degraded)
	if res.ShouldCollectContact {
		s.metrics.RecordContactFlag()
	}
	if res.Qualified {
		s.events.SessionQualified(sessionID, res.Details)
	}
	return res
}

// LeadSubmitted closes the chat session after its lead was created.
func (s *ChatService) LeadSubmitted(sessionID string) {
	s.engine.LeadSubmitted(sessionID)
}
