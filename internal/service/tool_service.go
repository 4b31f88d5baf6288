package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/metrics"
	"github.com/summitridge/leadgen/internal/ratelimit"
	"github.com/summitridge/leadgen/internal/tools"
)

// ToolService gates the instant tools behind the AI cost limiter. A rejected
// call serves the tool's own fallback values, so the caller always gets a
// complete result.
type ToolService struct {
	estimator *tools.Estimator
	planner   *tools.Planner
	limiter   *ratelimit.AILimiter
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewToolService(
	estimator *tools.Estimator,
	planner *tools.Planner,
	limiter *ratelimit.AILimiter,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ToolService {
	return &ToolService{
		estimator: estimator,
		planner:   planner,
		limiter:   limiter,
		metrics:   m,
		logger:    logger,
	}
}

// Estimate produces an instant cost estimate.
func (s *ToolService) Estimate(ctx context.Context, details domain.ProjectDetails) domain.EstimateResult {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.RecordRateLimitHit("ai")
		s.metrics.RecordAIFallback("estimator")
		s.logger.Warn("estimate rejected by AI limiter", zap.Error(err))
		return domain.EstimateResult{
			CostRange:  tools.FallbackCostRange,
			Timeline:   tools.FallbackTimeline,
			Breakdown:  tools.FallbackBreakdown,
			Confidence: domain.ConfidenceMedium,
		}
	}
	defer s.limiter.Release()

	start := time.Now()
	result := s.estimator.Estimate(ctx, details)
	s.metrics.RecordAICall("estimator", true, time.Since(start))
	return result
}

// Plan produces project planning guidance.
func (s *ToolService) Plan(ctx context.Context, description string) domain.ProjectPlan {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.RecordRateLimitHit("ai")
		s.metrics.RecordAIFallback("planner")
		s.logger.Warn("plan rejected by AI limiter", zap.Error(err))
		return tools.FallbackPlan()
	}
	defer s.limiter.Release()

	start := time.Now()
	plan := s.planner.Plan(ctx, description)
	s.metrics.RecordAICall("planner", true, time.Since(start))
	return plan
}
