// Package tools holds the AI-backed helpers behind the marketing site's
// instant tools: cost estimation, project planning, and lead scoring. Every
// tool follows the same contract: one prompt, one parsed JSON response, and
// a typed fallback so callers always receive a complete value.
package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
)

// Estimator fallback values, substituted field-by-field when the model's
// response is missing or unusable.
const (
	FallbackCostRange = "$20K-$40K"
	FallbackTimeline  = "6-10 weeks"
	FallbackBreakdown = "Materials and labor typically account for most of the cost on a project like this. We'll include a full itemized breakdown with your formal quote."
)

const estimateTemplate = `You are a cost estimator for a residential construction company serving %s.

Estimate this project:
- Project type: %s
- Square footage: %s
- Materials: %s
- Timeline: %s

Return a JSON object and nothing else:
{
  "costRange": "a dollar range, e.g. $15K-$25K",
  "timeline": "expected duration, e.g. 4-6 weeks",
  "breakdown": "2-3 sentences explaining what drives the cost",
  "confidence": "high, medium, or low"
}

Base the range on typical regional pricing. Report lower confidence when key inputs are vague.`

// Estimator produces instant ballpark estimates. Estimate never fails: a
// provider or parse error yields the canned fallback values instead.
type Estimator struct {
	completer   ai.Completer
	serviceArea string
	logger      *zap.Logger
}

func NewEstimator(completer ai.Completer, serviceArea string, logger *zap.Logger) *Estimator {
	return &Estimator{completer: completer, serviceArea: serviceArea, logger: logger}
}

func (e *Estimator) Estimate(ctx context.Context, details domain.ProjectDetails) domain.EstimateResult {
	prompt := fmt.Sprintf(estimateTemplate,
		e.serviceArea,
		orUnspecified(details.ProjectType),
		orUnspecified(details.SquareFootage),
		orUnspecified(details.Materials),
		orUnspecified(details.Timeline),
	)

	var raw domain.EstimateResult
	opts := ai.Options{Temperature: ai.Temp(0.4), MaxTokens: 500}
	if err := ai.CompleteJSON(ctx, e.completer, prompt, opts, &raw); err != nil {
		e.logger.Warn("estimate generation fell back to canned values", zap.Error(err))
	}

	// A partially valid response keeps its valid fields; only the missing
	// ones fall back.
	result := domain.EstimateResult{
		CostRange:  strings.TrimSpace(raw.CostRange),
		Timeline:   strings.TrimSpace(raw.Timeline),
		Breakdown:  strings.TrimSpace(raw.Breakdown),
		Confidence: domain.NormalizeConfidence(strings.ToLower(strings.TrimSpace(raw.Confidence))),
	}
	if result.CostRange == "" {
		result.CostRange = FallbackCostRange
	}
	if result.Timeline == "" {
		result.Timeline = FallbackTimeline
	}
	if result.Breakdown == "" {
		result.Breakdown = FallbackBreakdown
	}
	return result
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
