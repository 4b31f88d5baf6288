package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
	apperrors "github.com/summitridge/leadgen/internal/errors"
)

type stubCompleter struct {
	resp       ai.Completion
	lastPrompt string
	calls      int
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ ai.Options) ai.Completion {
	s.calls++
	s.lastPrompt = prompt
	return s.resp
}

func (s *stubCompleter) CompleteMessages(_ context.Context, _ []ai.Message, _ ai.Options) ai.Completion {
	s.calls++
	return s.resp
}

const serviceArea = "Denver metro and the Front Range"

func TestEstimate_ModelResponseUsed(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{
		Text: `{"costRange":"$35K-$55K","timeline":"8-12 weeks","breakdown":"Cabinets and countertops drive most of the cost.","confidence":"high"}`,
	}}
	est := NewEstimator(stub, serviceArea, zap.NewNop())

	got := est.Estimate(context.Background(), domain.ProjectDetails{
		ProjectType:   "Kitchen Renovation",
		SquareFootage: "200",
		Materials:     "Premium",
	})
	if got.CostRange != "$35K-$55K" || got.Timeline != "8-12 weeks" || got.Confidence != "high" {
		t.Errorf("Estimate = %+v", got)
	}
	if !strings.Contains(stub.lastPrompt, "Kitchen Renovation") {
		t.Error("prompt missing project type")
	}
	if !strings.Contains(stub.lastPrompt, serviceArea) {
		t.Error("prompt missing service area anchor")
	}
}

func TestEstimate_ProviderFailureYieldsCannedFallback(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{
		Text: ai.UnavailableText,
		Err:  apperrors.ProviderError(errors.New("connection refused")),
	}}
	est := NewEstimator(stub, serviceArea, zap.NewNop())

	got := est.Estimate(context.Background(), domain.ProjectDetails{
		ProjectType:   "Kitchen Renovation",
		SquareFootage: "200",
		Materials:     "Premium",
	})
	if got.CostRange != FallbackCostRange {
		t.Errorf("CostRange = %q, want %q", got.CostRange, FallbackCostRange)
	}
	if got.Timeline != FallbackTimeline {
		t.Errorf("Timeline = %q, want %q", got.Timeline, FallbackTimeline)
	}
	if got.Confidence != domain.ConfidenceMedium {
		t.Errorf("Confidence = %q, want medium", got.Confidence)
	}
	if got.Breakdown == "" {
		t.Error("Breakdown must be non-empty in fallback")
	}
}

func TestEstimate_PartialResponseKeepsValidFields(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{
		Text: `{"costRange":"$12K-$18K","confidence":"HIGH"}`,
	}}
	est := NewEstimator(stub, serviceArea, zap.NewNop())

	got := est.Estimate(context.Background(), domain.ProjectDetails{ProjectType: "deck"})
	if got.CostRange != "$12K-$18K" {
		t.Errorf("valid field lost: %+v", got)
	}
	if got.Timeline != FallbackTimeline {
		t.Errorf("Timeline = %q, want fallback", got.Timeline)
	}
	if got.Breakdown != FallbackBreakdown {
		t.Errorf("Breakdown = %q, want fallback", got.Breakdown)
	}
	if got.Confidence != domain.ConfidenceHigh {
		t.Errorf("Confidence = %q, want normalized high", got.Confidence)
	}
}

func TestEstimate_NonJSONResponseFullyFallsBack(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{Text: "I'd guess somewhere around thirty grand."}}
	est := NewEstimator(stub, serviceArea, zap.NewNop())

	got := est.Estimate(context.Background(), domain.ProjectDetails{ProjectType: "deck"})
	want := domain.EstimateResult{
		CostRange:  FallbackCostRange,
		Timeline:   FallbackTimeline,
		Breakdown:  FallbackBreakdown,
		Confidence: domain.ConfidenceMedium,
	}
	if got != want {
		t.Errorf("Estimate = %+v, want %+v", got, want)
	}
}

func TestEstimate_UnknownConfidenceDefaultsToMedium(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{
		Text: `{"costRange":"$5K-$8K","timeline":"2 weeks","breakdown":"Small job.","confidence":"very sure"}`,
	}}
	est := NewEstimator(stub, serviceArea, zap.NewNop())

	got := est.Estimate(context.Background(), domain.ProjectDetails{ProjectType: "flooring"})
	if got.Confidence != domain.ConfidenceMedium {
		t.Errorf("Confidence = %q, want medium", got.Confidence)
	}
}

func TestEstimate_MissingInputsMarkedUnspecified(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{Text: `{}`}}
	est := NewEstimator(stub, serviceArea, zap.NewNop())

	est.Estimate(context.Background(), domain.ProjectDetails{ProjectType: "roofing"})
	if !strings.Contains(stub.lastPrompt, "not specified") {
		t.Error("absent inputs should be rendered as not specified")
	}
}
