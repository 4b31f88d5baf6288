package tools

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
	apperrors "github.com/summitridge/leadgen/internal/errors"
)

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name    string
		details domain.ProjectDetails
		want    string
	}{
		{"stated budget scores high", domain.ProjectDetails{Budget: "$50,000"}, ScoreHigh},
		{"budget with type still high", domain.ProjectDetails{ProjectType: "deck", Budget: "$10k"}, ScoreHigh},
		{"nothing scores low", domain.ProjectDetails{}, ScoreLow},
		{"budget without dollar sign ignored", domain.ProjectDetails{Budget: "around fifty thousand"}, ScoreLow},
		{"project without budget scores medium", domain.ProjectDetails{ProjectType: "Deck"}, ScoreMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeuristicScore(tt.details)
			if got.Score != tt.want {
				t.Errorf("HeuristicScore(%+v).Score = %q, want %q", tt.details, got.Score, tt.want)
			}
			if got.Reasoning == "" {
				t.Error("Reasoning must not be empty")
			}
		})
	}
}

func TestHeuristicScore_Idempotent(t *testing.T) {
	details := domain.ProjectDetails{ProjectType: "roofing", Budget: "$12,000"}
	first := HeuristicScore(details)
	for i := 0; i < 5; i++ {
		if got := HeuristicScore(details); got != first {
			t.Fatalf("call %d = %+v, first = %+v", i, got, first)
		}
	}
}

func TestScore_ModelResponseUsed(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{
		Text: `{"score":"High","reasoning":"Concrete project with a stated budget."}`,
	}}
	s := NewScorer(stub, zap.NewNop())

	got := s.Score(context.Background(), domain.ProjectDetails{ProjectType: "deck", Budget: "$20k"}, domain.SourceAIChat)
	if got.Score != ScoreHigh {
		t.Errorf("Score = %q, want normalized high", got.Score)
	}
	if got.Reasoning != "Concrete project with a stated budget." {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
}

func TestScore_FallsBackToHeuristic(t *testing.T) {
	details := domain.ProjectDetails{Budget: "$50,000"}
	tests := []struct {
		name string
		resp ai.Completion
	}{
		{"provider error", ai.Completion{Text: ai.UnavailableText, Err: apperrors.ProviderError(errors.New("502"))}},
		{"non-json", ai.Completion{Text: "definitely a hot lead"}},
		{"invalid score value", ai.Completion{Text: `{"score":"urgent","reasoning":"big budget"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(&stubCompleter{resp: tt.resp}, zap.NewNop())
			got := s.Score(context.Background(), details, domain.SourceWebsite)
			want := HeuristicScore(details)
			if got != want {
				t.Errorf("Score = %+v, want heuristic %+v", got, want)
			}
		})
	}
}

func TestScore_EmptyReasoningBackfilled(t *testing.T) {
	stub := &stubCompleter{resp: ai.Completion{Text: `{"score":"medium","reasoning":""}`}}
	s := NewScorer(stub, zap.NewNop())

	got := s.Score(context.Background(), domain.ProjectDetails{ProjectType: "flooring"}, domain.SourceQuoteTool)
	if got.Score != ScoreMedium {
		t.Errorf("Score = %q", got.Score)
	}
	if got.Reasoning == "" {
		t.Error("Reasoning must be backfilled")
	}
}
