package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
)

// Score levels.
const (
	ScoreHigh   = "high"
	ScoreMedium = "medium"
	ScoreLow    = "low"
)

const scoreTemplate = `You are qualifying sales leads for a residential construction company.

Lead source: %s
Project details:
%s

Score this lead for follow-up priority. Return a JSON object and nothing else:
{
  "score": "high, medium, or low",
  "reasoning": "one sentence explaining the score"
}

High means clear budget and a concrete project. Low means vague interest with no project identified.`

// Scorer grades leads for follow-up priority. Score never fails: provider or
// parse errors fall back to HeuristicScore, the only scoring path with no
// external dependency.
type Scorer struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewScorer(completer ai.Completer, logger *zap.Logger) *Scorer {
	return &Scorer{completer: completer, logger: logger}
}

func (s *Scorer) Score(ctx context.Context, details domain.ProjectDetails, source domain.LeadSource) domain.LeadScore {
	prompt := fmt.Sprintf(scoreTemplate, source, detailLines(details))

	var raw domain.LeadScore
	opts := ai.Options{Temperature: ai.Temp(0.2), MaxTokens: 300}
	if err := ai.CompleteJSON(ctx, s.completer, prompt, opts, &raw); err != nil {
		s.logger.Debug("lead scoring fell back to heuristic", zap.Error(err))
		return HeuristicScore(details)
	}

	score := strings.ToLower(strings.TrimSpace(raw.Score))
	if score != ScoreHigh && score != ScoreMedium && score != ScoreLow {
		return HeuristicScore(details)
	}
	reasoning := strings.TrimSpace(raw.Reasoning)
	if reasoning == "" {
		reasoning = HeuristicScore(details).Reasoning
	}
	return domain.LeadScore{Score: score, Reasoning: reasoning}
}

// HeuristicScore is the deterministic fallback: a stated dollar budget scores
// high, a missing project type scores low, anything else scores medium.
func HeuristicScore(details domain.ProjectDetails) domain.LeadScore {
	switch {
	case strings.Contains(details.Budget, "$"):
		return domain.LeadScore{Score: ScoreHigh, Reasoning: "Budget stated, strong purchase intent."}
	case strings.TrimSpace(details.ProjectType) == "":
		return domain.LeadScore{Score: ScoreLow, Reasoning: "No specific project identified yet."}
	default:
		return domain.LeadScore{Score: ScoreMedium, Reasoning: "Project identified but budget not yet discussed."}
	}
}

func detailLines(d domain.ProjectDetails) string {
	var sb strings.Builder
	add := func(label, v string) {
		if strings.TrimSpace(v) != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", label, v)
		}
	}
	add("Project type", d.ProjectType)
	add("Service", d.ServiceName)
	add("Product interest", d.ProductInterest)
	add("Square footage", d.SquareFootage)
	add("Materials", d.Materials)
	add("Timeline", d.Timeline)
	add("Budget", d.Budget)
	add("Description", d.Description)
	if sb.Len() == 0 {
		return "- (none provided)\n"
	}
	return sb.String()
}
