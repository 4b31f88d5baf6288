package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
)

// Planner fallback entries. The plan's lists are never empty so the UI never
// renders a blank recommendations panel.
var (
	fallbackSuggestions    = []string{"Our team will review your project and suggest a design approach tailored to your space and budget."}
	fallbackMaterials      = []string{"We'll recommend materials once we've discussed your preferences and budget."}
	fallbackConsiderations = []string{"Permits, site access, and seasonal scheduling can all affect your project; we'll walk through these with you."}
)

// FallbackEstimatedCost is the plan cost line used when the model provides none.
const FallbackEstimatedCost = "We'll prepare a detailed cost estimate after a short conversation about your project."

// FallbackPlan returns the full generic plan served when no model output is
// available at all.
func FallbackPlan() domain.ProjectPlan {
	return domain.ProjectPlan{
		Suggestions:    append([]string(nil), fallbackSuggestions...),
		Materials:      append([]string(nil), fallbackMaterials...),
		Considerations: append([]string(nil), fallbackConsiderations...),
		EstimatedCost:  FallbackEstimatedCost,
	}
}

const planTemplate = `You are a project planning advisor for a residential construction company serving %s.

A homeowner describes their project:
%s

Return a JSON object and nothing else:
{
  "suggestions": ["3-5 concrete design or approach suggestions"],
  "materials": ["3-5 recommended materials with a short reason each"],
  "considerations": ["3-5 practical considerations: permits, structure, season, access"],
  "estimatedCost": "a rough dollar range for this kind of project"
}`

// Planner turns a free-text project description into planning guidance.
// Plan never fails; any error yields the generic fallback plan.
type Planner struct {
	completer   ai.Completer
	serviceArea string
	logger      *zap.Logger
}

func NewPlanner(completer ai.Completer, serviceArea string, logger *zap.Logger) *Planner {
	return &Planner{completer: completer, serviceArea: serviceArea, logger: logger}
}

func (p *Planner) Plan(ctx context.Context, description string) domain.ProjectPlan {
	prompt := fmt.Sprintf(planTemplate, p.serviceArea, description)

	var raw domain.ProjectPlan
	opts := ai.Options{Temperature: ai.Temp(0.6), MaxTokens: 1000}
	if err := ai.CompleteJSON(ctx, p.completer, prompt, opts, &raw); err != nil {
		p.logger.Warn("project plan fell back to generic guidance", zap.Error(err))
	}

	plan := domain.ProjectPlan{
		Suggestions:    nonEmptyList(raw.Suggestions, fallbackSuggestions),
		Materials:      nonEmptyList(raw.Materials, fallbackMaterials),
		Considerations: nonEmptyList(raw.Considerations, fallbackConsiderations),
		EstimatedCost:  strings.TrimSpace(raw.EstimatedCost),
	}
	if plan.EstimatedCost == "" {
		plan.EstimatedCost = FallbackEstimatedCost
	}
	return plan
}

// nonEmptyList keeps the model's entries, dropping blanks, and substitutes
// the fallback when nothing usable remains.
func nonEmptyList(in, fallback []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
