package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
)

const extractionSystem = "You are a data extraction assistant for a construction company. " +
	"You read sales conversations and return structured JSON. Respond with a single JSON object and nothing else."

const extractionTemplate = `Extract project details from this conversation between a website visitor and our sales assistant.

Return a JSON object with these fields, using empty strings for anything not mentioned:
{
  "projectType": "the kind of project, e.g. kitchen renovation, deck, roofing",
  "serviceId": "our catalog id for the service, if the visitor named one of our services",
  "serviceName": "the service the visitor asked about, in their words",
  "productInterest": "a specific product or material line the visitor asked about",
  "squareFootage": "area or dimensions as stated by the visitor",
  "materials": "materials mentioned or preferred",
  "timeline": "when they want the work done",
  "budget": "budget figures or ranges as stated",
  "description": "one-sentence summary of what the visitor wants"
}

Only include information the visitor actually stated. Do not guess or infer values that were not mentioned.

Conversation:
%s`

// Extractor pulls structured project details out of a conversation
// transcript. Extraction is best-effort and never blocks a reply: any
// failure yields an empty result.
type Extractor struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewExtractor(completer ai.Completer, logger *zap.Logger) *Extractor {
	return &Extractor{completer: completer, logger: logger}
}

// Extract runs the extraction prompt over the transcript plus the reply just
// produced. It never returns an error; the worst case is an empty
// ProjectDetails.
func (e *Extractor) Extract(ctx context.Context, turns []domain.ConversationTurn, lastReply string) domain.ProjectDetails {
	transcript := domain.Transcript(turns)
	if lastReply != "" {
		if transcript != "" {
			transcript += "\n"
		}
		transcript += "Assistant: " + lastReply
	}
	if strings.TrimSpace(transcript) == "" {
		return domain.ProjectDetails{}
	}

	var raw struct {
		ProjectType     string `json:"projectType"`
		ServiceID       string `json:"serviceId"`
		ServiceName     string `json:"serviceName"`
		ProductInterest string `json:"productInterest"`
		SquareFootage   string `json:"squareFootage"`
		Materials       string `json:"materials"`
		Timeline        string `json:"timeline"`
		Budget          string `json:"budget"`
		Description     string `json:"description"`
	}
	prompt := fmt.Sprintf(extractionTemplate, transcript)
	opts := ai.Options{System: extractionSystem, Temperature: ai.Temp(0.2), MaxTokens: 500}
	if err := ai.CompleteJSON(ctx, e.completer, prompt, opts, &raw); err != nil {
		e.logger.Debug("detail extraction skipped", zap.Error(err))
		return domain.ProjectDetails{}
	}

	return domain.ProjectDetails{
		ProjectType:     clean(raw.ProjectType),
		ServiceID:       clean(raw.ServiceID),
		ServiceName:     clean(raw.ServiceName),
		ProductInterest: clean(raw.ProductInterest),
		SquareFootage:   clean(raw.SquareFootage),
		Materials:       clean(raw.Materials),
		Timeline:        clean(raw.Timeline),
		Budget:          clean(raw.Budget),
		Description:     clean(raw.Description),
	}
}

// clean trims whitespace and drops the placeholder strings models emit for
// absent values.
func clean(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "none", "n/a", "unknown", "not mentioned", "not specified":
		return ""
	}
	return s
}
