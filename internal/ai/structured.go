package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CompleteJSON asks the completer for a single JSON object and decodes it
// into out. It is the shared path for every tool that requests structured
// output: one prompt, one parse. A non-nil error means the caller
// must substitute its typed fallback; nothing is ever thrown past here.
func CompleteJSON(ctx context.Context, c Completer, prompt string, opts Options, out any) error {
	comp := c.Complete(ctx, prompt, opts)
	if comp.Err != nil {
		return comp.Err
	}
	return DecodeJSON(comp.Text, out)
}

// DecodeJSON parses model output into out. Models wrap JSON in
// Markdown code fences or surround it with prose often enough that both are
// handled here.
func DecodeJSON(text string, out any) error {
	cleaned := stripCodeFences(text)
	cleaned = extractObject(cleaned)
	if cleaned == "" {
		return fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return nil
}

// stripCodeFences removes a surrounding Markdown code fence, with or without
// a language tag, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractObject returns the substring spanning the first '{' through the
// last '}', or empty if no object is present.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
