package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/domain"
)

// TurnResult is the engine's answer for one conversation turn.
type TurnResult struct {
	// Reply is the assistant text to show the visitor. Control markers are
	// already stripped.
	Reply string
	// ShouldCollectContact tells the UI to open the contact form.
	ShouldCollectContact bool
	// Qualified reports whether the session passed the qualification check
	// this turn.
	Qualified bool
	// Details is the accumulated project detail state for the session.
	Details domain.ProjectDetails
	// Degraded is set when the reply is a fallback rather than model output.
	Degraded bool
}

// Engine runs the lead-qualification conversation loop: completion, marker
// handling, opportunistic detail extraction, and session state transitions.
type Engine struct {
	completer ai.Completer
	extractor *Extractor
	sessions  *SessionStore
	biz       config.BusinessConfig
	logger    *zap.Logger
}

func NewEngine(completer ai.Completer, extractor *Extractor, sessions *SessionStore, biz config.BusinessConfig, logger *zap.Logger) *Engine {
	return &Engine{
		completer: completer,
		extractor: extractor,
		sessions:  sessions,
		biz:       biz,
		logger:    logger,
	}
}

// Respond produces the assistant reply for the given transcript. The caller
// sends the full ordered transcript each turn; sessionID may be empty, in
// which case no cross-turn state is kept.
func (e *Engine) Respond(ctx context.Context, sessionID string, turns []domain.ConversationTurn, currentPage string) TurnResult {
	if sessionID != "" {
		e.sessions.Touch(sessionID)
	}

	opts := ai.Options{
		System:      BuildSystemPrompt(e.biz, currentPage),
		Temperature: ai.Temp(0.7),
		MaxTokens:   1000,
	}
	comp := e.completer.CompleteMessages(ctx, toMessages(turns), opts)
	if comp.Err != nil {
		// The fallback reply cannot ask qualifying questions, so surface the
		// contact form immediately rather than lose the visitor.
		e.logger.Warn("chat completion unavailable, serving fallback",
			zap.String("session_id", sessionID),
			zap.Error(comp.Err))
		return TurnResult{
			Reply:                comp.Text,
			ShouldCollectContact: true,
			Details:              e.SessionDetails(sessionID),
			Degraded:             true,
		}
	}

	reply, markerFound := StripMarker(comp.Text)

	details := e.extractor.Extract(ctx, turns, reply)
	merged := details
	if sessionID != "" {
		merged = e.sessions.MergeDetails(sessionID, details)
	}

	result := TurnResult{Reply: reply, Details: merged}
	if markerFound {
		// The model's decision to collect contact info is confirmed against
		// what was actually extracted, so a premature marker does not open
		// the form.
		if merged.HasServiceInterest() && merged.HasScopeSignal() {
			result.ShouldCollectContact = true
			result.Qualified = true
			if sessionID != "" {
				e.sessions.AwaitContact(sessionID)
			}
		} else {
			e.logger.Debug("collect-contact marker without qualification signals, ignoring",
				zap.String("session_id", sessionID))
		}
	}
	return result
}

// LeadSubmitted records that the visitor completed the contact form.
func (e *Engine) LeadSubmitted(sessionID string) {
	if sessionID != "" {
		e.sessions.CloseSession(sessionID)
	}
}

// SessionDetails returns the details accumulated on a session so far.
func (e *Engine) SessionDetails(sessionID string) domain.ProjectDetails {
	if sessionID == "" {
		return domain.ProjectDetails{}
	}
	return e.sessions.Details(sessionID)
}

// StripMarker removes every occurrence of ContactMarker from text, reports
// whether one was present, and tidies the whitespace the removal leaves
// behind.
func StripMarker(text string) (string, bool) {
	if !strings.Contains(text, ContactMarker) {
		return strings.TrimRight(text, " \t\n"), false
	}
	text = strings.ReplaceAll(text, ContactMarker, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimRight(out, " \t\n"), true
}

func toMessages(turns []domain.ConversationTurn) []ai.Message {
	msgs := make([]ai.Message, 0, len(turns))
	for _, t := range turns {
		role := ai.RoleUser
		if t.Role == domain.RoleAssistant {
			role = ai.RoleAssistant
		}
		msgs = append(msgs, ai.Message{Role: role, Content: t.Content})
	}
	return msgs
}
