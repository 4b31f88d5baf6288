package service

import (
	"context"
	"testing"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/chat"
	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/ratelimit"
)

func newChatService(t *testing.T, comp *stubCompleter, limiterCfg *ratelimit.AILimiterConfig) *ChatService {
	t.Helper()
	logger := zapNop()
	sessions, err := chat.NewSessionStore(16, logger)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	biz := config.BusinessConfig{
		Name:     "Summit Ridge Construction",
		Services: config.DefaultServices(),
	}
	engine := chat.NewEngine(comp, chat.NewExtractor(comp, logger), sessions, biz, logger)
	m, events := testMetrics()
	return NewChatService(engine, ratelimit.NewAILimiter(limiterCfg, logger), m, events, logger)
}

func TestTurn_ServesReply(t *testing.T) {
	comp := &stubCompleter{resp: ai.Completion{Text: "Happy to help with your kitchen."}}
	svc := newChatService(t, comp, nil)

	res := svc.Turn(context.Background(), "s1", []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "thinking about a kitchen reno"},
	}, "")
	if res.Reply == "" || res.Degraded {
		t.Errorf("result = %+v", res)
	}
}

func TestTurn_LimiterRejectionServesFallback(t *testing.T) {
	comp := &stubCompleter{resp: ai.Completion{Text: "unused"}}
	svc := newChatService(t, comp, &ratelimit.AILimiterConfig{
		MaxPerMinute:  0,
		MaxPerHour:    10,
		MaxPerDay:     10,
		MaxConcurrent: 10,
	})

	res := svc.Turn(context.Background(), "s1", []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "hello"},
	}, "")
	if !res.Degraded {
		t.Error("expected degraded result when rate limited")
	}
	if !res.ShouldCollectContact {
		t.Error("rate-limited turn must still surface the contact form")
	}
	if res.Reply != ai.UnavailableText {
		t.Errorf("Reply = %q", res.Reply)
	}
	if comp.calls != 0 {
		t.Errorf("completer called %d times while rate limited", comp.calls)
	}
}

func TestTurn_LimiterRejectionKeepsSessionDetails(t *testing.T) {
	comp := &stubCompleter{resp: ai.Completion{Text: `{"projectType":"deck","budget":"$10k"}`}}
	svc := newChatService(t, comp, &ratelimit.AILimiterConfig{
		MaxPerMinute:  1,
		MaxPerHour:    10,
		MaxPerDay:     10,
		MaxConcurrent: 10,
	})
	turns := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "deck, budget around $10k"},
	}

	first := svc.Turn(context.Background(), "s1", turns, "")
	if first.Degraded {
		t.Fatalf("first turn degraded: %+v", first)
	}
	if first.Details.ProjectType != "deck" {
		t.Fatalf("first turn details = %+v", first.Details)
	}

	second := svc.Turn(context.Background(), "s1", turns, "")
	if !second.Degraded {
		t.Fatal("expected second turn to be rate limited")
	}
	if second.Details.ProjectType != "deck" || second.Details.Budget != "$10k" {
		t.Errorf("rate-limited turn lost session details: %+v", second.Details)
	}
}

func TestTurn_ReleasesLimiterSlot(t *testing.T) {
	comp := &stubCompleter{resp: ai.Completion{Text: "ok"}}
	svc := newChatService(t, comp, &ratelimit.AILimiterConfig{
		MaxPerMinute:  100,
		MaxPerHour:    100,
		MaxPerDay:     100,
		MaxConcurrent: 1,
	})

	for i := 0; i < 3; i++ {
		res := svc.Turn(context.Background(), "s1", []domain.ConversationTurn{
			{Role: domain.RoleUser, Content: "hi"},
		}, "")
		if res.Degraded {
			t.Fatalf("turn %d degraded, limiter slot leaked", i)
		}
	}
}
