package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/chat"
	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/metrics"
	"github.com/summitridge/leadgen/internal/ratelimit"
	"github.com/summitridge/leadgen/internal/service"
	"github.com/summitridge/leadgen/internal/tools"
)

var errBoom = errors.New("boom")

type stubCompleter struct {
	resp  ai.Completion
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ ai.Options) ai.Completion {
	s.calls++
	return s.resp
}

func (s *stubCompleter) CompleteMessages(_ context.Context, _ []ai.Message, _ ai.Options) ai.Completion {
	s.calls++
	return s.resp
}

type stubMailer struct {
	configured    bool
	notifyErr     error
	notifications []*domain.Lead
	confirmations []*domain.Lead
}

func (m *stubMailer) Configured() bool { return m.configured }

func (m *stubMailer) SendLeadNotification(_ context.Context, lead *domain.Lead) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.notifications = append(m.notifications, lead)
	return nil
}

func (m *stubMailer) SendLeadConfirmation(_ context.Context, lead *domain.Lead) error {
	m.confirmations = append(m.confirmations, lead)
	return nil
}

type stubLeadRepo struct {
	inserted []*domain.Lead
	err      error
}

func (r *stubLeadRepo) Insert(_ context.Context, lead *domain.Lead) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, lead)
	return nil
}

type stubEventRepo struct {
	inserted []*domain.WebhookEvent
	err      error
}

func (r *stubEventRepo) Insert(_ context.Context, event *domain.WebhookEvent) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func testBusiness() config.BusinessConfig {
	return config.BusinessConfig{
		Name:        "Summit Ridge Construction",
		Owner:       "Dale Herrin",
		Phone:       "(303) 555-0142",
		Email:       "office@summitridge.example",
		ServiceArea: "Denver metro and the Front Range",
		Services: []config.Service{
			{ID: "kitchen-renovation", Title: "Kitchen Renovation", Blurb: "Full remodels"},
			{ID: "roofing", Title: "Roofing", Blurb: "Replacement and repair"},
		},
		Deals: []config.Deal{
			{ID: "spring-roofing", Title: "Spring Roofing Special", Page: "/deals/spring-roofing"},
		},
	}
}

// testEnv bundles the stubs behind a fully wired router.
type testEnv struct {
	router    http.Handler
	completer *stubCompleter
	mailer    *stubMailer
	leadRepo  *stubLeadRepo
	eventRepo *stubEventRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	completer := &stubCompleter{resp: ai.Completion{Text: "Happy to help with your project."}}
	mailer := &stubMailer{configured: true}
	leadRepo := &stubLeadRepo{}
	eventRepo := &stubEventRepo{}
	biz := testBusiness()

	m := metrics.NewMetricsWithRegistry(prometheus.NewRegistry())
	events := metrics.NewBusinessEventLogger(logger)
	limiter := ratelimit.NewAILimiter(nil, logger)

	sessions, err := chat.NewSessionStore(chat.DefaultSessionCapacity, logger)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	engine := chat.NewEngine(completer, chat.NewExtractor(completer, logger), sessions, biz, logger)

	chatSvc := service.NewChatService(engine, limiter, m, events, logger)
	leadSvc := service.NewLeadService(leadRepo, mailer, tools.NewScorer(completer, logger), m, events, logger)
	toolSvc := service.NewToolService(
		tools.NewEstimator(completer, biz.ServiceArea, logger),
		tools.NewPlanner(completer, biz.ServiceArea, logger),
		limiter, m, logger,
	)
	webhookSvc := service.NewWebhookService(eventRepo, m, events, logger)

	h := New(Config{
		Chat:     NewChatHandler(chatSvc, logger),
		Tools:    NewToolsHandler(toolSvc, logger),
		Leads:    NewLeadHandler(leadSvc, chatSvc, biz, logger),
		Webhooks: NewWebhookHandler(webhookSvc, "verify-me", logger),
		Health:   NewHealthHandler(nil, nil, mailer, nil, logger),
		Metrics:  m,
		Logger:   logger,
	})

	return &testEnv{
		router:    h.Router(),
		completer: completer,
		mailer:    mailer,
		leadRepo:  leadRepo,
		eventRepo: eventRepo,
	}
}

// postJSON sends a JSON request through the full router.
func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
