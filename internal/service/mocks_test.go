package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/metrics"
)

func zapNop() *zap.Logger { return zap.NewNop() }

// stubLeadRepo records Insert calls and can be told to fail.
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

// stubEventRepo records webhook event inserts.
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

// stubMailer implements mail.Sender with controllable outcomes.
type stubMailer struct {
	configured      bool
	notifyErr       error
	confirmErr      error
	notifications   []*domain.Lead
	confirmations   []*domain.Lead
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
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.confirmations = append(m.confirmations, lead)
	return nil
}

// stubCompleter returns one canned completion for every call.
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

func testMetrics() (*metrics.Metrics, *metrics.BusinessEventLogger) {
	reg := prometheus.NewRegistry()
	return metrics.NewMetricsWithRegistry(reg), metrics.NewBusinessEventLogger(zapNop())
}

var errBoom = errors.New("boom")
