// Package service orchestrates the lead-generation flows: chat turns, the
// instant tools, and lead intake with persistence and notification.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/domain"
	apperrors "github.com/summitridge/leadgen/internal/errors"
	"github.com/summitridge/leadgen/internal/mail"
	"github.com/summitridge/leadgen/internal/metrics"
	"github.com/summitridge/leadgen/internal/tools"
)

// CreateLeadInput carries everything a lead entry point collected.
type CreateLeadInput struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Details     domain.ProjectDetails
	Message     string
	Source      domain.LeadSource
	Score       *domain.LeadScore
}

// LeadService runs the lead sink pipeline: score, persist, notify. The
// repository may be nil in the no-database deployment mode; the notification
// email is then the only durable record, which is why a send failure fails
// the request while a database failure does not.
type LeadService struct {
	repo    domain.LeadRepository
	mailer  mail.Sender
	scorer  *tools.Scorer
	metrics *metrics.Metrics
	events  *metrics.BusinessEventLogger
	logger  *zap.Logger
}

func NewLeadService(
	repo domain.LeadRepository,
	mailer mail.Sender,
	scorer *tools.Scorer,
	m *metrics.Metrics,
	events *metrics.BusinessEventLogger,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		repo:    repo,
		mailer:  mailer,
		scorer:  scorer,
		metrics: m,
		events:  events,
		logger:  logger,
	}
}

// Create runs the full intake pipeline and returns the stored lead.
func (s *LeadService) Create(ctx context.Context, input CreateLeadInput) (*domain.Lead, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperrors.MissingField("email")
	}

	lead := domain.NewLead(email, input.Source)
	lead.Name = strings.TrimSpace(input.Name)
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.ProjectType = strings.TrimSpace(input.ProjectType)
	lead.ProjectDetails = input.Details
	lead.Message = strings.TrimSpace(input.Message)
	if lead.ProjectType == "" {
		lead.ProjectType = lead.ProjectDetails.ProjectType
	}

	lead.Score = input.Score
	if lead.Score == nil {
		score := s.scorer.Score(ctx, lead.ProjectDetails, lead.Source)
		lead.Score = &score
	}

	// Persistence is best-effort: a lost row still becomes an email.
	if s.repo != nil {
		if err := s.repo.Insert(ctx, lead); err != nil {
			s.metrics.RecordLeadPersistFailure()
			s.events.LeadPersistFailed(lead.ID, lead.Source, err)
		}
	}

	if err := s.mailer.SendLeadNotification(ctx, lead); err != nil {
		s.metrics.RecordNotification("lead_notification", false)
		s.events.NotificationFailed(lead.ID, "lead_notification", err)
		return nil, err
	}
	if s.mailer.Configured() {
		s.metrics.RecordNotification("lead_notification", true)
		s.events.NotificationSent(lead.ID, "lead_notification")
	}

	if err := s.mailer.SendLeadConfirmation(ctx, lead); err != nil {
		s.metrics.RecordNotification("lead_confirmation", false)
		s.logger.Warn("lead confirmation email failed",
			zap.String("lead_id", lead.ID.String()),
			zap.Error(err))
	} else if s.mailer.Configured() {
		s.metrics.RecordNotification("lead_confirmation", true)
	}

	s.metrics.RecordLeadCreated(string(lead.Source))
	s.events.LeadCreated(lead)
	return lead, nil
}
