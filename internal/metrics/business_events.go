package metrics

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/domain"
)

// BusinessEventLogger provides structured logging for business events. It
// complements the Prometheus counters with searchable per-event records;
// contact fields are masked before they reach the logs.
type BusinessEventLogger struct {
	logger *zap.Logger
}

func NewBusinessEventLogger(logger *zap.Logger) *BusinessEventLogger {
	return &BusinessEventLogger{logger: logger.Named("business_events")}
}

// LeadCreated logs a new lead entering the funnel.
func (l *BusinessEventLogger) LeadCreated(lead *domain.Lead) {
	fields := []zap.Field{
		zap.String("event_type", "lead.created"),
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", string(lead.Source)),
		zap.String("email", maskEmail(lead.Email)),
		zap.Time("timestamp", time.Now().UTC()),
	}
	if lead.Phone != "" {
		fields = append(fields, zap.String("phone", maskPhoneNumber(lead.Phone)))
	}
	if lead.ProjectType != "" {
		fields = append(fields, zap.String("project_type", lead.ProjectType))
	}
	if lead.Score != nil {
		fields = append(fields, zap.String("score", lead.Score.Score))
	}
	l.logger.Info("lead_created", fields...)
}

// LeadPersistFailed logs an absorbed database write failure. The lead still
// proceeds to notification; this event is the breadcrumb for reconciliation.
func (l *BusinessEventLogger) LeadPersistFailed(leadID uuid.UUID, source domain.LeadSource, err error) {
	l.logger.Warn("lead_persist_failed",
		zap.String("event_type", "lead.persist_failed"),
		zap.String("lead_id", leadID.String()),
		zap.String("source", string(source)),
		zap.Error(err),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// NotificationSent logs a delivered notification email.
func (l *BusinessEventLogger) NotificationSent(leadID uuid.UUID, kind string) {
	l.logger.Info("notification_sent",
		zap.String("event_type", "notification.sent"),
		zap.String("lead_id", leadID.String()),
		zap.String("kind", kind),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// NotificationFailed logs a failed notification email.
func (l *BusinessEventLogger) NotificationFailed(leadID uuid.UUID, kind string, err error) {
	l.logger.Error("notification_failed",
		zap.String("event_type", "notification.failed"),
		zap.String("lead_id", leadID.String()),
		zap.String("kind", kind),
		zap.Error(err),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// SessionQualified logs a chat session passing the qualification check.
func (l *BusinessEventLogger) SessionQualified(sessionID string, details domain.ProjectDetails) {
	l.logger.Info("session_qualified",
		zap.String("event_type", "chat.session_qualified"),
		zap.String("session_id", sessionID),
		zap.String("project_type", details.ProjectType),
		zap.Bool("has_budget", details.Budget != ""),
		zap.Bool("has_timeline", details.Timeline != ""),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// WebhookReceived logs a social platform delivery.
func (l *BusinessEventLogger) WebhookReceived(platform string, payloadBytes int) {
	l.logger.Info("webhook_received",
		zap.String("event_type", "webhook.received"),
		zap.String("platform", platform),
		zap.Int("payload_bytes", payloadBytes),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// maskPhoneNumber keeps the last four digits.
func maskPhoneNumber(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "****"
	}
	return email[:1] + "***" + email[at:]
}
