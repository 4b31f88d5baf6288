// Package mail sends lead notifications over SMTP. In the degraded
// deployment mode with a database configured, email is advisory; without one
// it is the only durable record of a lead, so send failures are surfaced to
// the caller rather than swallowed.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/domain"
	apperrors "github.com/summitridge/leadgen/internal/errors"
)

// Sender is the notification surface the lead service consumes.
type Sender interface {
	Configured() bool
	SendLeadNotification(ctx context.Context, lead *domain.Lead) error
	SendLeadConfirmation(ctx context.Context, lead *domain.Lead) error
}

// Mailer sends transactional mail through a configured SMTP relay. When no
// relay is configured every send is a logged no-op.
type Mailer struct {
	cfg    config.MailConfig
	biz    config.BusinessConfig
	client *gomail.Client
	logger *zap.Logger
}

func NewMailer(cfg config.MailConfig, biz config.BusinessConfig, logger *zap.Logger) (*Mailer, error) {
	m := &Mailer{cfg: cfg, biz: biz, logger: logger}
	if !cfg.Configured() {
		logger.Info("mail relay not configured, notifications disabled")
		return m, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	m.client = client
	return m, nil
}

func (m *Mailer) Configured() bool {
	return m.client != nil
}

// SendLeadNotification mails the new-lead summary to the office inbox. This
// is the durable record in the no-database deployment mode; failures are
// returned, not swallowed.
func (m *Mailer) SendLeadNotification(ctx context.Context, lead *domain.Lead) error {
	if m.client == nil {
		m.logger.Warn("lead notification skipped, mail not configured",
			zap.String("lead_id", lead.ID.String()),
			zap.String("source", string(lead.Source)))
		return nil
	}

	subject := fmt.Sprintf("New lead: %s (%s)", displayName(lead), lead.Source)
	body, err := leadNotificationBody(m.biz, lead)
	if err != nil {
		return apperrors.NotificationError("render notification", err)
	}
	if err := m.send(ctx, m.cfg.AdminTo, subject, body); err != nil {
		return apperrors.NotificationError("send notification", err)
	}
	m.logger.Info("lead notification sent",
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", string(lead.Source)))
	return nil
}

// SendLeadConfirmation mails the thank-you note to the visitor. Best-effort;
// the caller decides whether a failure matters.
func (m *Mailer) SendLeadConfirmation(ctx context.Context, lead *domain.Lead) error {
	if m.client == nil || lead.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Thanks for reaching out to %s", m.biz.Name)
	body, err := leadConfirmationBody(m.biz, lead)
	if err != nil {
		return apperrors.NotificationError("render confirmation", err)
	}
	if err := m.send(ctx, lead.Email, subject, body); err != nil {
		return apperrors.NotificationError("send confirmation", err)
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)
	return m.client.DialAndSendWithContext(ctx, msg)
}

func displayName(lead *domain.Lead) string {
	if lead.Name != "" {
		return lead.Name
	}
	return lead.Email
}
