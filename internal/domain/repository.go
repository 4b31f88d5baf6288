package domain

import "context"

// LeadRepository persists captured leads. Persistence is best-effort at the
// service layer: callers log and continue on failure.
type LeadRepository interface {
	Insert(ctx context.Context, lead *Lead) error
}

// WebhookEventRepository records inbound social webhook payloads.
type WebhookEventRepository interface {
	Insert(ctx context.Context, event *WebhookEvent) error
}
