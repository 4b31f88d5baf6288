package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitridge/leadgen/internal/domain"
)

// WebhookEventRepository implements domain.WebhookEventRepository using
// PostgreSQL. Events are stored verbatim for later replay once per-platform
// processing exists.
type WebhookEventRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookEventRepository(pool *pgxpool.Pool) *WebhookEventRepository {
	return &WebhookEventRepository{pool: pool}
}

// Insert stores a received webhook event.
func (r *WebhookEventRepository) Insert(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, platform, source, payload, received_at)
		VALUES ($1, $2, $3, $4, $5)`

	payload := event.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Platform,
		string(event.Source),
		payload,
		event.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}
