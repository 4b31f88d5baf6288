package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// schema holds the ordered, idempotent schema statements. The schema is
// small enough that versioned migration files would be ceremony; every
// statement must stay safe to re-run on startup.
var schema = []struct {
	name string
	sql  string
}{
	{
		name: "leads table",
		sql: `CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			project_type TEXT NOT NULL DEFAULT '',
			project_details JSONB NOT NULL DEFAULT '{}',
			message TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			score TEXT NOT NULL DEFAULT '',
			score_reasoning TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "leads source index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_leads_source ON leads (source, created_at DESC)`,
	},
	{
		name: "leads email index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email)`,
	},
	{
		name: "webhook events table",
		sql: `CREATE TABLE IF NOT EXISTS webhook_events (
			id UUID PRIMARY KEY,
			platform TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			payload JSONB NOT NULL DEFAULT '{}',
			received_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		name: "webhook events source column",
		sql:  `ALTER TABLE webhook_events ADD COLUMN IF NOT EXISTS source TEXT NOT NULL DEFAULT ''`,
	},
	{
		name: "webhook events platform index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_webhook_events_platform ON webhook_events (platform, received_at DESC)`,
	},
}

// Migrate applies the schema. Safe to call on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("apply %s: %w", stmt.name, err)
		}
	}
	logger.Info("database schema verified", zap.Int("statements", len(schema)))
	return nil
}
