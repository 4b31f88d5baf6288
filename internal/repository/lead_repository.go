// Package repository implements PostgreSQL persistence for leads and
// webhook events.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitridge/leadgen/internal/domain"
)

// LeadRepository implements domain.LeadRepository using PostgreSQL.
type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// Insert stores a lead. Leads are append-only; there is no update path.
func (r *LeadRepository) Insert(ctx context.Context, lead *domain.Lead) error {
	query := `
		INSERT INTO leads (
			id, name, email, phone, project_type, project_details,
			message, source, score, score_reasoning, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	var score, reasoning string
	if lead.Score != nil {
		score = lead.Score.Score
		reasoning = lead.Score.Reasoning
	}

	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.ProjectType,
		lead.DetailsJSON(),
		lead.Message,
		string(lead.Source),
		score,
		reasoning,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}
