package repository

import (
	"testing"

	"github.com/summitridge/leadgen/internal/domain"
)

// Interface conformance is checked here so a drift in the domain contracts
// fails the build, not a deploy.
var (
	_ domain.LeadRepository         = (*LeadRepository)(nil)
	_ domain.WebhookEventRepository = (*WebhookEventRepository)(nil)
)

func TestNewRepositoriesAcceptNilPool(t *testing.T) {
	// Constructors must not touch the pool; a nil pool is valid until the
	// first query in the no-database deployment mode tests.
	if NewLeadRepository(nil) == nil {
		t.Fatal("NewLeadRepository returned nil")
	}
	if NewWebhookEventRepository(nil) == nil {
		t.Fatal("NewWebhookEventRepository returned nil")
	}
}
