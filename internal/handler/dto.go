package handler

import (
	"github.com/summitridge/leadgen/internal/domain"
)

// ErrorResponse is the shared error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ChatRequest is a single turn of the site chat. The client resends the
// full conversation on every turn.
type ChatRequest struct {
	Conversation []domain.ConversationTurn `json:"conversation"`
	CurrentPage  string                    `json:"currentPage,omitempty"`
	SessionID    string                    `json:"sessionId,omitempty"`
}

// ChatResponse carries the assistant reply and the qualification state.
type ChatResponse struct {
	Response             string                `json:"response"`
	ProjectDetails       domain.ProjectDetails `json:"projectDetails"`
	ShouldCollectContact bool                  `json:"shouldCollectContact"`
	Qualified            bool                  `json:"qualified"`
}

// EstimateRequest asks for an instant cost estimate.
type EstimateRequest struct {
	ProjectType   string `json:"projectType"`
	SquareFootage string `json:"squareFootage"`
	Materials     string `json:"materials"`
	Timeline      string `json:"timeline,omitempty"`
}

// EstimateResponse wraps the estimate result.
type EstimateResponse struct {
	Estimate domain.EstimateResult `json:"estimate"`
}

// PlanRequest asks for project planning guidance.
type PlanRequest struct {
	Description string `json:"description"`
}

// PlanResponse wraps the generated plan.
type PlanResponse struct {
	Plan domain.ProjectPlan `json:"plan"`
}

// LeadRequest is the common payload for every lead entry point. Fields a
// given form does not collect simply stay empty.
type LeadRequest struct {
	Name           string                `json:"name,omitempty"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone,omitempty"`
	ProjectType    string                `json:"projectType,omitempty"`
	ProjectDetails domain.ProjectDetails `json:"projectDetails,omitempty"`
	Message        string                `json:"message,omitempty"`
	SessionID      string                `json:"sessionId,omitempty"`

	// Source lets the generic endpoint tag submissions from embedded
	// tools, the quote widget in particular. Defaults to "website".
	Source string `json:"source,omitempty"`

	// DealID comes from the deal-quote entry point.
	DealID string `json:"dealId,omitempty"`
	// ServiceID comes from the service materials inquiry entry point.
	ServiceID string `json:"serviceId,omitempty"`
	// ProductName comes from the price-beat entry point.
	ProductName string `json:"productName,omitempty"`
	// CompetitorPrice comes from the price-beat entry point.
	CompetitorPrice string `json:"competitorPrice,omitempty"`

	// Estimate echoes the result shown to the visitor on the estimate
	// and planner entry points.
	Estimate *domain.EstimateResult `json:"estimate,omitempty"`
}

// LeadResponse acknowledges a lead submission.
type LeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId,omitempty"`
}

// WebhookAck is the unconditional acknowledgement for social webhooks.
type WebhookAck struct {
	Success bool `json:"success"`
}
