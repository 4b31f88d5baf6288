// Package domain contains the core business entities and interfaces.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LeadSource identifies the entry point that produced a lead.
type LeadSource string

const (
	SourceAIChat            LeadSource = "ai_chat"
	SourceInstantEstimate   LeadSource = "instant_estimate"
	SourceQuoteTool         LeadSource = "quote_tool"
	SourceProjectPlanner    LeadSource = "project_planner"
	SourceDealQuote         LeadSource = "deal_quote"
	SourceMaterialsInquiry  LeadSource = "service_materials_inquiry"
	SourceProductsPriceBeat LeadSource = "products_price_beat"
	SourceWebsite           LeadSource = "website"
)

// SocialSource returns the lead source tag for a social messaging platform.
func SocialSource(platform string) LeadSource {
	return LeadSource("social_" + platform)
}

// ProjectDetails holds project attributes extracted from a conversation or
// submitted through a form. Every field is optional; an empty string means
// the customer has not mentioned it yet, never a default.
type ProjectDetails struct {
	ProjectType     string `json:"projectType,omitempty"`
	ServiceID       string `json:"serviceId,omitempty"`
	ServiceName     string `json:"serviceName,omitempty"`
	ProductInterest string `json:"productInterest,omitempty"`
	SquareFootage   string `json:"squareFootage,omitempty"`
	Materials       string `json:"materials,omitempty"`
	Timeline        string `json:"timeline,omitempty"`
	Budget          string `json:"budget,omitempty"`
	Description     string `json:"description,omitempty"`
}

// IsEmpty returns true if no field has been populated.
func (d ProjectDetails) IsEmpty() bool {
	return d == ProjectDetails{}
}

// Merge overlays non-empty fields from other onto d, last write wins per field.
func (d ProjectDetails) Merge(other ProjectDetails) ProjectDetails {
	if other.ProjectType != "" {
		d.ProjectType = other.ProjectType
	}
	if other.ServiceID != "" {
		d.ServiceID = other.ServiceID
	}
	if other.ServiceName != "" {
		d.ServiceName = other.ServiceName
	}
	if other.ProductInterest != "" {
		d.ProductInterest = other.ProductInterest
	}
	if other.SquareFootage != "" {
		d.SquareFootage = other.SquareFootage
	}
	if other.Materials != "" {
		d.Materials = other.Materials
	}
	if other.Timeline != "" {
		d.Timeline = other.Timeline
	}
	if other.Budget != "" {
		d.Budget = other.Budget
	}
	if other.Description != "" {
		d.Description = other.Description
	}
	return d
}

// HasServiceInterest returns true if the customer has named a project type,
// service, or product they are interested in.
func (d ProjectDetails) HasServiceInterest() bool {
	return d.ProjectType != "" || d.ServiceID != "" || d.ServiceName != "" || d.ProductInterest != ""
}

// HasScopeSignal returns true if at least one of budget, timeline, or scope
// (square footage) has been mentioned.
func (d ProjectDetails) HasScopeSignal() bool {
	return d.Budget != "" || d.Timeline != "" || d.SquareFootage != ""
}

// Lead represents a prospective customer captured from any entry point.
// A lead is created once per completed submission and never mutated.
type Lead struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name,omitempty"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	ProjectType    string         `json:"project_type,omitempty"`
	ProjectDetails ProjectDetails `json:"project_details"`
	Message        string         `json:"message,omitempty"`
	Source         LeadSource     `json:"source"`
	Score          *LeadScore     `json:"score,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewLead creates a lead with a fresh ID and creation timestamp.
func NewLead(email string, source LeadSource) *Lead {
	return &Lead{
		ID:        uuid.New(),
		Email:     email,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// DetailsJSON serializes the project details for persistence.
func (l *Lead) DetailsJSON() []byte {
	b, err := json.Marshal(l.ProjectDetails)
	if err != nil {
		return []byte("{}")
	}
	return b
}

// WebhookEvent records an inbound message from a social platform webhook.
// Source carries the lead source tag a lead worked up from this event will
// inherit once per-platform processing exists.
type WebhookEvent struct {
	ID         uuid.UUID       `json:"id"`
	Platform   string          `json:"platform"`
	Source     LeadSource      `json:"source"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

// NewWebhookEvent creates a webhook event record.
func NewWebhookEvent(platform string, payload []byte) *WebhookEvent {
	return &WebhookEvent{
		ID:         uuid.New(),
		Platform:   platform,
		Source:     SocialSource(platform),
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}
}
