package handler

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/config"
	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/service"
	"github.com/summitridge/leadgen/internal/validation"
)

// Field length caps for lead intake.
const (
	maxNameLength    = 200
	maxMessageLength = 5000
)

// LeadHandler serves every lead entry point. Each route tags the lead
// with its source and shapes the details before handing off to the
// shared intake pipeline.
type LeadHandler struct {
	leads  *service.LeadService
	chat   *service.ChatService
	biz    config.BusinessConfig
	logger *zap.Logger
}

func NewLeadHandler(leads *service.LeadService, chat *service.ChatService, biz config.BusinessConfig, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, chat: chat, biz: biz, logger: logger}
}

// genericSources are the source tags the generic endpoint accepts.
var genericSources = []string{
	string(domain.SourceWebsite),
	string(domain.SourceQuoteTool),
}

// HandleCreate accepts a plain website lead. Embedded tools that share the
// generic endpoint, like the quote widget, tag themselves via the source
// field; anything outside the allowed set is rejected.
func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	source := domain.SourceWebsite
	if s := strings.TrimSpace(req.Source); s != "" {
		v := validation.New()
		if !v.OneOf("source", s, genericSources) {
			APIError(w, r, http.StatusBadRequest, v.Errors().Error())
			return
		}
		source = domain.LeadSource(s)
	}
	h.create(w, r, req, source, req.ProjectDetails, req.Message)
}

// HandleFromChat accepts contact details collected at the end of a chat
// session and closes the session on success.
func (h *LeadHandler) HandleFromChat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	lead := h.create(w, r, req, domain.SourceAIChat, req.ProjectDetails, req.Message)
	if lead != nil && req.SessionID != "" {
		h.chat.LeadSubmitted(req.SessionID)
	}
}

// HandleFromEstimate accepts a lead from the instant estimate tool. The
// estimate the visitor saw rides along in the notification message.
func (h *LeadHandler) HandleFromEstimate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	message := req.Message
	if req.Estimate != nil {
		message = appendLine(message, fmt.Sprintf("Estimate shown: %s over %s.", req.Estimate.CostRange, req.Estimate.Timeline))
	}
	h.create(w, r, req, domain.SourceInstantEstimate, req.ProjectDetails, message)
}

// HandleFromPlanner accepts a lead from the project planner tool.
func (h *LeadHandler) HandleFromPlanner(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	h.create(w, r, req, domain.SourceProjectPlanner, req.ProjectDetails, req.Message)
}

// HandleDealQuote accepts a quote request for an advertised deal.
func (h *LeadHandler) HandleDealQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	message := req.Message
	for _, d := range h.biz.Deals {
		if d.ID == req.DealID {
			message = appendLine(message, fmt.Sprintf("Deal requested: %s.", d.Title))
			break
		}
	}
	h.create(w, r, req, domain.SourceDealQuote, req.ProjectDetails, message)
}

// HandleMaterialsInquiry accepts a materials question from a service page.
func (h *LeadHandler) HandleMaterialsInquiry(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	details := req.ProjectDetails
	if req.ServiceID != "" {
		details.ServiceID = req.ServiceID
		if svc, found := h.biz.ServiceByID(req.ServiceID); found {
			details.ServiceName = svc.Title
		}
	}
	h.create(w, r, req, domain.SourceMaterialsInquiry, details, req.Message)
}

// HandlePriceBeat accepts a price-beat request from the products page.
func (h *LeadHandler) HandlePriceBeat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLead(w, r)
	if !ok {
		return
	}
	details := req.ProjectDetails
	if req.ProductName != "" {
		details.ProductInterest = req.ProductName
	}
	message := req.Message
	if req.CompetitorPrice != "" {
		message = appendLine(message, fmt.Sprintf("Competitor price to beat: %s.", req.CompetitorPrice))
	}
	h.create(w, r, req, domain.SourceProductsPriceBeat, details, message)
}

// decodeLead parses and validates the shared lead payload. The email
// check runs here so nothing downstream fires for an unreachable lead.
func (h *LeadHandler) decodeLead(w http.ResponseWriter, r *http.Request) (LeadRequest, bool) {
	var req LeadRequest
	if !decodeJSON(w, r, &req) {
		return req, false
	}

	req.Email = strings.TrimSpace(req.Email)

	v := validation.New()
	if v.Required("email", req.Email) {
		v.Email("email", req.Email)
	}
	v.PhoneNumber("phone", strings.TrimSpace(req.Phone))
	v.MaxLength("name", req.Name, maxNameLength)
	v.MaxLength("message", req.Message, maxMessageLength)
	if !v.IsValid() {
		APIError(w, r, http.StatusBadRequest, v.Errors().Error())
		return req, false
	}
	return req, true
}

func (h *LeadHandler) create(w http.ResponseWriter, r *http.Request, req LeadRequest, source domain.LeadSource, details domain.ProjectDetails, message string) *domain.Lead {
	lead, err := h.leads.Create(r.Context(), service.CreateLeadInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ProjectType: req.ProjectType,
		Details:     details,
		Message:     message,
		Source:      source,
	})
	if err != nil {
		AppError(w, r, h.logger, err)
		return nil
	}

	JSON(w, r, http.StatusCreated, LeadResponse{Success: true, LeadID: lead.ID.String()})
	return lead
}

func appendLine(message, line string) string {
	if message == "" {
		return line
	}
	return message + "\n" + line
}
