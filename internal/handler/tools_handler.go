package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/domain"
	"github.com/summitridge/leadgen/internal/service"
	"github.com/summitridge/leadgen/internal/validation"
)

// ToolsHandler serves the instant estimate and project planner tools.
type ToolsHandler struct {
	tools  *service.ToolService
	logger *zap.Logger
}

func NewToolsHandler(tools *service.ToolService, logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{tools: tools, logger: logger}
}

// HandleEstimate produces an instant cost estimate. The three scope
// fields are required; the tool itself never fails, it falls back to a
// canned range instead.
func (h *ToolsHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("projectType", req.ProjectType)
	v.Required("squareFootage", req.SquareFootage)
	v.Required("materials", req.Materials)
	if !v.IsValid() {
		APIError(w, r, http.StatusBadRequest, v.Errors().Error())
		return
	}

	estimate := h.tools.Estimate(r.Context(), domain.ProjectDetails{
		ProjectType:   strings.TrimSpace(req.ProjectType),
		SquareFootage: strings.TrimSpace(req.SquareFootage),
		Materials:     strings.TrimSpace(req.Materials),
		Timeline:      strings.TrimSpace(req.Timeline),
	})
	JSON(w, r, http.StatusOK, EstimateResponse{Estimate: estimate})
}

// HandlePlan produces planning guidance for a described project.
func (h *ToolsHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		APIError(w, r, http.StatusBadRequest, "description is required")
		return
	}

	plan := h.tools.Plan(r.Context(), description)
	JSON(w, r, http.StatusOK, PlanResponse{Plan: plan})
}
