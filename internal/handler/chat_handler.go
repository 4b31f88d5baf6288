package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/service"
)

// ChatHandler serves the site sales-assistant chat.
type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// HandleChat runs one conversation turn. The endpoint never returns an
// error status: any internal failure degrades into a safe reply that
// steers the visitor toward leaving contact details.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Conversation) == 0 {
		APIError(w, r, http.StatusBadRequest, "conversation is required")
		return
	}

	res := h.chat.Turn(r.Context(), req.SessionID, req.Conversation, req.CurrentPage)
	if res.Reply == "" {
		res.Reply = ai.UnavailableText
		res.ShouldCollectContact = true
	}

	JSON(w, r, http.StatusOK, ChatResponse{
		Response:             res.Reply,
		ProjectDetails:       res.Details,
		ShouldCollectContact: res.ShouldCollectContact,
		Qualified:            res.Qualified,
	})
}
