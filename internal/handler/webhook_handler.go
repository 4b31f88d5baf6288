package handler

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/service"
)

// supportedPlatforms are the social platforms with registered webhooks.
var supportedPlatforms = map[string]bool{
	"facebook":  true,
	"instagram": true,
	"whatsapp":  true,
}

// WebhookHandler serves the Meta-style webhook endpoints for social
// messaging platforms.
type WebhookHandler struct {
	webhooks    *service.WebhookService
	verifyToken string
	logger      *zap.Logger
}

func NewWebhookHandler(webhooks *service.WebhookService, verifyToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, verifyToken: verifyToken, logger: logger}
}

// HandleVerify answers the subscription handshake: echo hub.challenge
// when the verify token matches, 403 otherwise.
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	if !supportedPlatforms[platform] {
		APIError(w, r, http.StatusNotFound, "unknown platform")
		return
	}

	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode != "subscribe" || h.verifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) != 1 {
		h.logger.Warn("webhook verification rejected",
			zap.String("platform", platform),
			zap.String("mode", mode),
		)
		APIError(w, r, http.StatusForbidden, "verification failed")
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// HandleEvent records an inbound platform event. The endpoint always
// acknowledges with 200 so the platform never retries or disables the
// subscription; malformed payloads are logged and dropped.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	if !supportedPlatforms[platform] {
		APIError(w, r, http.StatusNotFound, "unknown platform")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("webhook body read failed",
			zap.String("platform", platform),
			zap.Error(err),
		)
		JSON(w, r, http.StatusOK, WebhookAck{Success: true})
		return
	}

	h.webhooks.Record(r.Context(), platform, body)
	JSON(w, r, http.StatusOK, WebhookAck{Success: true})
}
