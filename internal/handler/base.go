// Package handler provides the HTTP API for the lead-generation service.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/summitridge/leadgen/internal/errors"
	"github.com/summitridge/leadgen/internal/middleware"
	"github.com/summitridge/leadgen/internal/sanitize"
)

// sanitizer masks lead contact details before error text reaches logs.
var sanitizer = sanitize.New()

// JSON writes a JSON response, echoing the request ID header when present.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if reqID := middleware.GetRequestID(r.Context()); reqID != "" {
		w.Header().Set(middleware.RequestIDHeader, reqID)
	}
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// APIError writes an error response in the shared envelope.
func APIError(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}

// AppError maps an application error onto its HTTP status. Internal
// errors keep a generic message so provider details never reach clients.
func AppError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := apperrors.GetHTTPStatus(err)
	message := "internal server error"
	if apperrors.IsUserError(err) {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	} else {
		logger.Error("request failed",
			zap.Int("status", status),
			zap.String("error", sanitizer.Error(err)),
		)
	}
	APIError(w, r, status, message)
}

// decodeJSON parses a request body into dst. Oversized bodies surface as
// 413, everything else malformed as 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			APIError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		APIError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
