package middleware

import (
	"net/http"
)

// Body size limits.
const (
	// MaxJSONBodySize bounds JSON API requests. Chat transcripts are the
	// largest expected payload and stay well under this.
	MaxJSONBodySize = 1 << 20 // 1MB

	// MaxWebhookBodySize bounds social platform webhook payloads, which
	// batch multiple entries per delivery.
	MaxWebhookBodySize = 10 << 20 // 10MB
)

// BodySizeLimiter rejects oversized request bodies.
func BodySizeLimiter(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			// MaxBytesReader also covers chunked bodies with no declared length.
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
