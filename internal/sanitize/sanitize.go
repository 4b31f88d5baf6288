// Package sanitize masks contact details and credentials before they
// reach logs or error messages.
package sanitize

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`([A-Za-z0-9._%+-])[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	phonePattern  = regexp.MustCompile(`\+?[0-9][0-9 ().-]{8,18}[0-9]`)
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(["':=\s]+)([A-Za-z0-9_\-.]{8,})`)
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.]+`)
)

// sensitiveHeaders are never echoed, even masked.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"proxy-authorization": true,
}

// Sanitizer masks sensitive values in free-form text.
type Sanitizer struct{}

func New() *Sanitizer {
	return &Sanitizer{}
}

// String masks emails, phone numbers, API keys, and bearer tokens in s.
func (s *Sanitizer) String(in string) string {
	out := emailPattern.ReplaceAllString(in, "$1***@$2")
	out = phonePattern.ReplaceAllStringFunc(out, maskPhone)
	out = apiKeyPattern.ReplaceAllString(out, "$1$2[REDACTED]")
	out = bearerPattern.ReplaceAllString(out, "Bearer [REDACTED]")
	return out
}

// Error masks sensitive values in an error's message. A nil error
// returns the empty string.
func (s *Sanitizer) Error(err error) string {
	if err == nil {
		return ""
	}
	return s.String(err.Error())
}

// Headers returns a copy of h safe for logging. Credential-bearing
// headers are replaced wholesale, other values are masked.
func (s *Sanitizer) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if sensitiveHeaders[strings.ToLower(name)] {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = s.String(strings.Join(values, ", "))
	}
	return out
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits <= 4 {
		return "****"
	}
	last := make([]rune, 0, 4)
	for i := len(phone) - 1; i >= 0 && len(last) < 4; i-- {
		if phone[i] >= '0' && phone[i] <= '9' {
			last = append([]rune{rune(phone[i])}, last...)
		}
	}
	return fmt.Sprintf("******%s", string(last))
}
