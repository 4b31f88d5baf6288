// Package validation provides input validation for lead intake and API
// requests.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is a single validation failure with field context.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any validation failed.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Error codes for validation failures.
const (
	CodeRequired  = "required"
	CodeTooLong   = "too_long"
	CodeBadFormat = "bad_format"
	CodeNotInSet  = "not_in_set"
)

// Validator accumulates validation errors across checks.
type Validator struct {
	errors ValidationErrors
}

func New() *Validator {
	return &Validator{}
}

// Errors returns all accumulated validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// IsValid reports whether no check has failed.
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// AddError records a validation error.
func (v *Validator) AddError(field, message, code string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message, Code: code})
}

// Required checks that value is not blank.
func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required", CodeRequired)
		return false
	}
	return true
}

// MaxLength checks that value does not exceed maxLen bytes.
func (v *Validator) MaxLength(field, value string, maxLen int) bool {
	if len(value) > maxLen {
		v.AddError(field, fmt.Sprintf("must be at most %d characters", maxLen), CodeTooLong)
		return false
	}
	return true
}

// emailRegex accepts the practical shape of an address; deliverability is
// the mail relay's problem.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks address format. Blank values pass; combine with Required
// where the field is mandatory.
func (v *Validator) Email(field, value string) bool {
	if value == "" {
		return true
	}
	if !emailRegex.MatchString(value) {
		v.AddError(field, "is not a valid email address", CodeBadFormat)
		return false
	}
	return true
}

// phoneRegex accepts digits with common separators, optionally prefixed
// with a country code.
var phoneRegex = regexp.MustCompile(`^\+?[0-9(][0-9 ().-]{5,19}$`)

// PhoneNumber checks phone format. Blank values pass.
func (v *Validator) PhoneNumber(field, value string) bool {
	if value == "" {
		return true
	}
	if !phoneRegex.MatchString(value) {
		v.AddError(field, "is not a valid phone number", CodeBadFormat)
		return false
	}
	return true
}

// OneOf checks that value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")), CodeNotInSet)
	return false
}
