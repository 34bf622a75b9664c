package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects the field failures of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// err returns nil when nothing was collected so callers can return it directly.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
