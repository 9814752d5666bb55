package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownBackend = errors.New("unknown brochure backend")
	ErrSessionExpired = errors.New("viewer session expired")
	ErrInvalidPage    = errors.New("invalid page")
	ErrUnavailable    = errors.New("service not configured")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports field-level problems found before any remote call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// OrNil returns nil when no field errors were collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
