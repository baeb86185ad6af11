package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("authentication required")
	ErrConflict      = errors.New("conflicting record")
	ErrCategoryInUse = errors.New("category is referenced by articles")
)

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message is a human-readable notification for the caller to display.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

func Success(text string) Message { return Message{Level: LevelSuccess, Text: text} }

func Failure(text string) Message { return Message{Level: LevelError, Text: text} }
