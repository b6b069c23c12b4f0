// Package validate provides shared input validation for Marquee HTTP handlers.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidationError describes a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NonEmptyString validates that value is not empty or whitespace-only.
func NonEmptyString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// MaxLength validates that value does not exceed max rune count.
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", max)}
	}
	return nil
}

var codeRE = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]*$`)

// AccessCode validates the shape of a redeemable access code: alphanumeric
// (hyphens and underscores allowed), 1–64 characters. Shape is checked before
// any database lookup so junk input never reaches the store.
func AccessCode(field, value string) error {
	if err := NonEmptyString(field, value); err != nil {
		return err
	}
	if err := MaxLength(field, value, 64); err != nil {
		return err
	}
	if !codeRE.MatchString(value) {
		return &ValidationError{Field: field, Message: "must be alphanumeric (hyphens and underscores allowed)"}
	}
	return nil
}

// MovieID validates and parses a TMDB movie identifier from a path segment.
// TMDB IDs are positive integers.
func MovieID(field, value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return id, nil
}

// SearchQuery validates a movie search query: non-empty, at most 200 runes,
// no null bytes.
func SearchQuery(field, value string) error {
	if err := NonEmptyString(field, value); err != nil {
		return err
	}
	if err := MaxLength(field, value, 200); err != nil {
		return err
	}
	if strings.ContainsRune(value, 0) {
		return &ValidationError{Field: field, Message: "must not contain null bytes"}
	}
	return nil
}
