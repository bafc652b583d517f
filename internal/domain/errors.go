package domain

import (
	"errors"
	"math"
	"sort"
	"strings"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCounts reports A/B counts that cannot describe a real experiment.
	ErrInvalidCounts = errors.New("invalid conversion counts")
	// ErrNotFound reports a lookup of a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTestEnded reports a change to an A/B test that has already completed.
	ErrTestEnded = errors.New("test already ended")
)

// ValidationError carries per-field messages for form-level display.
type ValidationError struct {
	Fields map[string]string
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

func (e *ValidationError) Unwrap() error { return ErrValidation }

type validator struct {
	fields map[string]string
}

func (v *validator) add(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = msg
	}
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

// amount rejects money values that are negative or not finite.
func (v *validator) amount(field string, x float64) {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		v.add(field, "must be a finite number")
	case x < 0:
		v.add(field, "must not be negative")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
