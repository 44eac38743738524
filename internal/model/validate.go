package model

import (
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateExperiment checks an Experiment for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the record is valid.
func ValidateExperiment(e *Experiment) error {
	var ve ValidationError

	if strings.TrimSpace(e.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(e.ExpParameter) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "expParameter", Message: "is required"})
	}
	if strings.TrimSpace(e.UserGroup) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "userGroup", Message: "is required"})
	}
	if e.LiveDate.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "liveDate", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateVersion checks a Version for constraint violations.
func ValidateVersion(v *Version) error {
	var ve ValidationError

	if v.ExperimentID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "experimentId", Message: "is required"})
	}
	if v.ChangeDate.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "changeDate", Message: "is required"})
	}
	if strings.TrimSpace(v.Changes) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "changes", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
