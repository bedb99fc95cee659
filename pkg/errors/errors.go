package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures manifest validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PreconditionError aborts a run before any probing happens: the manifest is
// missing, unreadable, or describes a project this tool does not manage.
// It is the only error class that escalates to immediate termination.
type PreconditionError struct {
	Reason string
	Err    error
}

// NewPreconditionError constructs a PreconditionError.
func NewPreconditionError(reason string, err error) error {
	return &PreconditionError{Reason: reason, Err: err}
}

func (e *PreconditionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("precondition failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}

// Unwrap exposes the root error.
func (e *PreconditionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StepError represents a runtime failure while executing a remediation step.
// Step errors are recorded on the step's outcome and never abort the run;
// only the aggregate run status reflects them.
type StepError struct {
	StepID string
	Err    error
}

// NewStepError constructs a StepError.
func NewStepError(stepID string, err error) error {
	return &StepError{StepID: stepID, Err: err}
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	if e.StepID != "" {
		return fmt.Sprintf("step %s failed: %v", e.StepID, e.Err)
	}
	return fmt.Sprintf("step failed: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
