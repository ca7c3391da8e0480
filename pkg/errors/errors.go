// Package errors provides structured error types used across the
// application. We prefer these over raw fmt.Errorf strings to enable
// reliable checks with errors.Is / errors.As and to carry minimal
// context about the failure.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates invalid input or configuration provided by
// a caller: a malformed preset, an out-of-range threshold, a bad
// metrics file.
type ValidationError struct {
	Op  string // where it happened (package.Function)
	Msg string // human friendly message
	Err error  // underlying cause (optional)
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error     { return e.Err }
func (e *ValidationError) Operation() string { return e.Op }
func (e *ValidationError) Message() string   { return e.Msg }

func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// DBError represents report database access failures.
type DBError struct {
	Op  string
	Msg string
	Err error
}

func (e *DBError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("db: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("db: %s: %s", e.Op, e.Msg)
}

func (e *DBError) Unwrap() error     { return e.Err }
func (e *DBError) Operation() string { return e.Op }
func (e *DBError) Message() string   { return e.Msg }

func NewDB(op, msg string, err error) error { return &DBError{Op: op, Msg: msg, Err: err} }

// ExternalToolError represents failures in processes the engine shells
// out to, currently only exiftool.
type ExternalToolError struct {
	Op   string
	Msg  string
	Err  error
	Tool string
}

func (e *ExternalToolError) Error() string {
	if e == nil {
		return "<nil>"
	}
	tool := e.Tool
	if tool == "" {
		tool = "external"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", tool, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", tool, e.Op, e.Msg)
}

func (e *ExternalToolError) Unwrap() error     { return e.Err }
func (e *ExternalToolError) Operation() string { return e.Op }
func (e *ExternalToolError) Message() string   { return e.Msg }

func NewExternalTool(op, tool, msg string, err error) error {
	return &ExternalToolError{Op: op, Tool: tool, Msg: msg, Err: err}
}

// IsKind helpers: allow callers to check error kind without type
// assertions. Example: if errors.Is(err, errors.ErrValidation) { ... }
var (
	ErrValidation = &ValidationError{}
	ErrDB         = &DBError{}
	ErrExternal   = &ExternalToolError{}
)

// Is enables errors.Is(err, ErrValidation) via errors.As semantics.
// We delegate to errors.As with the zero-value pointer of each type.
func Is(err, target error) bool {
	if err == nil || target == nil {
		return errors.Is(err, target)
	}
	switch target.(type) {
	case *ValidationError:
		var v *ValidationError
		return errors.As(err, &v)
	case *DBError:
		var d *DBError
		return errors.As(err, &d)
	case *ExternalToolError:
		var ex *ExternalToolError
		return errors.As(err, &ex)
	default:
		return errors.Is(err, target)
	}
}
