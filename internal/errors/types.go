// Package errors defines the structured error taxonomy used across mdn.
//
// A pass distinguishes non-fatal diagnostics (a marker whose component is
// missing from the document metadata) from fatal failures (a render that
// cannot complete, a custom filter module that cannot be loaded). Both are
// carried as *Error so callers can log and classify them uniformly.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeResolve    ErrorType = "resolve"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeFilter     ErrorType = "filter"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeValidation ErrorType = "validation"
)

// Common error codes.
const (
	ErrCodeComponentNotFound = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeTemplateNotFound  = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeTemplateParse     = "ERR_TEMPLATE_PARSE"
	ErrCodeRenderFailed      = "ERR_RENDER_FAILED"
	ErrCodeMissingLayout     = "ERR_MISSING_LAYOUT"
	ErrCodeFilterLoad        = "ERR_FILTER_LOAD"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodePathTraversal     = "ERR_PATH_TRAVERSAL"
	ErrCodeFrontMatter       = "ERR_FRONT_MATTER"
	ErrCodeFileRead          = "ERR_FILE_READ"
	ErrCodeFileWrite         = "ERR_FILE_WRITE"
)

// Sentinels usable with errors.Is.
var (
	ErrTemplateNotFound  = &Error{Type: ErrorTypeRender, Code: ErrCodeTemplateNotFound}
	ErrComponentNotFound = &Error{Type: ErrorTypeResolve, Code: ErrCodeComponentNotFound}
)

// Error is a structured error type with context.
type Error struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component

	return e
}

// WithFile adds the owning document or file path.
func (e *Error) WithFile(path string) *Error {
	e.FilePath = path

	return e
}

// NewUnresolvedComponent reports a marker whose component name has no
// record in the document metadata. It is never fatal.
func NewUnresolvedComponent(name, document string) *Error {
	return &Error{
		Type:        ErrorTypeResolve,
		Code:        ErrCodeComponentNotFound,
		Message:     fmt.Sprintf("a component named %s could not be found", name),
		Component:   name,
		FilePath:    document,
		Recoverable: true,
	}
}

// NewTemplateNotFound reports a layout identifier that no renderer knows.
func NewTemplateNotFound(layout string) *Error {
	return &Error{
		Type:    ErrorTypeRender,
		Code:    ErrCodeTemplateNotFound,
		Message: fmt.Sprintf("template not found: %s", layout),
	}
}

// NewRenderFailure wraps a failed render of a resolved component.
func NewRenderFailure(layout, component, document string, cause error) *Error {
	return &Error{
		Type:      ErrorTypeRender,
		Code:      ErrCodeRenderFailed,
		Message:   fmt.Sprintf("error rendering component with layout %q", layout),
		Cause:     cause,
		Component: component,
		FilePath:  document,
	}
}

// NewMissingLayout reports a component record without a usable layout field.
func NewMissingLayout(component string) *Error {
	return &Error{
		Type:      ErrorTypeRender,
		Code:      ErrCodeMissingLayout,
		Message:   "component record has no string layout field",
		Component: component,
	}
}

// NewFilterLoadFailure reports a custom filter module that could not be loaded.
func NewFilterLoadFailure(path string, cause error) *Error {
	return &Error{
		Type:     ErrorTypeFilter,
		Code:     ErrCodeFilterLoad,
		Message:  "cannot load custom filters module",
		Cause:    cause,
		FilePath: path,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *Error {
	return &Error{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// IsFatal reports whether err must abort a pass. Anything that is not a
// recoverable *Error is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return !e.Recoverable
	}

	return true
}

// IsTemplateNotFound reports whether err was caused by a missing template.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsUnresolved reports whether err is an unresolved component diagnostic.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrComponentNotFound)
}

// Logger is the subset of logging.Logger the error helpers need.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// Report logs err at a level matching its severity.
func Report(ctx context.Context, logger Logger, err error) {
	if err == nil || logger == nil {
		return
	}

	var e *Error
	if !errors.As(err, &e) {
		logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	fields := []interface{}{"type", e.Type, "code", e.Code}
	if e.Component != "" {
		fields = append(fields, "component", e.Component)
	}
	if e.FilePath != "" {
		fields = append(fields, "file", e.FilePath)
	}

	if e.Recoverable {
		logger.Warn(ctx, err, e.Message, fields...)
		return
	}
	logger.Error(ctx, err, e.Message, fields...)
}
