package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating an *Error if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *Error {
	if err == nil {
		return nil
	}

	// If it's already an *Error, preserve its location but update the message
	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       e,
			Context:     e.Context,
			Component:   e.Component,
			FilePath:    e.FilePath,
			Recoverable: e.Recoverable,
		}
	}

	return &Error{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeResolve,
	}
}

// WrapIO wraps an error as an I/O error for the given path
func WrapIO(err error, code, message, path string) *Error {
	e := Wrap(err, ErrorTypeIO, code, message)
	if e != nil {
		e.FilePath = path
		e.Recoverable = false
	}
	return e
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, message string) *Error {
	e := Wrap(err, ErrorTypeConfig, ErrCodeConfigInvalid, message)
	if e != nil {
		e.Recoverable = false
	}
	return e
}
