// Package errors provides structured error types for deckfit.
//
// Layout and fitting never fail: they degrade to safe defaults. The errors in
// this package belong to the outer surfaces (content loading, skin lookup,
// pipeline options, the HTTP API) where a caller needs a machine-readable
// reason.
//
// # Error Codes
//
// Every code belongs to a [Class]: INVALID_* codes are validation
// failures, *NOT_FOUND codes are missing resources, UNSUPPORTED is a valid
// request for something not built and everything else is internal. The HTTP
// API maps classes to status codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidContent, "card %d has no title", i)
//	if errors.Is(err, errors.ErrCodeInvalidContent) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidSkin, origErr, "decode skin file %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidContent Code = "INVALID_CONTENT"
	ErrCodeInvalidSkin    Code = "INVALID_SKIN"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidTable   Code = "INVALID_TABLE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by how a caller should react.
type Class int

const (
	ClassInternal Class = iota
	ClassValidation
	ClassNotFound
	ClassUnsupported
)

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidContent, ErrCodeInvalidSkin,
		ErrCodeInvalidFormat, ErrCodeInvalidTable:
		return ClassValidation
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ClassNotFound
	case ErrCodeUnsupported:
		return ClassUnsupported
	}
	return ClassInternal
}

// Error carries a code, a message safe to show to users and an optional
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for other errors.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries one of the INVALID_* codes.
func IsValidation(err error) bool {
	e, ok := find(err)
	return ok && e.Code.Class() == ClassValidation
}
