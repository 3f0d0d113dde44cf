// Package errors defines the structured error used across sdnctl: a code for
// machine output, a one-line message, an optional cause and a suggestion for
// the operator.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig   = "CONFIG"
	ErrNetwork  = "NETWORK"
	ErrHTTP     = "HTTP"
	ErrDecode   = "DECODE"
	ErrAction   = "ACTION"
	ErrStore    = "STORE"
	ErrValidate = "VALIDATE"
)

// Error is a categorized failure. It prints as:
//
//	✗ <message>
//
//	  <cause>
//
//	  <suggestion>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates an error without a cause.
func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap attaches message to err under ErrNetwork, the most common failure
// when talking to the backend.
func Wrap(err error, message string) *Error {
	return &Error{Code: ErrNetwork, Message: message, Cause: err}
}

// WrapWithCode attaches message and suggestion to err under code.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	for _, section := range []string{e.causeText(), e.Suggestion} {
		if section != "" {
			fmt.Fprintf(&b, "\n  %s\n", section)
		}
	}
	return b.String()
}

func (e *Error) causeText() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// As returns the first structured Error in err's chain.
func As(err error) (*Error, bool) {
	var sdnErr *Error
	if err == nil || !errors.As(err, &sdnErr) {
		return nil, false
	}
	return sdnErr, true
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	sdnErr, ok := As(err)
	return ok && sdnErr.Code == code
}

// SuggestionOf returns the suggestion of a structured error, or "".
func SuggestionOf(err error) string {
	if sdnErr, ok := As(err); ok {
		return sdnErr.Suggestion
	}
	return ""
}

// Summary returns the single-line message of a structured error, or err.Error()
// for anything else. Used where multi-line output doesn't fit (notifications).
func Summary(err error) string {
	if err == nil {
		return ""
	}
	sdnErr, ok := As(err)
	if !ok {
		return err.Error()
	}
	if sdnErr.Cause != nil {
		return sdnErr.Message + ": " + sdnErr.Cause.Error()
	}
	return sdnErr.Message
}
