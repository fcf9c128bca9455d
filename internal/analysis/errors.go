package analysis

import (
	"errors"
	"fmt"

	"github.com/jonathan/ats-matcher/internal/extraction"
)

// Kind classifies an analysis failure.
type Kind string

// Failure kinds. Each is terminal for the request and never retried.
const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindFileTooLarge      Kind = "file_too_large"
	KindExtractionFailed  Kind = "extraction_failed"
	KindInvalidInput      Kind = "invalid_input"
)

// Sentinel errors for matching with errors.Is. The document sentinels are
// shared with the extraction package.
var (
	ErrUnsupportedFormat = extraction.ErrUnsupportedFormat
	ErrFileTooLarge      = extraction.ErrFileTooLarge
	ErrExtractionFailed  = extraction.ErrExtractionFailed
	ErrInvalidInput      = errors.New("invalid input")
)

var kindSentinels = map[Kind]error{
	KindUnsupportedFormat: ErrUnsupportedFormat,
	KindFileTooLarge:      ErrFileTooLarge,
	KindExtractionFailed:  ErrExtractionFailed,
	KindInvalidInput:      ErrInvalidInput,
}

// Error is returned by Engine.Analyze for every failure.
type Error struct {
	Kind Kind
	Op   string // stage that failed: validate, extract
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("analysis %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("analysis %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func invalidInput(op, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: errors.New(msg)}
}

// documentError classifies an extraction package error.
func documentError(op string, err error) *Error {
	kind := KindExtractionFailed
	switch {
	case errors.Is(err, extraction.ErrUnsupportedFormat):
		kind = KindUnsupportedFormat
	case errors.Is(err, extraction.ErrFileTooLarge):
		kind = KindFileTooLarge
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
