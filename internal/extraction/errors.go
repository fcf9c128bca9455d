package extraction

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrExtractionFailed  = errors.New("text extraction failed")
)

// UnsupportedFormatError is returned when the declared media type cannot be decoded.
type UnsupportedFormatError struct {
	MediaType string
	FileName  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.MediaType == "" {
		return "unsupported document format: no media type declared"
	}
	return fmt.Sprintf("unsupported document format %q", e.MediaType)
}

// Is reports whether target is ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// FileTooLargeError is returned when a document exceeds the configured size ceiling.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

// Is reports whether target is ErrFileTooLarge.
func (e *FileTooLargeError) Is(target error) bool {
	return target == ErrFileTooLarge
}

// ExtractionError is returned when the bytes do not conform to the declared format.
type ExtractionError struct {
	MediaType string
	FileName  string
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s document: %v", e.MediaType, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s document", e.MediaType)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrExtractionFailed.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
