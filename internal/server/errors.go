// Package server provides the HTTP API for resume analysis.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/db"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrAnalysisNotFound indicates the analysis does not exist
type ErrAnalysisNotFound struct {
	ID uuid.UUID
}

func (e *ErrAnalysisNotFound) Error() string {
	return fmt.Sprintf("analysis not found: %s", e.ID)
}

// ErrAsyncDisabled is returned when queued analysis has no storage or broker configured.
var ErrAsyncDisabled = errors.New("queued analysis is not configured")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		notFound   *ErrAnalysisNotFound
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrAsyncDisabled):
		return http.StatusServiceUnavailable
	}

	switch analysis.KindOf(err) {
	case analysis.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case analysis.KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case analysis.KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case analysis.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorKind returns the machine-readable kind reported alongside an error message.
func errorKind(err error) string {
	if kind := analysis.KindOf(err); kind != "" {
		return string(kind)
	}
	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		return string(analysis.KindInvalidInput)
	case http.StatusRequestEntityTooLarge:
		return string(analysis.KindFileTooLarge)
	case http.StatusNotFound:
		return "not_found"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}
