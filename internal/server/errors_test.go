package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/extraction"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "jobTitle", Message: "is required"}
	assert.Equal(t, "validation error: jobTitle - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	assert.Equal(t, "invalid_input", errorKind(err))
}

func TestErrAnalysisNotFound(t *testing.T) {
	id := uuid.New()
	err := &ErrAnalysisNotFound{ID: id}
	assert.Equal(t, "analysis not found: "+id.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("delete: %w", db.ErrNotFound)))
	assert.Equal(t, "not_found", errorKind(err))
}

func TestHTTPStatus_AnalysisKinds(t *testing.T) {
	tests := []struct {
		kind analysis.Kind
		want int
	}{
		{analysis.KindUnsupportedFormat, http.StatusUnsupportedMediaType},
		{analysis.KindFileTooLarge, http.StatusRequestEntityTooLarge},
		{analysis.KindExtractionFailed, http.StatusUnprocessableEntity},
		{analysis.KindInvalidInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &analysis.Error{Kind: tt.kind, Op: "extract"})
			assert.Equal(t, tt.want, HTTPStatus(err))
			assert.Equal(t, string(tt.kind), errorKind(err))
		})
	}
}

func TestHTTPStatus_Other(t *testing.T) {
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(&http.MaxBytesError{Limit: 10}))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrAsyncDisabled))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
	assert.Equal(t, "internal", errorKind(errors.New("boom")))

	// Raw extraction sentinels are only mapped once the engine classifies them.
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(extraction.ErrUnsupportedFormat))
}
