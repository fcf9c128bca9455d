package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/observability"
	"github.com/jonathan/ats-matcher/internal/searchability"
	"github.com/jonathan/ats-matcher/internal/storage"
	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/jonathan/ats-matcher/internal/worker"
)

// Multipart form field names.
const (
	fieldResume         = "resume"
	fieldJobTitle       = "jobTitle"
	fieldJobDescription = "jobDescription"
)

const (
	// formOverhead is the room left beyond the upload limit for the text
	// fields and multipart framing.
	formOverhead    = 1 << 20
	multipartMemory = 8 << 20
	sniffLen        = 3072
)

// submission is a parsed analysis upload.
type submission struct {
	doc            types.RawDocument
	jobTitle       string
	jobDescription string
}

// readSubmission parses the multipart upload. The resume is read up to one
// byte past the engine's limit so oversized files still fail size validation.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (*submission, error) {
	maxUpload := s.engine.Config().MaxUploadBytes
	maxBody := maxUpload + formOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		if r.ContentLength > maxBody {
			return nil, &http.MaxBytesError{Limit: maxBody}
		}
		return nil, &ErrValidation{Field: fieldResume, Message: "request must be multipart/form-data"}
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile(fieldResume)
	if err != nil {
		return nil, &ErrValidation{Field: fieldResume, Message: "file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	sub := &submission{
		jobTitle:       strings.TrimSpace(r.FormValue(fieldJobTitle)),
		jobDescription: r.FormValue(fieldJobDescription),
	}
	if sub.jobTitle == "" {
		return nil, &ErrValidation{Field: fieldJobTitle, Message: "is required"}
	}
	if strings.TrimSpace(sub.jobDescription) == "" {
		return nil, &ErrValidation{Field: fieldJobDescription, Message: "is required"}
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	sub.doc = types.RawDocument{
		Data:      data,
		MediaType: extraction.ResolveMediaType(header.Header.Get("Content-Type"), header.Filename, head),
		FileName:  header.Filename,
	}
	return sub, nil
}

func (sub *submission) input() *db.AnalysisInput {
	return &db.AnalysisInput{
		FileName:       sub.doc.FileName,
		FileSize:       sub.doc.Size(),
		MediaType:      sub.doc.BaseMediaType(),
		JobTitle:       sub.jobTitle,
		JobDescription: sub.jobDescription,
	}
}

// analyzeResponse flattens the result next to the record ID.
type analyzeResponse struct {
	ID uuid.UUID `json:"id"`
	types.AnalysisResult
	Band          string               `json:"band"`
	Warnings      []analysis.Warning   `json:"warnings,omitempty"`
	Searchability searchability.Report `json:"searchability"`
}

func newAnalyzeResponse(id uuid.UUID, report *analysis.Report) analyzeResponse {
	return analyzeResponse{
		ID:             id,
		AnalysisResult: report.Result,
		Band:           report.Result.Band(),
		Warnings:       report.Warnings,
		Searchability:  report.Searchability,
	}
}

// handleAnalyze analyzes an uploaded resume synchronously and stores the result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sub, err := s.readSubmission(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report, err := s.engine.Analyze(sub.doc, sub.jobTitle, sub.jobDescription)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id, err := s.store.SaveAnalysis(r.Context(), sub.input(), report, s.engine.Taxonomy().Version())
	if err != nil {
		s.fail(w, r, fmt.Errorf("failed to save analysis: %w", err))
		return
	}

	observability.Ctx(r.Context()).Info().
		Str("analysis_id", id.String()).
		Int("ats_score", report.Result.ATSScore).
		Str("media_type", sub.doc.BaseMediaType()).
		Msg("analysis completed")

	s.jsonResponse(w, http.StatusOK, newAnalyzeResponse(id, report))
}

// handleSubmitAnalysis stores the upload, creates a pending record and queues it.
func (s *Server) handleSubmitAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.objects == nil || s.queue == nil {
		s.fail(w, r, ErrAsyncDisabled)
		return
	}

	sub, err := s.readSubmission(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.engine.Validate(sub.doc, sub.jobTitle); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	in := sub.input()
	in.ID = uuid.New()
	in.ObjectKey = storage.ObjectKey(in.ID, in.FileName)

	if err := s.objects.Upload(ctx, in.ObjectKey, sub.doc.Data, in.MediaType); err != nil {
		s.fail(w, r, fmt.Errorf("failed to store resume: %w", err))
		return
	}
	if _, err := s.store.CreateAnalysis(ctx, in); err != nil {
		s.discardUpload(ctx, in.ObjectKey)
		s.fail(w, r, fmt.Errorf("failed to create analysis: %w", err))
		return
	}

	job := worker.Job{
		AnalysisID:     in.ID,
		ObjectKey:      in.ObjectKey,
		Mime:           in.MediaType,
		FileName:       in.FileName,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		if delErr := s.store.DeleteAnalysis(ctx, in.ID); delErr != nil {
			observability.Ctx(ctx).Warn().Err(delErr).Str("analysis_id", in.ID.String()).Msg("failed to remove unqueued analysis")
		}
		s.discardUpload(ctx, in.ObjectKey)
		s.fail(w, r, fmt.Errorf("failed to queue analysis: %w", err))
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"id":     in.ID.String(),
		"status": db.StatusPending,
		"events": "/api/analyses/" + in.ID.String() + "/events",
	})
}

func (s *Server) discardUpload(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil {
		observability.Ctx(ctx).Warn().Err(err).Str("object_key", key).Msg("failed to delete stored resume")
	}
}

// parseAnalysisID reads the {id} path value.
func parseAnalysisID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// loadAnalysis fetches a record, turning a missing one into ErrAnalysisNotFound.
func (s *Server) loadAnalysis(ctx context.Context, id uuid.UUID) (*db.AnalysisRecord, error) {
	rec, err := s.store.GetAnalysis(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	if rec == nil {
		return nil, &ErrAnalysisNotFound{ID: id}
	}
	return rec, nil
}

// handleGetAnalysis returns a stored analysis.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := parseAnalysisID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.loadAnalysis(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleListAnalyses lists analyses newest first, optionally filtered by status.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	filters := db.AnalysisFilters{Status: r.URL.Query().Get("status")}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		filters.Limit = limit
	}

	switch filters.Status {
	case "", db.StatusPending, db.StatusProcessing, db.StatusCompleted, db.StatusFailed:
	default:
		s.fail(w, r, &ErrValidation{Field: "status", Message: "must be one of pending, processing, completed, failed"})
		return
	}

	analyses, err := s.store.ListAnalyses(r.Context(), filters)
	if err != nil {
		s.fail(w, r, fmt.Errorf("failed to list analyses: %w", err))
		return
	}
	if analyses == nil {
		analyses = []db.AnalysisSummary{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// handleDeleteAnalysis removes a stored analysis.
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := parseAnalysisID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.store.DeleteAnalysis(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = &ErrAnalysisNotFound{ID: id}
		}
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// analysisEvent is one status event on the analysis stream.
type analysisEvent struct {
	ID           uuid.UUID `json:"id"`
	Status       string    `json:"status"`
	ATSScore     *int      `json:"ats_score,omitempty"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

func newAnalysisEvent(rec *db.AnalysisRecord) analysisEvent {
	ev := analysisEvent{ID: rec.ID, Status: rec.Status}
	if rec.Result != nil {
		score := rec.Result.ATSScore
		ev.ATSScore = &score
	}
	if rec.ErrorKind != nil {
		ev.ErrorKind = *rec.ErrorKind
	}
	if rec.ErrorMessage != nil {
		ev.ErrorMessage = *rec.ErrorMessage
	}
	return ev
}

func isTerminal(status string) bool {
	return status == db.StatusCompleted || status == db.StatusFailed
}

// handleAnalysisEvents streams status changes of a queued analysis until it
// completes or fails.
func (s *Server) handleAnalysisEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseAnalysisID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	rec, err := s.loadAnalysis(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	lastStatus := ""
	for {
		if rec.Status != lastStatus {
			if err := sse.WriteEvent("status", newAnalysisEvent(rec)); err != nil {
				return
			}
			lastStatus = rec.Status
		}
		if isTerminal(rec.Status) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rec, err = s.loadAnalysis(ctx, id)
		if err != nil {
			if HTTPStatus(err) == http.StatusNotFound {
				sse.WriteError("analysis was deleted")
			} else {
				observability.Ctx(ctx).Error().Err(err).Str("analysis_id", id.String()).Msg("event stream failed")
				sse.WriteError("failed to load analysis")
			}
			return
		}
	}
}

// handleTaxonomy describes the skill taxonomy in use.
func (s *Server) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	tax := s.engine.Taxonomy()
	categories := make([]string, 0, len(tax.Categories()))
	for _, c := range tax.Categories() {
		categories = append(categories, c.DisplayName())
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"version":    tax.Version(),
		"categories": categories,
		"terms":      tax.TermCount(),
	})
}
