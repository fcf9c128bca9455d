package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Error kinds recorded for failures outside the engine.
const (
	KindDownloadFailed = "download_failed"
	KindInternal       = "internal"
)

// Files fetches and removes uploaded resumes.
type Files interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Records tracks the lifecycle of queued analyses.
type Records interface {
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	CompleteAnalysis(ctx context.Context, id uuid.UUID, report *analysis.Report, taxonomyVersion string) error
	FailAnalysis(ctx context.Context, id uuid.UUID, kind, message string) error
}

// Publisher sends status updates.
type Publisher interface {
	Publish(ctx context.Context, update StatusUpdate) error
}

// Processor runs one job at a time; it is safe for concurrent use when its
// collaborators are.
type Processor struct {
	engine    *analysis.Engine
	files     Files
	records   Records
	publisher Publisher
	attempts  int
	backoff   time.Duration
	now       func() time.Time
}

// NewProcessor wires a Processor. Transient download and save failures are
// retried three times with linear backoff.
func NewProcessor(engine *analysis.Engine, files Files, records Records, publisher Publisher) *Processor {
	return &Processor{
		engine:    engine,
		files:     files,
		records:   records,
		publisher: publisher,
		attempts:  3,
		backoff:   500 * time.Millisecond,
		now:       time.Now,
	}
}

// Process runs job to completion. Input defects and downloads that still fail
// after retries are recorded as failed analyses and return nil, so the
// message is acked. Only a failed save returns an error.
func (p *Processor) Process(ctx context.Context, job Job) error {
	logger := log.With().Str("analysis_id", job.AnalysisID.String()).Str("object_key", job.ObjectKey).Logger()

	if err := p.records.MarkProcessing(ctx, job.AnalysisID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			logger.Warn().Msg("analysis is not pending, skipping duplicate delivery")
			return nil
		}
		return fmt.Errorf("failed to claim analysis: %w", err)
	}
	p.publish(ctx, StatusUpdate{AnalysisID: job.AnalysisID, Status: StatusProcessing, Message: "analysis started"})

	data, err := retry(ctx, p.attempts, p.backoff, func() ([]byte, error) {
		return p.files.Download(ctx, job.ObjectKey)
	})
	if err != nil {
		logger.Error().Err(err).Msg("resume download failed")
		return p.fail(ctx, job, KindDownloadFailed, "could not download the uploaded resume")
	}

	head := data
	if len(head) > 3072 {
		head = head[:3072]
	}
	doc := types.RawDocument{
		Data:      data,
		MediaType: extraction.ResolveMediaType(job.Mime, job.FileName, head),
		FileName:  job.FileName,
	}

	start := p.now()
	report, err := p.engine.Analyze(doc, job.JobTitle, job.JobDescription)
	if err != nil {
		kind := string(analysis.KindOf(err))
		if kind == "" {
			kind = KindInternal
		}
		logger.Warn().Err(err).Str("kind", kind).Msg("analysis failed")
		return p.fail(ctx, job, kind, err.Error())
	}

	version := p.engine.Taxonomy().Version()
	if _, err := retry(ctx, p.attempts, p.backoff, func() (struct{}, error) {
		return struct{}{}, p.records.CompleteAnalysis(ctx, job.AnalysisID, report, version)
	}); err != nil {
		_ = p.fail(ctx, job, KindInternal, "could not save the analysis result")
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	score := report.Result.ATSScore
	p.publish(ctx, StatusUpdate{
		AnalysisID: job.AnalysisID,
		Status:     StatusCompleted,
		Message:    "analysis completed",
		ATSScore:   &score,
	})
	logger.Info().
		Int("ats_score", score).
		Dur("elapsed", p.now().Sub(start)).
		Int("warnings", len(report.Warnings)).
		Msg("analysis completed")

	p.cleanup(ctx, job, logger)
	return nil
}

func (p *Processor) fail(ctx context.Context, job Job, kind, message string) error {
	defer p.cleanup(ctx, job, log.With().Str("analysis_id", job.AnalysisID.String()).Logger())

	p.publish(ctx, StatusUpdate{AnalysisID: job.AnalysisID, Status: StatusFailed, Message: message, ErrorKind: kind})
	if err := p.records.FailAnalysis(ctx, job.AnalysisID, kind, message); err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}
	return nil
}

func (p *Processor) publish(ctx context.Context, update StatusUpdate) {
	if p.publisher == nil {
		return
	}
	update.Timestamp = p.now().UTC()
	if err := p.publisher.Publish(ctx, update); err != nil {
		log.Warn().Err(err).Str("analysis_id", update.AnalysisID.String()).Msg("failed to publish status update")
	}
}

// cleanup removes the uploaded resume; it is never retained after analysis.
func (p *Processor) cleanup(ctx context.Context, job Job, logger zerolog.Logger) {
	if err := p.files.Delete(ctx, job.ObjectKey); err != nil {
		logger.Warn().Err(err).Msg("failed to delete uploaded resume")
	}
}

// retry calls fn up to attempts times, waiting backoff*(i+1) between tries.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < max(attempts, 1); i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", max(attempts, 1), lastErr)
}
