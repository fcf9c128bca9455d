package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/schemas"
)

// -----------------------------------------------------------------------------
// Analysis Methods
// -----------------------------------------------------------------------------

const analysisColumns = `id, status, file_name, file_size, media_type, object_key, job_title,
	job_description, resume_text, result, warnings, searchability, taxonomy_version,
	error_kind, error_message, created_at, completed_at`

// encodedReport holds the JSONB columns derived from an analysis report.
type encodedReport struct {
	result        []byte
	warnings      []byte
	searchability []byte
}

// encodeReport marshals a report and checks the result against the
// analysis_result schema so stored rows always decode.
func encodeReport(report *analysis.Report) (*encodedReport, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}
	result, err := json.Marshal(report.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := schemas.Validate(schemas.AnalysisResult, result); err != nil {
		return nil, fmt.Errorf("result failed validation: %w", err)
	}

	warnings := report.Warnings
	if warnings == nil {
		warnings = []analysis.Warning{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}
	search, err := json.Marshal(report.Searchability)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal searchability: %w", err)
	}
	return &encodedReport{result: result, warnings: warningsJSON, searchability: search}, nil
}

// CreateAnalysis inserts a pending analysis record and returns its ID.
func (db *DB) CreateAnalysis(ctx context.Context, in *AnalysisInput) (uuid.UUID, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO analyses (id, status, file_name, file_size, media_type, object_key, job_title, job_description)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`,
		id, StatusPending, in.FileName, in.FileSize, in.MediaType, in.ObjectKey, in.JobTitle, in.JobDescription,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create analysis: %w", err)
	}
	return id, nil
}

// SaveAnalysis stores a finished analysis in one statement and returns its ID.
func (db *DB) SaveAnalysis(ctx context.Context, in *AnalysisInput, report *analysis.Report, taxonomyVersion string) (uuid.UUID, error) {
	enc, err := encodeReport(report)
	if err != nil {
		return uuid.Nil, err
	}

	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	r := report.Result
	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, status, file_name, file_size, media_type, object_key, job_title,
		        job_description, resume_text, ats_score, keyword_score, skills_score,
		        result, warnings, searchability, taxonomy_version, completed_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())`,
		id, StatusCompleted, in.FileName, in.FileSize, in.MediaType, in.ObjectKey, in.JobTitle,
		in.JobDescription, report.ResumeText, r.ATSScore, r.KeywordScore, r.SkillsScore,
		enc.result, enc.warnings, enc.searchability, taxonomyVersion,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// MarkProcessing moves a pending analysis to processing. It returns
// ErrNotFound when no pending record with id exists, so a redelivered
// message is not processed twice.
func (db *DB) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE analyses SET status = $1 WHERE id = $2 AND status = $3`,
		StatusProcessing, id, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark analysis processing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("pending analysis %s: %w", id, ErrNotFound)
	}
	return nil
}

// CompleteAnalysis stores the report of a queued analysis.
func (db *DB) CompleteAnalysis(ctx context.Context, id uuid.UUID, report *analysis.Report, taxonomyVersion string) error {
	enc, err := encodeReport(report)
	if err != nil {
		return err
	}

	r := report.Result
	result, err := db.pool.Exec(ctx,
		`UPDATE analyses
		 SET status = $1, resume_text = $2, ats_score = $3, keyword_score = $4, skills_score = $5,
		     result = $6, warnings = $7, searchability = $8, taxonomy_version = $9,
		     error_kind = NULL, error_message = NULL, completed_at = NOW()
		 WHERE id = $10`,
		StatusCompleted, report.ResumeText, r.ATSScore, r.KeywordScore, r.SkillsScore,
		enc.result, enc.warnings, enc.searchability, taxonomyVersion, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return nil
}

// FailAnalysis records a terminal failure for a queued analysis.
func (db *DB) FailAnalysis(ctx context.Context, id uuid.UUID, kind, message string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE analyses SET status = $1, error_kind = $2, error_message = $3, completed_at = NOW()
		 WHERE id = $4`,
		StatusFailed, kind, message, id,
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis failure: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID. It returns nil, nil when none exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var resultJSON, warningsJSON, searchJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Status, &rec.FileName, &rec.FileSize, &rec.MediaType, &rec.ObjectKey,
		&rec.JobTitle, &rec.JobDescription, &rec.ResumeText, &resultJSON, &warningsJSON,
		&searchJSON, &rec.TaxonomyVersion, &rec.ErrorKind, &rec.ErrorMessage,
		&rec.CreatedAt, &rec.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := decodeJSONColumns(&rec, resultJSON, warningsJSON, searchJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

// decodeJSONColumns fills the JSONB-backed fields of rec. NULL columns are left unset.
func decodeJSONColumns(rec *AnalysisRecord, resultJSON, warningsJSON, searchJSON []byte) error {
	if resultJSON != nil {
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return fmt.Errorf("failed to decode stored result: %w", err)
		}
	}
	if warningsJSON != nil {
		if err := json.Unmarshal(warningsJSON, &rec.Warnings); err != nil {
			return fmt.Errorf("failed to decode stored warnings: %w", err)
		}
	}
	if searchJSON != nil {
		if err := json.Unmarshal(searchJSON, &rec.Searchability); err != nil {
			return fmt.Errorf("failed to decode stored searchability: %w", err)
		}
	}
	return nil
}

// ListAnalyses retrieves recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, filters AnalysisFilters) ([]AnalysisSummary, error) {
	query := `SELECT id, status, file_name, job_title, ats_score, keyword_score, skills_score,
		created_at, completed_at
		FROM analyses WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.normalizedLimit())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := []AnalysisSummary{}
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.Status, &s.FileName, &s.JobTitle, &s.ATSScore,
			&s.KeywordScore, &s.SkillsScore, &s.CreatedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return summaries, nil
}

// DeleteAnalysis deletes an analysis record.
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return nil
}
