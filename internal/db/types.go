package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-matcher/internal/analysis"
	"github.com/jonathan/ats-matcher/internal/searchability"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Analysis status values
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DefaultListLimit and MaxListLimit bound ListAnalyses.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// AnalysisInput describes the submission an analysis record is created for.
type AnalysisInput struct {
	ID             uuid.UUID // generated when uuid.Nil
	FileName       string
	FileSize       int64
	MediaType      string
	ObjectKey      string // set for queued analyses
	JobTitle       string
	JobDescription string
}

// AnalysisRecord is a stored analysis.
type AnalysisRecord struct {
	ID              uuid.UUID             `json:"id"`
	Status          string                `json:"status"`
	FileName        string                `json:"file_name"`
	FileSize        int64                 `json:"file_size"`
	MediaType       string                `json:"media_type"`
	ObjectKey       *string               `json:"object_key,omitempty"`
	JobTitle        string                `json:"job_title"`
	JobDescription  string                `json:"job_description"`
	ResumeText      *string               `json:"resume_text,omitempty"`
	Result          *types.AnalysisResult `json:"result,omitempty"`
	Warnings        []analysis.Warning    `json:"warnings,omitempty"`
	Searchability   *searchability.Report `json:"searchability,omitempty"`
	TaxonomyVersion *string               `json:"taxonomy_version,omitempty"`
	ErrorKind       *string               `json:"error_kind,omitempty"`
	ErrorMessage    *string               `json:"error_message,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty"`
}

// AnalysisSummary is a lightweight view of an analysis for listing
type AnalysisSummary struct {
	ID           uuid.UUID  `json:"id"`
	Status       string     `json:"status"`
	FileName     string     `json:"file_name"`
	JobTitle     string     `json:"job_title"`
	ATSScore     *int       `json:"ats_score,omitempty"`
	KeywordScore *int       `json:"keyword_score,omitempty"`
	SkillsScore  *int       `json:"skills_score,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// AnalysisFilters holds optional filters for listing analyses
type AnalysisFilters struct {
	Status string
	Limit  int
}

// normalizedLimit clamps Limit into [1, MaxListLimit], defaulting to DefaultListLimit.
func (f AnalysisFilters) normalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}
