// Package analysis runs the resume-to-job matching pipeline: extract,
// tokenize, extract keywords and skills, match, score and recommend.
package analysis

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/ingestion"
	"github.com/jonathan/ats-matcher/internal/keywords"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/recommend"
	"github.com/jonathan/ats-matcher/internal/searchability"
	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/tokenize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// WarnLowSignal marks a job description too sparse for reliable scores.
const WarnLowSignal = "low_signal"

// Warning is a non-fatal condition attached to a Report.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is the outcome of one analysis.
type Report struct {
	Result        types.AnalysisResult `json:"result"`
	ResumeText    string               `json:"-"`
	Warnings      []Warning            `json:"warnings,omitempty"`
	Searchability searchability.Report `json:"searchability"`
}

// HasWarning reports whether the report carries a warning with code.
func (r *Report) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Engine analyzes resumes against job descriptions. It holds only read-only
// state and is safe for concurrent use.
type Engine struct {
	cfg       config.EngineConfig
	tax       *taxonomy.Taxonomy
	tokenizer *tokenize.Tokenizer
	matcher   *matching.Matcher
	kwOpts    keywords.Options
	weights   matching.Weights
	recOpts   recommend.Options
}

// New builds an Engine. Zero fields of cfg take DefaultEngineConfig values
// and a nil tax selects the embedded taxonomy.
func New(cfg config.EngineConfig, tax *taxonomy.Taxonomy) (*Engine, error) {
	cfg = cfg.MergeWithDefaults(config.DefaultEngineConfig())
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if tax == nil {
		tax = taxonomy.Default()
	}

	return &Engine{
		cfg:       cfg,
		tax:       tax,
		tokenizer: tokenize.New(tax, cfg.MaxNGrams),
		matcher:   matching.New(tax),
		kwOpts: keywords.Options{
			LeadWindow:  cfg.LeadWindow,
			LeadBoost:   cfg.LeadBoost,
			MaxKeywords: cfg.MaxKeywords,
			Taxonomy:    tax,
		},
		weights: matching.Weights{
			High:   cfg.WeightHigh,
			Medium: cfg.WeightMedium,
			Low:    cfg.WeightLow,
			Blend:  cfg.KeywordBlend,
		},
		recOpts: recommend.Options{
			Max:         cfg.MaxRecommendations,
			LowCoverage: cfg.LowCoverage,
		},
	}, nil
}

// Config returns the effective engine configuration.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// Taxonomy returns the taxonomy the engine matches against.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// Validate runs the checks Analyze performs before extraction: a non-blank
// job title, the upload size limit and a supported media type. Queued
// submissions call it before the document is stored.
func (e *Engine) Validate(doc types.RawDocument, jobTitle string) error {
	if strings.TrimSpace(jobTitle) == "" {
		return invalidInput("validate", "job title is required")
	}
	if err := extraction.Validate(doc, e.cfg.MaxUploadBytes); err != nil {
		return documentError("validate", err)
	}
	return nil
}

// Analyze scores doc against a job posting.
//
// The job title is required; an empty description is accepted and yields a
// keyword score of 100 with a WarnLowSignal warning. Failures are returned
// as *Error and match ErrUnsupportedFormat, ErrFileTooLarge,
// ErrExtractionFailed or ErrInvalidInput with errors.Is.
func (e *Engine) Analyze(doc types.RawDocument, jobTitle, jobDescription string) (*Report, error) {
	if err := e.Validate(doc, jobTitle); err != nil {
		return nil, err
	}

	resumeText, err := extraction.Extract(doc, e.cfg.MaxTextChars)
	if err != nil {
		return nil, documentError("extract", err)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, invalidInput("extract", "resume contains no extractable text")
	}

	jobText := ingestion.PrepareJobText(jobDescription)

	job := e.tokenizer.Tokenize(jobText)
	resume := e.tokenizer.Tokenize(resumeText)

	jobKeywords := keywords.ExtractKeywords(job, e.kwOpts)
	skills := keywords.ExtractSkills(resume, job, e.tax)
	matched, missing := e.matcher.Match(resume, jobKeywords)
	scores := matching.Score(matched, missing, skills, e.weights)

	checks := searchability.Check(resumeText)
	recs := recommend.Recommend(missing, skills, e.recOpts)
	recs = recommend.WithSearchability(recs, checks, e.recOpts.Max)

	result, err := types.NewAnalysisResult(scores.ATS, scores.Keyword, scores.Skills, matched, missing, skills, recs)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis result: %w", err)
	}

	return &Report{
		Result:        result,
		ResumeText:    resumeText,
		Warnings:      e.warnings(jobText, len(jobKeywords)),
		Searchability: checks,
	}, nil
}

func (e *Engine) warnings(jobText string, keywordCount int) []Warning {
	switch {
	case strings.TrimSpace(jobText) == "":
		return []Warning{{Code: WarnLowSignal, Message: "job description is empty; scores are not meaningful"}}
	case keywordCount < e.cfg.MinJobKeywords:
		return []Warning{{Code: WarnLowSignal, Message: fmt.Sprintf(
			"job description yielded only %d keywords; scores may be unreliable", keywordCount)}}
	default:
		return nil
	}
}
