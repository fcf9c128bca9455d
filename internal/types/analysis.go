// Package types provides type definitions for structured data used throughout the ats-matcher system.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Priority ranks how important a job keyword is.
type Priority string

// Keyword priorities, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting; higher is more important.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority converts a string to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// KeywordTerm is a job keyword with its occurrence count and priority.
// For matched keywords Count is the resume occurrence count; otherwise it is the job count.
type KeywordTerm struct {
	Term     string   `json:"keyword" validate:"required"`
	Count    int      `json:"count" validate:"gte=0"`
	Priority Priority `json:"priority" validate:"oneof=high medium low"`
}

// SkillCategory is the resume's coverage of one taxonomy category.
// Relevant is the number of the category's terms that the job asks for;
// categories with Relevant == 0 do not contribute to the skills score.
type SkillCategory struct {
	Category string `json:"category" validate:"required"`
	Score    int    `json:"score" validate:"gte=0,lte=100"`
	Relevant int    `json:"relevant" validate:"gte=0"`
	Matched  int    `json:"matched" validate:"gte=0,ltefield=Relevant"`
}

// AnalysisResult is the compatibility report produced for one resume and job posting.
// Build it with NewAnalysisResult so ranges are enforced at construction.
type AnalysisResult struct {
	ATSScore        int             `json:"atsScore" validate:"gte=0,lte=100"`
	KeywordScore    int             `json:"keywordScore" validate:"gte=0,lte=100"`
	SkillsScore     int             `json:"skillsScore" validate:"gte=0,lte=100"`
	MatchedKeywords []KeywordTerm   `json:"matchedKeywords" validate:"dive"`
	MissingKeywords []KeywordTerm   `json:"missingKeywords" validate:"dive"`
	SkillsAnalysis  []SkillCategory `json:"skillsAnalysis" validate:"dive"`
	Recommendations []string        `json:"recommendations" validate:"min=1,dive,required"`
}

// Score bands used when presenting the headline score.
const (
	BandStrong = "strong"
	BandFair   = "fair"
	BandWeak   = "weak"
)

var resultValidator = validator.New()

// NewAnalysisResult copies its inputs into a new AnalysisResult and validates it.
// Slices are copied so later changes by the caller cannot alter the result.
func NewAnalysisResult(ats, keyword, skills int, matched, missing []KeywordTerm, categories []SkillCategory, recs []string) (AnalysisResult, error) {
	r := AnalysisResult{
		ATSScore:        ats,
		KeywordScore:    keyword,
		SkillsScore:     skills,
		MatchedKeywords: append(make([]KeywordTerm, 0, len(matched)), matched...),
		MissingKeywords: append(make([]KeywordTerm, 0, len(missing)), missing...),
		SkillsAnalysis:  append(make([]SkillCategory, 0, len(categories)), categories...),
		Recommendations: append(make([]string, 0, len(recs)), recs...),
	}
	if err := resultValidator.Struct(r); err != nil {
		return AnalysisResult{}, fmt.Errorf("invalid analysis result: %w", err)
	}
	return r, nil
}

// Band classifies the ATS score as strong (>= 80), fair (>= 60) or weak.
func (r AnalysisResult) Band() string {
	switch {
	case r.ATSScore >= 80:
		return BandStrong
	case r.ATSScore >= 60:
		return BandFair
	default:
		return BandWeak
	}
}
