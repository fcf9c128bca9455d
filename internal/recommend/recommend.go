// Package recommend turns keyword and skill gaps into ordered, human-readable
// suggestions. Every function here is pure.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/ats-matcher/internal/searchability"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Defaults for Options.
const (
	DefaultMax         = 10
	DefaultLowCoverage = 50
)

// Options tunes recommendation output.
type Options struct {
	// Max caps the number of recommendations.
	Max int
	// LowCoverage is the category score below which a category is called out.
	LowCoverage int
}

// DefaultOptions returns Max 10 and LowCoverage 50.
func DefaultOptions() Options {
	return Options{Max: DefaultMax, LowCoverage: DefaultLowCoverage}
}

// maxGroupedTerms bounds how many medium-priority keywords are listed in one suggestion.
const maxGroupedTerms = 5

var genericAdvice = []string{
	"Your resume already covers the key requirements. Mirror the job title and the exact wording of the posting in your summary.",
	"Use standard section headings such as Summary, Experience, Education and Skills so parsers can find each section.",
	"Quantify your impact with numbers (for example, reduced latency by 30%) in your most recent roles.",
	"Keep formatting simple: avoid tables, text boxes, headers and footers, which many applicant tracking systems skip.",
}

// Recommend returns at most opts.Max suggestions, never fewer than one.
// Missing high-priority keywords come first, in input order, then skill
// categories scoring below opts.LowCoverage from lowest score up, then one
// suggestion grouping missing medium-priority keywords. Generic formatting
// advice is used only when there are no high-priority gaps and no weak
// categories.
func Recommend(missing []types.KeywordTerm, skills []types.SkillCategory, opts Options) []string {
	opts = withDefaults(opts)
	var out []string
	add := func(s string) bool {
		if len(out) >= opts.Max {
			return false
		}
		out = append(out, s)
		return true
	}

	highGaps := 0
	for _, k := range missing {
		if k.Priority != types.PriorityHigh {
			continue
		}
		highGaps++
		add(fmt.Sprintf("Add %q to your resume: it is a high-priority keyword in the job description. Show where you used it in a specific role or project.", k.Term))
	}

	weak := make([]types.SkillCategory, 0, len(skills))
	for _, s := range skills {
		if s.Relevant > 0 && s.Score < opts.LowCoverage {
			weak = append(weak, s)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Score < weak[j].Score })
	for _, s := range weak {
		add(fmt.Sprintf("Strengthen your %s: the resume covers %d of the %d %s terms the job asks for (%d%%).",
			s.Category, s.Matched, s.Relevant, strings.ToLower(s.Category), s.Score))
	}

	var medium []string
	for _, k := range missing {
		if k.Priority == types.PriorityMedium {
			medium = append(medium, k.Term)
		}
	}
	if len(medium) > 0 {
		if len(medium) > maxGroupedTerms {
			medium = medium[:maxGroupedTerms]
		}
		add(fmt.Sprintf("Consider working these terms from the job description into your resume where they apply: %s.", strings.Join(medium, ", ")))
	}

	if highGaps == 0 && len(weak) == 0 {
		for _, g := range genericAdvice {
			if !add(g) {
				break
			}
		}
	}

	return out
}

// WithSearchability appends advice for failed resume checks while fewer than
// max recommendations are present. recs is not modified.
func WithSearchability(recs []string, report searchability.Report, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}
	out := append([]string(nil), recs...)
	for _, check := range report.Missing() {
		if len(out) >= max {
			break
		}
		out = append(out, searchabilityAdvice[check])
	}
	return out
}

var searchabilityAdvice = map[string]string{
	searchability.CheckEmail:      "Add an email address to your contact details; recruiters cannot reach you without one.",
	searchability.CheckPhone:      "Add a phone number to your contact details.",
	searchability.CheckAddress:    "Add your city and state or region; many recruiters filter candidates by location.",
	searchability.CheckSummary:    "Add a short Summary section at the top that states your target role and strongest skills.",
	searchability.CheckEducation:  "Add an Education section, even if it only lists your highest degree or certifications.",
	searchability.CheckExperience: "Label your work history with a standard Experience heading so it is parsed correctly.",
}

func withDefaults(opts Options) Options {
	if opts.Max <= 0 {
		opts.Max = DefaultMax
	}
	if opts.LowCoverage <= 0 {
		opts.LowCoverage = DefaultLowCoverage
	}
	return opts
}
