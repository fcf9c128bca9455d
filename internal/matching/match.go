// Package matching partitions job keywords into matched and missing sets
// against a resume and aggregates the sub-scores.
package matching

import (
	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/tokenize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Matcher compares job keywords to a resume by taxonomy stem keys.
type Matcher struct {
	tax *taxonomy.Taxonomy
}

// New returns a Matcher backed by tax (the default taxonomy when nil).
func New(tax *taxonomy.Taxonomy) *Matcher {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Matcher{tax: tax}
}

// Match splits jobKeywords into those found in the resume and those missing.
// A keyword is found when a resume term shares the stem key of the keyword or
// of one of its synonyms, so "managed" finds "managing" and the reverse.
// Matched entries carry the resume occurrence count summed over those stem
// keys; missing entries are
// returned as given. Every keyword lands in exactly one list, in input order.
func (m *Matcher) Match(resume *tokenize.TokenSet, jobKeywords []types.KeywordTerm) (matched, missing []types.KeywordTerm) {
	matched = make([]types.KeywordTerm, 0, len(jobKeywords))
	missing = make([]types.KeywordTerm, 0, len(jobKeywords))

	for _, kw := range jobKeywords {
		count := 0
		for _, key := range m.tax.StemKeys(kw.Term) {
			count += resume.StemCount(key)
		}
		if count > 0 {
			matched = append(matched, types.KeywordTerm{Term: kw.Term, Count: count, Priority: kw.Priority})
		} else {
			missing = append(missing, kw)
		}
	}
	return matched, missing
}

// Match runs Matcher.Match with the default taxonomy.
func Match(resume *tokenize.TokenSet, jobKeywords []types.KeywordTerm) (matched, missing []types.KeywordTerm) {
	return New(nil).Match(resume, jobKeywords)
}
