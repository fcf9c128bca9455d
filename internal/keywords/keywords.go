// Package keywords derives ranked job keywords and per-category skill
// coverage from TokenSets.
package keywords

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/tokenize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Defaults for Options.
const (
	DefaultLeadWindow  = 25
	DefaultMaxKeywords = 30
	DefaultLeadBoost   = 2
)

// Options tunes keyword extraction.
type Options struct {
	// LeadWindow is the number of leading job tokens treated as title and summary.
	LeadWindow int
	// LeadBoost is added to the score of terms first seen inside the lead window.
	LeadBoost int
	// MaxKeywords caps the returned list.
	MaxKeywords int
	Taxonomy    *taxonomy.Taxonomy
}

// DefaultOptions returns the default extraction options with the embedded taxonomy.
func DefaultOptions() Options {
	return Options{
		LeadWindow:  DefaultLeadWindow,
		LeadBoost:   DefaultLeadBoost,
		MaxKeywords: DefaultMaxKeywords,
		Taxonomy:    taxonomy.Default(),
	}
}

type candidate struct {
	term  string
	count int
	first int
	skill bool
	score int
	prio  types.Priority
}

// ExtractKeywords ranks the significant terms of a job description.
//
// Candidates are unigrams of at least two characters that are not numbers,
// plus n-grams that are taxonomy terms or synonyms. Synonyms are folded into
// their canonical term. A unigram is dropped when every occurrence is part of
// a multi-word skill candidate. Priority is high for taxonomy skills, terms in
// the lead window, and terms seen three or more times; medium for terms seen
// twice; low otherwise. Results are ordered by priority, score, count, then
// term, and Count is the job occurrence count.
func ExtractKeywords(job *tokenize.TokenSet, opts Options) []types.KeywordTerm {
	opts = withDefaults(opts)
	tax := opts.Taxonomy

	variants := make(map[string][]string) // canonical term -> job terms folded into it
	var order []string
	phrases := make(map[string]int) // multi-word skill terms -> job count

	for _, term := range job.Terms() {
		isPhrase := tokenize.IsNGram(term)
		if isPhrase && !tax.IsSkill(term) {
			continue
		}
		if !isPhrase && !isKeywordToken(term) {
			continue
		}
		if isPhrase {
			phrases[term] = job.Count(term)
		}

		canon := tax.Canonical(term)
		if _, ok := variants[canon]; !ok {
			order = append(order, canon)
		}
		variants[canon] = append(variants[canon], term)
	}

	var kept []*candidate
	for _, canon := range order {
		c := &candidate{term: canon, skill: tax.IsSkill(canon), first: -1}
		for _, v := range variants[canon] {
			c.count += ownCount(job, v, variants[canon])
			if fi := job.FirstIndex(v); c.first < 0 || fi < c.first {
				c.first = fi
			}
		}
		if !c.skill && !tokenize.IsNGram(canon) && coveredByPhrase(canon, c.count, phrases) {
			continue
		}
		kept = append(kept, c)
	}

	for _, c := range kept {
		inLead := c.first >= 0 && c.first < opts.LeadWindow
		c.score = c.count
		if inLead {
			c.score += opts.LeadBoost
		}
		switch {
		case c.skill || inLead || c.count >= 3:
			c.prio = types.PriorityHigh
		case c.count == 2:
			c.prio = types.PriorityMedium
		default:
			c.prio = types.PriorityLow
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.prio.Rank() != b.prio.Rank() {
			return a.prio.Rank() > b.prio.Rank()
		}
		if a.score != b.score {
			return a.score > b.score
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return a.term < b.term
	})

	if len(kept) > opts.MaxKeywords {
		kept = kept[:opts.MaxKeywords]
	}

	out := make([]types.KeywordTerm, len(kept))
	for i, c := range kept {
		out[i] = types.KeywordTerm{Term: c.term, Count: c.count, Priority: c.prio}
	}
	return out
}

// ownCount returns the occurrences of v that are not part of a longer
// variant of the same term, so "google cloud" inside "google cloud platform"
// is counted once.
func ownCount(ts *tokenize.TokenSet, v string, group []string) int {
	n := ts.Count(v)
	for _, u := range group {
		if u != v && containsPhrase(u, v) {
			n -= ts.Count(u)
		}
	}
	return max(n, 0)
}

// containsPhrase reports whether the words of inner appear contiguously in outer.
func containsPhrase(outer, inner string) bool {
	return len(outer) > len(inner) && strings.Contains(" "+outer+" ", " "+inner+" ")
}

// coveredByPhrase reports whether every occurrence of the unigram word can be
// attributed to a multi-word skill term containing it.
func coveredByPhrase(word string, count int, phrases map[string]int) bool {
	covered := 0
	for p, n := range phrases {
		if containsPhrase(p, word) {
			covered += n
		}
	}
	return covered > 0 && covered >= count
}

// isKeywordToken accepts unigrams of two or more characters that are not numbers.
func isKeywordToken(tok string) bool {
	if len([]rune(tok)) < 2 {
		return false
	}
	for _, r := range tok {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func withDefaults(opts Options) Options {
	if opts.LeadWindow <= 0 {
		opts.LeadWindow = DefaultLeadWindow
	}
	if opts.LeadBoost < 0 {
		opts.LeadBoost = 0
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = DefaultMaxKeywords
	}
	if opts.Taxonomy == nil {
		opts.Taxonomy = taxonomy.Default()
	}
	return opts
}
