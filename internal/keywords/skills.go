package keywords

import (
	"math"

	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/tokenize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// ExtractSkills measures, per taxonomy category, how many of the category's
// job-relevant terms the resume also mentions. A term is job-relevant when
// a job term shares the stem key of the term or one of its synonyms. Score is the rounded
// percentage of relevant terms found in the resume; categories the job does
// not touch are returned with Relevant == 0 and Score 0. Output follows
// taxonomy order.
func ExtractSkills(resume, job *tokenize.TokenSet, tax *taxonomy.Taxonomy) []types.SkillCategory {
	if tax == nil {
		tax = taxonomy.Default()
	}

	cats := tax.Categories()
	out := make([]types.SkillCategory, 0, len(cats))
	for _, c := range cats {
		sc := types.SkillCategory{Category: c.DisplayName()}
		for _, term := range c.Terms {
			keys := tax.StemKeys(term)
			if !containsAny(job, keys) {
				continue
			}
			sc.Relevant++
			if containsAny(resume, keys) {
				sc.Matched++
			}
		}
		if sc.Relevant > 0 {
			sc.Score = int(math.Floor(float64(sc.Matched)*100/float64(sc.Relevant) + 0.5))
		}
		out = append(out, sc)
	}
	return out
}

func containsAny(ts *tokenize.TokenSet, keys []string) bool {
	for _, k := range keys {
		if ts.StemCount(k) > 0 {
			return true
		}
	}
	return false
}
