package matching

import (
	"math"

	"github.com/jonathan/ats-matcher/internal/types"
)

// Weights holds the priority weights and the ATS blend.
type Weights struct {
	High   int     `json:"high"`
	Medium int     `json:"medium"`
	Low    int     `json:"low"`
	Blend  float64 `json:"keyword_blend"` // share of keywordScore in atsScore; skills get 1 - Blend
}

// DefaultWeights returns high=3, medium=2, low=1 and a 60/40 keyword/skills blend.
func DefaultWeights() Weights {
	return Weights{High: 3, Medium: 2, Low: 1, Blend: 0.6}
}

// Of returns the weight of priority p.
func (w Weights) Of(p types.Priority) int {
	switch p {
	case types.PriorityHigh:
		return w.High
	case types.PriorityMedium:
		return w.Medium
	case types.PriorityLow:
		return w.Low
	default:
		return 0
	}
}

// Scores are the three headline numbers of an analysis, each in [0,100].
type Scores struct {
	ATS     int
	Keyword int
	Skills  int
}

// Score computes the keyword, skills and ATS scores.
//
// keywordScore is the priority-weighted share of matched keywords and is 100
// when there are no keywords at all. skillsScore is the mean score of the
// categories with at least one job-relevant term; when no category is
// relevant it falls back to keywordScore. atsScore blends the two.
func Score(matched, missing []types.KeywordTerm, skills []types.SkillCategory, w Weights) Scores {
	var got, total int
	for _, k := range matched {
		got += w.Of(k.Priority)
		total += w.Of(k.Priority)
	}
	for _, k := range missing {
		total += w.Of(k.Priority)
	}

	keyword := 100
	if total > 0 {
		keyword = percent(float64(got) / float64(total) * 100)
	}

	skillsScore := keyword
	sum, n := 0, 0
	for _, s := range skills {
		if s.Relevant > 0 {
			sum += s.Score
			n++
		}
	}
	if n > 0 {
		skillsScore = percent(float64(sum) / float64(n))
	}

	blend := math.Min(math.Max(w.Blend, 0), 1)
	ats := percent(blend*float64(keyword) + (1-blend)*float64(skillsScore))

	return Scores{ATS: ats, Keyword: keyword, Skills: skillsScore}
}

// percent rounds half up and clamps to [0,100].
func percent(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	v := int(math.Floor(x + 0.5))
	return max(0, min(100, v))
}
