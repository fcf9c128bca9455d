package config

import "fmt"

// EngineConfig holds the tunables of the analysis engine.
type EngineConfig struct {
	MaxUploadBytes     int64   `json:"max_upload_bytes,omitempty"`
	MaxTextChars       int     `json:"max_text_chars,omitempty"`
	LeadWindow         int     `json:"lead_window,omitempty"`
	LeadBoost          int     `json:"lead_boost,omitempty"`
	MaxKeywords        int     `json:"max_keywords,omitempty"`
	MaxNGrams          int     `json:"max_ngrams,omitempty"`
	WeightHigh         int     `json:"weight_high,omitempty"`
	WeightMedium       int     `json:"weight_medium,omitempty"`
	WeightLow          int     `json:"weight_low,omitempty"`
	KeywordBlend       float64 `json:"keyword_blend,omitempty"` // share of keywordScore in atsScore
	LowCoverage        int     `json:"low_coverage,omitempty"`
	MaxRecommendations int     `json:"max_recommendations,omitempty"`
	MinJobKeywords     int     `json:"min_job_keywords,omitempty"`
}

// DefaultEngineConfig returns the engine defaults: 5 MB uploads, 100k
// characters of text, weights 3/2/1 and a 60/40 keyword/skills blend.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxUploadBytes:     5 * 1024 * 1024,
		MaxTextChars:       100_000,
		LeadWindow:         25,
		LeadBoost:          2,
		MaxKeywords:        30,
		MaxNGrams:          2000,
		WeightHigh:         3,
		WeightMedium:       2,
		WeightLow:          1,
		KeywordBlend:       0.6,
		LowCoverage:        50,
		MaxRecommendations: 10,
		MinJobKeywords:     3,
	}
}

// Validate rejects negative values and out-of-range ratios. Zero means "use the default".
func (e EngineConfig) Validate() error {
	ints := []struct {
		name string
		v    int64
	}{
		{"max_upload_bytes", e.MaxUploadBytes},
		{"max_text_chars", int64(e.MaxTextChars)},
		{"lead_window", int64(e.LeadWindow)},
		{"lead_boost", int64(e.LeadBoost)},
		{"max_keywords", int64(e.MaxKeywords)},
		{"max_ngrams", int64(e.MaxNGrams)},
		{"weight_high", int64(e.WeightHigh)},
		{"weight_medium", int64(e.WeightMedium)},
		{"weight_low", int64(e.WeightLow)},
		{"max_recommendations", int64(e.MaxRecommendations)},
		{"min_job_keywords", int64(e.MinJobKeywords)},
	}
	for _, f := range ints {
		if f.v < 0 {
			return fmt.Errorf("'%s' must be non-negative", f.name)
		}
	}
	if e.LowCoverage < 0 || e.LowCoverage > 100 {
		return fmt.Errorf("'low_coverage' must be between 0 and 100, got %d", e.LowCoverage)
	}
	if e.KeywordBlend < 0 || e.KeywordBlend > 1 {
		return fmt.Errorf("'keyword_blend' must be between 0 and 1, got %g", e.KeywordBlend)
	}
	if e.WeightHigh > 0 && e.WeightMedium > 0 && e.WeightLow > 0 &&
		!(e.WeightHigh >= e.WeightMedium && e.WeightMedium >= e.WeightLow) {
		return fmt.Errorf("weights must be ordered high >= medium >= low, got %d/%d/%d",
			e.WeightHigh, e.WeightMedium, e.WeightLow)
	}
	return nil
}

// MergeWithDefaults returns a copy with every zero field taken from defaults.
func (e EngineConfig) MergeWithDefaults(defaults EngineConfig) EngineConfig {
	r := e
	if r.MaxUploadBytes == 0 {
		r.MaxUploadBytes = defaults.MaxUploadBytes
	}
	mergeInt(&r.MaxTextChars, defaults.MaxTextChars)
	mergeInt(&r.LeadWindow, defaults.LeadWindow)
	mergeInt(&r.LeadBoost, defaults.LeadBoost)
	mergeInt(&r.MaxKeywords, defaults.MaxKeywords)
	mergeInt(&r.MaxNGrams, defaults.MaxNGrams)
	mergeInt(&r.WeightHigh, defaults.WeightHigh)
	mergeInt(&r.WeightMedium, defaults.WeightMedium)
	mergeInt(&r.WeightLow, defaults.WeightLow)
	mergeInt(&r.LowCoverage, defaults.LowCoverage)
	mergeInt(&r.MaxRecommendations, defaults.MaxRecommendations)
	mergeInt(&r.MinJobKeywords, defaults.MinJobKeywords)
	if r.KeywordBlend == 0 {
		r.KeywordBlend = defaults.KeywordBlend
	}
	return r
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
