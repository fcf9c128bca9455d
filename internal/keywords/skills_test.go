package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/taxonomy"
	"github.com/jonathan/ats-matcher/internal/tokenize"
	"github.com/jonathan/ats-matcher/internal/types"
)

func category(t *testing.T, skills []types.SkillCategory, name string) types.SkillCategory {
	t.Helper()
	for _, s := range skills {
		if s.Category == name {
			return s
		}
	}
	require.Failf(t, "category not found", "%s", name)
	return types.SkillCategory{}
}

func TestExtractSkills_Scenario(t *testing.T) {
	job := tokenize.Tokenize("Senior Python Engineer. Requires Python, SQL, and AWS experience.")
	resume := tokenize.Tokenize("Experienced engineer skilled in Python and SQL.")

	skills := ExtractSkills(resume, job, taxonomy.Default())

	require.Len(t, skills, len(taxonomy.Default().Categories()))

	tech := category(t, skills, "Technical Skills")
	assert.Equal(t, 2, tech.Relevant)
	assert.Equal(t, 2, tech.Matched)
	assert.Equal(t, 100, tech.Score)

	tools := category(t, skills, "Tools & Platforms")
	assert.Equal(t, 1, tools.Relevant)
	assert.Equal(t, 0, tools.Score)

	soft := category(t, skills, "Soft Skills")
	assert.Equal(t, 0, soft.Relevant)
	assert.Equal(t, 0, soft.Score)
}

func TestExtractSkills_VariantsAndRounding(t *testing.T) {
	job := tokenize.Tokenize("Kubernetes, Docker and Terraform. Microservices.")
	resume := tokenize.Tokenize("Ran k8s clusters; wrote a microservice.")

	skills := ExtractSkills(resume, job, nil)

	tools := category(t, skills, "Tools & Platforms")
	assert.Equal(t, 3, tools.Relevant)
	assert.Equal(t, 1, tools.Matched)
	assert.Equal(t, 33, tools.Score)

	tech := category(t, skills, "Technical Skills")
	assert.Equal(t, 1, tech.Relevant)
	assert.Equal(t, 100, tech.Score)
}

func TestExtractSkills_TwoThirdsRoundsUp(t *testing.T) {
	job := tokenize.Tokenize("Leadership, communication, mentoring.")
	resume := tokenize.Tokenize("Leadership and mentorship.")

	soft := category(t, ExtractSkills(resume, job, nil), "Soft Skills")
	assert.Equal(t, 3, soft.Relevant)
	assert.Equal(t, 2, soft.Matched)
	assert.Equal(t, 67, soft.Score)
}

func TestExtractSkills_UnknownTermsIgnored(t *testing.T) {
	job := tokenize.Tokenize("Barista latte art")
	resume := tokenize.Tokenize("Barista")

	for _, s := range ExtractSkills(resume, job, nil) {
		assert.Zero(t, s.Relevant, s.Category)
	}
}

func TestExtractSkills_Monotonic(t *testing.T) {
	job := tokenize.Tokenize("Python, Go, SQL, AWS, Docker, leadership")
	base := ExtractSkills(tokenize.Tokenize("Python"), job, nil)
	more := ExtractSkills(tokenize.Tokenize("Python. Go, Docker and leadership"), job, nil)

	for i := range base {
		assert.GreaterOrEqual(t, more[i].Score, base[i].Score, base[i].Category)
	}
}

func TestExtractSkills_InflectionsBothWays(t *testing.T) {
	job := tokenize.Tokenize("Mentored new hires. Debugged services.")
	resume := tokenize.Tokenize("Mentoring and debugging.")

	for _, s := range []struct{ job, resume *tokenize.TokenSet }{{job, resume}, {resume, job}} {
		soft := category(t, ExtractSkills(s.resume, s.job, nil), "Soft Skills")
		assert.Equal(t, 1, soft.Relevant)
		assert.Equal(t, 100, soft.Score)
	}
}
