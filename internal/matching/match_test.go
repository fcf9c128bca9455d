package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-matcher/internal/keywords"
	"github.com/jonathan/ats-matcher/internal/tokenize"
	"github.com/jonathan/ats-matcher/internal/types"
)

func kw(term string, count int, p types.Priority) types.KeywordTerm {
	return types.KeywordTerm{Term: term, Count: count, Priority: p}
}

func TestMatch_Scenario(t *testing.T) {
	job := tokenize.Tokenize("Senior Python Engineer. Requires Python, SQL, and AWS experience.")
	resume := tokenize.Tokenize("Experienced engineer skilled in Python and SQL.")

	jobKeywords := keywords.ExtractKeywords(job, keywords.DefaultOptions())
	matched, missing := Match(resume, jobKeywords)

	assert.Equal(t, []types.KeywordTerm{
		kw("python", 1, types.PriorityHigh),
		kw("sql", 1, types.PriorityHigh),
	}, matched)
	assert.Equal(t, []types.KeywordTerm{kw("aws", 1, types.PriorityHigh)}, missing)
}

func TestMatch_Variants(t *testing.T) {
	resume := tokenize.Tokenize("Deployed microservice to k8s. Managing Postgres databases. Golang and Go.")

	matched, missing := Match(resume, []types.KeywordTerm{
		kw("microservices", 2, types.PriorityHigh),
		kw("kubernetes", 1, types.PriorityHigh),
		kw("postgresql", 1, types.PriorityMedium),
		kw("database", 1, types.PriorityLow),
		kw("go", 3, types.PriorityHigh),
		kw("rust", 1, types.PriorityHigh),
	})

	assert.Equal(t, []types.KeywordTerm{
		kw("microservices", 1, types.PriorityHigh),
		kw("kubernetes", 1, types.PriorityHigh),
		kw("postgresql", 1, types.PriorityMedium),
		kw("database", 1, types.PriorityLow),
		kw("go", 2, types.PriorityHigh),
	}, matched)
	assert.Equal(t, []types.KeywordTerm{kw("rust", 1, types.PriorityHigh)}, missing)
}

func TestMatch_Partition(t *testing.T) {
	job := tokenize.Tokenize(`Platform engineer. Go, Kubernetes, Terraform, AWS and GCP.
Observability with Prometheus and Grafana. Strong communication and mentoring.
Billing systems, payments, invoicing; on-call rotation.`)
	resumes := []string{
		"",
		"Go developer",
		"Kubernetes, Terraform, Prometheus, payments and billing. Mentored juniors.",
		"Go Kubernetes Terraform AWS GCP Prometheus Grafana communication mentoring billing systems payments invoicing on-call rotation observability platform",
	}

	jobKeywords := keywords.ExtractKeywords(job, keywords.DefaultOptions())
	for _, text := range resumes {
		matched, missing := Match(tokenize.Tokenize(text), jobKeywords)

		assert.Len(t, append(matched, missing...), len(jobKeywords), text)
		seen := make(map[string]int)
		for _, k := range matched {
			seen[k.Term]++
		}
		for _, k := range missing {
			seen[k.Term]++
		}
		for _, k := range jobKeywords {
			assert.Equal(t, 1, seen[k.Term], "%q in %q", k.Term, text)
		}
	}
}

func TestMatch_EmptyKeywords(t *testing.T) {
	matched, missing := Match(tokenize.Tokenize("anything"), nil)
	assert.NotNil(t, matched)
	assert.NotNil(t, missing)
	assert.Empty(t, matched)
	assert.Empty(t, missing)
}

func TestMatch_InflectionsAreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"testing", "tested"},
		{"manage", "managed"},
		{"managing", "managed"},
		{"deploy", "deploying"},
		{"mentor", "mentoring"},
		{"mentoring", "mentored"},
	}

	for _, p := range pairs {
		for _, dir := range [][2]string{{p[0], p[1]}, {p[1], p[0]}} {
			keyword, resumeWord := dir[0], dir[1]
			t.Run(keyword+" in "+resumeWord, func(t *testing.T) {
				matched, missing := Match(tokenize.Tokenize("Projects: "+resumeWord+" services."),
					[]types.KeywordTerm{kw(keyword, 1, types.PriorityHigh)})
				assert.Len(t, matched, 1)
				assert.Empty(t, missing)
			})
		}
	}
}
