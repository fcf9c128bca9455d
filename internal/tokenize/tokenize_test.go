package tokenize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/taxonomy"
)

type stopList map[string]bool

func (s stopList) IsStopWord(w string) bool { return s[w] }

func TestTokenize_Unigrams(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lower-cases", "Python SQL", []string{"python", "sql"}},
		{"keeps symbols in terms", "C++, C# and Node.js", []string{"c++", "c#", "node.js"}},
		{"internal hyphen kept", "CI-CD pipelines", []string{"ci-cd", "pipelines"}},
		{"trailing dots dropped", "Requires AWS.", []string{"aws"}},
		{"punctuation stripped", "(Python); [SQL]!", []string{"python", "sql"}},
		{"possessive dropped", "Company's product", []string{"product"}},
		{"apostrophe removed", "don’t panic", []string{"dont", "panic"}},
		{"stop words removed", "the ability to work with the team", nil},
		{"bullet dash not a token", "- Kubernetes\n- Terraform", []string{"kubernetes", "terraform"}},
		{"decimal numbers", "Python 3.11 or 3.12", []string{"python", "3.11", "3.12"}},
		{"unicode letters", "Développeur Ruby", []string{"développeur", "ruby"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := Tokenize(tt.text)
			if tt.want == nil {
				assert.Empty(t, ts.Tokens())
				return
			}
			assert.Equal(t, tt.want, ts.Tokens())
		})
	}
}

func TestTokenize_NGramsFollowAdjacency(t *testing.T) {
	ts := Tokenize("Machine learning and project management.\nDistributed\nsystems, data pipelines")

	assert.True(t, ts.Contains("machine learning"))
	assert.True(t, ts.Contains("project management"))
	assert.True(t, ts.Contains("data pipelines"))

	// stop word, line break and comma boundaries
	assert.False(t, ts.Contains("learning project"))
	assert.False(t, ts.Contains("distributed systems"))
	assert.False(t, ts.Contains("systems data"))
}

func TestTokenize_TrigramsAndCounts(t *testing.T) {
	ts := Tokenize("google cloud platform; Google Cloud Platform")

	assert.Equal(t, 2, ts.Count("google cloud platform"))
	assert.Equal(t, 2, ts.Count("google cloud"))
	assert.Equal(t, 2, ts.Count("google"))
	assert.Equal(t, 0, ts.Count("platform google"))
	assert.Equal(t, 6, ts.Len())
}

func TestTokenize_FirstIndexAndTermsOrder(t *testing.T) {
	ts := Tokenize("Senior Python Engineer. Requires Python, SQL, and AWS experience.")

	assert.Equal(t, []string{"python", "python", "sql", "aws"}, ts.Tokens())
	assert.Equal(t, []string{"python", "sql", "aws"}, ts.Terms())
	assert.Equal(t, 0, ts.FirstIndex("python"))
	assert.Equal(t, 2, ts.FirstIndex("sql"))
	assert.Equal(t, 3, ts.FirstIndex("aws"))
	assert.Equal(t, -1, ts.FirstIndex("java"))
	assert.Equal(t, 2, ts.Count("python"))
}

func TestTokenize_MaxNGrams(t *testing.T) {
	tz := New(stopList{}, 3)
	ts := tz.Tokenize("alpha beta gamma delta")

	var ngrams []string
	for _, term := range ts.Terms() {
		if IsNGram(term) {
			ngrams = append(ngrams, term)
		}
	}
	assert.Equal(t, []string{"alpha beta", "beta gamma", "gamma delta"}, ngrams)
	assert.Equal(t, 4, ts.Len())
}

type phraseList struct {
	stopList
	phrases map[string]bool
}

func (p phraseList) IsPhrase(ngram string) bool { return p.phrases[ngram] }

func TestTokenize_MaxNGramsCountsDistinct(t *testing.T) {
	tz := New(stopList{}, 2)
	ts := tz.Tokenize("alpha beta\nalpha beta\nalpha beta\nbeta gamma\ngamma delta")

	assert.Equal(t, 3, ts.Count("alpha beta"))
	assert.Equal(t, 1, ts.Count("beta gamma"))
	assert.Equal(t, 0, ts.Count("gamma delta"))
}

func TestTokenize_PhrasesSurviveCap(t *testing.T) {
	tz := New(phraseList{phrases: map[string]bool{"machine learning": true}}, 1)
	ts := tz.Tokenize("python sql\nsql python\nmachine learning\nmachine learning")

	assert.Equal(t, 1, ts.Count("python sql"))
	assert.Equal(t, 0, ts.Count("sql python"))
	assert.Equal(t, 2, ts.Count("machine learning"))
}

func TestTokenize_LongTextKeepsTaxonomyPhrases(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "Wrote python%d jobs against sql%d warehouses\n", i, i)
	}
	sb.WriteString("Machine learning and project management.")

	ts := Tokenize(sb.String())
	assert.Equal(t, 1, ts.Count("machine learning"))
	assert.Equal(t, 1, ts.Count("project management"))
}

func TestTokenize_StemCount(t *testing.T) {
	ts := Tokenize("Tested services. Testing pipelines; unit tests. Mentored interns.")

	assert.Equal(t, 3, ts.StemCount(taxonomy.StemKey("testing")))
	assert.Equal(t, 1, ts.StemCount(taxonomy.StemKey("mentoring")))
	assert.Equal(t, 1, ts.StemCount(taxonomy.StemKey("unit testing")))
	assert.Equal(t, 0, ts.StemCount(taxonomy.StemKey("deploying")))
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "Go, Kubernetes and AWS. Leadership; communication. Go again!"
	a, b := Tokenize(text), Tokenize(text)

	assert.Equal(t, a.Tokens(), b.Tokens())
	assert.Equal(t, a.Terms(), b.Terms())
}

func TestTokenize_RenderRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Senior Python Engineer. Requires Python, SQL, and AWS experience.",
		"Experienced engineer skilled in Python and SQL.",
		"• Built CI-CD pipelines (GitHub Actions) for 12 micro-services\n• Led a team of 5; mentored juniors",
		"C++/C# developer — node.js, e.g. Express. Don't stop!",
		strings.Repeat("alpha beta gamma delta epsilon ", 50),
	}

	for _, in := range inputs {
		first := Tokenize(in)
		again := Tokenize(Render(first))

		require.Equal(t, first.Tokens(), again.Tokens(), in)
		assert.Equal(t, first.Terms(), again.Terms(), in)
		for _, term := range first.Terms() {
			assert.Equal(t, first.Count(term), again.Count(term), term)
			assert.Equal(t, first.FirstIndex(term), again.FirstIndex(term), term)
		}
	}
}

func TestTaxonomyTermsAreTokenForm(t *testing.T) {
	tax := taxonomy.Default()

	check := func(term string) {
		ts := Tokenize(term)
		assert.Equal(t, strings.Fields(term), ts.Tokens(), "term %q", term)
		assert.True(t, ts.Contains(term), "term %q", term)
	}
	for _, c := range tax.Categories() {
		for _, term := range c.Terms {
			check(term)
			for _, syn := range tax.Synonyms(term) {
				check(syn)
			}
		}
	}
}
