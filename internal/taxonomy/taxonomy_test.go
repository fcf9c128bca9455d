package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/schemas"
)

func TestDefault_Loads(t *testing.T) {
	tax := Default()

	assert.NotEmpty(t, tax.Version())
	assert.Same(t, tax, Default())

	names := make([]string, 0)
	for _, c := range tax.Categories() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"technical", "tools", "data", "practices", "soft"}, names)
	assert.Greater(t, tax.TermCount(), 50)
}

func TestDefault_Lookups(t *testing.T) {
	tax := Default()

	tests := []struct {
		term      string
		canonical string
		category  string
		skill     bool
	}{
		{"python", "python", "technical", true},
		{"golang", "go", "technical", true},
		{"k8s", "kubernetes", "tools", true},
		{"amazon web services", "aws", "tools", true},
		{"ml", "machine learning", "data", true},
		{"problem-solving", "problem solving", "soft", true},
		{"barista", "barista", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.canonical, tax.Canonical(tt.term))
			assert.Equal(t, tt.skill, tax.IsSkill(tt.term))
			cat, ok := tax.CategoryOf(tt.term)
			assert.Equal(t, tt.skill, ok)
			assert.Equal(t, tt.category, cat)
		})
	}
}

func TestDefault_StopWords(t *testing.T) {
	tax := Default()

	for _, w := range []string{"the", "and", "of", "requires", "senior"} {
		assert.True(t, tax.IsStopWord(w), w)
	}
	for _, w := range []string{"python", "sql", "aws", "leadership"} {
		assert.False(t, tax.IsStopWord(w), w)
	}
	assert.IsNonDecreasing(t, tax.StopWords())
}

func TestCategories_ReturnsCopy(t *testing.T) {
	tax := Default()
	cats := tax.Categories()
	cats[0].Terms[0] = "mutated"
	cats[0].Name = "mutated"

	assert.NotEqual(t, "mutated", tax.Categories()[0].Name)
	assert.NotEqual(t, "mutated", tax.Categories()[0].Terms[0])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "schema violation",
			doc:  `{"version":"1","categories":[]}`,
		},
		{
			name: "upper case term",
			doc:  `{"version":"1","categories":[{"name":"t","terms":["Python"]}],"stop_words":[]}`,
			want: "lower-case",
		},
		{
			name: "term too long",
			doc:  `{"version":"1","categories":[{"name":"t","terms":["one two three four"]}],"stop_words":[]}`,
			want: "single-spaced words",
		},
		{
			name: "term with stop word",
			doc:  `{"version":"1","categories":[{"name":"t","terms":["attention to detail"]}],"stop_words":["to"]}`,
			want: "stop word",
		},
		{
			name: "duplicate across categories",
			doc:  `{"version":"1","categories":[{"name":"a","terms":["go"]},{"name":"b","terms":["go"]}],"stop_words":[]}`,
			want: "both a and b",
		},
		{
			name: "dangling synonym",
			doc:  `{"version":"1","categories":[{"name":"a","terms":["go"]}],"synonyms":{"py":"python"},"stop_words":[]}`,
			want: "unknown term",
		},
		{
			name: "synonym shadows term",
			doc:  `{"version":"1","categories":[{"name":"a","terms":["go","golang"]}],"synonyms":{"golang":"go"},"stop_words":[]}`,
			want: "also a canonical term",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.want == "" {
				var validationErr *schemas.ValidationError
				assert.True(t, errors.As(err, &validationErr))
				return
			}
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	doc := `{"version":"custom-1","categories":[{"name":"kitchen","label":"Kitchen","terms":["knife skills","sous vide"]}],"synonyms":{"sous-vide":"sous vide"},"stop_words":["the"]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	tax, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-1", tax.Version())
	assert.Equal(t, "Kitchen", tax.Categories()[0].DisplayName())
	assert.Equal(t, "sous vide", tax.Canonical("sous-vide"))

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "failed to read file", loadErr.Message)
}

func TestDefault_PostingBoilerplateIsStopWord(t *testing.T) {
	tax := Default()
	for _, w := range []string{"engineer", "developer", "senior", "experience", "team"} {
		assert.True(t, tax.IsStopWord(w), w)
	}
	assert.False(t, tax.IsStopWord("python"))
}
