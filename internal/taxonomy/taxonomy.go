// Package taxonomy holds the versioned skill taxonomy and stop-word list.
// The default taxonomy is embedded, validated against its JSON schema, and
// loaded once; a Taxonomy is read-only after construction.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/ats-matcher/internal/schemas"
)

// MaxTermWords is the longest phrase, in words, a taxonomy term may have.
const MaxTermWords = 3

//go:embed data/taxonomy.json
var defaultData []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
	defaultErr  error
)

// Category is one skill domain and its canonical terms.
type Category struct {
	Name  string   `json:"name"`
	Label string   `json:"label,omitempty"`
	Terms []string `json:"terms"`
}

// DisplayName returns Label, or Name when no label is set.
func (c Category) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

type document struct {
	Version    string            `json:"version"`
	Categories []Category        `json:"categories"`
	Synonyms   map[string]string `json:"synonyms"`
	StopWords  []string          `json:"stop_words"`
}

// Taxonomy maps terms to categories and variants to canonical terms.
type Taxonomy struct {
	version    string
	categories []Category
	category   map[string]int      // canonical term -> category index
	canonical  map[string]string   // synonym -> canonical term
	aliases    map[string][]string // canonical term -> sorted synonyms
	stopWords  map[string]struct{}
	phraseKeys map[string]struct{} // stem keys of multi-word terms and synonyms
}

// Default returns the embedded taxonomy. It panics if the embedded data is
// invalid, which tests rule out.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		defaultTax, defaultErr = Parse(defaultData)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", defaultErr))
	}
	return defaultTax
}

// LoadFile reads and parses a taxonomy JSON file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}
	tax, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "invalid taxonomy", Cause: err}
	}
	return tax, nil
}

// Parse validates data against the taxonomy schema and builds a Taxonomy.
// Terms must be lower-case token form, unique across categories, and at most
// MaxTermWords words; synonyms must point at a term.
func Parse(data []byte) (*Taxonomy, error) {
	if err := schemas.Validate(schemas.Taxonomy, data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	t := &Taxonomy{
		version:    doc.Version,
		category:   make(map[string]int),
		canonical:  make(map[string]string, len(doc.Synonyms)),
		aliases:    make(map[string][]string),
		stopWords:  make(map[string]struct{}, len(doc.StopWords)),
		phraseKeys: make(map[string]struct{}),
	}

	for _, w := range doc.StopWords {
		t.stopWords[w] = struct{}{}
	}

	for i, c := range doc.Categories {
		terms := make([]string, 0, len(c.Terms))
		for _, term := range c.Terms {
			if err := t.checkTerm(term); err != nil {
				return nil, fmt.Errorf("category %s: %w", c.Name, err)
			}
			if prev, dup := t.category[term]; dup {
				return nil, fmt.Errorf("term %q listed in both %s and %s", term, doc.Categories[prev].Name, c.Name)
			}
			t.category[term] = i
			terms = append(terms, term)
		}
		t.categories = append(t.categories, Category{Name: c.Name, Label: c.Label, Terms: terms})
	}

	for syn, canon := range doc.Synonyms {
		if err := t.checkTerm(syn); err != nil {
			return nil, fmt.Errorf("synonym: %w", err)
		}
		if _, ok := t.category[canon]; !ok {
			return nil, fmt.Errorf("synonym %q points at unknown term %q", syn, canon)
		}
		if _, ok := t.category[syn]; ok {
			return nil, fmt.Errorf("synonym %q is also a canonical term", syn)
		}
		t.canonical[syn] = canon
		t.aliases[canon] = append(t.aliases[canon], syn)
	}
	for _, a := range t.aliases {
		sort.Strings(a)
	}
	for term := range t.category {
		t.addPhrase(term)
	}
	for syn := range t.canonical {
		t.addPhrase(syn)
	}

	return t, nil
}

func (t *Taxonomy) addPhrase(term string) {
	if strings.Contains(term, " ") {
		t.phraseKeys[StemKey(term)] = struct{}{}
	}
}

func (t *Taxonomy) checkTerm(term string) error {
	if term != strings.ToLower(strings.TrimSpace(term)) {
		return fmt.Errorf("term %q is not lower-case token form", term)
	}
	words := strings.Fields(term)
	if len(words) == 0 || len(words) > MaxTermWords || strings.Join(words, " ") != term {
		return fmt.Errorf("term %q must be 1 to %d single-spaced words", term, MaxTermWords)
	}
	for _, w := range words {
		if t.IsStopWord(w) {
			return fmt.Errorf("term %q contains stop word %q", term, w)
		}
	}
	return nil
}

// Version returns the taxonomy data version.
func (t *Taxonomy) Version() string {
	return t.version
}

// Categories returns the categories in taxonomy order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		c.Terms = append([]string(nil), c.Terms...)
		out[i] = c
	}
	return out
}

// IsStopWord reports whether w is in the stop-word list.
func (t *Taxonomy) IsStopWord(w string) bool {
	_, ok := t.stopWords[w]
	return ok
}

// StopWords returns the stop-word list sorted.
func (t *Taxonomy) StopWords() []string {
	out := make([]string, 0, len(t.stopWords))
	for w := range t.stopWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Canonical maps a synonym to its canonical term. Other terms are returned unchanged.
func (t *Taxonomy) Canonical(term string) string {
	if c, ok := t.canonical[term]; ok {
		return c
	}
	return term
}

// IsSkill reports whether term, or the term it is a synonym of, is in a category.
func (t *Taxonomy) IsSkill(term string) bool {
	_, ok := t.category[t.Canonical(term)]
	return ok
}

// CategoryOf returns the category name of term after synonym resolution.
func (t *Taxonomy) CategoryOf(term string) (string, bool) {
	i, ok := t.category[t.Canonical(term)]
	if !ok {
		return "", false
	}
	return t.categories[i].Name, true
}

// Synonyms returns the synonyms of a canonical term, sorted.
func (t *Taxonomy) Synonyms(term string) []string {
	return append([]string(nil), t.aliases[t.Canonical(term)]...)
}

// TermCount returns the number of canonical terms.
func (t *Taxonomy) TermCount() int {
	return len(t.category)
}
