package tokenize

import (
	"strings"

	"github.com/jonathan/ats-matcher/internal/taxonomy"
)

// TokenSet is the tokenized form of one text. It is immutable once built.
type TokenSet struct {
	runs   [][]string // adjacent non-stop tokens, in text order
	tokens []string
	terms  []string
	counts map[string]int
	first  map[string]int
	stems  map[string]int // taxonomy.StemKey -> occurrences
}

type builder struct {
	ts        *TokenSet
	phrases   Phrases
	nGrams    int // distinct n-grams recorded outside phrases
	maxNGrams int
	stemOf    map[string]string
}

func newBuilder(maxNGrams int, phrases Phrases) *builder {
	return &builder{
		ts: &TokenSet{
			counts: make(map[string]int),
			first:  make(map[string]int),
			stems:  make(map[string]int),
		},
		phrases:   phrases,
		maxNGrams: maxNGrams,
		stemOf:    make(map[string]string),
	}
}

func (b *builder) addRun(run []string) {
	if len(run) == 0 {
		return
	}
	ts := b.ts
	start := len(ts.tokens)
	ts.runs = append(ts.runs, append([]string(nil), run...))

	for i, tok := range run {
		ts.tokens = append(ts.tokens, tok)
		b.record(tok, start+i)
	}

	for n := 2; n <= MaxN; n++ {
		for i := 0; i+n <= len(run); i++ {
			gram := strings.Join(run[i:i+n], " ")
			if !b.admit(gram) {
				continue
			}
			b.record(gram, start+i)
		}
	}
}

// admit reports whether an n-gram is recorded. Phrases and n-grams already
// seen always are; other n-grams only until maxNGrams distinct ones exist.
func (b *builder) admit(gram string) bool {
	if _, seen := b.ts.counts[gram]; seen {
		return true
	}
	if b.phrases != nil && b.phrases.IsPhrase(gram) {
		return true
	}
	if b.nGrams >= b.maxNGrams {
		return false
	}
	b.nGrams++
	return true
}

func (b *builder) record(term string, pos int) {
	ts := b.ts
	if _, seen := ts.counts[term]; !seen {
		ts.terms = append(ts.terms, term)
		ts.first[term] = pos
	}
	ts.counts[term]++

	key, ok := b.stemOf[term]
	if !ok {
		key = taxonomy.StemKey(term)
		b.stemOf[term] = key
	}
	ts.stems[key]++
}

func (b *builder) build() *TokenSet {
	return b.ts
}

// Tokens returns the unigram stream in text order.
func (ts *TokenSet) Tokens() []string {
	return append([]string(nil), ts.tokens...)
}

// Terms returns every distinct unigram and n-gram in order of first occurrence.
// Within one run, unigrams are recorded before the n-grams built from them.
func (ts *TokenSet) Terms() []string {
	return append([]string(nil), ts.terms...)
}

// Count returns how many times term occurs.
func (ts *TokenSet) Count(term string) int {
	return ts.counts[term]
}

// StemCount returns how many times any term with the stem key key occurs.
// Keys come from taxonomy.StemKey.
func (ts *TokenSet) StemCount(key string) int {
	return ts.stems[key]
}

// Contains reports whether term occurs at least once.
func (ts *TokenSet) Contains(term string) bool {
	return ts.counts[term] > 0
}

// FirstIndex returns the unigram position where term first starts, or -1.
func (ts *TokenSet) FirstIndex(term string) int {
	if i, ok := ts.first[term]; ok {
		return i
	}
	return -1
}

// Len returns the number of unigram tokens.
func (ts *TokenSet) Len() int {
	return len(ts.tokens)
}

// IsNGram reports whether term is a multi-word phrase.
func IsNGram(term string) bool {
	return strings.IndexByte(term, ' ') >= 0
}

// Render writes ts back to text: one run per line, tokens joined by spaces.
// Tokenizing the rendered text with the same stop words yields an equal TokenSet.
func Render(ts *TokenSet) string {
	lines := make([]string, len(ts.runs))
	for i, run := range ts.runs {
		lines[i] = strings.Join(run, " ")
	}
	return strings.Join(lines, "\n")
}
