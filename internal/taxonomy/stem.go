package taxonomy

import (
	"slices"
	"strings"

	"github.com/kljensen/snowball/english"
)

const (
	minStemWord = 4
	// minStemLen keeps "going" from collapsing onto the language "go".
	minStemLen = 3
)

// StemKey returns the matching key of a term: every word is reduced with the
// Porter2 (Snowball English) stemmer, so "tested", "testing" and "tests"
// share the key "test". Words shorter than four letters and words containing
// anything but letters are kept as they are, so "aws", "c++" and "node.js"
// are their own keys.
func StemKey(term string) string {
	words := strings.Split(term, " ")
	for i, w := range words {
		words[i] = stemWord(w)
	}
	return strings.Join(words, " ")
}

func stemWord(w string) string {
	if len(w) < minStemWord || !isLetters(w) {
		return w
	}
	s := english.Stem(w, true)
	if len(s) < minStemLen {
		return w
	}
	return s
}

// IsPhrase reports whether ngram is a multi-word term or synonym, in any
// inflection.
func (t *Taxonomy) IsPhrase(ngram string) bool {
	_, ok := t.phraseKeys[StemKey(ngram)]
	return ok
}

// StemKeys returns the distinct stem keys of term's variants.
func (t *Taxonomy) StemKeys(term string) []string {
	var keys []string
	for _, v := range t.Variants(term) {
		k := StemKey(v)
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}
