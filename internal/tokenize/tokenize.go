// Package tokenize turns normalized text into TokenSets: ordered unigram
// streams plus bounded n-gram phrases with occurrence counts.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/jonathan/ats-matcher/internal/taxonomy"
)

// DefaultMaxNGrams bounds the number of distinct n-grams collected per text,
// not counting those that are taxonomy phrases.
const DefaultMaxNGrams = 2000

// MaxN is the longest n-gram built.
const MaxN = taxonomy.MaxTermWords

// StopWords reports whether a lower-cased token should be dropped.
type StopWords interface {
	IsStopWord(w string) bool
}

// Phrases reports whether an n-gram is a known multi-word term. A StopWords
// that also implements Phrases has its phrases recorded past the n-gram cap.
type Phrases interface {
	IsPhrase(ngram string) bool
}

// Tokenizer splits text into TokenSets. The zero value is not usable; build
// one with New. A Tokenizer is safe for concurrent use.
type Tokenizer struct {
	stop      StopWords
	phrases   Phrases
	maxNGrams int
}

// New returns a Tokenizer using stop and collecting at most maxNGrams
// distinct n-grams besides phrases (DefaultMaxNGrams when maxNGrams <= 0).
func New(stop StopWords, maxNGrams int) *Tokenizer {
	if maxNGrams <= 0 {
		maxNGrams = DefaultMaxNGrams
	}
	phrases, _ := stop.(Phrases)
	return &Tokenizer{stop: stop, phrases: phrases, maxNGrams: maxNGrams}
}

// Tokenize tokenizes text with the default taxonomy's stop words.
func Tokenize(text string) *TokenSet {
	return New(taxonomy.Default(), DefaultMaxNGrams).Tokenize(text)
}

// Tokenize lower-cases text, splits it into word tokens, drops stop words,
// and builds 2- and 3-word n-grams from tokens that were adjacent in the
// text. Stop words, line breaks and phrase punctuation end an n-gram run.
func (tz *Tokenizer) Tokenize(text string) *TokenSet {
	b := newBuilder(tz.maxNGrams, tz.phrases)
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range splitPhrases(line) {
			var run []string
			for _, tok := range phrase {
				if tz.stop != nil && tz.stop.IsStopWord(tok) {
					b.addRun(run)
					run = nil
					continue
				}
				run = append(run, tok)
			}
			b.addRun(run)
		}
	}
	return b.build()
}

// splitPhrases scans a line into phrases of word tokens. A phrase ends at
// punctuation other than the in-word characters + # . - and apostrophes.
func splitPhrases(line string) [][]string {
	runes := []rune(strings.ToLower(line))

	var phrases [][]string
	var phrase []string
	var word []rune

	endWord := func() {
		if tok := cleanToken(word); tok != "" {
			phrase = append(phrase, tok)
		}
		word = word[:0]
	}
	endPhrase := func() {
		endWord()
		if len(phrase) > 0 {
			phrases = append(phrases, phrase)
		}
		phrase = nil
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#':
			word = append(word, r)
		case r == '.' || r == '-' || r == '\'' || r == '’':
			// kept only between word characters: "node.js", "ci-cd", "3.5"
			if len(word) > 0 && i+1 < len(runes) && isWordRune(runes[i+1]) {
				word = append(word, r)
				continue
			}
			if r == '\'' || r == '’' {
				endWord()
				continue
			}
			endPhrase()
		case unicode.IsSpace(r):
			endWord()
		default:
			endPhrase()
		}
	}
	endPhrase()
	return phrases
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// cleanToken drops possessives and apostrophes and keeps tokens that contain
// at least one letter or digit.
func cleanToken(word []rune) string {
	s := string(word)
	s = strings.TrimSuffix(s, "'s")
	s = strings.TrimSuffix(s, "’s")
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	s = strings.Trim(s, ".-")
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return s
		}
	}
	return ""
}
