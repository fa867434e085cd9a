// Package tokenize implements the prose tokenizer shared by BM25 indexing
// and insight recall: accent-stripping, hyphen-aware, FR+EN stopword-filtered.
package tokenize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches runs of lowercase-normalized alphanumerics joined by
// single hyphens, e.g. "well-known" or "x86-64".
var tokenPattern = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)*`)

// MinTokenLength drops tokens shorter than this after splitting.
const MinTokenLength = 2

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripAccents removes combining diacritical marks via NFD decomposition.
func stripAccents(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize lowercases text, strips accents, extracts hyphen-compound
// alphanumeric runs, splits compounds on '-', drops short tokens, and
// optionally removes stopwords. It is deterministic and locale-independent.
func Tokenize(text string, removeStopwords bool) []string {
	folded := strings.ToLower(stripAccents(text))
	runsMatched := tokenPattern.FindAllString(folded, -1)

	tokens := make([]string, 0, len(runsMatched))
	for _, run := range runsMatched {
		for _, part := range strings.Split(run, "-") {
			if len(part) >= MinTokenLength {
				tokens = append(tokens, part)
			}
		}
	}

	if removeStopwords {
		tokens = FilterStopWords(tokens, stopWordSet)
	}

	return tokens
}

// FilterStopWords removes any token present in stopWords.
func FilterStopWords(tokens []string, stopWords map[string]struct{}) []string {
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := stopWords[token]; !isStop {
			result = append(result, token)
		}
	}
	return result
}

// BuildStopWordMap converts a slice of stopwords into a lookup set.
func BuildStopWordMap(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}
