package retention

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldASCII strips accents so "À RETENIR" matches the "A RETENIR:" keyword.
func foldASCII(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// isImmune reports whether a chunk is protected from archival and purge:
// a protected tag, a high access count, or a protected keyword in its
// opening content.
func isImmune(tags []string, accessCount int, content string) bool {
	for _, t := range tags {
		if _, ok := ProtectedTags[strings.ToLower(t)]; ok {
			return true
		}
	}
	if accessCount >= ImmuneAccessCount {
		return true
	}
	return hasProtectedKeyword(content)
}

// hasProtectedKeyword scans the first keywordScanBytes of content, folded
// and uppercased, for any ProtectedKeywords entry.
func hasProtectedKeyword(content string) bool {
	scan := content
	if len(scan) > keywordScanBytes {
		scan = scan[:keywordScanBytes]
	}
	folded := strings.ToUpper(foldASCII(scan))
	for _, kw := range ProtectedKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
