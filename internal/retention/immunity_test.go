package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImmune_ProtectedTagMakesImmune(t *testing.T) {
	assert.True(t, isImmune([]string{"keep"}, 0, "plain content"))
	assert.True(t, isImmune([]string{"Critical"}, 0, "plain content"))
	assert.False(t, isImmune([]string{"bug"}, 0, "plain content"))
}

func TestIsImmune_HighAccessCountMakesImmune(t *testing.T) {
	assert.True(t, isImmune(nil, ImmuneAccessCount, "plain content"))
	assert.False(t, isImmune(nil, ImmuneAccessCount-1, "plain content"))
}

func TestIsImmune_ProtectedKeywordMakesImmune(t *testing.T) {
	assert.True(t, isImmune(nil, 0, "DECISION: use BM25"))
	assert.True(t, isImmune(nil, 0, "this is important: IMPORTANT: recheck later"))
}

func TestIsImmune_AccentedKeywordVariantStillMatches(t *testing.T) {
	assert.True(t, isImmune(nil, 0, "à retenir: revisit this before the next release"))
}

func TestIsImmune_PlainContentNotImmune(t *testing.T) {
	assert.False(t, isImmune([]string{"bug"}, 1, "nothing special here"))
}

func TestHasProtectedKeyword_OnlyScansLeadingWindow(t *testing.T) {
	padding := make([]byte, keywordScanBytes)
	for i := range padding {
		padding[i] = 'x'
	}
	content := string(padding) + "DECISION: too far in to matter"
	assert.False(t, hasProtectedKeyword(content))
}
