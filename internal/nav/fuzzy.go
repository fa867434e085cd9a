package nav

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// fuzzyScoreScale is the approximate per-matched-character ceiling fzf's
// scoring awards (match + consecutive + boundary bonuses); used only to
// rescale algo's raw score onto the spec's documented 0-100 ratio.
const fuzzyScoreScale = 16

// GrepFuzzy scores every line of every matching chunk against pattern
// using fzf's V1 fuzzy algorithm, keeping hits scoring at or above
// threshold (0-100), sorted by score descending.
func (n *Nav) GrepFuzzy(pattern string, threshold int, filter Filter, limit int) ([]FuzzyMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	chunks, err := n.sortedChunks(filter)
	if err != nil {
		return nil, err
	}

	runes := []rune(pattern)
	var matches []FuzzyMatch
	for _, c := range chunks {
		content, err := n.chunks.ReadContent(c.ID)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(content, "\n") {
			chars := util.ToChars([]byte(line))
			result, _ := algo.FuzzyMatchV1(false, true, true, &chars, runes, false, nil)
			if result.Start < 0 {
				continue
			}
			score := fuzzyRatio(result.Score, len(runes))
			if score < threshold {
				continue
			}
			matches = append(matches, FuzzyMatch{ChunkID: c.ID, Line: i + 1, Text: line, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].ChunkID != matches[j].ChunkID {
			return matches[i].ChunkID < matches[j].ChunkID
		}
		return matches[i].Line < matches[j].Line
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// fuzzyRatio rescales a raw fzf match score onto 0-100, clamped.
func fuzzyRatio(rawScore, patternLen int) int {
	if patternLen == 0 {
		return 0
	}
	ratio := rawScore * 100 / (patternLen * fuzzyScoreScale)
	if ratio > 100 {
		return 100
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}
