package nav

import (
	"regexp"
	"strings"

	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

// Grep scans active chunks in sorted ID order for lines matching pattern
// (case-insensitive), returning matches capped at limit.
func (n *Nav) Grep(pattern string, filter Filter, limit int) ([]Match, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, rlmerrors.New(rlmerrors.KindInvalidPattern, "invalid grep pattern", err)
	}
	if limit <= 0 {
		limit = 10
	}

	chunks, err := n.sortedChunks(filter)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, limit)
	for _, c := range chunks {
		content, err := n.chunks.ReadContent(c.ID)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(content, "\n") {
			if re.MatchString(line) {
				matches = append(matches, Match{ChunkID: c.ID, Line: i + 1, Text: line})
				if len(matches) >= limit {
					return matches, nil
				}
			}
		}
	}
	return matches, nil
}
