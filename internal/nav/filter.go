package nav

import (
	"strings"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
)

// matchesChunk applies the project/domain/date/entity filter to a single
// chunk's metadata. Date comparison is lexicographic on YYYY-MM-DD
// prefixes; a chunk with no created_at falls back to its ID's leading
// date.
func matchesChunk(c chunkstore.Chunk, f Filter) bool {
	if f.Project != "" && c.Project != f.Project {
		return false
	}
	if f.Domain != "" && c.Domain != f.Domain {
		return false
	}

	date := c.CreatedAt
	if date == "" && len(c.ID) >= 10 {
		date = c.ID[:10]
	}
	if len(date) >= 10 {
		date = date[:10]
	}
	if f.DateFrom != "" && date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && date > f.DateTo {
		return false
	}

	if f.Entity != "" && !entityMatches(c, f.Entity) {
		return false
	}
	return true
}

func entityMatches(c chunkstore.Chunk, needle string) bool {
	needle = strings.ToLower(needle)
	for _, group := range [][]string{
		c.Entities.Files, c.Entities.Versions, c.Entities.Modules,
		c.Entities.Tickets, c.Entities.Functions,
	} {
		for _, e := range group {
			if strings.Contains(strings.ToLower(e), needle) {
				return true
			}
		}
	}
	return false
}
