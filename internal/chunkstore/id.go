package chunkstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var idSanitizePattern = regexp.MustCompile(`[^A-Za-z0-9_.&-]+`)

// sanitizeIDComponent strips characters outside the ID allowlist from a
// single ID segment (project, ticket, domain).
func sanitizeIDComponent(s string) string {
	return idSanitizePattern.ReplaceAllString(s, "")
}

// nextSequence returns 1 + the highest sequence number already used by
// an existing ID for the same date+project prefix, formatted to 3 digits.
// IDs take the conventional form YYYY-MM-DD_{project}_{NNN}[_ticket][_domain].
func nextSequence(existingIDs []string, datePrefix, project string) int {
	prefix := datePrefix + "_" + project + "_"
	max := 0
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := id[len(prefix):]
		digits := rest
		if idx := strings.IndexByte(rest, '_'); idx >= 0 {
			digits = rest[:idx]
		}
		if n, err := strconv.Atoi(digits); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// generateID builds a new chunk ID for the given date, project, sequence,
// ticket, and domain, in the conventional YYYY-MM-DD_{project}_{NNN}
// [_{ticket}][_{domain}] form.
func generateID(datePrefix, project string, seq int, ticket, domain string) string {
	id := fmt.Sprintf("%s_%s_%03d", datePrefix, sanitizeIDComponent(project), seq)
	if ticket != "" {
		id += "_" + sanitizeIDComponent(ticket)
	}
	if domain != "" {
		id += "_" + sanitizeIDComponent(domain)
	}
	return id
}
