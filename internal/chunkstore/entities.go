package chunkstore

import (
	"regexp"
	"sort"
)

var (
	fileExtPattern     = regexp.MustCompile(`\b[\w./-]*[\w-]\.(?:go|py|js|jsx|ts|tsx|rs|java|rb|c|h|cc|hpp|cpp|sh|sql|md|yaml|yml|json|toml|txt|proto|graphql)\b`)
	versionPattern     = regexp.MustCompile(`\bv\d+(?:\.\d+){0,3}\b|\b\d+\.\d+\.\d+(?:-[A-Za-z0-9.]+)?\b`)
	snakeCasePattern   = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:_[a-z0-9]+)+\b`)
	dottedIdentPattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)+\b`)
	ticketPattern      = regexp.MustCompile(`\b[A-Z]{2,}-\d+\b|#\d+\b`)
	functionPattern    = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\(\)`)
)

// ExtractEntities scans content for the five typed entity categories.
func ExtractEntities(content string) Entities {
	return Entities{
		Files:     dedupSorted(fileExtPattern.FindAllString(content, -1)),
		Versions:  dedupSorted(versionPattern.FindAllString(content, -1)),
		Modules:   dedupSorted(mergeModules(content)),
		Tickets:   dedupSorted(ticketPattern.FindAllString(content, -1)),
		Functions: dedupSorted(functionPattern.FindAllString(content, -1)),
	}
}

func mergeModules(content string) []string {
	modules := snakeCasePattern.FindAllString(content, -1)
	modules = append(modules, dottedIdentPattern.FindAllString(content, -1)...)
	return modules
}

func dedupSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	sort.Strings(out)
	return out
}
