package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/rlmctx/rlmctx/internal/pathsafe"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
)

const sessionsVersion = "1"
const domainsVersion = "1"

// defaultDomains seeds domains.json on first run.
var defaultDomains = []string{
	"bug", "feature", "refactor", "infra", "docs", "testing", "performance", "security",
}

var projectSanitizePattern = regexp.MustCompile(`[^A-Za-z0-9_.&-]+`)

// sanitizeProject strips characters outside the project-component allowlist,
// mirroring chunkstore's ID sanitization for the same kind of segment.
func sanitizeProject(s string) string {
	return projectSanitizePattern.ReplaceAllString(s, "")
}

type sessionRegistry struct {
	Version  string    `json:"version"`
	Sessions []Session `json:"sessions"`
}

type domainRegistry struct {
	Version string   `json:"version"`
	Domains []string `json:"domains"`
}

func sessionsPath(root string) string { return filepath.Join(root, "sessions.json") }
func domainsPath(root string) string  { return filepath.Join(root, "domains.json") }

func loadSessions(root string) (*sessionRegistry, error) {
	data, err := os.ReadFile(sessionsPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &sessionRegistry{Version: sessionsVersion}, nil
		}
		return nil, rlmerrors.Wrap("read sessions.json", err)
	}
	var reg sessionRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, rlmerrors.Wrap("parse sessions.json", err)
	}
	if reg.Version == "" {
		reg.Version = sessionsVersion
	}
	return &reg, nil
}

func saveSessions(root string, reg *sessionRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return rlmerrors.Wrap("marshal sessions.json", err)
	}
	return pathsafe.AtomicWrite(sessionsPath(root), data)
}

func withSessionsLock(root string, fn func(reg *sessionRegistry) error) error {
	return pathsafe.WithExclusiveLock(sessionsPath(root), func() error {
		reg, err := loadSessions(root)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return saveSessions(root, reg)
	})
}

func loadDomains(root string) (*domainRegistry, error) {
	data, err := os.ReadFile(domainsPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			seeded := &domainRegistry{Version: domainsVersion, Domains: append([]string(nil), defaultDomains...)}
			if saveErr := saveDomains(root, seeded); saveErr != nil {
				return nil, saveErr
			}
			return seeded, nil
		}
		return nil, rlmerrors.Wrap("read domains.json", err)
	}
	var reg domainRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, rlmerrors.Wrap("parse domains.json", err)
	}
	if reg.Version == "" {
		reg.Version = domainsVersion
	}
	return &reg, nil
}

func saveDomains(root string, reg *domainRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return rlmerrors.Wrap("marshal domains.json", err)
	}
	return pathsafe.AtomicWrite(domainsPath(root), data)
}

func withDomainsLock(root string, fn func(reg *domainRegistry) error) error {
	return pathsafe.WithExclusiveLock(domainsPath(root), func() error {
		reg, err := loadDomains(root)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return saveDomains(root, reg)
	})
}

func (reg *sessionRegistry) findByID(id string) (int, bool) {
	for i, s := range reg.Sessions {
		if s.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (reg *sessionRegistry) filtered(filter ListFilter) []Session {
	out := make([]Session, 0, len(reg.Sessions))
	for _, s := range reg.Sessions {
		if filter.Project != "" && s.Project != filter.Project {
			continue
		}
		if filter.Domain != "" && !containsString(s.Domains, filter.Domain) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastUsed != out[j].LastUsed {
			return out[i].LastUsed > out[j].LastUsed
		}
		return out[i].ID > out[j].ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func containsString(items []string, target string) bool {
	for _, s := range items {
		if s == target {
			return true
		}
	}
	return false
}
