package session

import (
	"sort"
	"time"
)

// Store implements the session registry and domain suggestion list (C6):
// list_sessions and list_domains, plus the RegisterChunk hook the write
// path uses to keep both up to date.
type Store struct {
	root string
}

// NewStore opens a session registry rooted at root. The root directory
// is expected to already exist (chunkstore.NewStore creates it).
func NewStore(root string) (*Store, error) {
	return &Store{root: root}, nil
}

// RegisterChunk records that chunkID was created for project/domain on
// today's date, creating or updating the day's session and adding any
// newly observed domain to the suggestion list. Called by the RPC layer
// after a successful chunk write, not by chunkstore itself.
func (s *Store) RegisterChunk(project, domain, chunkID string) (Session, error) {
	project = sanitizeProject(project)
	now := time.Now().UTC()
	date := now.Format("2006-01-02")
	id := date + "_" + project
	nowStr := now.Format(time.RFC3339)

	var result Session
	err := withSessionsLock(s.root, func(reg *sessionRegistry) error {
		i, ok := reg.findByID(id)
		if !ok {
			sess := Session{
				ID:         id,
				Date:       date,
				Project:    project,
				ChunkCount: 1,
				CreatedAt:  nowStr,
				LastUsed:   nowStr,
			}
			if chunkID != "" {
				sess.ChunkIDs = []string{chunkID}
			}
			if domain != "" {
				sess.Domains = []string{domain}
			}
			reg.Sessions = append(reg.Sessions, sess)
			result = sess
			return nil
		}

		reg.Sessions[i].ChunkCount++
		reg.Sessions[i].LastUsed = nowStr
		if chunkID != "" {
			reg.Sessions[i].ChunkIDs = append(reg.Sessions[i].ChunkIDs, chunkID)
		}
		if domain != "" && !containsString(reg.Sessions[i].Domains, domain) {
			reg.Sessions[i].Domains = append(reg.Sessions[i].Domains, domain)
			sort.Strings(reg.Sessions[i].Domains)
		}
		result = reg.Sessions[i]
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	if domain != "" {
		if err := s.ensureDomain(domain); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ensureDomain adds domain to the suggestion list if it is not already
// present; domain values are free-form and never rejected.
func (s *Store) ensureDomain(domain string) error {
	return withDomainsLock(s.root, func(reg *domainRegistry) error {
		if containsString(reg.Domains, domain) {
			return nil
		}
		reg.Domains = append(reg.Domains, domain)
		sort.Strings(reg.Domains)
		return nil
	})
}

// ListSessions returns sessions matching filter, most recently used first.
func (s *Store) ListSessions(filter ListFilter) ([]Session, error) {
	reg, err := loadSessions(s.root)
	if err != nil {
		return nil, err
	}
	return reg.filtered(filter), nil
}

// ListDomains returns every known domain: the seeded suggestions plus
// any domain ever observed on a chunk, sorted.
func (s *Store) ListDomains() ([]string, error) {
	reg, err := loadDomains(s.root)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), reg.Domains...)
	sort.Strings(out)
	return out, nil
}
