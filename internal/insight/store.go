package insight

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
	"github.com/rlmctx/rlmctx/internal/tokenize"
)

// Store implements the insight memory contract (C7): remember, recall,
// forget over a single session_memory.json document.
type Store struct {
	root string
}

// NewStore opens an insight store rooted at root.
func NewStore(root string) (*Store, error) {
	return &Store{root: root}, nil
}

// Remember appends a new insight with a fresh UUID and returns its ID.
func (s *Store) Remember(in RememberInput) (string, error) {
	if err := ValidateCategory(in.Category); err != nil {
		return "", err
	}
	if err := ValidateImportance(in.Importance); err != nil {
		return "", err
	}

	id := uuid.NewString()
	ins := Insight{
		ID:         id,
		Content:    in.Content,
		Category:   in.Category,
		Importance: in.Importance,
		Tags:       in.Tags,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	err := withRegistryLock(s.root, func(reg *registry) error {
		reg.Insights = append(reg.Insights, ins)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

type scoredInsight struct {
	insight Insight
	score   float64
}

// Recall returns insights matching filter. With a query that tokenizes to
// at least one term, results are ranked by the fraction of query tokens
// present in the insight's tokenized content, ties broken by created_at
// desc. A non-empty query that tokenizes to nothing (stopwords only)
// falls back to a raw case-insensitive substring match. With no query,
// results are sorted by created_at desc.
func (s *Store) Recall(filter RecallFilter) ([]Insight, error) {
	reg, err := loadRegistry(s.root)
	if err != nil {
		return nil, err
	}

	candidates := make([]Insight, 0, len(reg.Insights))
	for _, ins := range reg.Insights {
		if filter.Category != "" && ins.Category != filter.Category {
			continue
		}
		if filter.Importance != "" && ins.Importance != filter.Importance {
			continue
		}
		candidates = append(candidates, ins)
	}

	queryTokens := tokenize.Tokenize(filter.Query, true)

	var out []Insight
	switch {
	case filter.Query == "":
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt > candidates[j].CreatedAt
		})
		out = candidates

	case len(queryTokens) == 0:
		lowered := strings.ToLower(filter.Query)
		filtered := candidates[:0:0]
		for _, ins := range candidates {
			if strings.Contains(strings.ToLower(ins.Content), lowered) {
				filtered = append(filtered, ins)
			}
		}
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt > filtered[j].CreatedAt
		})
		out = filtered

	default:
		scored := make([]scoredInsight, 0, len(candidates))
		for _, ins := range candidates {
			ratio := matchRatio(queryTokens, ins.Content)
			if ratio == 0 {
				continue
			}
			scored = append(scored, scoredInsight{insight: ins, score: ratio})
		}
		sort.Slice(scored, func(i, j int) bool {
			if scored[i].score != scored[j].score {
				return scored[i].score > scored[j].score
			}
			return scored[i].insight.CreatedAt > scored[j].insight.CreatedAt
		})
		out = make([]Insight, len(scored))
		for i, sc := range scored {
			out[i] = sc.insight
		}
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// matchRatio returns the fraction of queryTokens present in content's
// tokenized form.
func matchRatio(queryTokens []string, content string) float64 {
	contentTokens := tokenize.Tokenize(content, true)
	present := make(map[string]struct{}, len(contentTokens))
	for _, t := range contentTokens {
		present[t] = struct{}{}
	}

	hits := 0
	for _, qt := range queryTokens {
		if _, ok := present[qt]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

// Forget removes the insight with the given ID. Removing a missing ID
// returns NotFound rather than silently no-op'ing.
func (s *Store) Forget(id string) error {
	return withRegistryLock(s.root, func(reg *registry) error {
		i, ok := reg.findByID(id)
		if !ok {
			return rlmerrors.New(rlmerrors.KindNotFound, "insight not found", nil)
		}
		reg.Insights = append(reg.Insights[:i], reg.Insights[i+1:]...)
		return nil
	})
}
