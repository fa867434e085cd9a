package search

import "math"

// DefaultFusionAlpha is the spec's default weight on the cosine signal.
const DefaultFusionAlpha = 0.6

// minMaxNormalize scales scores into [0, 1]. A corpus where every score
// is identical normalizes to 1 for all (rather than dividing by zero),
// since every document is an equally strong match for that signal.
func minMaxNormalize(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	out := make(map[string]float64, len(scores))
	if max == min {
		for id := range scores {
			out[id] = 1
		}
		return out
	}
	for id, s := range scores {
		out[id] = (s - min) / (max - min)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fuse combines normalized BM25 and cosine scores linearly:
// final = alpha*cosine + (1-alpha)*bm25. A document present in only one
// signal scores zero in the other.
func fuse(bm25Norm, cosine map[string]float64, alpha float64, ids []string) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		out[id] = alpha*cosine[id] + (1-alpha)*bm25Norm[id]
	}
	return out
}
