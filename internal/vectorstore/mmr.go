package vectorstore

import (
	"math"

	"rulebot/internal/domain"
)

// MaximalMarginalRelevance re-ranks similarity-ordered candidates, balancing
// relevance to the query against diversity among the selected set. lambda 1
// is pure relevance, lambda 0 pure diversity. Candidates must carry their
// vectors.
func MaximalMarginalRelevance(query []float64, candidates []domain.SearchResult, k int, lambda float64) []domain.SearchResult {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	if lambda < 0 || lambda > 1 {
		lambda = 0.5
	}

	remaining := make([]int, len(candidates))
	for i := range candidates {
		remaining[i] = i
	}
	selected := make([]domain.SearchResult, 0, k)

	for len(selected) < k {
		bestPos, bestScore := -1, math.Inf(-1)
		for pos, idx := range remaining {
			relevance := cosine(query, candidates[idx].Vector)
			redundancy := 0.0
			for _, sel := range selected {
				if sim := cosine(candidates[idx].Vector, sel.Vector); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*relevance - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}
		idx := remaining[bestPos]
		selected = append(selected, candidates[idx])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}
	return selected
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
