// Package similarity scores how well two weighted term sets overlap.
package similarity

import (
	"sort"

	"hiring-platform/internal/matching"
)

const (
	baseFactor     = 0.7
	coverageFactor = 0.3
)

// Score returns a value in [0,1]. The product of the shared weights is
// averaged, then scaled by how much of a is covered by b. The result is
// asymmetric: a is the reference set.
func Score(a, b matching.TermWeights) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var sum float64
	common := 0
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			sum += wa * wb
			common++
		}
	}
	if common == 0 {
		return 0
	}

	match := sum / float64(common)
	coverage := float64(common) / float64(len(a))
	score := match * (baseFactor + coverageFactor*coverage)
	if score > 1 {
		return 1
	}
	return score
}

// CommonTerms lists the terms present in both sets, strongest product
// first. Ties are broken alphabetically so the order is deterministic.
func CommonTerms(a, b matching.TermWeights) []string {
	type ranked struct {
		term   string
		weight float64
	}

	var shared []ranked
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			shared = append(shared, ranked{term: term, weight: wa * wb})
		}
	}

	sort.Slice(shared, func(i, j int) bool {
		if shared[i].weight != shared[j].weight {
			return shared[i].weight > shared[j].weight
		}
		return shared[i].term < shared[j].term
	})

	out := make([]string, len(shared))
	for i, r := range shared {
		out[i] = r.term
	}
	return out
}
