package graph

import (
	"sort"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Compact re-chains the path collection into as few lines as possible. The
// longest path is emitted whole; every other path, longest first, contributes
// only its runs of edges not yet captured, each run starting at the captured
// node it branches from and ending where it rejoins. Every full-form edge ends
// up in exactly one chain.
func Compact(paths *domain.PathCollection, cfg config.Config) []domain.Chain {
	idx := newIndex(paths, cfg)

	order := make([]int, len(paths.Paths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return paths.Paths[order[a]].Len() > paths.Paths[order[b]].Len()
	})

	chains := []domain.Chain{}
	captured := make(map[string]bool)
	for _, i := range order {
		var run []domain.GraphEdge
		for _, e := range idx.edges(paths.Paths[i]) {
			if captured[e.Key()] {
				if len(run) > 0 {
					chains = append(chains, domain.Chain{Edges: run})
					run = nil
				}
				continue
			}
			captured[e.Key()] = true
			run = append(run, e)
		}
		if len(run) > 0 {
			chains = append(chains, domain.Chain{Edges: run})
		}
	}
	return chains
}

// Expand flattens chains back into their edge list.
func Expand(chains []domain.Chain) []domain.GraphEdge {
	var out []domain.GraphEdge
	for _, c := range chains {
		out = append(out, c.Edges...)
	}
	return out
}
