// Package graph compiles a path collection into a node/edge graph and renders
// it as a Mermaid flowchart, in full or compact form.
package graph

import (
	"fmt"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// index assigns one diagram node per distinct element (activities by name,
// gates by id) in first-appearance order across the collection.
type index struct {
	cfg   config.Config
	byKey map[string]string
	taken map[string]bool
	nodes []domain.GraphNode
}

// reservedIDs are Mermaid keywords that cannot name a node.
var reservedIDs = []string{"end", "subgraph", "graph", "flowchart", "style", "classDef", "class", "click", "linkStyle", "direction"}

func newIndex(paths *domain.PathCollection, cfg config.Config) *index {
	taken := map[string]bool{domain.StartNodeID: true, domain.EndNodeID: true}
	for _, id := range reservedIDs {
		taken[id] = true
	}
	idx := &index{
		cfg:   cfg,
		byKey: make(map[string]string),
		taken: taken,
		nodes: []domain.GraphNode{
			{ID: domain.StartNodeID, Label: cfg.StartLabel, Kind: domain.NodeStart},
			{ID: domain.EndNodeID, Label: cfg.EndLabel, Kind: domain.NodeEnd},
		},
	}
	for _, p := range paths.Paths {
		for _, s := range p.Steps {
			idx.node(s.Element)
		}
	}
	return idx
}

func (idx *index) node(e domain.SourceElement) string {
	key := e.Key()
	if id, ok := idx.byKey[key]; ok {
		return id
	}

	base := e.Name
	if e.Kind.IsGate() && e.ID != "" {
		base = e.ID
	}
	base = sanitizeMermaidID(base)
	id := base
	for n := 2; idx.taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	idx.taken[id] = true
	idx.byKey[key] = id

	kind := domain.NodeActivity
	switch e.Kind {
	case domain.KindDecision:
		kind = domain.NodeDecision
	case domain.KindSignal:
		kind = domain.NodeSignal
	}
	idx.nodes = append(idx.nodes, domain.GraphNode{
		ID:    id,
		Label: Display(e.Name, idx.cfg.SplitWords),
		Kind:  kind,
	})
	return id
}

// edges returns the consecutive pairs of one path, Start and End included.
// An edge leaving a resolved gate carries the outcome label.
func (idx *index) edges(p domain.VisiblePath) []domain.GraphEdge {
	out := make([]domain.GraphEdge, 0, len(p.Steps)+1)
	from, label := domain.StartNodeID, ""
	for _, s := range p.Steps {
		to := idx.node(s.Element)
		out = append(out, domain.GraphEdge{From: from, To: to, Label: label})
		from, label = to, ""
		if s.Outcome != nil {
			label = idx.cfg.OutcomeLabel(s.Element, *s.Outcome)
		}
	}
	return append(out, domain.GraphEdge{From: from, To: domain.EndNodeID, Label: label})
}

// Compile builds the full-form graph: the union of consecutive pairs across
// all paths, with identical (from, to, label) triples collapsed.
func Compile(paths *domain.PathCollection, cfg config.Config) *domain.Graph {
	idx := newIndex(paths, cfg)
	g := &domain.Graph{Edges: []domain.GraphEdge{}}
	seen := make(map[string]bool)
	for _, p := range paths.Paths {
		for _, e := range idx.edges(p) {
			if seen[e.Key()] {
				continue
			}
			seen[e.Key()] = true
			g.Edges = append(g.Edges, e)
		}
	}
	g.Nodes = idx.nodes
	return g
}
