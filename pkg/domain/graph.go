package domain

// NodeKind is the rendered shape family of a GraphNode.
type NodeKind string

const (
	NodeStart    NodeKind = "start"
	NodeEnd      NodeKind = "end"
	NodeActivity NodeKind = "activity"
	NodeDecision NodeKind = "decision"
	NodeSignal   NodeKind = "signal"
)

// Reserved node identifiers for the implicit endpoints of every path.
const (
	StartNodeID = "Start"
	EndNodeID   = "End"
)

// GraphNode is a diagram node. Activities are keyed by name, gates by id.
type GraphNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// GraphEdge is a directed diagram edge. Label is empty for plain sequencing.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Key identifies the (from, to, label) triple.
func (e GraphEdge) Key() string {
	return e.From + "\x00" + e.To + "\x00" + e.Label
}

// Graph is the deduplicated union of all consecutive pairs across all paths.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// HasEdge reports whether the exact edge exists.
func (g *Graph) HasEdge(e GraphEdge) bool {
	for _, x := range g.Edges {
		if x == e {
			return true
		}
	}
	return false
}

// Chain is one line of the compact rendering: a run of consecutive edges.
type Chain struct {
	Edges []GraphEdge `json:"edges"`
}
