package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// RenderFull produces a Mermaid flowchart with one line per deduplicated edge.
// Shapes:
// - Start / End: ((Circle))
// - Decision: {Diamond}
// - Signal: {{Hexagon}}
// - Activity: bare id when the label is one word matching the id, id[Label] otherwise
func RenderFull(g *domain.Graph, cfg config.Config) string {
	nodes := nodeMap(g)
	var sb strings.Builder
	sb.WriteString(header(cfg))
	for _, e := range g.Edges {
		sb.WriteString("    ")
		sb.WriteString(token(nodes[e.From]))
		sb.WriteString(arrow(e.Label))
		sb.WriteString(token(nodes[e.To]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCompact produces one line per chain.
func RenderCompact(g *domain.Graph, chains []domain.Chain, cfg config.Config) string {
	nodes := nodeMap(g)
	var sb strings.Builder
	sb.WriteString(header(cfg))
	for _, c := range chains {
		if len(c.Edges) == 0 {
			continue
		}
		sb.WriteString("    ")
		sb.WriteString(token(nodes[c.Edges[0].From]))
		for _, e := range c.Edges {
			sb.WriteString(arrow(e.Label))
			sb.WriteString(token(nodes[e.To]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func header(cfg config.Config) string {
	dir := cfg.Direction
	if dir == "" {
		dir = "LR"
	}
	return "flowchart " + dir + "\n"
}

func nodeMap(g *domain.Graph) map[string]domain.GraphNode {
	m := make(map[string]domain.GraphNode, len(g.Nodes))
	for _, n := range g.Nodes {
		m[n.ID] = n
	}
	return m
}

func token(n domain.GraphNode) string {
	label := quoteLabel(n.Label)
	switch n.Kind {
	case domain.NodeStart, domain.NodeEnd:
		return fmt.Sprintf("%s((%s))", n.ID, label)
	case domain.NodeDecision:
		return fmt.Sprintf("%s{%s}", n.ID, label)
	case domain.NodeSignal:
		return fmt.Sprintf("%s{{%s}}", n.ID, label)
	}
	// One-word labels that only differ from the id in case render bare.
	if !strings.Contains(n.Label, " ") && strings.EqualFold(n.Label, n.ID) {
		return n.ID
	}
	return fmt.Sprintf("%s[%s]", n.ID, label)
}

func arrow(label string) string {
	if label == "" {
		return " --> "
	}
	return " -- " + quoteLabel(label) + " --> "
}

// quoteLabel wraps labels holding Mermaid punctuation in double quotes.
func quoteLabel(s string) string {
	plain := true
	for _, r := range s {
		if !(r == ' ' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r > 0x7f) {
			plain = false
			break
		}
	}
	if plain && s != "" {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, "#quot;") + `"`
}
