// Package report assembles the textual outputs of an analysis: the diagram,
// the path list and the validation warnings.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/branchmap/internal/presentation/graph"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Diagram returns the Mermaid body selected by cfg.Compact.
func Diagram(r *domain.Result, cfg config.Config) string {
	if cfg.Compact {
		return graph.RenderCompact(r.Graph, r.Chains, cfg)
	}
	return graph.RenderFull(r.Graph, cfg)
}

// PathLines renders one line per distinct path:
//
//	1. [d0=T] Start -> Validate Order -> Needs Review=yes -> Review -> End
func PathLines(paths *domain.PathCollection, cfg config.Config) []string {
	out := make([]string, 0, paths.Len())
	for _, p := range paths.Paths {
		parts := make([]string, 0, p.Len()+2)
		parts = append(parts, cfg.StartLabel)
		for _, s := range p.Steps {
			parts = append(parts, stepLabel(s, cfg))
		}
		parts = append(parts, cfg.EndLabel)
		out = append(out, fmt.Sprintf("%d. [%s] %s", p.Index, p.ID, strings.Join(parts, cfg.Arrow)))
	}
	return out
}

func stepLabel(s domain.PathStep, cfg config.Config) string {
	label := graph.Display(s.Element.Name, cfg.SplitWords)
	if s.Outcome != nil {
		label += "=" + cfg.OutcomeLabel(s.Element, *s.Outcome)
	}
	return label
}

// Markdown renders the full report. With cfg.MermaidOnly only the diagram body
// is returned, without fences.
func Markdown(r *domain.Result, cfg config.Config) string {
	diagram := Diagram(r, cfg)
	if cfg.MermaidOnly {
		return diagram
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Model.Workflow)

	fmt.Fprintf(&sb, "## Diagram\n\n```mermaid\n%s```\n\n", diagram)

	fmt.Fprintf(&sb, "## Paths (%d)\n\n", r.Paths.Len())
	for _, line := range PathLines(r.Paths, cfg) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if len(r.Warnings) > 0 && !cfg.SuppressValidation {
		sb.WriteString("\n## Validation\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return sb.String()
}

// Summary is the JSON shape shared by the HTTP and MCP surfaces.
type Summary struct {
	Workflow string                 `json:"workflow"`
	Diagram  string                 `json:"diagram"`
	Paths    []string               `json:"paths"`
	Gates    []domain.SourceElement `json:"gates"`
	Warnings []string               `json:"warnings"`
	Result   *domain.Result         `json:"result,omitempty"`
}

// NewSummary builds the JSON view. The raw result is included when detailed is set.
func NewSummary(r *domain.Result, cfg config.Config, detailed bool) Summary {
	s := Summary{
		Workflow: r.Model.Workflow,
		Diagram:  Diagram(r, cfg),
		Paths:    PathLines(r.Paths, cfg),
		Warnings: r.Warnings,
		Gates:    r.Paths.Gates,
	}
	if s.Warnings == nil {
		s.Warnings = []string{}
	}
	if s.Gates == nil {
		s.Gates = []domain.SourceElement{}
	}
	if detailed {
		s.Result = r
	}
	return s
}

// JSON renders the summary with indentation.
func JSON(r *domain.Result, cfg config.Config, detailed bool) ([]byte, error) {
	return json.MarshalIndent(NewSummary(r, cfg, detailed), "", "  ")
}
