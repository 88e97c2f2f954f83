package branchmap

import (
	"fmt"
	"io"

	"github.com/aretw0/branchmap/pkg/domain"
)

// ContentRenderer is a function that transforms the report before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Printer writes analysis reports to an output.
type Printer struct {
	Output   io.Writer
	Renderer ContentRenderer
}

// Print renders r through the analyzer's report and the optional renderer.
// Mermaid-only output is never passed to the renderer so it stays pipeable.
func (p *Printer) Print(a *Analyzer, r *domain.Result) error {
	if p.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	content := a.Render(r)
	if p.Renderer != nil && !a.Config().MermaidOnly {
		rendered, err := p.Renderer(content)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		content = rendered
	}
	_, err := io.WriteString(p.Output, content)
	return err
}
