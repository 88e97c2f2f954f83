package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/aretw0/branchmap"
	"github.com/aretw0/branchmap/internal/presentation/report"
	"github.com/aretw0/branchmap/internal/presentation/tui"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Printer writes command results to a terminal or a pipe.
type Printer struct {
	Out    *os.File
	Err    io.Writer
	Format string
	// Plain disables glamour rendering even on a terminal.
	Plain bool
}

// Report prints the analyzer's report in the configured format.
func (p Printer) Report(a *branchmap.Analyzer, r *domain.Result) error {
	if p.Format == FormatJSON {
		data, err := report.JSON(r, a.Config(), true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.Out, string(data))
		return err
	}

	printer := &branchmap.Printer{Output: p.Out}
	if !p.Plain && tui.IsTerminal(p.Out) {
		render, err := tui.NewRenderer(tui.Width(p.Out))
		if err != nil {
			return err
		}
		printer.Renderer = render
	}
	return printer.Print(a, r)
}

// Lines prints one line per entry, or a JSON array.
func (p Printer) Lines(lines []string) error {
	if p.Format == FormatJSON {
		return writeJSONArray(p.Out, lines)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(p.Out, l); err != nil {
			return err
		}
	}
	return nil
}

// Warnings prints validation warnings, colored on a terminal.
func (p Printer) Warnings(warnings []string) {
	fmt.Fprint(p.Err, tui.FormatWarnings(p.profile(), warnings))
}

// Error prints a fatal error.
func (p Printer) Error(err error) {
	fmt.Fprint(p.Err, tui.FormatError(p.profile(), err))
}

func (p Printer) profile() termenv.Profile {
	if p.Plain {
		return termenv.Ascii
	}
	if f, ok := p.Err.(*os.File); ok && tui.IsTerminal(f) {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}
