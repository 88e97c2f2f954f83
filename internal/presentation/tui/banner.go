package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the branchmap banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Indigo to rose, one shade per line
	lines := []struct{ text, color string }{
		{" _                           _                           ", "#818cf8"},
		{"| |__  _ __ __ _ _ __   ___| |__  _ __ ___   __ _ _ __  ", "#a78bfa"},
		{"| '_ \\| '__/ _` | '_ \\ / __| '_ \\| '_ ` _ \\ / _` | '_ \\ ", "#c084fc"},
		{"| |_) | | | (_| | | | | (__| | | | | | | | | (_| | |_) |", "#e879f9"},
		{"|_.__/|_|  \\__,_|_| |_|\\___|_| |_|_| |_| |_|\\__,_| .__/ ", "#f472b6"},
		{"                                                 |_|    ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "  %s\n\n", p.String("v"+strings.TrimSpace(version)).Faint())
}
