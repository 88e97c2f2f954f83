package cli

import (
	"encoding/json"
	"io"
)

func writeJSONArray(w io.Writer, lines []string) error {
	if lines == nil {
		lines = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(lines)
}
