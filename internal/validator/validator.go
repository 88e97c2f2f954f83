// Package validator cross-references the activities a workflow calls against
// the activities declared in the analyzed codebase.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/branchmap/pkg/config"
)

// Check reports every registry entry that no element of the model references.
// Findings are warnings, never errors; the result is sorted and nil when
// validation is suppressed.
func Check(referenced map[string]struct{}, registry []string, cfg config.Config) []string {
	if cfg.SuppressValidation || len(registry) == 0 {
		return nil
	}

	called := make(map[string]bool, len(referenced))
	for name := range referenced {
		called[shortName(name)] = true
	}

	seen := make(map[string]bool)
	var warnings []string
	for _, declared := range registry {
		short := shortName(declared)
		if short == "" || seen[short] || called[short] {
			continue
		}
		seen[short] = true
		warnings = append(warnings, fmt.Sprintf("activity %q is declared but never called", short))
	}
	sort.Strings(warnings)
	return warnings
}

// shortName drops a package or receiver qualifier ("activities.Charge" -> "Charge").
func shortName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
