package domain

import (
	"strconv"
	"strings"
)

// Assignment maps every declared gate id to an outcome. For signals true means
// the signal arrived and false means the wait timed out.
type Assignment map[string]bool

// PathStep is one element reached during a replay. Outcome is set only for
// gating elements and records which arm was taken.
type PathStep struct {
	Element SourceElement `json:"element"`
	Outcome *bool         `json:"outcome,omitempty"`
}

// IsGate reports whether the step resolved a gate.
func (s PathStep) IsGate() bool { return s.Outcome != nil }

// Key is the structural identity of the step: kind, id or name, and outcome.
func (s PathStep) Key() string {
	k := s.Element.Key()
	if s.Outcome != nil {
		k += "=" + strconv.FormatBool(*s.Outcome)
	}
	return k
}

// VisiblePath is the ordered list of elements reached under one assignment.
type VisiblePath struct {
	// ID is derived from the visible gate outcomes only.
	ID string `json:"id"`
	// Index is the 1-based position of the path in canonical enumeration order.
	Index int        `json:"index"`
	Steps []PathStep `json:"steps"`
}

// Key is the structural identity used for deduplication.
func (p VisiblePath) Key() string {
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.Key()
	}
	return strings.Join(parts, "|")
}

// Len returns the number of visible elements.
func (p VisiblePath) Len() int { return len(p.Steps) }

// Outcome returns the resolved outcome of gate id on this path and whether the
// gate was reached at all.
func (p VisiblePath) Outcome(id string) (value bool, reached bool) {
	for _, s := range p.Steps {
		if s.Outcome != nil && s.Element.ID == id {
			return *s.Outcome, true
		}
	}
	return false, false
}

// Contains reports whether an activity with the given name was reached.
func (p VisiblePath) Contains(activity string) bool {
	for _, s := range p.Steps {
		if s.Element.Kind == KindActivity && s.Element.Name == activity {
			return true
		}
	}
	return false
}

// PathID renders the identifier of a path from its visible gate outcomes.
func PathID(steps []PathStep) string {
	var parts []string
	for _, s := range steps {
		if s.Outcome == nil {
			continue
		}
		v := "F"
		if *s.Outcome {
			v = "T"
		}
		parts = append(parts, s.Element.ID+"="+v)
	}
	if len(parts) == 0 {
		return "linear"
	}
	return strings.Join(parts, ",")
}

// PathCollection is the deduplicated, ordered set of distinct paths.
type PathCollection struct {
	Paths []VisiblePath `json:"paths"`
	// Gates lists the declared gates in canonical (declaration) order.
	Gates []SourceElement `json:"gates"`
	// Assignments is the number of assignments replayed (2^len(Gates)).
	Assignments int `json:"assignments"`
}

// Len returns the number of distinct paths.
func (c *PathCollection) Len() int { return len(c.Paths) }

// Find returns the path with the given id.
func (c *PathCollection) Find(id string) (VisiblePath, bool) {
	for _, p := range c.Paths {
		if p.ID == id {
			return p, true
		}
	}
	return VisiblePath{}, false
}

// ActivityNames returns the distinct activity names reached by any path.
func (c *PathCollection) ActivityNames() map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range c.Paths {
		for _, s := range p.Steps {
			if s.Element.Kind == KindActivity {
				out[s.Element.Name] = struct{}{}
			}
		}
	}
	return out
}
