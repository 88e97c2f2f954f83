package domain

// Step is one entry of a Sequence: either a leaf element or a Branch.
type Step struct {
	// Element is set for leaves (activities and non-gating decisions/signals).
	Element *SourceElement `json:"element,omitempty"`
	Branch  *Branch        `json:"branch,omitempty"`
}

// IsBranch reports whether the step is a conditional construct.
func (s Step) IsBranch() bool { return s.Branch != nil }

// Sequence is an ordered list of steps sharing one nesting scope.
type Sequence struct {
	Steps []Step `json:"steps"`
}

// Len returns the number of direct steps.
func (s Sequence) Len() int { return len(s.Steps) }

// Branch is a binary conditional construct. Exactly one of Then/Else is walked
// per replay, selected by the outcome assigned to Gate.ID.
type Branch struct {
	Gate SourceElement `json:"gate"`
	Then Sequence      `json:"then"`
	Else Sequence      `json:"else"`
}

// Gates returns every gating element of the tree in pre-order, which matches
// declaration (source position) order.
func (s Sequence) Gates() []SourceElement {
	return collectGates(s, nil)
}

func collectGates(s Sequence, out []SourceElement) []SourceElement {
	for _, st := range s.Steps {
		if st.Branch == nil {
			continue
		}
		out = append(out, st.Branch.Gate)
		out = collectGates(st.Branch.Then, out)
		out = collectGates(st.Branch.Else, out)
	}
	return out
}
