package domain

// Model is the output of the control-flow model builder.
type Model struct {
	Workflow string          `json:"workflow"`
	Root     Sequence        `json:"root"`
	Elements []SourceElement `json:"elements"`
}

// ActivityNames returns the distinct activity names referenced anywhere in
// the model, reached or not.
func (m *Model) ActivityNames() map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range m.Elements {
		if e.Kind == KindActivity {
			out[e.Name] = struct{}{}
		}
	}
	return out
}

// Result bundles everything produced by one analysis run.
type Result struct {
	Model    *Model          `json:"model"`
	Paths    *PathCollection `json:"paths"`
	Graph    *Graph          `json:"graph"`
	Chains   []Chain         `json:"chains"`
	Warnings []string        `json:"warnings,omitempty"`
}
