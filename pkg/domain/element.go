package domain

import (
	"fmt"
	"strings"
)

// ElementKind identifies the variant of a SourceElement.
type ElementKind string

const (
	// KindActivity is a plain activity invocation.
	KindActivity ElementKind = "activity"
	// KindDecision is a boolean decision point (yes/no).
	KindDecision ElementKind = "decision"
	// KindSignal is a signal wait that either arrives or times out.
	KindSignal ElementKind = "signal"
)

// IsGate reports whether elements of this kind carry a binary outcome.
func (k ElementKind) IsGate() bool {
	return k == KindDecision || k == KindSignal
}

// Position is a source location. It is a total order key used while building
// the control-flow model and never during rendering.
type Position struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	Line   int    `json:"line" yaml:"line" mapstructure:"line"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty" mapstructure:"column"`
}

// Less orders positions by file, then line, then column.
func (p Position) Less(o Position) bool {
	if p.File != o.File {
		return p.File < o.File
	}
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// IsZero reports whether the position is unset.
func (p Position) IsZero() bool {
	return p == Position{}
}

func (p Position) String() string {
	switch {
	case p.IsZero():
		return "<unknown>"
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Arm selects one side of a conditional construct.
type Arm string

const (
	ArmThen Arm = "then"
	ArmElse Arm = "else"
)

// ScopeRef names one enclosing conditional arm.
type ScopeRef struct {
	Gate string `json:"gate" yaml:"gate" mapstructure:"gate"`
	Arm  Arm    `json:"arm" yaml:"arm" mapstructure:"arm"`
}

func (r ScopeRef) String() string {
	return r.Gate + "/" + string(r.Arm)
}

// Scope is the chain of enclosing conditional arms, outermost first.
// The empty scope is the workflow body.
type Scope []ScopeRef

// Key returns a canonical string form usable as a map key.
func (s Scope) Key() string {
	parts := make([]string, len(s))
	for i, ref := range s {
		parts[i] = ref.String()
	}
	return strings.Join(parts, ">")
}

// Child returns a new scope extended by one arm. The receiver is not modified.
func (s Scope) Child(gate string, arm Arm) Scope {
	out := make(Scope, len(s), len(s)+1)
	copy(out, s)
	return append(out, ScopeRef{Gate: gate, Arm: arm})
}

// HasPrefix reports whether p is a (not necessarily strict) prefix of s.
func (s Scope) HasPrefix(p Scope) bool {
	if len(p) > len(s) {
		return false
	}
	for i := range p {
		if s[i] != p[i] {
			return false
		}
	}
	return true
}

// SourceElement is a leaf event extracted from workflow source.
type SourceElement struct {
	Kind ElementKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	// ID is the gate identifier. Empty for activities.
	ID   string   `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Name string   `json:"name" yaml:"name" mapstructure:"name"`
	Pos  Position `json:"pos" yaml:"pos" mapstructure:"pos"`

	// TrueLabel and FalseLabel override the configured outcome labels for this gate.
	TrueLabel  string `json:"true_label,omitempty" yaml:"true_label,omitempty" mapstructure:"true_label"`
	FalseLabel string `json:"false_label,omitempty" yaml:"false_label,omitempty" mapstructure:"false_label"`

	// Gating marks a decision or signal whose outcome selects between two arms.
	Gating bool `json:"gating,omitempty" yaml:"gating,omitempty" mapstructure:"gating"`

	Scope Scope `json:"scope,omitempty" yaml:"scope,omitempty" mapstructure:"scope"`
}

// Key identifies the element for deduplication and graph node identity:
// activities by name, gates by id (by name when a leaf gate carries no id).
func (e SourceElement) Key() string {
	if e.Kind.IsGate() && e.ID != "" {
		return string(e.Kind) + ":" + e.ID
	}
	return string(e.Kind) + ":" + e.Name
}

// Activity builds an activity element.
func Activity(name string, pos Position, scope ...ScopeRef) SourceElement {
	return SourceElement{Kind: KindActivity, Name: name, Pos: pos, Scope: scope}
}

// Decision builds a gating decision element.
func Decision(id, name string, pos Position, scope ...ScopeRef) SourceElement {
	return SourceElement{Kind: KindDecision, ID: id, Name: name, Pos: pos, Gating: true, Scope: scope}
}

// Signal builds a gating signal element.
func Signal(id, name string, pos Position, scope ...ScopeRef) SourceElement {
	return SourceElement{Kind: KindSignal, ID: id, Name: name, Pos: pos, Gating: true, Scope: scope}
}

// Then is shorthand for ScopeRef{Gate: gate, Arm: ArmThen}.
func Then(gate string) ScopeRef { return ScopeRef{Gate: gate, Arm: ArmThen} }

// Else is shorthand for ScopeRef{Gate: gate, Arm: ArmElse}.
func Else(gate string) ScopeRef { return ScopeRef{Gate: gate, Arm: ArmElse} }

// Line is shorthand for a file-less position, mostly used in tests and documents.
func Line(n int) Position { return Position{Line: n} }
