// Package compiler turns the flat, position-ordered element list produced by a
// front end into the control-flow tree walked by the replayer.
package compiler

import (
	"fmt"
	"sort"

	"github.com/aretw0/branchmap/pkg/domain"
)

// Build partitions elements by nesting scope. Each scope's direct elements, in
// position order, form a Sequence; a gating decision or signal becomes a Branch
// whose arms are built the same way from the elements nested under it.
func Build(workflow string, elements []domain.SourceElement) (*domain.Model, error) {
	sorted := make([]domain.SourceElement, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Less(sorted[j].Pos)
	})

	b := &builder{
		gates:   make(map[string]domain.SourceElement),
		byScope: make(map[string][]domain.SourceElement),
	}
	for _, e := range sorted {
		if err := b.add(e); err != nil {
			return nil, err
		}
	}
	for _, e := range sorted {
		if err := b.checkScope(e); err != nil {
			return nil, err
		}
	}
	b.bounds()
	for _, e := range sorted {
		if err := b.checkExtent(e); err != nil {
			return nil, err
		}
	}

	return &domain.Model{
		Workflow: workflow,
		Root:     b.sequence(nil),
		Elements: sorted,
	}, nil
}

type builder struct {
	gates   map[string]domain.SourceElement
	byScope map[string][]domain.SourceElement
	// next maps a gate id to the sibling that follows it in its own scope.
	next map[string]domain.SourceElement
}

func (b *builder) add(e domain.SourceElement) error {
	switch e.Kind {
	case domain.KindActivity:
		if e.Name == "" {
			return malformed(e.Pos, "activity without a name")
		}
		if e.Gating {
			return malformed(e.Pos, fmt.Sprintf("activity %q cannot gate a branch", e.Name))
		}
	case domain.KindDecision, domain.KindSignal:
		if e.Gating && e.ID == "" {
			return malformed(e.Pos, fmt.Sprintf("%s %q has no id", e.Kind, e.Name))
		}
		if e.ID != "" {
			if prev, dup := b.gates[e.ID]; dup {
				return malformed(e.Pos, fmt.Sprintf("gate id %q already declared at %s", e.ID, prev.Pos))
			}
			b.gates[e.ID] = e
		}
	default:
		return malformed(e.Pos, fmt.Sprintf("unknown element kind %q", e.Kind))
	}
	key := e.Scope.Key()
	b.byScope[key] = append(b.byScope[key], e)
	return nil
}

// checkScope verifies that every enclosing arm belongs to a gating element that
// precedes e and lives exactly one level further out.
func (b *builder) checkScope(e domain.SourceElement) error {
	for i, ref := range e.Scope {
		if ref.Arm != domain.ArmThen && ref.Arm != domain.ArmElse {
			return malformed(e.Pos, fmt.Sprintf("invalid arm %q in scope %s", ref.Arm, e.Scope.Key()))
		}
		gate, ok := b.gates[ref.Gate]
		if !ok {
			return malformed(e.Pos, fmt.Sprintf("scope references unknown gate %q", ref.Gate))
		}
		if !gate.Gating {
			return malformed(e.Pos, fmt.Sprintf("scope references %s %q which does not gate a branch", gate.Kind, ref.Gate))
		}
		if gate.Scope.Key() != e.Scope[:i].Key() {
			return malformed(e.Pos, fmt.Sprintf("gate %q is declared in scope %q, not %q", ref.Gate, gate.Scope.Key(), e.Scope[:i].Key()))
		}
		if !gate.Pos.Less(e.Pos) {
			return malformed(e.Pos, fmt.Sprintf("element precedes its enclosing gate %q at %s", ref.Gate, gate.Pos))
		}
	}
	return nil
}

func (b *builder) bounds() {
	b.next = make(map[string]domain.SourceElement)
	for _, siblings := range b.byScope {
		for i, e := range siblings[:max(len(siblings)-1, 0)] {
			if e.Kind.IsGate() && e.Gating {
				b.next[e.ID] = siblings[i+1]
			}
		}
	}
}

// checkExtent verifies that e lies inside every enclosing gate's arm: before
// the sibling that follows the gate in its scope.
func (b *builder) checkExtent(e domain.SourceElement) error {
	for _, ref := range e.Scope {
		after, ok := b.next[ref.Gate]
		if ok && !e.Pos.Less(after.Pos) {
			return malformed(e.Pos, fmt.Sprintf("element lies outside gate %q, whose scope continues at %s", ref.Gate, after.Pos))
		}
	}
	return nil
}

func (b *builder) sequence(scope domain.Scope) domain.Sequence {
	seq := domain.Sequence{Steps: []domain.Step{}}
	for _, e := range b.byScope[scope.Key()] {
		if e.Kind.IsGate() && e.Gating {
			seq.Steps = append(seq.Steps, domain.Step{Branch: &domain.Branch{
				Gate: e,
				Then: b.sequence(scope.Child(e.ID, domain.ArmThen)),
				Else: b.sequence(scope.Child(e.ID, domain.ArmElse)),
			}})
			continue
		}
		leaf := e
		seq.Steps = append(seq.Steps, domain.Step{Element: &leaf})
	}
	return seq
}

func malformed(pos domain.Position, reason string) error {
	return &domain.MalformedSourceError{Pos: pos, Reason: reason}
}
