package dsl

import (
	"fmt"

	"github.com/aretw0/branchmap/pkg/domain"
)

// Block is one sequence of steps: a workflow body or a conditional arm.
type Block struct {
	wf    *workflowBuilder
	scope domain.Scope
}

// GateOption customizes a decision or signal.
type GateOption func(*domain.SourceElement)

// Labels overrides the outcome labels of a gate.
func Labels(trueLabel, falseLabel string) GateOption {
	return func(e *domain.SourceElement) {
		e.TrueLabel = trueLabel
		e.FalseLabel = falseLabel
	}
}

// ID overrides the generated gate id.
func ID(id string) GateOption {
	return func(e *domain.SourceElement) {
		e.ID = id
	}
}

// Activity appends an activity call.
func (b *Block) Activity(name string) *Block {
	if name == "" {
		b.wf.errs = append(b.wf.errs, fmt.Errorf("activity at line %d has no name", b.wf.line+1))
	}
	b.wf.elements = append(b.wf.elements, domain.Activity(name, b.wf.next(), b.scope...))
	return b
}

// Activities appends several activity calls in order.
func (b *Block) Activities(names ...string) *Block {
	for _, n := range names {
		b.Activity(n)
	}
	return b
}

// If appends a decision whose true outcome runs then and false outcome runs els.
// Either arm may be nil.
func (b *Block) If(name string, then, els func(*Block), opts ...GateOption) *Block {
	id := fmt.Sprintf("d%d", b.wf.decisions)
	b.wf.decisions++
	return b.gate(domain.KindDecision, id, name, then, els, opts)
}

// Await appends a signal wait: received runs when the signal arrives,
// timeout when it does not.
func (b *Block) Await(name string, received, timeout func(*Block), opts ...GateOption) *Block {
	id := fmt.Sprintf("s%d", b.wf.signals)
	b.wf.signals++
	return b.gate(domain.KindSignal, id, name, received, timeout, opts)
}

// Check appends a decision that does not open a branch. It shows up in paths
// and diagrams but does not multiply them.
func (b *Block) Check(name string, opts ...GateOption) *Block {
	e := domain.SourceElement{Kind: domain.KindDecision, Name: name, Pos: b.wf.next(), Scope: b.scope}
	for _, opt := range opts {
		opt(&e)
	}
	b.wf.elements = append(b.wf.elements, e)
	return b
}

func (b *Block) gate(kind domain.ElementKind, id, name string, then, els func(*Block), opts []GateOption) *Block {
	e := domain.SourceElement{Kind: kind, ID: id, Name: name, Pos: b.wf.next(), Gating: true, Scope: b.scope}
	for _, opt := range opts {
		opt(&e)
	}
	if e.Name == "" {
		b.wf.errs = append(b.wf.errs, fmt.Errorf("%s at line %d has no name", kind, e.Pos.Line))
	}
	b.wf.elements = append(b.wf.elements, e)

	if then != nil {
		then(&Block{wf: b.wf, scope: b.scope.Child(e.ID, domain.ArmThen)})
	}
	if els != nil {
		els(&Block{wf: b.wf, scope: b.scope.Child(e.ID, domain.ArmElse)})
	}
	return b
}
