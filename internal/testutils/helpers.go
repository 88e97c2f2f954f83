// Package testutils provides fixtures and generators shared by package tests.
package testutils

import (
	"fmt"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/branchmap/internal/compiler"
	"github.com/aretw0/branchmap/pkg/domain"
)

// IfElse is `A(); if D1 { B() } else { C() }; D()`.
func IfElse() []domain.SourceElement {
	return []domain.SourceElement{
		domain.Activity("A", domain.Line(1)),
		domain.Decision("d1", "D1", domain.Line(2)),
		domain.Activity("B", domain.Line(3), domain.Then("d1")),
		domain.Activity("C", domain.Line(5), domain.Else("d1")),
		domain.Activity("D", domain.Line(7)),
	}
}

// NestedUnreached is `A(); if D1 { if D2 { B() } }; C()`.
func NestedUnreached() []domain.SourceElement {
	return []domain.SourceElement{
		domain.Activity("A", domain.Line(1)),
		domain.Decision("d1", "D1", domain.Line(2)),
		domain.Decision("d2", "D2", domain.Line(3), domain.Then("d1")),
		domain.Activity("B", domain.Line(4), domain.Then("d1"), domain.Then("d2")),
		domain.Activity("C", domain.Line(7)),
	}
}

// SequentialGates returns n independent top-level decisions, each guarding one activity.
func SequentialGates(n int) []domain.SourceElement {
	var out []domain.SourceElement
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("d%d", i)
		out = append(out,
			domain.Decision(id, fmt.Sprintf("Check%d", i), domain.Line(2*i+1)),
			domain.Activity(fmt.Sprintf("Step%d", i), domain.Line(2*i+2), domain.Then(id)),
		)
	}
	return out
}

// MustBuild builds a model or fails the test. It accepts both *testing.T and *rapid.T.
func MustBuild(t rapid.TB, elements []domain.SourceElement) *domain.Model {
	t.Helper()
	model, err := compiler.Build("test", elements)
	require.NoError(t, err)
	return model
}

// Generator draws random, well-formed element lists: unique activity names,
// strictly increasing lines, bounded nesting and gate count.
type Generator struct {
	MaxGates int
	MaxDepth int

	line     int
	gates    int
	acts     int
	elements []domain.SourceElement
}

// Draw produces one random workflow.
func (g *Generator) Draw(t *rapid.T) []domain.SourceElement {
	g.line, g.gates, g.acts, g.elements = 0, 0, 0, nil
	g.sequence(t, nil, 0)
	return g.elements
}

func (g *Generator) sequence(t *rapid.T, scope domain.Scope, depth int) {
	n := rapid.IntRange(0, 3).Draw(t, "len")
	for i := 0; i < n; i++ {
		g.line++
		if depth < g.MaxDepth && g.gates < g.MaxGates && rapid.Bool().Draw(t, "branch") {
			kind := "d"
			if rapid.Bool().Draw(t, "signal") {
				kind = "s"
			}
			id := fmt.Sprintf("%s%d", kind, g.gates)
			g.gates++
			gate := domain.Decision(id, "Gate"+id, domain.Line(g.line), scope...)
			if kind == "s" {
				gate = domain.Signal(id, "Wait"+id, domain.Line(g.line), scope...)
			}
			g.elements = append(g.elements, gate)
			g.sequence(t, scope.Child(id, domain.ArmThen), depth+1)
			g.sequence(t, scope.Child(id, domain.ArmElse), depth+1)
			continue
		}
		name := fmt.Sprintf("Act%d", g.acts)
		g.acts++
		g.elements = append(g.elements, domain.Activity(name, domain.Line(g.line), scope...))
	}
}
