package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/branchmap/internal/compiler"
	"github.com/aretw0/branchmap/internal/runtime"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	// 1. Build the workflow using DSL
	b := New()
	b.Workflow("ProcessOrder", func(w *Block) {
		w.Activity("ValidateOrder")
		w.If("NeedsReview", func(then *Block) {
			then.Activity("Review")
		}, func(els *Block) {
			els.Activity("AutoApprove")
		})
		w.Activity("Ship")
	})

	// 2. Compile to Loader
	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify the element list
	w, err := loader.LoadWorkflow(context.Background(), "ProcessOrder")
	if err != nil {
		t.Fatalf("LoadWorkflow failed: %v", err)
	}
	if len(w.Elements) != 5 {
		t.Fatalf("Expected 5 elements, got %d", len(w.Elements))
	}

	gate := w.Elements[1]
	if gate.Kind != domain.KindDecision || gate.ID != "d0" || !gate.Gating {
		t.Errorf("Expected gating decision d0, got %+v", gate)
	}
	if got := w.Elements[2].Scope.Key(); got != "d0/then" {
		t.Errorf("Expected Review in d0/then, got %q", got)
	}
	if got := w.Elements[3].Scope.Key(); got != "d0/else" {
		t.Errorf("Expected AutoApprove in d0/else, got %q", got)
	}
	if len(w.Elements[4].Scope) != 0 {
		t.Errorf("Expected Ship at top level, got %v", w.Elements[4].Scope)
	}

	// 4. Positions follow declaration order
	for i := 1; i < len(w.Elements); i++ {
		if !w.Elements[i-1].Pos.Less(w.Elements[i].Pos) {
			t.Errorf("Element %d is not after element %d", i, i-1)
		}
	}
}

func TestBuilder_NestedGatesEnumerate(t *testing.T) {
	b := New()
	b.Workflow("Nested", func(w *Block) {
		w.Activity("A")
		w.If("D1", func(then *Block) {
			then.Await("Approval", func(ok *Block) {
				ok.Activity("B")
			}, nil, Labels("Approved", "Expired"))
		}, nil)
		w.Check("Audit")
		w.Activity("C")
	})

	workflows, err := b.Workflows()
	if err != nil {
		t.Fatalf("Workflows() failed: %v", err)
	}

	model, err := compiler.Build(workflows[0].Name, workflows[0].Elements)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	paths, err := runtime.Enumerate(model.Root, config.Default())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	// D1=F, D1=T/s0=F, D1=T/s0=T
	if paths.Len() != 3 {
		t.Fatalf("Expected 3 paths, got %d", paths.Len())
	}
	if len(paths.Gates) != 2 {
		t.Errorf("Expected the leaf check not to count as a gate, got %d gates", len(paths.Gates))
	}
	if paths.Gates[1].TrueLabel != "Approved" {
		t.Errorf("Expected custom label on the signal, got %q", paths.Gates[1].TrueLabel)
	}
}

func TestBuilder_Registry(t *testing.T) {
	b := New().Register("Archive")
	b.Workflow("One", func(w *Block) { w.Activities("A", "B") })
	b.Workflow("Two", func(w *Block) { w.Activity("C") })

	workflows, err := b.Workflows()
	if err != nil {
		t.Fatalf("Workflows() failed: %v", err)
	}
	for _, w := range workflows {
		if len(w.Registry) != 1 || w.Registry[0] != "Archive" {
			t.Errorf("%s: expected registry [Archive], got %v", w.Name, w.Registry)
		}
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("empty names", func(t *testing.T) {
		b := New()
		b.Workflow("Broken", func(w *Block) {
			w.Activity("")
			w.If("", nil, nil)
		})
		_, err := b.Build()
		if err == nil {
			t.Fatal("Expected error for unnamed elements")
		}
	})

	t.Run("duplicate workflow", func(t *testing.T) {
		b := New()
		b.Workflow("Same", nil)
		b.Workflow("Same", nil)
		if _, err := b.Build(); err == nil {
			t.Fatal("Expected error for duplicate workflow")
		}
	})

	t.Run("unknown workflow", func(t *testing.T) {
		loader, err := New().Workflow("Only", func(w *Block) { w.Activity("A") }).Build()
		if err != nil {
			t.Fatalf("Build() failed: %v", err)
		}
		_, err = loader.LoadWorkflow(context.Background(), "Other")
		if !errors.Is(err, domain.ErrWorkflowNotFound) {
			t.Errorf("Expected ErrWorkflowNotFound, got %v", err)
		}
	})
}

func TestBuilder_CustomIDs(t *testing.T) {
	b := New()
	b.Workflow("Custom", func(w *Block) {
		w.If("Needs Review", func(then *Block) { then.Activity("Review") }, nil, ID("review"))
	})
	workflows, err := b.Workflows()
	if err != nil {
		t.Fatalf("Workflows() failed: %v", err)
	}
	if got := workflows[0].Elements[1].Scope.Key(); got != "review/then" {
		t.Errorf("Expected scope to use the custom id, got %q", got)
	}
}
