package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/branchmap/pkg/adapters/memory"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Builder manages the construction of one or more workflows.
type Builder struct {
	workflows []*workflowBuilder
	registry  []string
}

type workflowBuilder struct {
	name      string
	elements  []domain.SourceElement
	line      int
	decisions int
	signals   int
	errs      []error
}

// New creates a new workflow builder.
func New() *Builder {
	return &Builder{}
}

// Workflow declares a workflow whose body is described by fn.
func (b *Builder) Workflow(name string, fn func(*Block)) *Builder {
	wb := &workflowBuilder{name: name}
	b.workflows = append(b.workflows, wb)
	if fn != nil {
		fn(&Block{wf: wb})
	}
	return b
}

// Register adds activity names to the registry of every workflow built.
func (b *Builder) Register(names ...string) *Builder {
	b.registry = append(b.registry, names...)
	return b
}

// Workflows returns the declared workflows in declaration order.
func (b *Builder) Workflows() ([]domain.Workflow, error) {
	var errs []error
	out := make([]domain.Workflow, 0, len(b.workflows))
	for _, wb := range b.workflows {
		for _, err := range wb.errs {
			errs = append(errs, fmt.Errorf("workflow %s: %w", wb.name, err))
		}
		out = append(out, domain.Workflow{
			Name:     wb.name,
			Elements: append([]domain.SourceElement(nil), wb.elements...),
			Registry: append([]string(nil), b.registry...),
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Build compiles the workflows into a memory.Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	workflows, err := b.Workflows()
	if err != nil {
		return nil, err
	}
	loader, err := memory.NewLoader(workflows...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

func (wb *workflowBuilder) next() domain.Position {
	wb.line++
	return domain.Position{File: wb.name, Line: wb.line}
}
