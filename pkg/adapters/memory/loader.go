package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/branchmap/pkg/domain"
)

// Loader implements ports.WorkflowLoader using an in-memory map.
type Loader struct {
	workflows map[string]domain.Workflow
}

// NewLoader creates a new in-memory loader from already extracted workflows.
func NewLoader(workflows ...domain.Workflow) (*Loader, error) {
	data := make(map[string]domain.Workflow, len(workflows))
	for _, w := range workflows {
		if w.Name == "" {
			return nil, fmt.Errorf("workflow missing name")
		}
		if _, dup := data[w.Name]; dup {
			return nil, fmt.Errorf("duplicate workflow: %s", w.Name)
		}
		data[w.Name] = w
	}
	return &Loader{workflows: data}, nil
}

// NewFromElements is a shortcut for a single workflow, mostly used by tests.
func NewFromElements(name string, elements ...domain.SourceElement) *Loader {
	return &Loader{workflows: map[string]domain.Workflow{
		name: {Name: name, Elements: elements},
	}}
}

// LoadWorkflow returns a copy of the stored workflow so callers cannot mutate it.
func (l *Loader) LoadWorkflow(_ context.Context, name string) (*domain.Workflow, error) {
	w, ok := l.workflows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, name)
	}
	w.Elements = append([]domain.SourceElement(nil), w.Elements...)
	w.Registry = append([]string(nil), w.Registry...)
	return &w, nil
}

// ListWorkflows returns all available workflow names.
func (l *Loader) ListWorkflows(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.workflows))
	for k := range l.workflows {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
