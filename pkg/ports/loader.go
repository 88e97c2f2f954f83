package ports

import (
	"context"

	"github.com/aretw0/branchmap/pkg/domain"
)

// WorkflowLoader defines how the analyzer retrieves workflow element lists.
// This allows the front end (Go source, YAML documents, memory) to be decoupled.
type WorkflowLoader interface {
	// ListWorkflows returns the names of every workflow the source exposes,
	// in a deterministic order.
	ListWorkflows(ctx context.Context) ([]string, error)

	// LoadWorkflow returns the flat element list of one workflow.
	// An unknown name returns an error wrapping domain.ErrWorkflowNotFound.
	LoadWorkflow(ctx context.Context, name string) (*domain.Workflow, error)
}
