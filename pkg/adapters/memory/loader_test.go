package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/branchmap/internal/testutils"
	"github.com/aretw0/branchmap/pkg/adapters/memory"
	"github.com/aretw0/branchmap/pkg/domain"
	contract "github.com/aretw0/branchmap/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewLoader(
		domain.Workflow{Name: "checkout", Elements: testutils.IfElse()},
		domain.Workflow{Name: "review", Elements: testutils.NestedUnreached()},
	)
	require.NoError(t, err)

	contract.WorkflowLoaderContractTest(t, loader, map[string][]string{
		"checkout": {"A", "B", "C", "D"},
		"review":   {"A", "B", "C"},
	})
}

func TestInMemoryLoader_Errors(t *testing.T) {
	_, err := memory.NewLoader(domain.Workflow{})
	assert.Error(t, err)

	_, err = memory.NewLoader(domain.Workflow{Name: "a"}, domain.Workflow{Name: "a"})
	assert.Error(t, err)
}

func TestInMemoryLoader_ReturnsCopies(t *testing.T) {
	loader := memory.NewFromElements("flow", testutils.IfElse()...)

	first, err := loader.LoadWorkflow(context.Background(), "flow")
	require.NoError(t, err)
	first.Elements[0].Name = "mutated"

	second, err := loader.LoadWorkflow(context.Background(), "flow")
	require.NoError(t, err)
	assert.Equal(t, "A", second.Elements[0].Name)
}
