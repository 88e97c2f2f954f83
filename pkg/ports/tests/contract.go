package tests

import (
	"context"
	"testing"

	"github.com/aretw0/branchmap/pkg/domain"
	"github.com/aretw0/branchmap/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WorkflowLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.WorkflowLoader.
// expected maps every workflow name to the activity names it must contain, in source order.
func WorkflowLoaderContractTest(t *testing.T, loader ports.WorkflowLoader, expected map[string][]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadWorkflow_Success", func(t *testing.T) {
		for name, activities := range expected {
			w, err := loader.LoadWorkflow(ctx, name)
			require.NoError(t, err, "loading %s", name)
			assert.Equal(t, name, w.Name)

			var got []string
			for _, e := range w.Elements {
				if e.Kind == domain.KindActivity {
					got = append(got, e.Name)
				}
			}
			assert.Equal(t, activities, got, "activities of %s", name)
		}
	})

	t.Run("LoadWorkflow_NotFound", func(t *testing.T) {
		_, err := loader.LoadWorkflow(ctx, "non-existent-workflow")
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	})

	t.Run("ListWorkflows", func(t *testing.T) {
		names, err := loader.ListWorkflows(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(expected))
		assert.IsNonDecreasing(t, names)
		for name := range expected {
			assert.Contains(t, names, name)
		}
	})
}
