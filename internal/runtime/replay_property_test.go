package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/branchmap/internal/runtime"
	"github.com/aretw0/branchmap/internal/testutils"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

func enumerate(rt *rapid.T) ([]domain.SourceElement, *domain.Model, *domain.PathCollection) {
	gen := &testutils.Generator{MaxGates: 6, MaxDepth: 3}
	elements := gen.Draw(rt)
	model := testutils.MustBuild(rt, elements)
	paths, err := runtime.Enumerate(model.Root, config.Default())
	require.NoError(rt, err)
	return elements, model, paths
}

func TestProperty_BoundedAndReachable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		_, model, paths := enumerate(rt)
		gates := model.Root.Gates()

		assert.LessOrEqual(rt, len(paths.Paths), 1<<len(gates))
		assert.Equal(rt, 1<<len(gates), paths.Assignments)

		produced := make(map[string]bool)
		for i := 0; i < paths.Assignments; i++ {
			steps := runtime.Replay(model.Root, runtime.AssignmentAt(gates, i))
			produced[domain.VisiblePath{Steps: steps}.Key()] = true
		}
		assert.Len(rt, produced, len(paths.Paths), "every distinct replay is kept exactly once")

		ids := make(map[string]bool)
		for _, p := range paths.Paths {
			assert.True(rt, produced[p.Key()], "path %s is reachable", p.ID)
			assert.False(rt, ids[p.ID], "path id %s is unique", p.ID)
			ids[p.ID] = true
		}
	})
}

func TestProperty_NoGatesSinglePath(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := &testutils.Generator{MaxGates: 0}
		elements := gen.Draw(rt)
		model := testutils.MustBuild(rt, elements)

		paths, err := runtime.Enumerate(model.Root, config.Default())
		require.NoError(rt, err)
		require.Len(rt, paths.Paths, 1)
		require.Len(rt, paths.Paths[0].Steps, len(elements))
		for i, e := range elements {
			assert.Equal(rt, e.Name, paths.Paths[0].Steps[i].Element.Name)
		}
	})
}

func TestProperty_OrderPreserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		_, _, paths := enumerate(rt)
		for _, p := range paths.Paths {
			for i := 1; i < len(p.Steps); i++ {
				prev, cur := p.Steps[i-1].Element.Pos, p.Steps[i].Element.Pos
				assert.True(rt, prev.Less(cur), "path %s visits %s before %s", p.ID, prev, cur)
			}
		}
	})
}

func TestProperty_BranchExclusivity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		elements, _, paths := enumerate(rt)
		for _, e := range elements {
			if e.Kind != domain.KindActivity {
				continue
			}
			for _, p := range paths.Paths {
				if !p.Contains(e.Name) {
					continue
				}
				for _, ref := range e.Scope {
					outcome, reached := p.Outcome(ref.Gate)
					require.True(rt, reached, "%s reached without its gate %s", e.Name, ref.Gate)
					assert.Equal(rt, ref.Arm == domain.ArmThen, outcome,
						"%s appears on path %s with the opposite outcome of %s", e.Name, p.ID, ref.Gate)
				}
			}
		}
	})
}

func TestProperty_UnreachedGateCollapses(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		_, model, _ := enumerate(rt)
		gates := model.Root.Gates()
		if len(gates) == 0 {
			return
		}
		i := rapid.IntRange(0, (1<<len(gates))-1).Draw(rt, "assignment")
		j := rapid.IntRange(0, len(gates)-1).Draw(rt, "gate")

		a := runtime.AssignmentAt(gates, i)
		b := runtime.AssignmentAt(gates, i)
		b[gates[j].ID] = !b[gates[j].ID]

		pa := domain.VisiblePath{Steps: runtime.Replay(model.Root, a)}
		pb := domain.VisiblePath{Steps: runtime.Replay(model.Root, b)}
		_, reachedA := pa.Outcome(gates[j].ID)
		_, reachedB := pb.Outcome(gates[j].ID)
		if !reachedA && !reachedB {
			assert.Equal(rt, pa.Key(), pb.Key())
			assert.Equal(rt, domain.PathID(pa.Steps), domain.PathID(pb.Steps))
		}
	})
}
