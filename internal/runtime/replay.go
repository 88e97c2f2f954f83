// Package runtime replays the control-flow tree once per gate assignment and
// collects the distinct visible paths.
package runtime

import (
	"fmt"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Enumerate replays root under every assignment of its declared gates, in
// canonical order (declaration order, first gate most significant, false
// before true), and deduplicates the visible paths.
//
// The gate ceiling is checked before any replay; the path ceiling is checked
// as distinct paths accumulate.
func Enumerate(root domain.Sequence, cfg config.Config) (*domain.PathCollection, error) {
	if err := checkCeilings(cfg); err != nil {
		return nil, err
	}
	gates := root.Gates()
	if len(gates) > cfg.MaxGates {
		return nil, &domain.PathExplosionError{
			Pos:   gates[cfg.MaxGates].Pos,
			Gates: len(gates),
			Limit: cfg.MaxGates,
		}
	}

	total := 1 << len(gates)
	coll := &domain.PathCollection{
		Paths:       []domain.VisiblePath{},
		Gates:       gates,
		Assignments: total,
	}
	seen := make(map[string]struct{})

	for i := 0; i < total; i++ {
		steps := Replay(root, AssignmentAt(gates, i))
		path := domain.VisiblePath{Steps: steps}
		key := path.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		if len(coll.Paths) >= cfg.MaxPaths {
			return nil, &domain.PathLimitExceededError{
				Pos:   lastGatePos(steps),
				Count: len(coll.Paths) + 1,
				Limit: cfg.MaxPaths,
			}
		}
		seen[key] = struct{}{}
		path.ID = domain.PathID(steps)
		path.Index = len(coll.Paths) + 1
		coll.Paths = append(coll.Paths, path)
	}

	return coll, nil
}

func checkCeilings(cfg config.Config) error {
	if cfg.MaxGates < 0 || cfg.MaxGates > config.MaxGatesCeiling {
		return &config.ValidationError{Key: "max_gates", Reason: fmt.Sprintf("must be between 0 and %d", config.MaxGatesCeiling), Value: cfg.MaxGates}
	}
	if cfg.MaxPaths < 1 {
		return &config.ValidationError{Key: "max_paths", Reason: "must be positive", Value: cfg.MaxPaths}
	}
	return nil
}

// AssignmentAt returns the i-th assignment in canonical order.
func AssignmentAt(gates []domain.SourceElement, i int) domain.Assignment {
	a := make(domain.Assignment, len(gates))
	n := len(gates)
	for j, g := range gates {
		a[g.ID] = (i>>(n-1-j))&1 == 1
	}
	return a
}

type frame struct {
	seq  domain.Sequence
	next int
}

// Replay walks the tree depth-first under a single assignment. Leaves are
// emitted as-is; each reached gate is emitted with its assigned outcome and
// only the selected arm is entered. Gates missing from the assignment resolve
// to false.
func Replay(root domain.Sequence, a domain.Assignment) []domain.PathStep {
	steps := []domain.PathStep{}
	stack := []frame{{seq: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.seq.Steps) {
			stack = stack[:len(stack)-1]
			continue
		}
		st := top.seq.Steps[top.next]
		top.next++

		if st.Branch == nil {
			steps = append(steps, domain.PathStep{Element: *st.Element})
			continue
		}

		outcome := a[st.Branch.Gate.ID]
		steps = append(steps, domain.PathStep{Element: st.Branch.Gate, Outcome: &outcome})
		arm := st.Branch.Else
		if outcome {
			arm = st.Branch.Then
		}
		stack = append(stack, frame{seq: arm})
	}
	return steps
}

func lastGatePos(steps []domain.PathStep) domain.Position {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Outcome != nil {
			return steps[i].Element.Pos
		}
	}
	if len(steps) > 0 {
		return steps[0].Element.Pos
	}
	return domain.Position{}
}
