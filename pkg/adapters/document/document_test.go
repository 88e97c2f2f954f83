package document_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/branchmap/pkg/adapters/document"
	"github.com/aretw0/branchmap/pkg/domain"
	contract "github.com/aretw0/branchmap/pkg/ports/tests"
)

const checkout = `
workflow: Checkout
registry: [ValidateOrder, Review, Ship, Refund]
elements:
  - {kind: activity, name: ValidateOrder}
  - {kind: decision, id: d0, name: NeedsReview, true_label: approve}
  - {kind: activity, name: Review, scope: d0/then}
  - kind: signal
    id: s0
    name: Approval
    line: 10
    scope:
      - {gate: d0, arm: else}
  - {kind: activity, name: Ship, line: 11, scope: "d0/else>s0/then"}
  - {kind: decision, id: audit, name: Audit, gating: false, line: 12}
`

func TestParse(t *testing.T) {
	workflows, err := document.Parse("checkout.yaml", []byte(checkout))
	require.NoError(t, err)
	require.Len(t, workflows, 1)

	w := workflows[0]
	assert.Equal(t, "Checkout", w.Name)
	assert.Equal(t, "checkout.yaml", w.File)
	assert.Equal(t, []string{"ValidateOrder", "Review", "Ship", "Refund"}, w.Registry)
	require.Len(t, w.Elements, 6)

	assert.Equal(t, domain.SourceElement{
		Kind: domain.KindActivity, Name: "ValidateOrder",
		Pos: domain.Position{File: "checkout.yaml", Line: 1},
	}, w.Elements[0])

	gate := w.Elements[1]
	assert.Equal(t, domain.KindDecision, gate.Kind)
	assert.True(t, gate.Gating)
	assert.Equal(t, "approve", gate.TrueLabel)
	assert.Equal(t, 2, gate.Pos.Line)

	assert.Equal(t, domain.Scope{domain.Then("d0")}, w.Elements[2].Scope)
	assert.Equal(t, domain.Scope{domain.Else("d0")}, w.Elements[3].Scope)
	assert.Equal(t, 10, w.Elements[3].Pos.Line)
	assert.Equal(t, domain.Scope{domain.Else("d0"), domain.Then("s0")}, w.Elements[4].Scope)
	assert.False(t, w.Elements[5].Gating)
}

func TestParse_MultipleDocuments(t *testing.T) {
	src := "workflow: a\nelements: [{kind: activity, name: X}]\n---\nworkflow: b\nelements: []\n"
	workflows, err := document.Parse("multi.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, "a", workflows[0].Name)
	assert.Equal(t, "b", workflows[1].Name)
	assert.Empty(t, workflows[1].Elements)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"InvalidYAML", "workflow: [unclosed", domain.ErrMalformedSource},
		{"MissingName", "elements: []", domain.ErrMalformedSource},
		{"UnknownField", "workflow: a\nsteps: []", domain.ErrMalformedSource},
		{"UnknownKind", "workflow: a\nelements: [{kind: task, name: X}]", domain.ErrMalformedSource},
		{"BadScope", "workflow: a\nelements: [{kind: activity, name: X, scope: d0}]", domain.ErrMalformedSource},
		{"Loop", "workflow: a\nelements: [{kind: loop, name: Retry, line: 4}]", domain.ErrUnsupportedConstruct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := document.Parse("bad.yaml", []byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseScope(t *testing.T) {
	scope, err := document.ParseScope(" d0/then > s1/else ")
	require.NoError(t, err)
	assert.Equal(t, domain.Scope{domain.Then("d0"), domain.Else("s1")}, scope)

	scope, err = document.ParseScope("")
	require.NoError(t, err)
	assert.Nil(t, scope)

	_, err = document.ParseScope("/then")
	assert.Error(t, err)
}

func TestLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkout.yaml"), []byte(checkout), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.yml"),
		[]byte("workflow: Small\nelements: [{kind: activity, name: Only}]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	contract.WorkflowLoaderContractTest(t, document.NewLoader(dir), map[string][]string{
		"Checkout": {"ValidateOrder", "Review", "Ship"},
		"Small":    {"Only"},
	})
}

func TestIsDocument(t *testing.T) {
	assert.True(t, document.IsDocument("a.yaml"))
	assert.True(t, document.IsDocument("a.YML"))
	assert.False(t, document.IsDocument("a.go"))
}
