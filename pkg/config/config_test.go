package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.MaxGates)
	assert.Equal(t, 1024, cfg.MaxPaths)
	assert.Equal(t, "yes", cfg.TrueLabel)
	assert.Equal(t, "Timeout", cfg.SignalFalseLabel)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "branchmap.yaml")
	content := `
true_label: approved
max_gates: 4
compact: true
extract:
  activity_calls: [temporal.Run]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "approved", cfg.TrueLabel)
	assert.Equal(t, "no", cfg.FalseLabel, "unset keys keep their defaults")
	assert.Equal(t, 4, cfg.MaxGates)
	assert.True(t, cfg.Compact)
	assert.Equal(t, []string{"temporal.Run"}, cfg.Extract.ActivityCalls)
	assert.Equal(t, "ToDecision", cfg.Extract.DecisionHelper)
}

func TestFromMap_RejectsUnknownKeys(t *testing.T) {
	_, err := config.FromMap(map[string]any{"max_gatez": 3})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.MaxGates = 0
	cfg.MaxPaths = -1
	cfg.DecisionIDStyle = "hash"

	err := cfg.Validate()
	require.Error(t, err)
	errs := config.ValidationErrors(err)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "decision_id_style")
	assert.Contains(t, errs[1].Error(), "max_gates")
	assert.Contains(t, errs[2].Error(), "max_paths")
}

func TestOutcomeLabel(t *testing.T) {
	cfg := config.Default()
	d := domain.Decision("d0", "IsBig", domain.Line(1))
	s := domain.Signal("s0", "Approval", domain.Line(2))

	assert.Equal(t, "yes", cfg.OutcomeLabel(d, true))
	assert.Equal(t, "no", cfg.OutcomeLabel(d, false))
	assert.Equal(t, "Signaled", cfg.OutcomeLabel(s, true))
	assert.Equal(t, "Timeout", cfg.OutcomeLabel(s, false))

	d.TrueLabel = "big"
	assert.Equal(t, "big", cfg.OutcomeLabel(d, true))
}
