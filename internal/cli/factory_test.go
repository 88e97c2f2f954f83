package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/branchmap/internal/logging"
	"github.com/aretw0/branchmap/internal/testutils"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".branchmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, path, err := LoadConfig(Options{Target: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_DiscoversFileNextToTarget(t *testing.T) {
	dir := t.TempDir()
	expected := writeConfig(t, dir, "max_gates: 4\ntrue_label: ok\n")
	source := filepath.Join(dir, "flow.go")
	require.NoError(t, os.WriteFile(source, []byte("package flow\n"), 0644))

	cfg, path, err := LoadConfig(Options{Target: source})
	require.NoError(t, err)
	assert.Equal(t, expected, path)
	assert.Equal(t, 4, cfg.MaxGates)
	assert.Equal(t, "ok", cfg.TrueLabel)
}

func TestLoadConfig_OverridesWin(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "max_gates: 4\nsplit_words: true\n")

	cfg, _, err := LoadConfig(Options{
		ConfigPath: path,
		Overrides:  map[string]any{"max_gates": 6, "split_words": false},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MaxGates)
	assert.False(t, cfg.SplitWords)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadConfig(Options{ConfigPath: filepath.Join(dir, "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeConfig(t, dir, "max_gates: 0\n")
		_, _, err := LoadConfig(Options{ConfigPath: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_gates")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, err := LoadConfig(Options{Target: t.TempDir(), Overrides: map[string]any{"colour": "red"}})
		assert.Error(t, err)
	})
}

func TestNewAnalyzer(t *testing.T) {
	var analyzed []string
	hooks := domain.LifecycleHooks{
		OnAnalyzed: func(e *domain.AnalysisEvent) { analyzed = append(analyzed, e.Workflow) },
	}
	var logs bytes.Buffer
	logger := logging.NewWriter(&logs, -4)

	a, err := NewAnalyzer(Options{
		Target:    t.TempDir(),
		Registry:  []string{"A", "Z"},
		Debug:     true,
		Overrides: map[string]any{"decision_id_style": "name"},
	}, logger, hooks)
	require.NoError(t, err)
	assert.Equal(t, config.IDStyleName, a.Config().DecisionIDStyle)

	r, err := a.AnalyzeElements("flow", testutils.IfElse())
	require.NoError(t, err)
	assert.Equal(t, []string{`activity "Z" is declared but never called`}, r.Warnings)
	assert.Equal(t, []string{"flow"}, analyzed)
	assert.Contains(t, logs.String(), "msg=analyzed")
}

func TestNewAnalyzer_InvalidConfig(t *testing.T) {
	_, err := NewAnalyzer(Options{Overrides: map[string]any{"max_paths": -1}}, logging.NewNop(), domain.LifecycleHooks{})
	assert.Error(t, err)
}

func TestPrinter_Lines(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	p := Printer{Out: f, Err: &bytes.Buffer{}, Format: FormatJSON}
	require.NoError(t, p.Lines(nil))
	require.NoError(t, p.Lines([]string{"a", "b"}))

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "[]\n[\n  \"a\",\n  \"b\"\n]\n", string(data))
}

func TestPrinter_ReportPlain(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	a, err := NewAnalyzer(Options{Target: t.TempDir()}, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	r, err := a.AnalyzeElements("flow", testutils.IfElse())
	require.NoError(t, err)

	var errs bytes.Buffer
	p := Printer{Out: f, Err: &errs, Format: FormatText}
	require.NoError(t, p.Report(a, r))
	p.Warnings([]string{"w"})

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "```mermaid")
	assert.Contains(t, string(data), "## Paths (2)")
	assert.Equal(t, "warning: w\n", errs.String())
}
