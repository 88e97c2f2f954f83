package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/branchmap"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// ConfigFileNames are looked up next to the analyzed path, then in the
// working directory, when no --config flag is given.
var ConfigFileNames = []string{".branchmap.yaml", ".branchmap.yml"}

// Options carries the flags shared by every analysis command.
type Options struct {
	Target     string
	ConfigPath string
	Registry   []string
	Debug      bool
	// Overrides holds flag values keyed like the config file; they win over it.
	Overrides map[string]any
}

// LoadConfig resolves the configuration: defaults, then the config file, then flags.
func LoadConfig(opts Options) (config.Config, string, error) {
	raw := map[string]any{}

	path := opts.ConfigPath
	if path == "" {
		path = findConfig(opts.Target)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config.Config{}, path, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return config.Config{}, path, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}
	for k, v := range opts.Overrides {
		raw[k] = v
	}

	cfg, err := config.FromMap(raw)
	if err != nil {
		return config.Config{}, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

// findConfig checks the target directory (or the directory of a target file)
// and then the working directory.
func findConfig(target string) string {
	var dirs []string
	if target != "" {
		dir := target
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			dir = filepath.Dir(target)
		}
		dirs = append(dirs, dir)
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	for _, dir := range dirs {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// NewAnalyzer initializes an Analyzer with standard CLI conventions.
func NewAnalyzer(opts Options, logger *slog.Logger, hooks domain.LifecycleHooks) (*branchmap.Analyzer, error) {
	cfg, path, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}

	if opts.Debug {
		hooks = chainHooks(hooks, createDebugHooks(logger))
	}

	return branchmap.New(
		branchmap.WithConfig(cfg),
		branchmap.WithLogger(logger),
		branchmap.WithLifecycleHooks(hooks),
		branchmap.WithRegistry(opts.Registry...),
	), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnalyzed: func(e *domain.AnalysisEvent) {
			logger.Debug("analyzed",
				"workflow", e.Workflow,
				"gates", e.Gates,
				"paths", e.Paths,
				"edges", e.Edges,
				"warnings", e.Warnings,
				"duration", e.Duration,
			)
		},
		OnFailed: func(e *domain.FailureEvent) {
			logger.Debug("analysis failed", "workflow", e.Workflow, "phase", e.Phase, "error", e.Err)
		},
	}
}

func chainHooks(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnalyzed: func(e *domain.AnalysisEvent) {
			if a.OnAnalyzed != nil {
				a.OnAnalyzed(e)
			}
			if b.OnAnalyzed != nil {
				b.OnAnalyzed(e)
			}
		},
		OnFailed: func(e *domain.FailureEvent) {
			if a.OnFailed != nil {
				a.OnFailed(e)
			}
			if b.OnFailed != nil {
				b.OnFailed(e)
			}
		},
	}
}
