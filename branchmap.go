package branchmap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/branchmap/internal/compiler"
	"github.com/aretw0/branchmap/internal/logging"
	"github.com/aretw0/branchmap/internal/presentation/graph"
	"github.com/aretw0/branchmap/internal/presentation/report"
	"github.com/aretw0/branchmap/internal/runtime"
	"github.com/aretw0/branchmap/internal/validator"
	"github.com/aretw0/branchmap/pkg/adapters/document"
	"github.com/aretw0/branchmap/pkg/adapters/golang"
	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
	"github.com/aretw0/branchmap/pkg/ports"
)

// Analyzer is the high-level entry point for the branchmap library.
// It is immutable after New and safe for concurrent use: every call builds its
// own model, path collection and graph.
type Analyzer struct {
	cfg      config.Config
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	registry []string
	// cfgErr is the result of validating cfg once in New.
	cfgErr error
}

// Option defines a functional option for configuring the Analyzer.
type Option func(*Analyzer)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithLogger sets a custom structured logger for the analyzer.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Analyzer) {
		a.hooks = hooks
	}
}

// WithRegistry adds known activity names checked by the validator, on top of
// any registry the front end finds next to the workflow.
func WithRegistry(names ...string) Option {
	return func(a *Analyzer) {
		a.registry = append(a.registry, names...)
	}
}

// New initializes an Analyzer. An invalid configuration does not fail here:
// every analysis then returns an error matching config.ErrInvalidConfig.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.Default()}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	a.cfgErr = a.cfg.Validate()
	return a
}

// checkConfig reports the configuration error found by New, if any.
func (a *Analyzer) checkConfig(workflow string) error {
	if a.cfgErr == nil {
		return nil
	}
	return a.fail(a.logger, workflow, domain.PhaseConfig, fmt.Errorf("invalid configuration: %w", a.cfgErr))
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() config.Config {
	return a.cfg
}

// AnalyzeElements runs the core pipeline over an already extracted element list.
func (a *Analyzer) AnalyzeElements(workflow string, elements []domain.SourceElement) (*domain.Result, error) {
	return a.Analyze(&domain.Workflow{Name: workflow, Elements: elements})
}

// Analyze runs model building, enumeration, diagram compilation and validation.
func (a *Analyzer) Analyze(w *domain.Workflow) (*domain.Result, error) {
	if err := a.checkConfig(w.Name); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := a.logger.With("workflow", w.Name)

	logger.Debug("building model", "elements", len(w.Elements))
	model, err := compiler.Build(w.Name, w.Elements)
	if err != nil {
		return nil, a.fail(logger, w.Name, domain.PhaseModel, err)
	}

	logger.Debug("enumerating paths", "gates", len(model.Root.Gates()))
	paths, err := runtime.Enumerate(model.Root, a.cfg)
	if err != nil {
		return nil, a.fail(logger, w.Name, domain.PhaseEnumerate, err)
	}

	logger.Debug("compiling diagram", "paths", paths.Len())
	g := graph.Compile(paths, a.cfg)
	chains := graph.Compact(paths, a.cfg)

	registry := append(append([]string(nil), a.registry...), w.Registry...)
	warnings := validator.Check(model.ActivityNames(), registry, a.cfg)
	for _, warning := range warnings {
		logger.Debug("validation warning", "warning", warning)
	}

	result := &domain.Result{
		Model:    model,
		Paths:    paths,
		Graph:    g,
		Chains:   chains,
		Warnings: warnings,
	}

	duration := time.Since(start)
	logger.Debug("analysis complete",
		"paths", paths.Len(),
		"edges", len(g.Edges),
		"warnings", len(warnings),
		"duration", duration,
	)
	if a.hooks.OnAnalyzed != nil {
		a.hooks.OnAnalyzed(&domain.AnalysisEvent{
			Workflow: w.Name,
			Gates:    len(paths.Gates),
			Paths:    paths.Len(),
			Edges:    len(g.Edges),
			Warnings: len(warnings),
			Duration: duration,
		})
	}
	return result, nil
}

func (a *Analyzer) fail(logger *slog.Logger, workflow string, phase domain.Phase, err error) error {
	logger.Warn("analysis failed", "phase", phase, "error", err)
	if a.hooks.OnFailed != nil {
		a.hooks.OnFailed(&domain.FailureEvent{Workflow: workflow, Phase: phase, Err: err})
	}
	return err
}

// AnalyzeSource analyzes one in-memory source: Go when filename ends in .go,
// an element document for .yaml/.yml. An empty function selects the first
// workflow found.
func (a *Analyzer) AnalyzeSource(filename string, src []byte, function string) (*domain.Result, error) {
	if err := a.checkConfig(function); err != nil {
		return nil, err
	}
	var (
		w   *domain.Workflow
		err error
	)
	if document.IsDocument(filename) {
		w, err = pickDocument(filename, src, function)
	} else {
		w, err = golang.NewExtractor(a.cfg).ExtractSource(filename, src, function)
	}
	if err != nil {
		return nil, a.fail(a.logger.With("file", filename), function, domain.PhaseExtract, err)
	}
	return a.Analyze(w)
}

func pickDocument(filename string, src []byte, name string) (*domain.Workflow, error) {
	workflows, err := document.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	for _, w := range workflows {
		if name == "" || w.Name == name {
			return &w, nil
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no workflow document in %s: %w", filename, domain.ErrWorkflowNotFound)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, name)
}

// AnalyzeFile loads the named workflow from a file or directory and analyzes it.
// An empty function selects the first workflow in name order.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path, function string) (*domain.Result, error) {
	loader, err := a.Loader(path)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFrom(ctx, loader, function)
}

// AnalyzeFrom analyzes a workflow obtained from any loader.
func (a *Analyzer) AnalyzeFrom(ctx context.Context, loader ports.WorkflowLoader, function string) (*domain.Result, error) {
	if err := a.checkConfig(function); err != nil {
		return nil, err
	}
	if function == "" {
		names, err := loader.ListWorkflows(ctx)
		if err != nil {
			return nil, a.fail(a.logger, "", domain.PhaseExtract, err)
		}
		if len(names) == 0 {
			return nil, a.fail(a.logger, "", domain.PhaseExtract, domain.ErrWorkflowNotFound)
		}
		function = names[0]
	}
	w, err := loader.LoadWorkflow(ctx, function)
	if err != nil {
		return nil, a.fail(a.logger, function, domain.PhaseExtract, err)
	}
	return a.Analyze(w)
}

// Loader picks the front end for path: element documents for YAML files or
// directories holding them, Go source otherwise.
func (a *Analyzer) Loader(path string) (ports.WorkflowLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if !info.IsDir() {
		if document.IsDocument(path) {
			return document.NewLoader(path), nil
		}
		return golang.NewLoader(path, a.cfg), nil
	}

	matches, _ := filepath.Glob(filepath.Join(path, "*.go"))
	if len(matches) == 0 {
		return document.NewLoader(path), nil
	}
	return golang.NewLoader(path, a.cfg), nil
}

// Render produces the text report configured for this analyzer.
func (a *Analyzer) Render(r *domain.Result) string {
	return report.Markdown(r, a.cfg)
}
