package golang

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

// Loader implements ports.WorkflowLoader over a Go file or a package directory.
// Sources are read and parsed on every call so edits are picked up.
type Loader struct {
	Path      string
	extractor *Extractor
}

// NewLoader creates a loader rooted at path (a .go file or a directory).
func NewLoader(path string, cfg config.Config) *Loader {
	return &Loader{Path: path, extractor: NewExtractor(cfg)}
}

// ListWorkflows returns every workflow function found, sorted by name.
func (l *Loader) ListWorkflows(ctx context.Context) ([]string, error) {
	pkg, err := l.parse(ctx)
	if err != nil {
		return nil, err
	}
	names := pkg.Workflows()
	sort.Strings(names)
	return names, nil
}

// LoadWorkflow extracts the named workflow function.
func (l *Loader) LoadWorkflow(ctx context.Context, name string) (*domain.Workflow, error) {
	pkg, err := l.parse(ctx)
	if err != nil {
		return nil, err
	}
	return l.extractor.Extract(pkg, name)
}

func (l *Loader) parse(ctx context.Context) (*Package, error) {
	files, err := sourceFiles(l.Path)
	if err != nil {
		return nil, err
	}
	sources := make(map[string][]byte, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		sources[f] = data
	}
	return l.extractor.Parse(sources)
}

func sourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(path, name))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files in %s", path)
	}
	return files, nil
}
