package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/branchmap/pkg/domain"
)

// Loader implements ports.WorkflowLoader over a YAML file or a directory of them.
type Loader struct {
	Path string
}

// NewLoader creates a loader rooted at path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// IsDocument reports whether path has a YAML extension.
func IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ListWorkflows returns every workflow name, sorted.
func (l *Loader) ListWorkflows(ctx context.Context) ([]string, error) {
	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadWorkflow returns the named workflow.
func (l *Loader) LoadWorkflow(ctx context.Context, name string) (*domain.Workflow, error) {
	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	w, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, name)
	}
	return &w, nil
}

func (l *Loader) load(ctx context.Context) (map[string]domain.Workflow, error) {
	files, err := documentFiles(l.Path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Workflow)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		workflows, err := Parse(f, data)
		if err != nil {
			return nil, err
		}
		for _, w := range workflows {
			if prev, dup := out[w.Name]; dup {
				return nil, &domain.MalformedSourceError{
					Pos:    domain.Position{File: f},
					Reason: fmt.Sprintf("workflow %q already defined in %s", w.Name, prev.File),
				}
			}
			out[w.Name] = w
		}
	}
	return out, nil
}

func documentFiles(path string) ([]string, error) {
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
		if !e.IsDir() && IsDocument(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}
