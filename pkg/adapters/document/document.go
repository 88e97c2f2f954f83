// Package document reads workflows written as YAML element documents: a flat,
// position-ordered element list with explicit scope metadata. It lets front
// ends other than the Go extractor feed the analyzer.
//
//	workflow: Checkout
//	registry: [ValidateOrder, Review, Ship, Refund]
//	elements:
//	  - {kind: activity, name: ValidateOrder}
//	  - {kind: decision, id: d0, name: NeedsReview}
//	  - {kind: activity, name: Review, scope: d0/then}
//	  - {kind: activity, name: Ship}
//
// Several workflows may share one file as separate YAML documents.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/branchmap/pkg/domain"
)

// Document is the decoded form of one YAML document.
type Document struct {
	Workflow string    `mapstructure:"workflow"`
	Registry []string  `mapstructure:"registry"`
	Elements []Element `mapstructure:"elements"`
}

// Element mirrors domain.SourceElement with document conveniences: Line
// defaults to the element's 1-based index, Gating defaults to true for gates,
// and Scope may be written as "d0/then>d1/else".
type Element struct {
	Kind       string       `mapstructure:"kind"`
	ID         string       `mapstructure:"id"`
	Name       string       `mapstructure:"name"`
	Line       int          `mapstructure:"line"`
	Column     int          `mapstructure:"column"`
	TrueLabel  string       `mapstructure:"true_label"`
	FalseLabel string       `mapstructure:"false_label"`
	Gating     *bool        `mapstructure:"gating"`
	Scope      domain.Scope `mapstructure:"scope"`
}

// Parse decodes every YAML document in data into a workflow.
func Parse(filename string, data []byte) ([]domain.Workflow, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []domain.Workflow
	for {
		var raw map[string]any
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.MalformedSourceError{Pos: domain.Position{File: filename}, Reason: "invalid YAML", Err: err}
		}
		if raw == nil {
			continue
		}

		var doc Document
		if err := decode(raw, &doc); err != nil {
			return nil, &domain.MalformedSourceError{Pos: domain.Position{File: filename}, Reason: "invalid element document", Err: err}
		}
		w, err := doc.ToWorkflow(filename)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, nil
}

func decode(raw map[string]any, doc *Document) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(scopeHook),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           doc,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

var scopeType = reflect.TypeOf(domain.Scope{})

// scopeHook accepts the "gate/arm>gate/arm" shorthand.
func scopeHook(from, to reflect.Type, data any) (any, error) {
	if to != scopeType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseScope(data.(string))
}

// ParseScope parses "d0/then>d1/else" into a Scope. The empty string is the
// workflow body.
func ParseScope(s string) (domain.Scope, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var scope domain.Scope
	for _, part := range strings.Split(s, ">") {
		gate, arm, ok := strings.Cut(strings.TrimSpace(part), "/")
		if !ok || gate == "" {
			return nil, fmt.Errorf("invalid scope segment %q, want gate/arm", part)
		}
		scope = append(scope, domain.ScopeRef{Gate: gate, Arm: domain.Arm(arm)})
	}
	return scope, nil
}

// ToWorkflow converts the document to the engine's input form.
func (d Document) ToWorkflow(filename string) (*domain.Workflow, error) {
	if d.Workflow == "" {
		return nil, &domain.MalformedSourceError{Pos: domain.Position{File: filename}, Reason: "document has no workflow name"}
	}
	w := &domain.Workflow{
		Name:     d.Workflow,
		File:     filename,
		Registry: d.Registry,
		Elements: make([]domain.SourceElement, 0, len(d.Elements)),
	}
	for i, e := range d.Elements {
		line := e.Line
		if line == 0 {
			line = i + 1
		}
		pos := domain.Position{File: filename, Line: line, Column: e.Column}

		kind := domain.ElementKind(e.Kind)
		switch kind {
		case domain.KindActivity, domain.KindDecision, domain.KindSignal:
		case "loop", "for", "while":
			return nil, &domain.UnsupportedConstructError{
				Pos:        pos,
				Construct:  fmt.Sprintf("%s element", e.Kind),
				Suggestion: "unroll the loop into explicit elements; loops cannot be enumerated statically",
			}
		default:
			return nil, &domain.MalformedSourceError{Pos: pos, Reason: fmt.Sprintf("unknown element kind %q", e.Kind)}
		}

		gating := kind.IsGate()
		if gating && e.Gating != nil {
			gating = *e.Gating
		}
		w.Elements = append(w.Elements, domain.SourceElement{
			Kind:       kind,
			ID:         e.ID,
			Name:       e.Name,
			Pos:        pos,
			TrueLabel:  e.TrueLabel,
			FalseLabel: e.FalseLabel,
			Gating:     gating,
			Scope:      e.Scope,
		})
	}
	return w, nil
}
