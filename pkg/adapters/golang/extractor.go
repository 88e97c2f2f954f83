package golang

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/branchmap/pkg/config"
	"github.com/aretw0/branchmap/pkg/domain"
)

const (
	directiveWorkflow = "//branchmap:workflow"
	directiveActivity = "//branchmap:activity"
)

// Package is a set of parsed Go files analyzed together.
type Package struct {
	fset  *token.FileSet
	files []*ast.File
	names []string

	workflows []*ast.FuncDecl
	registry  []string
	symbols   map[string]bool
}

// Extractor lowers workflow functions to element lists.
type Extractor struct {
	cfg config.Config
}

// NewExtractor creates an extractor for the given configuration.
func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Parse parses one or more Go sources into a Package. Keys are file names used
// in positions; values are the file contents.
func (x *Extractor) Parse(sources map[string][]byte) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	pkg := &Package{
		fset:    token.NewFileSet(),
		symbols: make(map[string]bool),
		names:   names,
	}
	for _, name := range names {
		f, err := parser.ParseFile(pkg.fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, parseError(name, err)
		}
		pkg.files = append(pkg.files, f)
	}
	for _, f := range pkg.files {
		x.index(pkg, f)
	}
	return pkg, nil
}

func parseError(name string, err error) error {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		p := list[0].Pos
		return &domain.MalformedSourceError{
			Pos:    domain.Position{File: name, Line: p.Line, Column: p.Column},
			Reason: list[0].Msg,
		}
	}
	return &domain.MalformedSourceError{Pos: domain.Position{File: name}, Reason: "cannot parse Go source", Err: err}
}

func (x *Extractor) index(pkg *Package, f *ast.File) {
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		pkg.symbols[fn.Name.Name] = true
		if hasDirective(fn.Doc, directiveActivity) {
			pkg.registry = append(pkg.registry, fn.Name.Name)
		}
		if fn.Body != nil && x.isWorkflow(fn) {
			pkg.workflows = append(pkg.workflows, fn)
		}
	}
}

func (x *Extractor) isWorkflow(fn *ast.FuncDecl) bool {
	if hasDirective(fn.Doc, directiveWorkflow) {
		return true
	}
	if fn.Type.Params == nil || len(fn.Type.Params.List) == 0 || x.cfg.Extract.ContextType == "" {
		return false
	}
	return types.ExprString(fn.Type.Params.List[0].Type) == x.cfg.Extract.ContextType
}

func hasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, directive) {
			return true
		}
	}
	return false
}

// Workflows lists the workflow functions found, in file then source order.
func (p *Package) Workflows() []string {
	out := make([]string, len(p.workflows))
	for i, fn := range p.workflows {
		out[i] = fn.Name.Name
	}
	return out
}

// Registry lists the functions marked as activities.
func (p *Package) Registry() []string {
	return append([]string(nil), p.registry...)
}

// Extract lowers the named workflow function. An empty name selects the first
// workflow found.
func (x *Extractor) Extract(pkg *Package, name string) (*domain.Workflow, error) {
	var fn *ast.FuncDecl
	for _, candidate := range pkg.workflows {
		if name == "" || candidate.Name.Name == name {
			fn = candidate
			break
		}
	}
	if fn == nil {
		if name == "" {
			return nil, fmt.Errorf("no workflow function in %s: %w", strings.Join(pkg.names, ", "), domain.ErrWorkflowNotFound)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, name)
	}

	w := &walker{
		cfg:     x.cfg,
		fset:    pkg.fset,
		symbols: pkg.symbols,
		ids:     make(map[string]bool),
	}
	for _, r := range pkg.registry {
		w.symbols[r] = true
	}
	if err := w.block(fn.Body.List, nil); err != nil {
		return nil, err
	}

	return &domain.Workflow{
		Name:     fn.Name.Name,
		File:     pkg.fset.Position(fn.Pos()).Filename,
		Elements: w.elements,
		Registry: pkg.Registry(),
	}, nil
}

// ExtractSource is a convenience wrapper for a single file.
func (x *Extractor) ExtractSource(filename string, src []byte, name string) (*domain.Workflow, error) {
	pkg, err := x.Parse(map[string][]byte{filename: src})
	if err != nil {
		return nil, err
	}
	return x.Extract(pkg, name)
}

type earlyReturn struct {
	pos   domain.Position
	scope domain.Scope
}

type walker struct {
	cfg     config.Config
	fset    *token.FileSet
	symbols map[string]bool

	elements  []domain.SourceElement
	returns   []earlyReturn
	decisions int
	signals   int
	ids       map[string]bool
}

func (w *walker) position(p token.Pos) domain.Position {
	pos := w.fset.Position(p)
	return domain.Position{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

func (w *walker) block(stmts []ast.Stmt, scope domain.Scope) error {
	for _, s := range stmts {
		if err := w.stmt(s, scope); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmt(s ast.Stmt, scope domain.Scope) error {
	switch v := s.(type) {
	case *ast.BlockStmt:
		return w.block(v.List, scope)
	case *ast.LabeledStmt:
		return w.stmt(v.Stmt, scope)
	case *ast.IfStmt:
		return w.ifStmt(v, scope)
	case *ast.ForStmt, *ast.RangeStmt:
		return w.reject(s, "loop", "unroll the loop or move it into an activity; loops cannot be enumerated statically")
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		return w.reject(s, "switch statement", "rewrite the cases as if/else if chains on decision helpers")
	case *ast.SelectStmt:
		return w.reject(s, "select statement", "use the signal helper to model waits")
	case *ast.GoStmt:
		return w.reject(s, "goroutine", "call activities from the workflow body")
	case *ast.DeferStmt:
		return w.reject(s, "deferred call", "call activities from the workflow body")
	case *ast.ReturnStmt:
		if err := w.expr(v, scope); err != nil {
			return err
		}
		if len(scope) > 0 {
			w.returns = append(w.returns, earlyReturn{pos: w.position(v.Pos()), scope: scope})
		}
		return nil
	case *ast.BranchStmt, *ast.EmptyStmt:
		return nil
	}
	return w.expr(s, scope)
}

// reject fails only when the construct contains tracked calls.
func (w *walker) reject(n ast.Node, construct, suggestion string) error {
	if pos, ok := w.firstTracked(n); ok {
		return &domain.UnsupportedConstructError{
			Pos:        w.position(n.Pos()),
			Construct:  fmt.Sprintf("%s containing a tracked call at line %d", construct, pos.Line),
			Suggestion: suggestion,
		}
	}
	return nil
}

func (w *walker) ifStmt(s *ast.IfStmt, scope domain.Scope) error {
	if s.Init != nil {
		if err := w.stmt(s.Init, scope); err != nil {
			return err
		}
	}

	cond, negated := unwrapCondition(s.Cond)
	call, isCall := cond.(*ast.CallExpr)
	kind := callKind("")
	if isCall {
		kind = w.classify(call)
	}
	if kind != callDecision && kind != callSignal {
		if err := w.expr(s.Cond, scope); err != nil {
			return err
		}
		if _, ok := w.firstTracked(s.Body); ok {
			return w.plainIf(s)
		}
		if s.Else != nil {
			if _, ok := w.firstTracked(s.Else); ok {
				return w.plainIf(s)
			}
		}
		return nil
	}

	gate, err := w.emitGate(call, kind, scope, true)
	if err != nil {
		return err
	}

	bodyArm, elseArm := domain.ArmThen, domain.ArmElse
	if negated {
		bodyArm, elseArm = elseArm, bodyArm
	}
	if err := w.block(s.Body.List, scope.Child(gate.ID, bodyArm)); err != nil {
		return err
	}
	if s.Else != nil {
		if err := w.stmt(s.Else, scope.Child(gate.ID, elseArm)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) plainIf(s *ast.IfStmt) error {
	return &domain.UnsupportedConstructError{
		Pos:       w.position(s.Pos()),
		Construct: fmt.Sprintf("if condition %q is not a decision or signal", types.ExprString(s.Cond)),
		Suggestion: fmt.Sprintf("wrap the condition with %s(cond, \"Name\") so both outcomes can be enumerated",
			w.cfg.Extract.DecisionHelper),
	}
}

func unwrapCondition(e ast.Expr) (ast.Expr, bool) {
	negated := false
	for {
		switch v := e.(type) {
		case *ast.ParenExpr:
			e = v.X
		case *ast.UnaryExpr:
			if v.Op != token.NOT {
				return e, negated
			}
			negated = !negated
			e = v.X
		default:
			return e, negated
		}
	}
}

// expr emits every tracked call inside n in source order. Helpers found outside
// an if condition become leaf gates.
func (w *walker) expr(n ast.Node, scope domain.Scope) error {
	var err error
	ast.Inspect(n, func(node ast.Node) bool {
		if err != nil {
			return false
		}
		switch v := node.(type) {
		case *ast.FuncLit:
			err = w.reject(v, "function literal", "call activities directly from the workflow body")
			return false
		case *ast.CallExpr:
			switch w.classify(v) {
			case callActivity:
				err = w.emitActivity(v, scope)
			case callDecision:
				_, err = w.emitGate(v, callDecision, scope, false)
			case callSignal:
				_, err = w.emitGate(v, callSignal, scope, false)
			}
		}
		return true
	})
	return err
}

type callKind string

const (
	callActivity callKind = "activity"
	callDecision callKind = "decision"
	callSignal   callKind = "signal"
)

func calleeName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		if x, ok := fn.X.(*ast.Ident); ok {
			return x.Name + "." + fn.Sel.Name
		}
		return fn.Sel.Name
	case *ast.IndexExpr:
		return calleeName(&ast.CallExpr{Fun: fn.X})
	}
	return ""
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (w *walker) classify(call *ast.CallExpr) callKind {
	name := calleeName(call)
	if name == "" {
		return ""
	}
	for _, a := range w.cfg.Extract.ActivityCalls {
		if name == a || (!strings.Contains(a, ".") && lastSegment(name) == a) {
			return callActivity
		}
	}
	short := lastSegment(name)
	switch {
	case w.cfg.Extract.DecisionHelper != "" && short == w.cfg.Extract.DecisionHelper:
		return callDecision
	case w.cfg.Extract.SignalHelper != "" && short == w.cfg.Extract.SignalHelper:
		return callSignal
	}
	return ""
}

func (w *walker) firstTracked(n ast.Node) (domain.Position, bool) {
	var found token.Pos
	ast.Inspect(n, func(node ast.Node) bool {
		if found.IsValid() {
			return false
		}
		if call, ok := node.(*ast.CallExpr); ok && w.classify(call) != "" {
			found = call.Pos()
			return false
		}
		return true
	})
	if !found.IsValid() {
		return domain.Position{}, false
	}
	return w.position(found), true
}

func (w *walker) emit(e domain.SourceElement) error {
	for _, r := range w.returns {
		if len(e.Scope) < len(r.scope) && r.scope.HasPrefix(e.Scope) {
			return &domain.UnsupportedConstructError{
				Pos:        e.Pos,
				Construct:  fmt.Sprintf("%s %q follows an early return at %s", e.Kind, e.Name, r.pos),
				Suggestion: "move the remaining calls into the other arm so every path reaches them explicitly",
			}
		}
	}
	w.elements = append(w.elements, e)
	return nil
}

func (w *walker) emitActivity(call *ast.CallExpr, scope domain.Scope) error {
	pos := w.position(call.Pos())
	if len(call.Args) < 2 {
		return &domain.UnsupportedConstructError{
			Pos:        pos,
			Construct:  fmt.Sprintf("%s call without an activity argument", calleeName(call)),
			Suggestion: "pass the activity function or its registered name as the second argument",
		}
	}
	name, ok := w.resolveActivity(call.Args[1])
	if !ok {
		return &domain.UnsupportedConstructError{
			Pos:        w.position(call.Args[1].Pos()),
			Construct:  fmt.Sprintf("activity reference %q cannot be resolved statically", types.ExprString(call.Args[1])),
			Suggestion: "reference the activity function directly or by string literal, or register it with " + directiveActivity,
		}
	}
	return w.emit(domain.SourceElement{Kind: domain.KindActivity, Name: name, Pos: pos, Scope: scope})
}

// resolveActivity accepts string literals, known function identifiers and
// qualified selectors (package functions and method values).
func (w *walker) resolveActivity(e ast.Expr) (string, bool) {
	switch v := e.(type) {
	case *ast.BasicLit:
		if v.Kind != token.STRING {
			return "", false
		}
		s, err := strconv.Unquote(v.Value)
		return s, err == nil && s != ""
	case *ast.Ident:
		return v.Name, w.symbols[v.Name]
	case *ast.SelectorExpr:
		if isStaticOperand(v.X) {
			return v.Sel.Name, true
		}
	case *ast.ParenExpr:
		return w.resolveActivity(v.X)
	}
	return "", false
}

func isStaticOperand(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		return isStaticOperand(v.X)
	case *ast.ParenExpr:
		return isStaticOperand(v.X)
	case *ast.StarExpr:
		return isStaticOperand(v.X)
	}
	return false
}

func (w *walker) emitGate(call *ast.CallExpr, kind callKind, scope domain.Scope, gating bool) (domain.SourceElement, error) {
	e := domain.SourceElement{
		Kind:   domain.KindDecision,
		Name:   gateName(call, kind),
		Pos:    w.position(call.Pos()),
		Gating: gating,
		Scope:  scope,
	}
	if kind == callSignal {
		e.Kind = domain.KindSignal
	}
	e.ID = w.nextID(e)
	return e, w.emit(e)
}

// gateName is the last string literal argument; decisions fall back to the
// condition's source text.
func gateName(call *ast.CallExpr, kind callKind) string {
	for i := len(call.Args) - 1; i >= 0; i-- {
		if lit, ok := call.Args[i].(*ast.BasicLit); ok && lit.Kind == token.STRING {
			if s, err := strconv.Unquote(lit.Value); err == nil && s != "" {
				return s
			}
		}
	}
	if kind == callDecision && len(call.Args) > 0 {
		return types.ExprString(call.Args[0])
	}
	return string(kind)
}

func (w *walker) nextID(e domain.SourceElement) string {
	var id string
	if w.cfg.DecisionIDStyle == config.IDStyleName {
		id = identifier(e.Name)
	} else if e.Kind == domain.KindSignal {
		id = fmt.Sprintf("s%d", w.signals)
		w.signals++
	} else {
		id = fmt.Sprintf("d%d", w.decisions)
		w.decisions++
	}
	base := id
	for n := 2; w.ids[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	w.ids[id] = true
	return id
}

func identifier(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	id := strings.Trim(sb.String(), "_")
	if id == "" {
		return "gate"
	}
	return id
}
