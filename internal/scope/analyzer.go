// Package scope derives a static map from source lines to their enclosing
// function scope, plus the locally bound names per scope. The result is
// advisory: the tracer's per-frame classification stays correct even when
// analysis degrades to the empty Info.
package scope

import (
	"sort"

	"github.com/varlens/varlens/internal/ast"
)

// GlobalScope is the scope name for module-level bindings.
const GlobalScope = "global"

// Info is the static result of scope analysis.
type Info struct {
	// LineToScope maps every source line to the name of the innermost
	// function definition last visited whose body covers it, or "global".
	// Known precision limit: doubly-nested function bodies are tagged with
	// the innermost definition in visit order, not the full lexical chain.
	LineToScope map[int]string

	// ScopeToLocals maps a scope name to the names bound within it.
	ScopeToLocals map[string]map[string]bool

	// GlobalDeclarations maps a line holding a `global` statement to the
	// names it declares.
	GlobalDeclarations map[int][]string

	// Degraded is true when the source failed to parse and the maps carry
	// only defaults.
	Degraded bool
}

// Empty returns a usable default Info with every line mapped to the
// global scope.
func Empty(lineCount int) *Info {
	info := &Info{
		LineToScope:        make(map[int]string, lineCount),
		ScopeToLocals:      map[string]map[string]bool{GlobalScope: {}},
		GlobalDeclarations: make(map[int][]string),
		Degraded:           true,
	}
	for line := 1; line <= lineCount; line++ {
		info.LineToScope[line] = GlobalScope
	}
	return info
}

// Analyze walks the program and produces the scope map for lineCount
// source lines.
func Analyze(prog *ast.Program, lineCount int) *Info {
	info := Empty(lineCount)
	info.Degraded = false

	a := &analyzer{info: info}
	a.collectScope(GlobalScope, prog.Statements, nil)
	return info
}

type analyzer struct {
	info *Info
}

// collectScope gathers the bindings of one scope's statement list and
// recurses into nested function definitions. params seeds the locals set
// with formal parameters.
func (a *analyzer) collectScope(scopeName string, stmts []ast.Statement, params []*ast.Identifier) {
	locals := a.info.ScopeToLocals[scopeName]
	if locals == nil {
		locals = make(map[string]bool)
		a.info.ScopeToLocals[scopeName] = locals
	}
	for _, p := range params {
		locals[p.Value] = true
	}

	globalNames := make(map[string]bool)
	var nested []*ast.FunctionStatement

	a.collectBindings(stmts, scopeName, locals, globalNames, &nested)

	// Names declared global are not locals of this scope.
	for name := range globalNames {
		delete(locals, name)
	}

	// Mark nested function line ranges after this scope's own range so the
	// innermost definition visited last wins.
	for _, fn := range nested {
		a.markFunction(fn)
		a.collectScope(fn.Name.Value, fn.Body.Statements, fn.Parameters)
	}
}

// collectBindings walks a statement list without descending into nested
// function bodies, which own their bindings.
func (a *analyzer) collectBindings(stmts []ast.Statement, scopeName string, locals, globalNames map[string]bool, nested *[]*ast.FunctionStatement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.AssignStatement:
			if ident, ok := s.Target.(*ast.Identifier); ok && !globalNames[ident.Value] {
				locals[ident.Value] = true
			}
			a.collectExprBindings(s.Value, globalNames, locals)
		case *ast.AugAssignStatement:
			if !globalNames[s.Target.Value] {
				locals[s.Target.Value] = true
			}
			a.collectExprBindings(s.Value, globalNames, locals)
		case *ast.ForStatement:
			if !globalNames[s.Loop.Value] {
				locals[s.Loop.Value] = true
			}
			a.collectExprBindings(s.Iterable, globalNames, locals)
			a.collectBindings(s.Body.Statements, scopeName, locals, globalNames, nested)
		case *ast.WhileStatement:
			a.collectExprBindings(s.Condition, globalNames, locals)
			a.collectBindings(s.Body.Statements, scopeName, locals, globalNames, nested)
		case *ast.IfStatement:
			a.collectIf(s, scopeName, locals, globalNames, nested)
		case *ast.BlockStatement:
			a.collectBindings(s.Statements, scopeName, locals, globalNames, nested)
		case *ast.FunctionStatement:
			// The definition binds its name here; the body is its own scope.
			if !globalNames[s.Name.Value] {
				locals[s.Name.Value] = true
			}
			*nested = append(*nested, s)
		case *ast.GlobalStatement:
			names := make([]string, 0, len(s.Names))
			for _, n := range s.Names {
				names = append(names, n.Value)
				globalNames[n.Value] = true
				delete(locals, n.Value)
			}
			if scopeName != GlobalScope {
				line := s.Token.Line
				a.info.GlobalDeclarations[line] = append(a.info.GlobalDeclarations[line], names...)
			}
		case *ast.ExpressionStatement:
			a.collectExprBindings(s.Expression, globalNames, locals)
		case *ast.ReturnStatement:
			a.collectExprBindings(s.Value, globalNames, locals)
		}
	}
}

func (a *analyzer) collectIf(s *ast.IfStatement, scopeName string, locals, globalNames map[string]bool, nested *[]*ast.FunctionStatement) {
	a.collectExprBindings(s.Condition, globalNames, locals)
	a.collectBindings(s.Consequence.Statements, scopeName, locals, globalNames, nested)
	switch alt := s.Alternative.(type) {
	case *ast.IfStatement:
		a.collectIf(alt, scopeName, locals, globalNames, nested)
	case *ast.BlockStatement:
		a.collectBindings(alt.Statements, scopeName, locals, globalNames, nested)
	}
}

// collectExprBindings finds inline assignment-expression bindings (:=)
// inside an expression tree.
func (a *analyzer) collectExprBindings(expr ast.Expression, globalNames, locals map[string]bool) {
	switch e := expr.(type) {
	case *ast.WalrusExpression:
		if !globalNames[e.Name.Value] {
			locals[e.Name.Value] = true
		}
		a.collectExprBindings(e.Value, globalNames, locals)
	case *ast.PrefixExpression:
		a.collectExprBindings(e.Right, globalNames, locals)
	case *ast.InfixExpression:
		a.collectExprBindings(e.Left, globalNames, locals)
		a.collectExprBindings(e.Right, globalNames, locals)
	case *ast.CallExpression:
		a.collectExprBindings(e.Function, globalNames, locals)
		for _, arg := range e.Arguments {
			a.collectExprBindings(arg, globalNames, locals)
		}
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			a.collectExprBindings(el, globalNames, locals)
		}
	case *ast.IndexExpression:
		a.collectExprBindings(e.Left, globalNames, locals)
		a.collectExprBindings(e.Index, globalNames, locals)
	}
}

// markFunction tags every line of the function body with its name.
func (a *analyzer) markFunction(fn *ast.FunctionStatement) {
	start := fn.Body.Token.Line
	end := ast.LastLine(fn.Body)
	for line := start; line <= end; line++ {
		a.info.LineToScope[line] = fn.Name.Value
	}
}

// LocalsOf returns the sorted local names of a scope.
func (i *Info) LocalsOf(scopeName string) []string {
	set := i.ScopeToLocals[scopeName]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScopeOf returns the scope owning the given line, defaulting to global.
func (i *Info) ScopeOf(line int) string {
	if s, ok := i.LineToScope[line]; ok {
		return s
	}
	return GlobalScope
}
