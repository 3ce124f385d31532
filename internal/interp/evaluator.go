package interp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/varlens/varlens/internal/ast"
	"github.com/varlens/varlens/internal/token"
)

// MaxCallDepth bounds user recursion before the runtime reports a fault.
const MaxCallDepth = 200

// Hook observes execution. LineEntered fires when a statement line is
// about to execute in a frame; FrameReturned fires just before a frame is
// destroyed. Hooks fire only for frames running user code.
type Hook interface {
	LineEntered(frame *Frame, line int)
	FrameReturned(frame *Frame)
}

type Evaluator struct {
	// Context for cancellation; checked between statements.
	Context context.Context

	Out io.Writer

	// Hook receives line and return events. Nil disables instrumentation.
	Hook Hook

	globals   *Environment
	frameSeq  uint64
	callDepth int
}

func New() *Evaluator {
	return &Evaluator{Out: os.Stdout}
}

// Run executes a program with the given module environment and returns
// the final value, or an *Error on the first uncaught fault.
func (e *Evaluator) Run(prog *ast.Program, globals *Environment) Object {
	e.globals = globals
	frame := e.newFrame(GlobalFrameName, globals)

	result := e.evalStatements(prog.Statements, frame)
	switch result.(type) {
	case *ReturnValue:
		result = &Error{Message: "'return' outside function"}
	case *BreakSignal:
		result = &Error{Message: "'break' outside loop"}
	case *ContinueSignal:
		result = &Error{Message: "'continue' outside loop"}
	}
	if !isError(result) {
		e.fireReturn(frame)
	}
	return result
}

func (e *Evaluator) newFrame(name string, env *Environment) *Frame {
	e.frameSeq++
	return &Frame{
		token:       e.frameSeq,
		name:        name,
		env:         env,
		globals:     e.globals,
		globalNames: make(map[string]bool),
	}
}

func (e *Evaluator) fireLine(frame *Frame, line int) {
	if e.Hook != nil {
		e.Hook.LineEntered(frame, line)
	}
}

func (e *Evaluator) fireReturn(frame *Frame) {
	if e.Hook != nil {
		e.Hook.FrameReturned(frame)
	}
}

func (e *Evaluator) evalStatements(stmts []ast.Statement, frame *Frame) Object {
	var result Object = NoneValue
	for _, stmt := range stmts {
		if cancelled := e.checkCancelled(stmt); cancelled != nil {
			return cancelled
		}
		e.fireLine(frame, stmt.GetToken().Line)
		result = e.evalStatement(stmt, frame)
		switch result.(type) {
		case *Error, *ReturnValue, *BreakSignal, *ContinueSignal:
			return result
		}
	}
	return result
}

func (e *Evaluator) checkCancelled(stmt ast.Statement) Object {
	if e.Context == nil {
		return nil
	}
	select {
	case <-e.Context.Done():
		tok := stmt.GetToken()
		return &Error{Message: "execution cancelled", Line: tok.Line, Column: tok.Column}
	default:
		return nil
	}
}

// callFunction runs a user function in a fresh frame. The frame's return
// event fires after the body completes but not on a propagating fault, so
// a failed run captures nothing from the faulting line.
func (e *Evaluator) callFunction(fn *Function, args []Object, callTok token.Token) Object {
	if len(args) != len(fn.Parameters) {
		return e.errorf(callTok, "%s() takes %d arguments, got %d", fn.Name, len(fn.Parameters), len(args))
	}
	if e.callDepth >= MaxCallDepth {
		return e.errorf(callTok, "maximum recursion depth exceeded")
	}
	e.callDepth++
	defer func() { e.callDepth-- }()

	env := NewEnclosedEnvironment(e.globals)
	frame := e.newFrame(fn.Name, env)
	for i, p := range fn.Parameters {
		env.Set(p.Value, args[i])
	}

	result := e.evalStatements(fn.Body.Statements, frame)
	switch r := result.(type) {
	case *Error:
		return r
	case *BreakSignal:
		return e.errorf(callTok, "'break' outside loop")
	case *ContinueSignal:
		return e.errorf(callTok, "'continue' outside loop")
	case *ReturnValue:
		e.fireReturn(frame)
		return r.Value
	}
	e.fireReturn(frame)
	return NoneValue
}

// bindName rebinds a name in the frame's scope, honoring `global`
// declarations.
func (e *Evaluator) bindName(name string, val Object, frame *Frame) {
	if frame.isDeclaredGlobal(name) {
		e.globals.Set(name, val)
		return
	}
	frame.env.Set(name, val)
}

func (e *Evaluator) lookupName(ident *ast.Identifier, frame *Frame) Object {
	if frame.isDeclaredGlobal(ident.Value) {
		if v, ok := e.globals.Get(ident.Value); ok {
			return v
		}
	} else if v, ok := frame.env.Get(ident.Value); ok {
		return v
	}
	return e.errorf(ident.Token, "name '%s' is not defined", ident.Value)
}

func (e *Evaluator) errorf(tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}
