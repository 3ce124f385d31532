// Package trace records every value-changing event observed during an
// instrumented run, keyed by scope-qualified variable identity. It sees
// the host runtime only through the Frame and Runtime interfaces so the
// diffing logic stays independent of the interpreter's value types.
package trace

import (
	"strings"
)

// GlobalScope is the identity scope of module-level bindings.
const GlobalScope = "global"

// RenderFailure is substituted when rendering a value panics.
const RenderFailure = "<unrepresentable>"

// DefaultMaxValueLen caps rendered value representations.
const DefaultMaxValueLen = 120

// Frame is the tracer's view of one live activation. Token is a
// lifetime-scoped identity issued by the host, never a memory address.
type Frame interface {
	Token() uint64
	Scope() string
	LocalNames() []string
	Lookup(name string) (interface{}, bool)
	IsLocal(name string) bool
	GlobalNames() []string
	GlobalLookup(name string) (interface{}, bool)
}

// Runtime is the capability surface the host adapter injects.
type Runtime interface {
	// IsCallable reports whether the value is function-like and should be
	// excluded from tracing.
	IsCallable(v interface{}) bool
	// Render produces a textual representation. It may panic; the tracer
	// substitutes RenderFailure and moves on.
	Render(v interface{}) string
}

// Variable identifies one traced variable: its declaring scope and raw
// name. Two same-named variables in different scopes are distinct.
type Variable struct {
	Scope string
	Name  string
}

// Key serializes the identity as "scope::name".
func (v Variable) Key() string { return v.Scope + "::" + v.Name }

// Event is one observed change. Events for a variable are appended in
// observation order, which is the authoritative history ordering.
type Event struct {
	Line            int
	Value           string
	DeclaringScope  string
	ObservedInScope string
}

// Map holds each variable's ordered event history, keyed by "scope::name".
type Map map[string][]Event

// Session carries all tracer state for exactly one run. A fresh Session
// must be created per run; nothing here is shared or reused.
type Session struct {
	rt          Runtime
	maxValueLen int

	prev     map[Variable]string
	lastLine map[uint64]int
	history  Map
}

func NewSession(rt Runtime, maxValueLen int) *Session {
	if maxValueLen <= 0 {
		maxValueLen = DefaultMaxValueLen
	}
	return &Session{
		rt:          rt,
		maxValueLen: maxValueLen,
		prev:        make(map[Variable]string),
		lastLine:    make(map[uint64]int),
		history:     make(Map),
	}
}

// History returns the accumulated trace map.
func (s *Session) History() Map { return s.history }

// LineEntered defers capture by one transition: the line previously
// recorded for the frame has now completed, so diff its effects before
// remembering the new line.
func (s *Session) LineEntered(f Frame, line int) {
	if last, ok := s.lastLine[f.Token()]; ok {
		s.capture(f, last)
	}
	s.lastLine[f.Token()] = line
}

// FrameReturned processes the frame's final completed line and drops its
// bookkeeping; the token is never reused.
func (s *Session) FrameReturned(f Frame) {
	if last, ok := s.lastLine[f.Token()]; ok {
		s.capture(f, last)
		delete(s.lastLine, f.Token())
	}
}

// capture diffs every user-visible variable of the frame against its last
// seen representation and appends events for changes.
func (s *Session) capture(f Frame, line int) {
	observed := f.Scope()
	covered := make(map[string]bool)

	// Locally bound names. A name bound here but not a true local (e.g.
	// rebinding a declared global) belongs to the global scope.
	for _, name := range f.LocalNames() {
		covered[name] = true
		if skipName(name) {
			continue
		}
		val, ok := f.Lookup(name)
		if !ok || s.rt.IsCallable(val) {
			continue
		}
		scope := observed
		if !f.IsLocal(name) {
			scope = GlobalScope
		}
		s.record(Variable{Scope: scope, Name: name}, line, val, observed)
	}

	// Visible module-level bindings not already covered.
	for _, name := range f.GlobalNames() {
		if covered[name] || skipName(name) {
			continue
		}
		val, ok := f.GlobalLookup(name)
		if !ok || s.rt.IsCallable(val) {
			continue
		}
		s.record(Variable{Scope: GlobalScope, Name: name}, line, val, observed)
	}
}

func (s *Session) record(v Variable, line int, val interface{}, observed string) {
	repr := s.render(val)
	if prev, ok := s.prev[v]; ok && prev == repr {
		return
	}
	s.prev[v] = repr
	s.history[v.Key()] = append(s.history[v.Key()], Event{
		Line:            line,
		Value:           repr,
		DeclaringScope:  v.Scope,
		ObservedInScope: observed,
	})
}

// render produces a bounded textual representation. A panic inside the
// host's renderer is swallowed; that single capture degrades to the
// sentinel instead of aborting the user's program.
func (s *Session) render(val interface{}) (out string) {
	defer func() {
		if recover() != nil {
			out = RenderFailure
		}
	}()
	out = s.rt.Render(val)
	if runes := []rune(out); len(runes) > s.maxValueLen {
		out = string(runes[:s.maxValueLen]) + "..."
	}
	return out
}

// skipName filters underscore-prefixed names, which belong to host
// machinery rather than the user's program.
func skipName(name string) bool {
	return strings.HasPrefix(name, "_")
}
