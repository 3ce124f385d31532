package trace

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// fakeFrame is a scripted activation for driving the session directly.
type fakeFrame struct {
	token   uint64
	scope   string
	locals  map[string]interface{}
	order   []string
	nonLoc  map[string]bool
	globals map[string]interface{}
	gOrder  []string
}

func (f *fakeFrame) Token() uint64 { return f.token }
func (f *fakeFrame) Scope() string { return f.scope }
func (f *fakeFrame) LocalNames() []string {
	return f.order
}
func (f *fakeFrame) Lookup(name string) (interface{}, bool) {
	v, ok := f.locals[name]
	return v, ok
}
func (f *fakeFrame) IsLocal(name string) bool { return !f.nonLoc[name] }
func (f *fakeFrame) GlobalNames() []string    { return f.gOrder }
func (f *fakeFrame) GlobalLookup(name string) (interface{}, bool) {
	v, ok := f.globals[name]
	return v, ok
}

func (f *fakeFrame) set(name string, v interface{}) {
	if _, seen := f.locals[name]; !seen {
		f.order = append(f.order, name)
	}
	f.locals[name] = v
}

func newFakeFrame(token uint64, scope string) *fakeFrame {
	return &fakeFrame{
		token:   token,
		scope:   scope,
		locals:  map[string]interface{}{},
		nonLoc:  map[string]bool{},
		globals: map[string]interface{}{},
	}
}

// fakeRuntime renders with fmt and treats func-typed values as callable.
type fakeRuntime struct{}

func (fakeRuntime) IsCallable(v interface{}) bool {
	_, ok := v.(func())
	return ok
}

func (fakeRuntime) Render(v interface{}) string {
	if s, ok := v.(string); ok && s == "panic" {
		panic("render failure")
	}
	return fmt.Sprintf("%v", v)
}

func TestDeferredCapture(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)
	f := newFakeFrame(1, GlobalScope)

	// Line 1 executes "x = 0"; its effect is visible when line 2 enters.
	s.LineEntered(f, 1)
	f.set("x", 0)
	if len(s.History()) != 0 {
		t.Fatal("capture must be deferred until the next line event")
	}

	s.LineEntered(f, 2)
	events := s.History()["global::x"]
	if len(events) != 1 || events[0].Line != 1 || events[0].Value != "0" {
		t.Fatalf("got %v", events)
	}
}

func TestFrameReturnedFlushesLastLine(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)
	f := newFakeFrame(1, "f")

	s.LineEntered(f, 3)
	f.set("y", 7)
	s.FrameReturned(f)

	events := s.History()["f::y"]
	if len(events) != 1 || events[0].Line != 3 {
		t.Fatalf("got %v", events)
	}

	// Bookkeeping is gone; a second return is a no-op.
	s.FrameReturned(f)
	if len(s.History()["f::y"]) != 1 {
		t.Fatal("duplicate flush after frame returned")
	}
}

func TestDedupByRepresentation(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)
	f := newFakeFrame(1, GlobalScope)

	s.LineEntered(f, 1)
	f.set("x", 0)
	s.LineEntered(f, 2)
	// Same value again: suppressed.
	s.LineEntered(f, 3)
	f.set("x", 1)
	s.LineEntered(f, 4)
	f.set("x", 1) // unchanged representation
	s.LineEntered(f, 5)
	f.set("x", 3)
	s.FrameReturned(f)

	events := s.History()["global::x"]
	want := []string{"0", "1", "3"}
	var got []string
	for _, ev := range events {
		got = append(got, ev.Value)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("values: got %v, want %v", got, want)
	}
}

func TestScopeSeparation(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)

	g := newFakeFrame(1, GlobalScope)
	s.LineEntered(g, 1)
	g.set("x", "outer")
	s.LineEntered(g, 2)

	fn := newFakeFrame(2, "f")
	s.LineEntered(fn, 3)
	fn.set("x", "inner")
	s.FrameReturned(fn)

	if len(s.History()["global::x"]) != 1 {
		t.Errorf("global::x events: %v", s.History()["global::x"])
	}
	if len(s.History()["f::x"]) != 1 {
		t.Errorf("f::x events: %v", s.History()["f::x"])
	}
}

func TestGlobalMutationFromFunction(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)

	fn := newFakeFrame(2, "bump")
	fn.nonLoc["count"] = true
	s.LineEntered(fn, 4)
	fn.set("count", 1)
	s.FrameReturned(fn)

	events := s.History()["global::count"]
	if len(events) != 1 {
		t.Fatalf("got %v", events)
	}
	if events[0].DeclaringScope != GlobalScope {
		t.Errorf("declaring scope: got %q", events[0].DeclaringScope)
	}
	if events[0].ObservedInScope != "bump" {
		t.Errorf("observed in: got %q", events[0].ObservedInScope)
	}
}

func TestGlobalsVisibleFromFrame(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)

	fn := newFakeFrame(2, "f")
	fn.globals["g"] = 10
	fn.gOrder = []string{"g"}
	s.LineEntered(fn, 2)
	s.FrameReturned(fn)

	events := s.History()["global::g"]
	if len(events) != 1 || events[0].ObservedInScope != "f" {
		t.Fatalf("got %v", events)
	}
}

func TestUnderscoreAndCallableFiltered(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)
	f := newFakeFrame(1, GlobalScope)

	s.LineEntered(f, 1)
	f.set("_hidden", 1)
	f.set("fn", func() {})
	f.set("x", 2)
	s.FrameReturned(f)

	history := s.History()
	if len(history) != 1 {
		t.Fatalf("got keys %v, want only global::x", keysOf(history))
	}
	if _, ok := history["global::x"]; !ok {
		t.Fatalf("missing global::x, got %v", keysOf(history))
	}
}

func TestRenderPanicYieldsSentinel(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)
	f := newFakeFrame(1, GlobalScope)

	s.LineEntered(f, 1)
	f.set("bad", "panic")
	s.FrameReturned(f)

	events := s.History()["global::bad"]
	if len(events) != 1 || events[0].Value != RenderFailure {
		t.Fatalf("got %v", events)
	}
}

func TestValueTruncation(t *testing.T) {
	s := NewSession(fakeRuntime{}, 10)
	f := newFakeFrame(1, GlobalScope)

	s.LineEntered(f, 1)
	f.set("long", strings.Repeat("é", 40))
	s.FrameReturned(f)

	events := s.History()["global::long"]
	if len(events) != 1 {
		t.Fatalf("got %v", events)
	}
	if events[0].Value != strings.Repeat("é", 10)+"..." {
		t.Fatalf("truncation: got %q", events[0].Value)
	}
}

func TestDistinctFramesDistinctLines(t *testing.T) {
	s := NewSession(fakeRuntime{}, 0)

	a := newFakeFrame(1, "f")
	b := newFakeFrame(2, "f")

	s.LineEntered(a, 2)
	a.set("v", "a")
	s.LineEntered(b, 2)
	b.set("v", "b")

	// Each frame flushes its own pending line.
	s.FrameReturned(a)
	s.FrameReturned(b)

	events := s.History()["f::v"]
	if len(events) != 2 {
		t.Fatalf("got %v", events)
	}
}

func TestVariableKey(t *testing.T) {
	v := Variable{Scope: "f", Name: "x"}
	if v.Key() != "f::x" {
		t.Errorf("got %q", v.Key())
	}
}

func keysOf(m Map) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
