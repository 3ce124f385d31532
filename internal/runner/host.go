package runner

import (
	"github.com/varlens/varlens/internal/interp"
	"github.com/varlens/varlens/internal/trace"
)

// hostFrame adapts an interpreter frame to the tracer's view.
type hostFrame struct {
	f *interp.Frame
}

func (hf hostFrame) Token() uint64        { return hf.f.Token() }
func (hf hostFrame) Scope() string        { return hf.f.Scope() }
func (hf hostFrame) LocalNames() []string { return hf.f.LocalNames() }
func (hf hostFrame) IsLocal(name string) bool {
	return hf.f.IsLocal(name)
}
func (hf hostFrame) GlobalNames() []string { return hf.f.GlobalNames() }

func (hf hostFrame) Lookup(name string) (interface{}, bool) {
	v, ok := hf.f.Lookup(name)
	return v, ok
}

func (hf hostFrame) GlobalLookup(name string) (interface{}, bool) {
	v, ok := hf.f.GlobalLookup(name)
	return v, ok
}

// hostRuntime injects the interpreter's capability queries.
type hostRuntime struct{}

func (hostRuntime) IsCallable(v interface{}) bool {
	obj, ok := v.(interp.Object)
	return ok && interp.IsCallable(obj)
}

func (hostRuntime) Render(v interface{}) string {
	return interp.Repr(v.(interp.Object))
}

// traceHook forwards interpreter events into the trace session.
type traceHook struct {
	sess *trace.Session
}

func (h *traceHook) LineEntered(f *interp.Frame, line int) {
	h.sess.LineEntered(hostFrame{f: f}, line)
}

func (h *traceHook) FrameReturned(f *interp.Frame) {
	h.sess.FrameReturned(hostFrame{f: f})
}
