package runner

import (
	"github.com/varlens/varlens/internal/scope"
	"github.com/varlens/varlens/internal/trace"
)

// ErrorMarker prefixes the distinguished final output line carrying a
// failure message.
const ErrorMarker = "error: "

type FailureKind string

const (
	// SyntaxFailure means the source never compiled; no trace data exists.
	SyntaxFailure FailureKind = "syntax"
	// RuntimeFailure means execution halted at the first uncaught fault;
	// trace data up to that point is preserved.
	RuntimeFailure FailureKind = "runtime"
)

// Failure is a run-stopping fault carried as a value. Capture faults
// inside the tracer itself are swallowed and never become a Failure.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Result is the bundle returned to the caller. Ownership transfers to
// the caller; a new run builds a fresh Result.
type Result struct {
	// Output is everything the program printed. When Failure is set, the
	// marked error line is appended as the final line.
	Output  string
	Trace   trace.Map
	Scopes  *scope.Info
	Failure *Failure
}

// Failed reports whether the run stopped on a syntax or runtime fault.
func (r *Result) Failed() bool { return r.Failure != nil }
