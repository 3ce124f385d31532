// Package varlens is the public embedding surface: run a script under
// instrumentation and receive its printed output, variable trace, and
// scope map as one bundle.
package varlens

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/varlens/varlens/internal/lexer"
	"github.com/varlens/varlens/internal/parser"
	"github.com/varlens/varlens/internal/pipeline"
	"github.com/varlens/varlens/internal/runner"
	"github.com/varlens/varlens/internal/scope"
	"github.com/varlens/varlens/internal/trace"
)

// TraceEvent is one recorded change of a variable's value.
type TraceEvent struct {
	// Line is the 1-based source line whose execution produced the value.
	Line int `json:"line"`
	// Function is the scope the variable belongs to, "global" for
	// module-level bindings.
	Function string `json:"function"`
	// AssignedIn names the scope whose execution produced the change, and
	// is present only when it differs from Function (a function mutating a
	// declared global).
	AssignedIn string `json:"assignedIn,omitempty"`
	// Value is the bounded textual representation after the change.
	Value string `json:"value"`
}

// ScopeInfo is the static line-to-scope map of the analyzed source.
type ScopeInfo struct {
	LineToScope        map[string]string   `json:"lineToScope"`
	ScopeToLocals      map[string][]string `json:"scopeToLocals"`
	GlobalDeclarations map[string][]string `json:"globalDeclarations"`
}

// Report is the complete outcome of one traced run.
type Report struct {
	// PrintedOutput is everything the program wrote, with the marked error
	// line appended when the run failed.
	PrintedOutput string `json:"printedOutput"`
	// TraceMap holds each variable's ordered event history keyed by
	// "scope::name".
	TraceMap map[string][]TraceEvent `json:"traceMap"`
	// ScopeInfo is the advisory static analysis of the same source.
	ScopeInfo ScopeInfo `json:"scopeInfo"`
	// ErrorMessage is empty on success, otherwise the failure text.
	ErrorMessage string `json:"errorMessage"`
}

// Options tune a run. The zero value is ready to use.
type Options struct {
	// FilePath labels diagnostics; empty means an anonymous buffer.
	FilePath string
	// MaxValueLen caps rendered values in trace events; zero selects the
	// default of 120 runes.
	MaxValueLen int
}

// Run executes source under instrumentation. Script-level faults (syntax
// or runtime) are reported inside the Report, never as an error; runs are
// independent and share no state.
func Run(ctx context.Context, source string, opts Options) *Report {
	res := runner.Run(ctx, source, runner.Options{
		FilePath:    opts.FilePath,
		MaxValueLen: opts.MaxValueLen,
	})
	return fromResult(res)
}

// RunSource is Run with default options and a background context.
func RunSource(source string) *Report {
	return Run(context.Background(), source, Options{})
}

// Analyze parses source and returns its static scope map without
// executing anything. A syntax error yields the degraded default map and
// a non-nil error.
func Analyze(source, filePath string) (ScopeInfo, error) {
	pctx := &pipeline.PipelineContext{SourceCode: source, FilePath: filePath}
	pctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&scope.Processor{},
	).Run(pctx)

	info, ok := pctx.ScopeInfo.(*scope.Info)
	if !ok {
		info = scope.Empty(scope.CountLines(source))
	}
	if pctx.HasErrors() {
		return convertScopes(info), pctx.FirstError()
	}
	return convertScopes(info), nil
}

// ToJSON serializes the bundle with stable field names.
func (r *Report) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// Failed reports whether the run stopped on a fault.
func (r *Report) Failed() bool { return r.ErrorMessage != "" }

func fromResult(res *runner.Result) *Report {
	rep := &Report{
		PrintedOutput: res.Output,
		TraceMap:      convertTrace(res.Trace),
		ScopeInfo:     convertScopes(res.Scopes),
	}
	if res.Failure != nil {
		rep.ErrorMessage = res.Failure.Message
	}
	return rep
}

func convertTrace(tm trace.Map) map[string][]TraceEvent {
	out := make(map[string][]TraceEvent, len(tm))
	for key, events := range tm {
		converted := make([]TraceEvent, len(events))
		for i, ev := range events {
			converted[i] = TraceEvent{
				Line:     ev.Line,
				Function: ev.DeclaringScope,
				Value:    ev.Value,
			}
			if ev.ObservedInScope != ev.DeclaringScope {
				converted[i].AssignedIn = ev.ObservedInScope
			}
		}
		out[key] = converted
	}
	return out
}

func convertScopes(info *scope.Info) ScopeInfo {
	si := ScopeInfo{
		LineToScope:        make(map[string]string, len(info.LineToScope)),
		ScopeToLocals:      make(map[string][]string, len(info.ScopeToLocals)),
		GlobalDeclarations: make(map[string][]string, len(info.GlobalDeclarations)),
	}
	for line, name := range info.LineToScope {
		si.LineToScope[strconv.Itoa(line)] = name
	}
	for name := range info.ScopeToLocals {
		si.ScopeToLocals[name] = info.LocalsOf(name)
	}
	for line, names := range info.GlobalDeclarations {
		si.GlobalDeclarations[strconv.Itoa(line)] = names
	}
	return si
}
