// Package runner assembles a complete traced run: parse, advisory scope
// analysis, instrumented execution, and the packaged Result.
package runner

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/varlens/varlens/internal/ast"
	"github.com/varlens/varlens/internal/interp"
	"github.com/varlens/varlens/internal/lexer"
	"github.com/varlens/varlens/internal/parser"
	"github.com/varlens/varlens/internal/pipeline"
	"github.com/varlens/varlens/internal/scope"
	"github.com/varlens/varlens/internal/trace"
)

type Options struct {
	// FilePath labels diagnostics; empty means an anonymous buffer.
	FilePath string
	// MaxValueLen caps rendered value representations in trace events.
	// Zero selects the default.
	MaxValueLen int
}

// Run executes source under instrumentation and returns the result
// bundle. All tracer and interpreter state is created here and dies with
// the call; runs never share accumulator state. Recoverable failures
// (syntax, runtime) land in Result.Failure, never in an error return.
func Run(ctx context.Context, source string, opts Options) *Result {
	lineCount := scope.CountLines(source)

	pctx := &pipeline.PipelineContext{SourceCode: source, FilePath: opts.FilePath}
	pctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pctx)

	if pctx.HasErrors() {
		failure := &Failure{Kind: SyntaxFailure, Message: pctx.FirstError().Error()}
		return &Result{
			Output:  ErrorMarker + failure.Message + "\n",
			Trace:   make(trace.Map),
			Scopes:  scope.Empty(lineCount),
			Failure: failure,
		}
	}

	prog, ok := pctx.AstRoot.(*ast.Program)
	if !ok {
		failure := &Failure{Kind: SyntaxFailure, Message: "no program produced"}
		return &Result{
			Output:  ErrorMarker + failure.Message + "\n",
			Trace:   make(trace.Map),
			Scopes:  scope.Empty(lineCount),
			Failure: failure,
		}
	}

	var (
		info    *scope.Info
		out     bytes.Buffer
		sess    *trace.Session
		failure *Failure
	)

	// Scope analysis is advisory and independent of execution; run the
	// two concurrently over the read-only AST.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info = scope.Analyze(prog, lineCount)
		return nil
	})

	g.Go(func() error {
		sess = trace.NewSession(hostRuntime{}, opts.MaxValueLen)

		builtins := interp.NewEnvironment()
		interp.RegisterBuiltins(builtins, &out)
		globals := interp.NewEnclosedEnvironment(builtins)

		eval := interp.New()
		eval.Context = gctx
		eval.Out = &out
		eval.Hook = &traceHook{sess: sess}

		result := eval.Run(prog, globals)
		if errObj, isErr := result.(*interp.Error); isErr {
			failure = &Failure{Kind: RuntimeFailure, Message: errObj.Inspect()}
		}
		return nil
	})

	// Stage goroutines communicate faults through the Result, not error
	// returns, so Wait only synchronizes.
	_ = g.Wait()

	output := out.String()
	if failure != nil {
		output += ErrorMarker + failure.Message + "\n"
	}

	return &Result{
		Output:  output,
		Trace:   sess.History(),
		Scopes:  info,
		Failure: failure,
	}
}
