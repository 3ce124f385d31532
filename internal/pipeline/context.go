package pipeline

import (
	"github.com/varlens/varlens/internal/diagnostics"
	"github.com/varlens/varlens/internal/token"
)

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the artifacts produced by each stage.
// AstRoot and ScopeInfo are held as interface{} so leaf stages don't
// pull in every downstream package; consumers type-assert.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream []token.Token
	AstRoot     interface{}
	ScopeInfo   interface{}
	Errors      []*diagnostics.Error
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// FirstError returns the earliest recorded diagnostic, or nil.
func (ctx *PipelineContext) FirstError() *diagnostics.Error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	return ctx.Errors[0]
}
