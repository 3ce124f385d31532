package lexer

import (
	"github.com/varlens/varlens/internal/pipeline"
)

// LexerProcessor turns source text into the token stream consumed by the
// parser stage.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	ctx.TokenStream = l.Tokenize()
	ctx.Errors = append(ctx.Errors, l.Errors()...)
	return ctx
}
