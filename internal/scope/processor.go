package scope

import (
	"strings"

	"github.com/varlens/varlens/internal/ast"
	"github.com/varlens/varlens/internal/pipeline"
)

// Processor runs scope analysis as a pipeline stage. On earlier-stage
// failure it still attaches a usable default Info.
type Processor struct{}

func (sp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	lineCount := CountLines(ctx.SourceCode)

	prog, ok := ctx.AstRoot.(*ast.Program)
	if !ok || prog == nil || ctx.HasErrors() {
		ctx.ScopeInfo = Empty(lineCount)
		return ctx
	}

	ctx.ScopeInfo = Analyze(prog, lineCount)
	return ctx
}

// CountLines reports how many lines the source text spans.
func CountLines(source string) int {
	if source == "" {
		return 0
	}
	n := strings.Count(source, "\n") + 1
	if strings.HasSuffix(source, "\n") {
		n--
	}
	return n
}
