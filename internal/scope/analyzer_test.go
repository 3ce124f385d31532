package scope

import (
	"reflect"
	"testing"

	"github.com/varlens/varlens/internal/lexer"
	"github.com/varlens/varlens/internal/parser"
	"github.com/varlens/varlens/internal/pipeline"
)

func analyze(t *testing.T, input string) *Info {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: input}
	l := lexer.New(input)
	ctx.TokenStream = l.Tokenize()
	ctx.Errors = append(ctx.Errors, l.Errors()...)

	prog := parser.New(ctx.TokenStream, ctx).ParseProgram()
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	return Analyze(prog, CountLines(input))
}

func TestLineToScope(t *testing.T) {
	input := `x = 1
def f(a):
    y = a
    return y
z = f(1)
`
	info := analyze(t, input)

	wantScopes := map[int]string{1: "global", 2: "global", 3: "f", 4: "f", 5: "global"}
	for line, want := range wantScopes {
		if got := info.ScopeOf(line); got != want {
			t.Errorf("line %d: got %q, want %q", line, got, want)
		}
	}
}

func TestLocalsPerScope(t *testing.T) {
	input := `x = 1
def f(a, b):
    y = a + b
    return y
`
	info := analyze(t, input)

	if got := info.LocalsOf("f"); !reflect.DeepEqual(got, []string{"a", "b", "y"}) {
		t.Errorf("locals of f: got %v", got)
	}
	if got := info.LocalsOf(GlobalScope); !reflect.DeepEqual(got, []string{"f", "x"}) {
		t.Errorf("globals: got %v", got)
	}
}

func TestGlobalDeclarationExcludesLocal(t *testing.T) {
	input := `count = 0
def bump():
    global count
    count = count + 1
`
	info := analyze(t, input)

	for _, name := range info.LocalsOf("bump") {
		if name == "count" {
			t.Fatal("count declared global must not be a local of bump")
		}
	}
	if got := info.GlobalDeclarations[3]; !reflect.DeepEqual(got, []string{"count"}) {
		t.Errorf("declarations at line 3: got %v", got)
	}
}

func TestGlobalStatementAtModuleLevelNotRecorded(t *testing.T) {
	info := analyze(t, "global x\nx = 1\n")
	if len(info.GlobalDeclarations) != 0 {
		t.Errorf("module-level global recorded: %v", info.GlobalDeclarations)
	}
}

func TestLoopAndWalrusBindings(t *testing.T) {
	input := `def f():
    total = 0
    for i in range(3):
        total += i
    while (n := total - 1) > 0:
        total = n
    return total
`
	info := analyze(t, input)
	if got := info.LocalsOf("f"); !reflect.DeepEqual(got, []string{"i", "n", "total"}) {
		t.Errorf("locals of f: got %v", got)
	}
}

func TestNestedFunctionInnermostWins(t *testing.T) {
	input := `def outer():
    def inner():
        x = 1
        return x
    return inner()
`
	info := analyze(t, input)

	// inner's body lines carry the innermost definition.
	if got := info.ScopeOf(3); got != "inner" {
		t.Errorf("line 3: got %q, want inner", got)
	}
	if got := info.ScopeOf(4); got != "inner" {
		t.Errorf("line 4: got %q, want inner", got)
	}
	// outer's own statement after inner remains outer's.
	if got := info.ScopeOf(5); got != "outer" {
		t.Errorf("line 5: got %q, want outer", got)
	}

	// inner binds as a name in outer's scope, not globally.
	if got := info.LocalsOf("outer"); !reflect.DeepEqual(got, []string{"inner"}) {
		t.Errorf("locals of outer: got %v", got)
	}
}

func TestConditionalBindingsCollect(t *testing.T) {
	input := `def f(flag):
    if flag:
        a = 1
    elif not flag:
        b = 2
    else:
        c = 3
    return 0
`
	info := analyze(t, input)
	if got := info.LocalsOf("f"); !reflect.DeepEqual(got, []string{"a", "b", "c", "flag"}) {
		t.Errorf("locals of f: got %v", got)
	}
}

func TestEmptyInfoDefaultsToGlobal(t *testing.T) {
	info := Empty(3)
	if !info.Degraded {
		t.Error("Empty must be degraded")
	}
	for line := 1; line <= 3; line++ {
		if info.ScopeOf(line) != GlobalScope {
			t.Errorf("line %d not global", line)
		}
	}
	if info.ScopeOf(99) != GlobalScope {
		t.Error("unknown line must default to global")
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"x = 1", 1},
		{"x = 1\n", 1},
		{"x = 1\ny = 2\n", 2},
		{"x = 1\n\n\ny = 2", 4},
	}
	for _, tt := range tests {
		if got := CountLines(tt.input); got != tt.want {
			t.Errorf("%q: got %d, want %d", tt.input, got, tt.want)
		}
	}
}
