package interp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/varlens/varlens/internal/lexer"
	"github.com/varlens/varlens/internal/parser"
	"github.com/varlens/varlens/internal/pipeline"
)

func evalSource(t *testing.T, input string) (string, Object) {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: input}
	l := lexer.New(input)
	ctx.TokenStream = l.Tokenize()
	ctx.Errors = append(ctx.Errors, l.Errors()...)

	prog := parser.New(ctx.TokenStream, ctx).ParseProgram()
	if ctx.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", ctx.Errors)
	}

	var out bytes.Buffer
	builtins := NewEnvironment()
	RegisterBuiltins(builtins, &out)
	globals := NewEnclosedEnvironment(builtins)

	eval := New()
	eval.Out = &out
	result := eval.Run(prog, globals)
	return out.String(), result
}

func expectOutput(t *testing.T, input, want string) {
	t.Helper()
	got, result := evalSource(t, input)
	if errObj, ok := result.(*Error); ok {
		t.Fatalf("unexpected runtime error: %s", errObj.Inspect())
	}
	if got != want {
		t.Errorf("output:\ngot  %q\nwant %q", got, want)
	}
}

func expectError(t *testing.T, input, wantSubstr string) {
	t.Helper()
	_, result := evalSource(t, input)
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected runtime error containing %q, got %v", wantSubstr, result)
	}
	if !strings.Contains(errObj.Message, wantSubstr) {
		t.Errorf("error %q does not contain %q", errObj.Message, wantSubstr)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct{ input, want string }{
		{"print(1 + 2 * 3)\n", "7\n"},
		{"print(7 / 2)\n", "3.5\n"},
		{"print(7 // 2)\n", "3\n"},
		{"print(-7 // 2)\n", "-4\n"},
		{"print(7 % 3)\n", "1\n"},
		{"print(-7 % 3)\n", "2\n"},
		{"print(2 ** 10)\n", "1024\n"},
		{"print(1.5 + 1)\n", "2.5\n"},
		{"print(4 / 2)\n", "2.0\n"},
	}
	for _, tt := range tests {
		expectOutput(t, tt.input, tt.want)
	}
}

func TestStringsAndLists(t *testing.T) {
	tests := []struct{ input, want string }{
		{`print("ab" + "cd")` + "\n", "abcd\n"},
		{`print("ab" * 3)` + "\n", "ababab\n"},
		{"print([1, 2] + [3])\n", "[1, 2, 3]\n"},
		{"print([0] * 3)\n", "[0, 0, 0]\n"},
		{"xs = [1, 2, 3]\nprint(xs[-1])\n", "3\n"},
		{"xs = [1, 2, 3]\nxs[0] = 9\nprint(xs)\n", "[9, 2, 3]\n"},
		{`print(len("héllo"))` + "\n", "5\n"},
		{`print("a" == "a", "a" != "b")` + "\n", "True True\n"},
	}
	for _, tt := range tests {
		expectOutput(t, tt.input, tt.want)
	}
}

func TestTruthinessAndLogic(t *testing.T) {
	tests := []struct{ input, want string }{
		{"print(1 and 2)\n", "2\n"},
		{"print(0 and 2)\n", "0\n"},
		{"print(0 or 5)\n", "5\n"},
		{"print(not [])\n", "True\n"},
		{"print(not None)\n", "True\n"},
		{`print(not "")` + "\n", "True\n"},
		{"if []:\n    print(1)\nelse:\n    print(2)\n", "2\n"},
	}
	for _, tt := range tests {
		expectOutput(t, tt.input, tt.want)
	}
}

func TestControlFlow(t *testing.T) {
	input := `total = 0
for i in range(10):
    if i % 2 == 0:
        continue
    if i > 7:
        break
    total += i
print(total)
`
	expectOutput(t, input, "16\n")
}

func TestWhileLoop(t *testing.T) {
	input := `n = 3
while n > 0:
    print(n)
    n -= 1
`
	expectOutput(t, input, "3\n2\n1\n")
}

func TestFunctions(t *testing.T) {
	input := `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
print(fib(10))
`
	expectOutput(t, input, "55\n")
}

func TestFunctionWithoutReturnYieldsNone(t *testing.T) {
	input := `def noop():
    pass
print(noop())
`
	expectOutput(t, input, "None\n")
}

func TestGlobalDeclaration(t *testing.T) {
	input := `count = 0
def bump():
    global count
    count += 1
bump()
bump()
print(count)
`
	expectOutput(t, input, "2\n")
}

func TestLocalShadowsGlobal(t *testing.T) {
	input := `x = "outer"
def f():
    x = "inner"
    return x
print(f())
print(x)
`
	expectOutput(t, input, "inner\nouter\n")
}

func TestNoEnclosingFunctionLookup(t *testing.T) {
	// Name resolution is local, then global; an enclosing function's
	// locals are not visible.
	input := `def outer():
    hidden = 1
    def inner():
        return hidden
    return inner()
print(outer())
`
	expectError(t, input, "name 'hidden' is not defined")
}

func TestWalrusBindsAndYields(t *testing.T) {
	input := `n = 4
while (n := n - 1) > 0:
    print(n)
`
	expectOutput(t, input, "3\n2\n1\n")
}

func TestBuiltins(t *testing.T) {
	tests := []struct{ input, want string }{
		{"print(len([1, 2, 3]))\n", "3\n"},
		{"print(len(range(5)))\n", "5\n"},
		{"print(str(42) + \"!\")\n", "42!\n"},
		{"print(int(\"7\") + 1)\n", "8\n"},
		{"print(float(2))\n", "2.0\n"},
		{"print(abs(-5))\n", "5\n"},
		{"print(min(3, 1, 2))\n", "1\n"},
		{"print(max([4, 9, 2]))\n", "9\n"},
		{"print(sum([1, 2, 3]))\n", "6\n"},
	}
	for _, tt := range tests {
		expectOutput(t, tt.input, tt.want)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct{ input, want string }{
		{"print(x)\n", "name 'x' is not defined"},
		{"print(1 / 0)\n", "division by zero"},
		{"print(1 // 0)\n", "division by zero"},
		{"print(1 % 0)\n", "modulo by zero"},
		{"xs = [1]\nprint(xs[5])\n", "list index out of range"},
		{"x = 5\nx()\n", "not callable"},
		{`print("a" - "b")` + "\n", "unsupported operand types"},
		{"def f(a):\n    return a\nf(1, 2)\n", "takes 1 arguments, got 2"},
		{"for i in 5:\n    pass\n", "not iterable"},
	}
	for _, tt := range tests {
		expectError(t, tt.input, tt.want)
	}
}

func TestRuntimeErrorCarriesLine(t *testing.T) {
	_, result := evalSource(t, "x = 1\ny = missing\n")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatal("expected error")
	}
	if errObj.Line != 2 {
		t.Errorf("error line: got %d, want 2", errObj.Line)
	}
}

func TestRecursionLimit(t *testing.T) {
	input := `def f():
    return f()
f()
`
	expectError(t, input, "maximum recursion depth exceeded")
}

func TestOutputBeforeErrorIsKept(t *testing.T) {
	got, result := evalSource(t, "print(\"before\")\nboom\n")
	if _, ok := result.(*Error); !ok {
		t.Fatal("expected error")
	}
	if got != "before\n" {
		t.Errorf("output: got %q, want %q", got, "before\n")
	}
}

func TestContextCancellation(t *testing.T) {
	input := `while True:
    pass
`
	ctx := &pipeline.PipelineContext{SourceCode: input}
	l := lexer.New(input)
	ctx.TokenStream = l.Tokenize()
	prog := parser.New(ctx.TokenStream, ctx).ParseProgram()
	if ctx.HasErrors() {
		t.Fatalf("parse errors: %v", ctx.Errors)
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	builtins := NewEnvironment()
	RegisterBuiltins(builtins, &out)

	eval := New()
	eval.Context = cancelCtx
	eval.Out = &out
	result := eval.Run(prog, NewEnclosedEnvironment(builtins))

	errObj, ok := result.(*Error)
	if !ok || !strings.Contains(errObj.Message, "cancelled") {
		t.Fatalf("expected cancellation error, got %v", result)
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: 42}, "42"},
		{&Float{Value: 2.0}, "2.0"},
		{&String{Value: "hi"}, "'hi'"},
		{TrueValue, "True"},
		{NoneValue, "None"},
		{&List{Elements: []Object{&Integer{Value: 1}, &String{Value: "a"}}}, "[1, 'a']"},
	}
	for _, tt := range tests {
		if got := Repr(tt.obj); got != tt.want {
			t.Errorf("Repr(%v): got %q, want %q", tt.obj, got, tt.want)
		}
	}
}
