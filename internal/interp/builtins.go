package interp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RegisterBuiltins binds the native functions into env. Builtins live in
// their own environment enclosing the module one, so enumerating module
// globals never reports them.
func RegisterBuiltins(env *Environment, out io.Writer) {
	builtins := []*Builtin{
		{Name: "print", Fn: makePrint(out)},
		{Name: "range", Fn: builtinRange},
		{Name: "len", Fn: builtinLen},
		{Name: "str", Fn: builtinStr},
		{Name: "int", Fn: builtinInt},
		{Name: "float", Fn: builtinFloat},
		{Name: "abs", Fn: builtinAbs},
		{Name: "min", Fn: builtinMin},
		{Name: "max", Fn: builtinMax},
		{Name: "sum", Fn: builtinSum},
	}
	for _, b := range builtins {
		env.Set(b.Name, b)
	}
}

func makePrint(out io.Writer) BuiltinFn {
	return func(args ...Object) Object {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = arg.Inspect()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return NoneValue
	}
}

func builtinRange(args ...Object) Object {
	nums := make([]int64, len(args))
	for i, arg := range args {
		n, ok := arg.(*Integer)
		if !ok {
			return &Error{Message: fmt.Sprintf("range() argument must be an integer, got %s", arg.Type())}
		}
		nums[i] = n.Value
	}
	switch len(args) {
	case 1:
		return &Range{Start: 0, Stop: nums[0], Step: 1}
	case 2:
		return &Range{Start: nums[0], Stop: nums[1], Step: 1}
	case 3:
		if nums[2] == 0 {
			return &Error{Message: "range() step must not be zero"}
		}
		return &Range{Start: nums[0], Stop: nums[1], Step: nums[2]}
	}
	return &Error{Message: fmt.Sprintf("range() takes 1 to 3 arguments, got %d", len(args))}
}

func builtinLen(args ...Object) Object {
	if len(args) != 1 {
		return &Error{Message: fmt.Sprintf("len() takes 1 argument, got %d", len(args))}
	}
	switch v := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len([]rune(v.Value)))}
	case *List:
		return &Integer{Value: int64(len(v.Elements))}
	case *Range:
		return &Integer{Value: v.Len()}
	}
	return &Error{Message: fmt.Sprintf("%s has no length", args[0].Type())}
}

func builtinStr(args ...Object) Object {
	if len(args) != 1 {
		return &Error{Message: fmt.Sprintf("str() takes 1 argument, got %d", len(args))}
	}
	return &String{Value: args[0].Inspect()}
}

func builtinInt(args ...Object) Object {
	if len(args) != 1 {
		return &Error{Message: fmt.Sprintf("int() takes 1 argument, got %d", len(args))}
	}
	switch v := args[0].(type) {
	case *Integer:
		return v
	case *Float:
		return &Integer{Value: int64(math.Trunc(v.Value))}
	case *Boolean:
		if v.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	case *String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return &Error{Message: fmt.Sprintf("invalid literal for int(): %q", v.Value)}
		}
		return &Integer{Value: n}
	}
	return &Error{Message: fmt.Sprintf("int() argument must be a number or string, got %s", args[0].Type())}
}

func builtinFloat(args ...Object) Object {
	if len(args) != 1 {
		return &Error{Message: fmt.Sprintf("float() takes 1 argument, got %d", len(args))}
	}
	switch v := args[0].(type) {
	case *Float:
		return v
	case *Integer:
		return &Float{Value: float64(v.Value)}
	case *String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return &Error{Message: fmt.Sprintf("invalid literal for float(): %q", v.Value)}
		}
		return &Float{Value: f}
	}
	return &Error{Message: fmt.Sprintf("float() argument must be a number or string, got %s", args[0].Type())}
}

func builtinAbs(args ...Object) Object {
	if len(args) != 1 {
		return &Error{Message: fmt.Sprintf("abs() takes 1 argument, got %d", len(args))}
	}
	switch v := args[0].(type) {
	case *Integer:
		if v.Value < 0 {
			return &Integer{Value: -v.Value}
		}
		return v
	case *Float:
		return &Float{Value: math.Abs(v.Value)}
	}
	return &Error{Message: fmt.Sprintf("bad operand type for abs(): %s", args[0].Type())}
}

func builtinMin(args ...Object) Object {
	return pickExtreme("min", args, func(candidate, best float64) bool { return candidate < best })
}

func builtinMax(args ...Object) Object {
	return pickExtreme("max", args, func(candidate, best float64) bool { return candidate > best })
}

func pickExtreme(name string, args []Object, better func(candidate, best float64) bool) Object {
	items := args
	if len(args) == 1 {
		list, ok := args[0].(*List)
		if !ok {
			return &Error{Message: fmt.Sprintf("%s() single argument must be a list, got %s", name, args[0].Type())}
		}
		items = list.Elements
	}
	if len(items) == 0 {
		return &Error{Message: fmt.Sprintf("%s() of empty sequence", name)}
	}

	best := items[0]
	if !isNumeric(best) {
		return &Error{Message: fmt.Sprintf("%s() arguments must be numbers, got %s", name, best.Type())}
	}
	for _, item := range items[1:] {
		if !isNumeric(item) {
			return &Error{Message: fmt.Sprintf("%s() arguments must be numbers, got %s", name, item.Type())}
		}
		if better(toFloat(item), toFloat(best)) {
			best = item
		}
	}
	return best
}

func builtinSum(args ...Object) Object {
	if len(args) != 1 {
		return &Error{Message: fmt.Sprintf("sum() takes 1 argument, got %d", len(args))}
	}
	list, ok := args[0].(*List)
	if !ok {
		return &Error{Message: fmt.Sprintf("sum() argument must be a list, got %s", args[0].Type())}
	}

	var intSum int64
	var floatSum float64
	sawFloat := false
	for _, item := range list.Elements {
		switch v := item.(type) {
		case *Integer:
			intSum += v.Value
		case *Float:
			sawFloat = true
			floatSum += v.Value
		default:
			return &Error{Message: fmt.Sprintf("sum() items must be numbers, got %s", item.Type())}
		}
	}
	if sawFloat {
		return &Float{Value: floatSum + float64(intSum)}
	}
	return &Integer{Value: intSum}
}
