package interp

import (
	"math"

	"github.com/varlens/varlens/internal/ast"
	"github.com/varlens/varlens/internal/token"
)

func (e *Evaluator) evalExpression(expr ast.Expression, frame *Frame) Object {
	switch node := expr.(type) {
	case *ast.Identifier:
		return e.lookupName(node, frame)
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBool(node.Value)
	case *ast.NoneLiteral:
		return NoneValue
	case *ast.PrefixExpression:
		return e.evalPrefix(node, frame)
	case *ast.InfixExpression:
		return e.evalInfix(node, frame)
	case *ast.CallExpression:
		return e.evalCall(node, frame)
	case *ast.ListLiteral:
		return e.evalList(node, frame)
	case *ast.IndexExpression:
		return e.evalIndex(node, frame)
	case *ast.WalrusExpression:
		val := e.evalExpression(node.Value, frame)
		if isError(val) {
			return val
		}
		e.bindName(node.Name.Value, val, frame)
		return val
	}
	return e.errorf(expr.GetToken(), "unsupported expression")
}

func (e *Evaluator) evalPrefix(node *ast.PrefixExpression, frame *Frame) Object {
	right := e.evalExpression(node.Right, frame)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "-":
		switch v := right.(type) {
		case *Integer:
			return &Integer{Value: -v.Value}
		case *Float:
			return &Float{Value: -v.Value}
		}
		return e.errorf(node.Token, "bad operand type for unary -: %s", right.Type())
	case "not":
		return nativeBool(!IsTruthy(right))
	}
	return e.errorf(node.Token, "unknown operator %s", node.Operator)
}

func (e *Evaluator) evalInfix(node *ast.InfixExpression, frame *Frame) Object {
	// and/or short-circuit and yield the deciding operand.
	if node.Operator == "and" || node.Operator == "or" {
		left := e.evalExpression(node.Left, frame)
		if isError(left) {
			return left
		}
		if node.Operator == "and" && !IsTruthy(left) {
			return left
		}
		if node.Operator == "or" && IsTruthy(left) {
			return left
		}
		return e.evalExpression(node.Right, frame)
	}

	left := e.evalExpression(node.Left, frame)
	if isError(left) {
		return left
	}
	right := e.evalExpression(node.Right, frame)
	if isError(right) {
		return right
	}
	return e.evalInfixOp(node.Operator, left, right, node.Token)
}

func (e *Evaluator) evalInfixOp(op string, left, right Object, tok token.Token) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return e.evalIntegerInfix(op, left.(*Integer), right.(*Integer), tok)
	case isNumeric(left) && isNumeric(right):
		return e.evalFloatInfix(op, toFloat(left), toFloat(right), tok)
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return e.evalStringInfix(op, left.(*String), right.(*String), tok)
	case left.Type() == LIST_OBJ && right.Type() == LIST_OBJ && op == "+":
		l, r := left.(*List), right.(*List)
		elems := make([]Object, 0, len(l.Elements)+len(r.Elements))
		elems = append(elems, l.Elements...)
		elems = append(elems, r.Elements...)
		return &List{Elements: elems}
	case op == "*" && left.Type() == STRING_OBJ && right.Type() == INTEGER_OBJ:
		return repeatString(left.(*String), right.(*Integer))
	case op == "*" && left.Type() == LIST_OBJ && right.Type() == INTEGER_OBJ:
		return repeatList(left.(*List), right.(*Integer))
	case op == "==":
		return nativeBool(objectsEqual(left, right))
	case op == "!=":
		return nativeBool(!objectsEqual(left, right))
	}
	return e.errorf(tok, "unsupported operand types for %s: %s and %s", op, left.Type(), right.Type())
}

func (e *Evaluator) evalIntegerInfix(op string, left, right *Integer, tok token.Token) Object {
	l, r := left.Value, right.Value
	switch op {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return e.errorf(tok, "division by zero")
		}
		return &Float{Value: float64(l) / float64(r)}
	case "//":
		if r == 0 {
			return e.errorf(tok, "division by zero")
		}
		return &Integer{Value: floorDiv(l, r)}
	case "%":
		if r == 0 {
			return e.errorf(tok, "modulo by zero")
		}
		return &Integer{Value: l - floorDiv(l, r)*r}
	case "**":
		return intPow(l, r)
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	case ">=":
		return nativeBool(l >= r)
	case "==":
		return nativeBool(l == r)
	case "!=":
		return nativeBool(l != r)
	}
	return e.errorf(tok, "unknown operator %s", op)
}

func (e *Evaluator) evalFloatInfix(op string, l, r float64, tok token.Token) Object {
	switch op {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		if r == 0 {
			return e.errorf(tok, "division by zero")
		}
		return &Float{Value: l / r}
	case "//":
		if r == 0 {
			return e.errorf(tok, "division by zero")
		}
		return &Float{Value: math.Floor(l / r)}
	case "%":
		if r == 0 {
			return e.errorf(tok, "modulo by zero")
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return &Float{Value: m}
	case "**":
		return &Float{Value: math.Pow(l, r)}
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	case ">=":
		return nativeBool(l >= r)
	case "==":
		return nativeBool(l == r)
	case "!=":
		return nativeBool(l != r)
	}
	return e.errorf(tok, "unknown operator %s", op)
}

func (e *Evaluator) evalStringInfix(op string, left, right *String, tok token.Token) Object {
	switch op {
	case "+":
		return &String{Value: left.Value + right.Value}
	case "<":
		return nativeBool(left.Value < right.Value)
	case ">":
		return nativeBool(left.Value > right.Value)
	case "<=":
		return nativeBool(left.Value <= right.Value)
	case ">=":
		return nativeBool(left.Value >= right.Value)
	case "==":
		return nativeBool(left.Value == right.Value)
	case "!=":
		return nativeBool(left.Value != right.Value)
	}
	return e.errorf(tok, "unsupported operand types for %s: STRING and STRING", op)
}

func (e *Evaluator) evalCall(node *ast.CallExpression, frame *Frame) Object {
	callee := e.evalExpression(node.Function, frame)
	if isError(callee) {
		return callee
	}

	args := make([]Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val := e.evalExpression(arg, frame)
		if isError(val) {
			return val
		}
		args = append(args, val)
	}

	switch fn := callee.(type) {
	case *Function:
		return e.callFunction(fn, args, node.Token)
	case *Builtin:
		result := fn.Fn(args...)
		if err, ok := result.(*Error); ok && err.Line == 0 {
			err.Line = node.Token.Line
			err.Column = node.Token.Column
		}
		return result
	}
	return e.errorf(node.Token, "%s is not callable", callee.Type())
}

func (e *Evaluator) evalList(node *ast.ListLiteral, frame *Frame) Object {
	elems := make([]Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val := e.evalExpression(el, frame)
		if isError(val) {
			return val
		}
		elems = append(elems, val)
	}
	return &List{Elements: elems}
}

func (e *Evaluator) evalIndex(node *ast.IndexExpression, frame *Frame) Object {
	left := e.evalExpression(node.Left, frame)
	if isError(left) {
		return left
	}
	index := e.evalExpression(node.Index, frame)
	if isError(index) {
		return index
	}

	i, ok := index.(*Integer)
	if !ok {
		return e.errorf(node.Token, "index must be an integer, got %s", index.Type())
	}

	switch container := left.(type) {
	case *List:
		idx := i.Value
		if idx < 0 {
			idx += int64(len(container.Elements))
		}
		if idx < 0 || idx >= int64(len(container.Elements)) {
			return e.errorf(node.Token, "list index out of range")
		}
		return container.Elements[idx]
	case *String:
		runes := []rune(container.Value)
		idx := i.Value
		if idx < 0 {
			idx += int64(len(runes))
		}
		if idx < 0 || idx >= int64(len(runes)) {
			return e.errorf(node.Token, "string index out of range")
		}
		return &String{Value: string(runes[idx])}
	}
	return e.errorf(node.Token, "%s is not subscriptable", left.Type())
}

func isNumeric(obj Object) bool {
	return obj.Type() == INTEGER_OBJ || obj.Type() == FLOAT_OBJ
}

func toFloat(obj Object) float64 {
	switch v := obj.(type) {
	case *Integer:
		return float64(v.Value)
	case *Float:
		return v.Value
	}
	return 0
}

func floorDiv(l, r int64) int64 {
	q := l / r
	if (l%r != 0) && ((l < 0) != (r < 0)) {
		q--
	}
	return q
}

func intPow(base, exp int64) Object {
	if exp < 0 {
		return &Float{Value: math.Pow(float64(base), float64(exp))}
	}
	var result int64 = 1
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return &Integer{Value: result}
}

func repeatString(s *String, n *Integer) Object {
	if n.Value <= 0 {
		return &String{Value: ""}
	}
	out := ""
	for i := int64(0); i < n.Value; i++ {
		out += s.Value
	}
	return &String{Value: out}
}

func repeatList(l *List, n *Integer) Object {
	if n.Value <= 0 {
		return &List{Elements: []Object{}}
	}
	elems := make([]Object, 0, int64(len(l.Elements))*n.Value)
	for i := int64(0); i < n.Value; i++ {
		elems = append(elems, l.Elements...)
	}
	return &List{Elements: elems}
}

func objectsEqual(left, right Object) bool {
	if isNumeric(left) && isNumeric(right) {
		return toFloat(left) == toFloat(right)
	}
	switch l := left.(type) {
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *None:
		_, ok := right.(*None)
		return ok
	case *List:
		r, ok := right.(*List)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for i := range l.Elements {
			if !objectsEqual(l.Elements[i], r.Elements[i]) {
				return false
			}
		}
		return true
	}
	return left == right
}
