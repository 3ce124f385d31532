package interp

import (
	"github.com/varlens/varlens/internal/ast"
)

func (e *Evaluator) evalStatement(stmt ast.Statement, frame *Frame) Object {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.evalExpression(s.Expression, frame)
	case *ast.AssignStatement:
		return e.evalAssign(s, frame)
	case *ast.AugAssignStatement:
		return e.evalAugAssign(s, frame)
	case *ast.IfStatement:
		return e.evalIf(s, frame)
	case *ast.WhileStatement:
		return e.evalWhile(s, frame)
	case *ast.ForStatement:
		return e.evalFor(s, frame)
	case *ast.FunctionStatement:
		fn := &Function{Name: s.Name.Value, Parameters: s.Parameters, Body: s.Body}
		e.bindName(s.Name.Value, fn, frame)
		return NoneValue
	case *ast.ReturnStatement:
		if s.Value == nil {
			return &ReturnValue{Value: NoneValue}
		}
		val := e.evalExpression(s.Value, frame)
		if isError(val) {
			return val
		}
		return &ReturnValue{Value: val}
	case *ast.GlobalStatement:
		for _, name := range s.Names {
			frame.declareGlobal(name.Value)
		}
		return NoneValue
	case *ast.PassStatement:
		return NoneValue
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}
	case *ast.BlockStatement:
		return e.evalStatements(s.Statements, frame)
	}
	return e.errorf(stmt.GetToken(), "unsupported statement")
}

func (e *Evaluator) evalAssign(s *ast.AssignStatement, frame *Frame) Object {
	val := e.evalExpression(s.Value, frame)
	if isError(val) {
		return val
	}

	switch target := s.Target.(type) {
	case *ast.Identifier:
		e.bindName(target.Value, val, frame)
		return NoneValue
	case *ast.IndexExpression:
		return e.evalIndexAssign(target, val, frame)
	}
	return e.errorf(s.Token, "invalid assignment target")
}

func (e *Evaluator) evalIndexAssign(target *ast.IndexExpression, val Object, frame *Frame) Object {
	container := e.evalExpression(target.Left, frame)
	if isError(container) {
		return container
	}
	index := e.evalExpression(target.Index, frame)
	if isError(index) {
		return index
	}

	list, ok := container.(*List)
	if !ok {
		return e.errorf(target.Token, "%s does not support item assignment", container.Type())
	}
	i, ok := index.(*Integer)
	if !ok {
		return e.errorf(target.Token, "list index must be an integer, got %s", index.Type())
	}
	idx := i.Value
	if idx < 0 {
		idx += int64(len(list.Elements))
	}
	if idx < 0 || idx >= int64(len(list.Elements)) {
		return e.errorf(target.Token, "list index out of range")
	}
	list.Elements[idx] = val
	return NoneValue
}

func (e *Evaluator) evalAugAssign(s *ast.AugAssignStatement, frame *Frame) Object {
	current := e.lookupName(s.Target, frame)
	if isError(current) {
		return current
	}
	operand := e.evalExpression(s.Value, frame)
	if isError(operand) {
		return operand
	}

	result := e.evalInfixOp(s.Operator, current, operand, s.Token)
	if isError(result) {
		return result
	}
	e.bindName(s.Target.Value, result, frame)
	return NoneValue
}

func (e *Evaluator) evalIf(s *ast.IfStatement, frame *Frame) Object {
	cond := e.evalExpression(s.Condition, frame)
	if isError(cond) {
		return cond
	}
	if IsTruthy(cond) {
		return e.evalStatements(s.Consequence.Statements, frame)
	}
	if s.Alternative != nil {
		// An elif arrives as a nested IfStatement and needs its own line
		// event; a plain else block fires per inner statement already.
		if alt, ok := s.Alternative.(*ast.IfStatement); ok {
			e.fireLine(frame, alt.Token.Line)
		}
		return e.evalStatement(s.Alternative, frame)
	}
	return NoneValue
}

func (e *Evaluator) evalWhile(s *ast.WhileStatement, frame *Frame) Object {
	first := true
	for {
		if cancelled := e.checkCancelled(s); cancelled != nil {
			return cancelled
		}
		// The header line re-executes per iteration; the enclosing block
		// already fired it for the first pass.
		if !first {
			e.fireLine(frame, s.Token.Line)
		}
		first = false

		cond := e.evalExpression(s.Condition, frame)
		if isError(cond) {
			return cond
		}
		if !IsTruthy(cond) {
			return NoneValue
		}

		result := e.evalStatements(s.Body.Statements, frame)
		switch result.(type) {
		case *BreakSignal:
			return NoneValue
		case *ContinueSignal:
			continue
		case *Error, *ReturnValue:
			return result
		}
	}
}

func (e *Evaluator) evalFor(s *ast.ForStatement, frame *Frame) Object {
	iterable := e.evalExpression(s.Iterable, frame)
	if isError(iterable) {
		return iterable
	}

	next, err := e.iterator(iterable, s)
	if err != nil {
		return err
	}

	first := true
	for {
		if cancelled := e.checkCancelled(s); cancelled != nil {
			return cancelled
		}
		if !first {
			e.fireLine(frame, s.Token.Line)
		}
		first = false

		item, ok := next()
		if !ok {
			return NoneValue
		}
		e.bindName(s.Loop.Value, item, frame)

		result := e.evalStatements(s.Body.Statements, frame)
		switch result.(type) {
		case *BreakSignal:
			return NoneValue
		case *ContinueSignal:
			continue
		case *Error, *ReturnValue:
			return result
		}
	}
}

// iterator returns a pull function over the iterable's items.
func (e *Evaluator) iterator(obj Object, s *ast.ForStatement) (func() (Object, bool), *Error) {
	switch it := obj.(type) {
	case *Range:
		i := it.Start
		return func() (Object, bool) {
			if (it.Step > 0 && i >= it.Stop) || (it.Step < 0 && i <= it.Stop) {
				return nil, false
			}
			v := &Integer{Value: i}
			i += it.Step
			return v, true
		}, nil
	case *List:
		i := 0
		return func() (Object, bool) {
			if i >= len(it.Elements) {
				return nil, false
			}
			v := it.Elements[i]
			i++
			return v, true
		}, nil
	case *String:
		runes := []rune(it.Value)
		i := 0
		return func() (Object, bool) {
			if i >= len(runes) {
				return nil, false
			}
			v := &String{Value: string(runes[i])}
			i++
			return v, true
		}, nil
	}
	return nil, e.errorf(s.Token, "%s is not iterable", obj.Type())
}
