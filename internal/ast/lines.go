package ast

// LastLine returns the greatest source line covered by the subtree rooted
// at n, or 0 for nil nodes. Used to compute the line range a function
// body spans.
func LastLine(n Node) int {
	switch node := n.(type) {
	case nil:
		return 0
	case *Program:
		last := 0
		for _, s := range node.Statements {
			last = maxLine(last, LastLine(s))
		}
		return last
	case *BlockStatement:
		last := node.Token.Line
		for _, s := range node.Statements {
			last = maxLine(last, LastLine(s))
		}
		return last
	case *ExpressionStatement:
		return maxLine(node.Token.Line, LastLine(node.Expression))
	case *AssignStatement:
		return maxLine(node.Token.Line, LastLine(node.Target), LastLine(node.Value))
	case *AugAssignStatement:
		return maxLine(node.Token.Line, LastLine(node.Target), LastLine(node.Value))
	case *IfStatement:
		return maxLine(node.Token.Line, LastLine(node.Consequence), LastLine(node.Alternative))
	case *WhileStatement:
		return maxLine(node.Token.Line, LastLine(node.Body))
	case *ForStatement:
		return maxLine(node.Token.Line, LastLine(node.Body))
	case *FunctionStatement:
		return maxLine(node.Token.Line, LastLine(node.Body))
	case *ReturnStatement:
		return maxLine(node.Token.Line, LastLine(node.Value))
	case *GlobalStatement:
		return node.Token.Line
	case *PassStatement:
		return node.Token.Line
	case *BreakStatement:
		return node.Token.Line
	case *ContinueStatement:
		return node.Token.Line
	case *PrefixExpression:
		return maxLine(node.Token.Line, LastLine(node.Right))
	case *InfixExpression:
		return maxLine(node.Token.Line, LastLine(node.Left), LastLine(node.Right))
	case *CallExpression:
		last := maxLine(node.Token.Line, LastLine(node.Function))
		for _, a := range node.Arguments {
			last = maxLine(last, LastLine(a))
		}
		return last
	case *ListLiteral:
		last := node.Token.Line
		for _, el := range node.Elements {
			last = maxLine(last, LastLine(el))
		}
		return last
	case *IndexExpression:
		return maxLine(node.Token.Line, LastLine(node.Left), LastLine(node.Index))
	case *WalrusExpression:
		return maxLine(node.Token.Line, LastLine(node.Value))
	case Expression:
		return node.GetToken().Line
	case Statement:
		return node.GetToken().Line
	}
	return 0
}

func maxLine(lines ...int) int {
	last := 0
	for _, l := range lines {
		if l > last {
			last = l
		}
	}
	return last
}
