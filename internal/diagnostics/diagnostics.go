package diagnostics

import (
	"fmt"

	"github.com/varlens/varlens/internal/token"
)

type ErrorCode string

// Stable diagnostic codes. L = lexer, P = parser, R = runtime.
const (
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // inconsistent indentation
	ErrL003 ErrorCode = "L003" // unterminated string
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // no prefix parse function
	ErrP003 ErrorCode = "P003" // invalid assignment target
	ErrP004 ErrorCode = "P004" // statement outside valid context
	ErrP005 ErrorCode = "P005" // expression too complex
	ErrR001 ErrorCode = "R001" // runtime fault
)

// Error is a positioned diagnostic produced by any pipeline stage.
type Error struct {
	Code    ErrorCode
	Message string
	Line    int
	Column  int
	File    string
}

func NewError(code ErrorCode, tok token.Token, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsRuntime reports whether the diagnostic was raised during execution
// rather than during lexing or parsing.
func (e *Error) IsRuntime() bool {
	return e.Code == ErrR001
}
