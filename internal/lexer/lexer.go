package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/varlens/varlens/internal/diagnostics"
	"github.com/varlens/varlens/internal/token"
)

// tabWidth is the column width a tab advances indentation by.
const tabWidth = 8

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	indents     []int         // indentation stack, always starts at [0]
	pending     []token.Token // queued INDENT/DEDENT tokens
	bracketLvl  int           // implicit line joining inside (...) and [...]
	atLineStart bool
	eofEmitted  bool
	sentNewline bool // last structural token was NEWLINE

	errors []*diagnostics.Error
}

func New(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		column:      0,
		indents:     []int{0},
		atLineStart: true,
		sentNewline: true,
	}
	l.readChar()
	return l
}

// Errors returns the diagnostics recorded while scanning.
func (l *Lexer) Errors() []*diagnostics.Error {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart && l.bracketLvl == 0 {
		if tok, ok := l.scanIndentation(); ok {
			return tok
		}
	}

	l.skipSpaces()

	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	}

	switch l.ch {
	case '\n':
		l.readChar()
		if l.bracketLvl > 0 {
			return l.NextToken()
		}
		l.atLineStart = true
		if l.sentNewline {
			// Collapse runs of blank lines into nothing.
			return l.NextToken()
		}
		l.sentNewline = true
		return token.Token{Type: token.NEWLINE, Lexeme: "\n", Literal: "\n", Line: l.line - 1, Column: l.column}
	case 0:
		return l.finish()
	}

	l.sentNewline = false

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.EQ)
		}
		return l.makeToken(token.ASSIGN)
	case '+':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.PLUS_ASSIGN)
		}
		return l.makeToken(token.PLUS)
	case '-':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.MINUS_ASSIGN)
		}
		return l.makeToken(token.MINUS)
	case '*':
		if l.peekChar() == '*' {
			tok := l.makeTwoCharToken(token.POWER)
			return tok
		}
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.ASTERISK_ASSIGN)
		}
		return l.makeToken(token.ASTERISK)
	case '/':
		if l.peekChar() == '/' {
			return l.makeTwoCharToken(token.FLOORDIV)
		}
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.SLASH_ASSIGN)
		}
		return l.makeToken(token.SLASH)
	case '%':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.PERCENT_ASSIGN)
		}
		return l.makeToken(token.PERCENT)
	case '!':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.NOT_EQ)
		}
		return l.illegalToken()
	case '<':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.LT_EQ)
		}
		return l.makeToken(token.LT)
	case '>':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.GT_EQ)
		}
		return l.makeToken(token.GT)
	case ':':
		if l.peekChar() == '=' {
			return l.makeTwoCharToken(token.WALRUS)
		}
		return l.makeToken(token.COLON)
	case ',':
		return l.makeToken(token.COMMA)
	case '(':
		l.bracketLvl++
		return l.makeToken(token.LPAREN)
	case ')':
		if l.bracketLvl > 0 {
			l.bracketLvl--
		}
		return l.makeToken(token.RPAREN)
	case '[':
		l.bracketLvl++
		return l.makeToken(token.LBRACKET)
	case ']':
		if l.bracketLvl > 0 {
			l.bracketLvl--
		}
		return l.makeToken(token.RBRACKET)
	case '"', '\'':
		return l.readString(l.ch)
	}

	if isLetter(l.ch) {
		return l.readIdentifier()
	}
	if unicode.IsDigit(l.ch) {
		return l.readNumber()
	}

	return l.illegalToken()
}

// Tokenize consumes the whole input and returns every token including
// the trailing EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// scanIndentation measures leading whitespace at a line start and queues
// INDENT/DEDENT tokens against the indent stack. Blank and comment-only
// lines never affect indentation.
func (l *Lexer) scanIndentation() (token.Token, bool) {
	width := 0
	for {
		if l.ch == ' ' {
			width++
			l.readChar()
		} else if l.ch == '\t' {
			width += tabWidth - width%tabWidth
			l.readChar()
		} else {
			break
		}
	}

	if l.ch == '\n' {
		l.readChar()
		return l.scanIndentation()
	}
	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		if l.ch == '\n' {
			l.readChar()
			return l.scanIndentation()
		}
	}
	if l.ch == 0 {
		l.atLineStart = true
		return token.Token{}, false
	}

	l.atLineStart = false
	top := l.indents[len(l.indents)-1]

	if width > top {
		l.indents = append(l.indents, width)
		return token.Token{Type: token.INDENT, Lexeme: "", Literal: width, Line: l.line, Column: 1}, true
	}

	if width < top {
		var dedents []token.Token
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			dedents = append(dedents, token.Token{Type: token.DEDENT, Lexeme: "", Literal: width, Line: l.line, Column: 1})
		}
		if l.indents[len(l.indents)-1] != width {
			l.errors = append(l.errors, diagnostics.NewError(
				diagnostics.ErrL002,
				token.Token{Line: l.line, Column: 1},
				"unindent does not match any outer indentation level",
			))
		}
		l.pending = append(l.pending, dedents[1:]...)
		return dedents[0], true
	}

	return token.Token{}, false
}

// finish emits the closing NEWLINE, unwinds the indent stack and returns EOF.
func (l *Lexer) finish() token.Token {
	if !l.sentNewline {
		l.sentNewline = true
		return token.Token{Type: token.NEWLINE, Lexeme: "\n", Literal: "\n", Line: l.line, Column: l.column}
	}
	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		return token.Token{Type: token.DEDENT, Lexeme: "", Literal: 0, Line: l.line, Column: 1}
	}
	l.eofEmitted = true
	return token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: l.line, Column: l.column}
}

func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) makeToken(t token.TokenType) token.Token {
	tok := token.Token{Type: t, Lexeme: string(l.ch), Literal: string(l.ch), Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

func (l *Lexer) makeTwoCharToken(t token.TokenType) token.Token {
	line, col := l.line, l.column
	first := l.ch
	l.readChar()
	lexeme := string(first) + string(l.ch)
	l.readChar()
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

func (l *Lexer) illegalToken() token.Token {
	tok := token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Literal: string(l.ch), Line: l.line, Column: l.column}
	l.errors = append(l.errors, diagnostics.NewError(
		diagnostics.ErrL001,
		tok,
		"illegal character "+strconv.QuoteRune(l.ch),
	))
	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier() token.Token {
	line, col := l.line, l.column
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.column
	start := l.position
	isFloat := false
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]

	if isFloat {
		val, _ := strconv.ParseFloat(lexeme, 64)
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
	}
	val, _ := strconv.ParseInt(lexeme, 10, 64)
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
}

func (l *Lexer) readString(quote rune) token.Token {
	line, col := l.line, l.column
	l.readChar() // consume opening quote

	var out []rune
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			l.errors = append(l.errors, diagnostics.NewError(
				diagnostics.ErrL003,
				token.Token{Line: line, Column: col},
				"unterminated string literal",
			))
			return token.Token{Type: token.ILLEGAL, Lexeme: string(out), Literal: string(out), Line: line, Column: col}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, '\\', l.ch)
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote

	s := string(out)
	return token.Token{Type: token.STRING, Lexeme: s, Literal: s, Line: line, Column: col}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}
