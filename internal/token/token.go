package token

type TokenType string

// Token is a single lexical unit. Literal holds the decoded value for
// literals (int64, float64, string) and the lexeme text otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Layout
	NEWLINE = "NEWLINE"
	INDENT  = "INDENT"
	DEDENT  = "DEDENT"

	// Identifiers and literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	WALRUS   = ":="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	FLOORDIV = "//"
	PERCENT  = "%"
	POWER    = "**"

	PLUS_ASSIGN     = "+="
	MINUS_ASSIGN    = "-="
	ASTERISK_ASSIGN = "*="
	SLASH_ASSIGN    = "/="
	PERCENT_ASSIGN  = "%="

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LT_EQ  = "<="
	GT_EQ  = ">="

	// Delimiters
	COMMA    = ","
	COLON    = ":"
	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	DEF      = "DEF"
	RETURN   = "RETURN"
	IF       = "IF"
	ELIF     = "ELIF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	IN       = "IN"
	GLOBAL   = "GLOBAL"
	PASS     = "PASS"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	AND      = "AND"
	OR       = "OR"
	NOT      = "NOT"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NONE     = "NONE"
)

var keywords = map[string]TokenType{
	"def":      DEF,
	"return":   RETURN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"global":   GLOBAL,
	"pass":     PASS,
	"break":    BREAK,
	"continue": CONTINUE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
}

// LookupIdent maps an identifier lexeme to its keyword type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// AugAssignOps maps augmented-assignment token types to the underlying
// binary operator applied before rebinding.
var AugAssignOps = map[TokenType]string{
	PLUS_ASSIGN:     "+",
	MINUS_ASSIGN:    "-",
	ASTERISK_ASSIGN: "*",
	SLASH_ASSIGN:    "/",
	PERCENT_ASSIGN:  "%",
}
