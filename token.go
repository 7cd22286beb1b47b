package spectra

import "fmt"

// TokenKind is the kind of a lexical token.
type TokenKind int

const (
	// Special
	EOF TokenKind = iota

	// Literals & identifiers
	IDENT
	INTEGER
	FLOAT
	STRING
	CHAR

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACE   // "{"
	RBRACE   // "}"
	LBRACKET // "["
	RBRACKET // "]"
	COMMA    // ","
	PERIOD   // "."
	SEMI     // ";"

	// Operators
	PLUS    // "+"
	MINUS   // "-"
	STAR    // "*"
	SLASH   // "/"
	PERCENT // "%"
	ASSIGN  // "="
	EQ      // "=="
	NEQ     // "!="
	LESS    // "<"
	LESSEQ  // "<="
	GREATER // ">"
	GREATEQ // ">="
	BANG    // "!"

	// Keywords
	VAR
	FUN
	IF
	ELSE
	WHILE
	BREAK
	CONTINUE
	CLASS
	CONSTRUCTOR
	THIS
	TRUE
	FALSE
	NULL
)

// Token is a lexical token with an optional decoded literal value.
// Literal holds int64 for INTEGER, float64 for FLOAT, string for STRING
// and CHAR (already escape-decoded), and nil otherwise.
type Token struct {
	Kind    TokenKind
	Lexeme  string
	Literal interface{}
	Line    int
	Col     int
}

var keywords = map[string]TokenKind{
	"var":         VAR,
	"fun":         FUN,
	"if":          IF,
	"else":        ELSE,
	"while":       WHILE,
	"break":       BREAK,
	"continue":    CONTINUE,
	"class":       CLASS,
	"constructor": CONSTRUCTOR,
	"this":        THIS,
	"true":        TRUE,
	"false":       FALSE,
	"null":        NULL,
}

var kindNames = map[TokenKind]string{
	EOF:         "end of file",
	IDENT:       "identifier",
	INTEGER:     "integer literal",
	FLOAT:       "float literal",
	STRING:      "string literal",
	CHAR:        "char literal",
	LPAREN:      "`(`",
	RPAREN:      "`)`",
	LBRACE:      "`{`",
	RBRACE:      "`}`",
	LBRACKET:    "`[`",
	RBRACKET:    "`]`",
	COMMA:       "`,`",
	PERIOD:      "`.`",
	SEMI:        "`;`",
	PLUS:        "`+`",
	MINUS:       "`-`",
	STAR:        "`*`",
	SLASH:       "`/`",
	PERCENT:     "`%`",
	ASSIGN:      "`=`",
	EQ:          "`==`",
	NEQ:         "`!=`",
	LESS:        "`<`",
	LESSEQ:      "`<=`",
	GREATER:     "`>`",
	GREATEQ:     "`>=`",
	BANG:        "`!`",
	VAR:         "`var`",
	FUN:         "`fun`",
	IF:          "`if`",
	ELSE:        "`else`",
	WHILE:       "`while`",
	BREAK:       "`break`",
	CONTINUE:    "`continue`",
	CLASS:       "`class`",
	CONSTRUCTOR: "`constructor`",
	THIS:        "`this`",
	TRUE:        "`true`",
	FALSE:       "`false`",
	NULL:        "`null`",
}

// String returns a human-readable description of the kind, used in
// parse error messages.
func (k TokenKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Describe renders a token for diagnostics: literals and identifiers show
// their text, punctuation shows its kind name.
func (t Token) Describe() string {
	switch t.Kind {
	case IDENT:
		return fmt.Sprintf("identifier `%s`", t.Lexeme)
	case INTEGER, FLOAT:
		return t.Lexeme
	case STRING:
		return fmt.Sprintf("%q", t.Literal)
	case CHAR:
		return fmt.Sprintf("'%s'", t.Literal)
	default:
		return t.Kind.String()
	}
}
