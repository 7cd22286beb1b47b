package spectra

import (
	"fmt"
	"strconv"
)

// LexErrorKind classifies scanner failures.
type LexErrorKind int

const (
	UnexpectedCharacter LexErrorKind = iota
	UnterminatedString
	UnterminatedChar
	InvalidCharLiteral
)

// LexError is a scanner failure. Line is 1-based; Col is 0-based and
// rendered 1-based, matching ParseError.
type LexError struct {
	Kind LexErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Lexer scans a Spectra source string into tokens. Tokens are produced one
// at a time via Next; Scan materializes the whole stream. A lexer is not
// resumable after an error.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	// position where the current token started
	tokLine int
	tokCol  int
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize scans the entire source and returns the token stream, ending
// with an EOF token.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

// match consumes the next byte iff it equals want.
func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) token(kind TokenKind, lit interface{}) Token {
	return Token{
		Kind:    kind,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokLine,
		Col:     l.tokCol,
	}
}

func (l *Lexer) err(kind LexErrorKind, msg string) *LexError {
	return &LexError{Kind: kind, Line: l.line, Col: l.col, Msg: msg}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// skipTrivia consumes whitespace and // line comments.
func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
		case '/':
			if b, ok := l.peekN(1); ok && b == '/' {
				for {
					b, ok := l.peek()
					if !ok || b == '\n' {
						break
					}
					l.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// decodeEscape consumes one escape body (the char after '\') and returns
// the decoded byte. quote is the enclosing delimiter, accepted as an escape.
func (l *Lexer) decodeEscape(quote byte) (byte, error) {
	esc, ok := l.advance()
	if !ok {
		if quote == '\'' {
			return 0, l.err(UnterminatedChar, "char literal was not terminated")
		}
		return 0, l.err(UnterminatedString, "string was not terminated")
	}
	switch esc {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case quote:
		return quote, nil
	default:
		if quote == '\'' {
			return 0, l.err(InvalidCharLiteral, fmt.Sprintf("invalid escape sequence: \\%c", esc))
		}
		return 0, l.err(UnexpectedCharacter, fmt.Sprintf("invalid escape sequence: \\%c", esc))
	}
}

// scanString scans a double-quoted string literal; the opening quote is
// already consumed.
func (l *Lexer) scanString() (Token, error) {
	var out []byte
	for {
		ch, ok := l.advance()
		if !ok {
			return Token{}, l.err(UnterminatedString, "string was not terminated")
		}
		if ch == '"' {
			return l.token(STRING, string(out)), nil
		}
		if ch == '\\' {
			b, err := l.decodeEscape('"')
			if err != nil {
				return Token{}, err
			}
			out = append(out, b)
			continue
		}
		out = append(out, ch)
	}
}

// scanChar scans a single-quoted char literal; the opening quote is
// already consumed. The body must decode to exactly one character.
func (l *Lexer) scanChar() (Token, error) {
	ch, ok := l.advance()
	if !ok {
		return Token{}, l.err(UnterminatedChar, "char literal was not terminated")
	}
	if ch == '\'' {
		return Token{}, l.err(InvalidCharLiteral, "empty char literal")
	}
	var body byte
	if ch == '\\' {
		b, err := l.decodeEscape('\'')
		if err != nil {
			return Token{}, err
		}
		body = b
	} else {
		body = ch
	}
	closing, ok := l.advance()
	if !ok {
		return Token{}, l.err(UnterminatedChar, "char literal was not terminated")
	}
	if closing != '\'' {
		return Token{}, l.err(InvalidCharLiteral, "char literal must contain exactly one character")
	}
	return l.token(CHAR, string(body)), nil
}

// scanNumber scans a maximal digit run, then an optional fraction. The
// first digit is already consumed. No exponent notation.
func (l *Lexer) scanNumber() (Token, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	isFloat := false
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			isFloat = true
			l.advance() // '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	if isFloat {
		v, convErr := strconv.ParseFloat(lex, 64)
		if convErr != nil {
			return Token{}, l.err(UnexpectedCharacter, "invalid float literal")
		}
		return l.token(FLOAT, v), nil
	}
	v, convErr := strconv.ParseInt(lex, 10, 64)
	if convErr != nil {
		return Token{}, l.err(UnexpectedCharacter, "invalid integer literal")
	}
	return l.token(INTEGER, v), nil
}

// scanIdentifier scans [A-Za-z_][A-Za-z0-9_]*; the first char is already
// consumed.
func (l *Lexer) scanIdentifier() Token {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if kind, ok := keywords[lex]; ok {
		return l.token(kind, nil)
	}
	return l.token(IDENT, nil)
}

// Next scans and returns the next token. After the EOF token has been
// returned, Next keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	l.skipTrivia()
	l.tokLine = l.line
	l.tokCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.token(EOF, nil), nil
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.token(LPAREN, nil), nil
	case ')':
		return l.token(RPAREN, nil), nil
	case '{':
		return l.token(LBRACE, nil), nil
	case '}':
		return l.token(RBRACE, nil), nil
	case '[':
		return l.token(LBRACKET, nil), nil
	case ']':
		return l.token(RBRACKET, nil), nil
	case ',':
		return l.token(COMMA, nil), nil
	case '.':
		return l.token(PERIOD, nil), nil
	case ';':
		return l.token(SEMI, nil), nil
	case '+':
		return l.token(PLUS, nil), nil
	case '-':
		return l.token(MINUS, nil), nil
	case '*':
		return l.token(STAR, nil), nil
	case '/':
		return l.token(SLASH, nil), nil
	case '%':
		return l.token(PERCENT, nil), nil
	case '=':
		if l.match('=') {
			return l.token(EQ, nil), nil
		}
		return l.token(ASSIGN, nil), nil
	case '!':
		if l.match('=') {
			return l.token(NEQ, nil), nil
		}
		return l.token(BANG, nil), nil
	case '<':
		if l.match('=') {
			return l.token(LESSEQ, nil), nil
		}
		return l.token(LESS, nil), nil
	case '>':
		if l.match('=') {
			return l.token(GREATEQ, nil), nil
		}
		return l.token(GREATER, nil), nil
	case '"':
		return l.scanString()
	case '\'':
		return l.scanChar()
	}

	if isDigit(ch) {
		return l.scanNumber()
	}
	if isAlpha(ch) {
		return l.scanIdentifier(), nil
	}

	return Token{}, &LexError{
		Kind: UnexpectedCharacter,
		Line: l.tokLine,
		Col:  l.tokCol,
		Msg:  fmt.Sprintf("unexpected character: %q", ch),
	}
}

// Scan tokenizes the entire source (EOF token included). On error no
// partial stream is returned.
func (l *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}
