package spectra

import "fmt"

// ParseError reports the first offending token: what the parser expected,
// what it found, and where. Col is 0-based (rendered 1-based by
// WrapErrorWithSource, matching LexError).
type ParseError struct {
	Expected string
	Found    string
	Line     int
	Col      int
	atEOF    bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: expected %s, found %s", e.Line, e.Col+1, e.Expected, e.Found)
}

// IsIncomplete reports whether err is a parse error caused by running out
// of input, i.e. the source may simply be unfinished. REPLs use this to
// prompt for continuation lines instead of reporting an error.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.atEOF
}

// Parse tokenizes and parses a complete source string into a top-level
// statement sequence.
func Parse(src string) ([]Stmt, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-scanned token stream (EOF-terminated).
func ParseTokens(toks []Token) ([]Stmt, error) {
	p := &parser{toks: toks}
	return p.program()
}

type parser struct {
	toks []Token
	i    int
}

// ───────────────────────── token basics & helpers ───────────────────────────

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekNext() Token {
	if p.i+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+1]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) atEnd() bool { return p.peek().Kind == EOF }

func (p *parser) match(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.peek().Kind == k {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(k TokenKind, expected string) (Token, error) {
	if p.match(k) {
		return p.prev(), nil
	}
	return Token{}, p.fail(expected)
}

// fail builds a ParseError at the current token.
func (p *parser) fail(expected string) error {
	got := p.peek()
	return &ParseError{
		Expected: expected,
		Found:    got.Describe(),
		Line:     got.Line,
		Col:      got.Col,
		atEOF:    got.Kind == EOF,
	}
}

func (p *parser) at(t Token) At { return At{Line: t.Line, Col: t.Col + 1} }

// ───────────────────────── precedence / associativity ───────────────────────

// Binding powers, low to high: assignment < equality < relational <
// additive < multiplicative. Prefix and postfix forms bind tighter and
// are handled structurally below.
func lbp(k TokenKind) (int, bool) {
	switch k {
	case ASSIGN:
		return 10, true
	case EQ, NEQ:
		return 40, true
	case LESS, LESSEQ, GREATER, GREATEQ:
		return 50, true
	case PLUS, MINUS:
		return 60, true
	case STAR, SLASH, PERCENT:
		return 70, true
	}
	return 0, false
}

// ─────────────────────────────── statements ─────────────────────────────────

func (p *parser) program() ([]Stmt, error) {
	var stmts []Stmt
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Kind {
	case VAR:
		return p.varDecl()
	case CLASS:
		return p.classDecl()
	case BREAK:
		tok := p.peek()
		p.i++
		if _, err := p.need(SEMI, "`;` after `break`"); err != nil {
			return nil, err
		}
		return &Break{At: p.at(tok)}, nil
	case CONTINUE:
		tok := p.peek()
		p.i++
		if _, err := p.need(SEMI, "`;` after `continue`"); err != nil {
			return nil, err
		}
		return &Continue{At: p.at(tok)}, nil
	default:
		return p.exprStatement()
	}
}

func (p *parser) varDecl() (Stmt, error) {
	tok := p.peek()
	p.i++ // `var`
	name, err := p.need(IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "`=` after variable name"); err != nil {
		return nil, err
	}
	init, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMI, "`;` after variable declaration"); err != nil {
		return nil, err
	}
	return &VarDecl{At: p.at(tok), Name: name.Lexeme, Init: init}, nil
}

// exprStatement parses an expression in statement position. The `;` is
// required unless the expression is block-bodied (if/while/fun literal)
// or the statement is the last one in a block.
func (p *parser) exprStatement() (Stmt, error) {
	tok := p.peek()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(SEMI) {
		return &ExprStmt{At: p.at(tok), X: expr}, nil
	}
	if blockBodied(expr) || p.peek().Kind == RBRACE || p.atEnd() {
		return &ExprStmt{At: p.at(tok), X: expr}, nil
	}
	return nil, p.fail("`;` after expression")
}

func blockBodied(e Expr) bool {
	switch e.(type) {
	case *If, *While, *FunctionLit:
		return true
	}
	return false
}

func (p *parser) block() (*Block, error) {
	open, err := p.need(LBRACE, "`{`")
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.peek().Kind != RBRACE {
		if p.atEnd() {
			return nil, p.fail("`}`")
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.i++ // `}`
	return &Block{At: p.at(open), Stmts: stmts}, nil
}

// classDecl parses `class Name { fields, constructor(...)? methods* }`.
// Fields come first as a comma-separated identifier list; an identifier
// followed by `(` begins the method section.
func (p *parser) classDecl() (Stmt, error) {
	tok := p.peek()
	p.i++ // `class`
	name, err := p.need(IDENT, "class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "`{` after class name"); err != nil {
		return nil, err
	}

	decl := &ClassDecl{At: p.at(tok), Name: name.Lexeme}
	seenField := map[string]bool{}

	for p.peek().Kind == IDENT && p.peekNext().Kind != LPAREN {
		f, _ := p.need(IDENT, "field name")
		if seenField[f.Lexeme] {
			return nil, &ParseError{
				Expected: "distinct field name",
				Found:    fmt.Sprintf("duplicate field `%s`", f.Lexeme),
				Line:     f.Line,
				Col:      f.Col,
			}
		}
		seenField[f.Lexeme] = true
		decl.Fields = append(decl.Fields, f.Lexeme)
		if !p.match(COMMA) {
			break
		}
	}

	if p.peek().Kind == CONSTRUCTOR {
		ctorTok := p.peek()
		p.i++
		fn, err := p.functionRest(ctorTok)
		if err != nil {
			return nil, err
		}
		decl.Constructor = fn
	}

	seenMethod := map[string]bool{}
	for p.peek().Kind == IDENT {
		m, _ := p.need(IDENT, "method name")
		if seenMethod[m.Lexeme] {
			return nil, &ParseError{
				Expected: "distinct method name",
				Found:    fmt.Sprintf("duplicate method `%s`", m.Lexeme),
				Line:     m.Line,
				Col:      m.Col,
			}
		}
		seenMethod[m.Lexeme] = true
		fn, err := p.functionRest(m)
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, Method{Name: m.Lexeme, Fn: fn})
	}

	if _, err := p.need(RBRACE, "`}` after class body"); err != nil {
		return nil, err
	}
	return decl, nil
}

// functionRest parses `(params) { body }` after a `fun`, `constructor`,
// or method-name token.
func (p *parser) functionRest(start Token) (*FunctionLit, error) {
	if _, err := p.need(LPAREN, "`(` before parameter list"); err != nil {
		return nil, err
	}
	var params []string
	if p.peek().Kind != RPAREN {
		for {
			name, err := p.need(IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, name.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "`)` after parameter list"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionLit{At: p.at(start), Params: params, Body: body}, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expression() (Expr, error) {
	return p.binary(0)
}

// binary is the precedence-climbing loop. Assignment is right-associative
// and validates its target; everything else is left-associative.
func (p *parser) binary(minBp int) (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		bp, ok := lbp(op.Kind)
		if !ok || bp < minBp {
			return left, nil
		}
		p.i++
		if op.Kind == ASSIGN {
			switch left.(type) {
			case *Identifier, *Member:
			default:
				return nil, &ParseError{
					Expected: "assignable target (identifier or member access)",
					Found:    op.Describe(),
					Line:     op.Line,
					Col:      op.Col,
				}
			}
			value, err := p.binary(bp) // right-assoc: same binding power
			if err != nil {
				return nil, err
			}
			left = &Assign{At: p.at(op), Target: left, Value: value}
			continue
		}
		right, err := p.binary(bp + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{At: p.at(op), Op: op.Kind, Left: left, Right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	if tok := p.peek(); tok.Kind == BANG || tok.Kind == MINUS {
		p.i++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Prefix{At: p.at(tok), Op: tok.Kind, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix parses a primary expression followed by any number of calls and
// member accesses.
func (p *parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case LPAREN:
			open := p.peek()
			p.i++
			var args []Expr
			if p.peek().Kind != RPAREN {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.need(RPAREN, "`)` after arguments"); err != nil {
				return nil, err
			}
			e = &Call{At: p.at(open), Callee: e, Args: args}
		case PERIOD:
			dot := p.peek()
			p.i++
			name, err := p.need(IDENT, "member name after `.`")
			if err != nil {
				return nil, err
			}
			e = &Member{At: p.at(dot), Object: e, Name: name.Lexeme}
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case INTEGER, FLOAT, STRING, CHAR:
		p.i++
		return &Literal{At: p.at(tok), Value: tok.Literal}, nil
	case TRUE:
		p.i++
		return &Literal{At: p.at(tok), Value: true}, nil
	case FALSE:
		p.i++
		return &Literal{At: p.at(tok), Value: false}, nil
	case NULL:
		p.i++
		return &Literal{At: p.at(tok), Value: nil}, nil
	case IDENT:
		p.i++
		return &Identifier{At: p.at(tok), Name: tok.Lexeme}, nil
	case THIS:
		p.i++
		return &This{At: p.at(tok)}, nil
	case LPAREN:
		p.i++
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "`)`"); err != nil {
			return nil, err
		}
		return inner, nil
	case FUN:
		p.i++
		return p.functionRest(tok)
	case IF:
		return p.ifExpr()
	case WHILE:
		p.i++
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &While{At: p.at(tok), Cond: cond, Body: body}, nil
	}
	return nil, p.fail("expression")
}

// ifExpr parses `if cond { ... } (else if ... | else { ... })?`. An
// `else if` chain nests as an else block containing a single If.
func (p *parser) ifExpr() (Expr, error) {
	tok := p.peek()
	p.i++ // `if`
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	node := &If{At: p.at(tok), Cond: cond, Then: then}
	if !p.match(ELSE) {
		return node, nil
	}
	if p.peek().Kind == IF {
		elifTok := p.peek()
		elif, err := p.ifExpr()
		if err != nil {
			return nil, err
		}
		node.Else = &Block{
			At:    p.at(elifTok),
			Stmts: []Stmt{&ExprStmt{At: p.at(elifTok), X: elif}},
		}
		return node, nil
	}
	els, err := p.block()
	if err != nil {
		return nil, err
	}
	node.Else = els
	return node, nil
}
