package spectra

// The AST is split into two node families: expressions produce values,
// statements sequence effects. `if` and `while` are expressions here; the
// parser builds them in primary position so they compose anywhere an
// expression is expected.

// At is the 1-based source position embedded in every node.
type At struct {
	Line int
	Col  int
}

// Pos returns the node's 1-based line and column.
func (a At) Pos() (int, int) { return a.Line, a.Col }

// Node is any AST node.
type Node interface {
	Pos() (line, col int)
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Literal is a decoded literal value: int64, float64, string (string and
// char literals both), bool, or nil for `null`.
type Literal struct {
	At
	Value interface{}
}

// Identifier is a variable reference.
type Identifier struct {
	At
	Name string
}

// Binary is a binary operator application.
type Binary struct {
	At
	Op    TokenKind
	Left  Expr
	Right Expr
}

// Prefix is a unary prefix operator application (`!`, `-`).
type Prefix struct {
	At
	Op      TokenKind
	Operand Expr
}

// Assign writes Value to Target; Target is an *Identifier or a *Member.
type Assign struct {
	At
	Target Expr
	Value  Expr
}

// Call applies a callee (closure, class, or builtin) to arguments. When
// Callee is a *Member the evaluator dispatches it as a method call.
type Call struct {
	At
	Callee Expr
	Args   []Expr
}

// FunctionLit is a `fun (params) { body }` literal. Its value when the
// body runs is the body's final expression statement, or null.
type FunctionLit struct {
	At
	Params []string
	Body   *Block
}

// If is an expression: the taken branch's value, or null when the
// condition is false and there is no else branch. `else if` chains are
// represented as an Else block holding a single nested If statement.
type If struct {
	At
	Cond Expr
	Then *Block
	Else *Block // nil when absent
}

// While is an expression that always evaluates to null.
type While struct {
	At
	Cond Expr
	Body *Block
}

// Member is `object.name` access.
type Member struct {
	At
	Object Expr
	Name   string
}

// This refers to the receiver inside constructors and methods.
type This struct {
	At
}

func (*Literal) exprNode()     {}
func (*Identifier) exprNode()  {}
func (*Binary) exprNode()      {}
func (*Prefix) exprNode()      {}
func (*Assign) exprNode()      {}
func (*Call) exprNode()        {}
func (*FunctionLit) exprNode() {}
func (*If) exprNode()          {}
func (*While) exprNode()       {}
func (*Member) exprNode()      {}
func (*This) exprNode()        {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// VarDecl is `var name = init;`. The initializer is required.
type VarDecl struct {
	At
	Name string
	Init Expr
}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	At
	X Expr
}

// Break is a bare `break;`.
type Break struct {
	At
}

// Continue is a bare `continue;`.
type Continue struct {
	At
}

// Method is one named method inside a class body.
type Method struct {
	Name string
	Fn   *FunctionLit
}

// ClassDecl declares a class: ordered field names, an optional
// constructor, and methods in declaration order.
type ClassDecl struct {
	At
	Name        string
	Fields      []string
	Constructor *FunctionLit // nil when absent
	Methods     []Method
}

// Block is a `{ ... }` statement sequence. Blocks appear as bodies of
// functions, branches, and loops; they are not standalone statements in
// the surface grammar.
type Block struct {
	At
	Stmts []Stmt
}

func (*VarDecl) stmtNode()   {}
func (*ExprStmt) stmtNode()  {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*ClassDecl) stmtNode() {}
func (*Block) stmtNode()     {}
