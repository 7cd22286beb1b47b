package spectra

import (
	"fmt"
	"io"
	"os"
)

// Interpreter is a tree-walking evaluator. Core holds the builtin
// bindings; Global, a child of Core, holds user-level top-level bindings
// and persists across EvalPersistentSource calls.
type Interpreter struct {
	Core   *Env
	Global *Env
	out    io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput redirects print/println output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(ip *Interpreter) { ip.out = w }
}

// New creates an interpreter with builtins installed.
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{out: os.Stdout}
	for _, opt := range opts {
		opt(ip)
	}
	ip.Core = NewEnv(nil)
	ip.Global = ip.Core.Child()
	registerBuiltins(ip)
	return ip
}

// EvalSource parses and evaluates src in a fresh scope below Global.
// Bindings made by src are discarded afterwards.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Null(), err
	}
	return ip.EvalProgram(stmts, ip.Global.Child())
}

// EvalPersistentSource parses and evaluates src directly in Global, so
// its top-level bindings survive into later calls. REPLs use this.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Null(), err
	}
	return ip.EvalProgram(stmts, ip.Global)
}

// EvalProgram evaluates a top-level statement sequence in env and returns
// the value of the final expression statement, or null.
func (ip *Interpreter) EvalProgram(stmts []Stmt, env *Env) (Value, error) {
	result := Null()
	for _, s := range stmts {
		v, sig, err := ip.evalStmt(s, env)
		if err != nil {
			return Null(), err
		}
		if sig.kind != sigNone {
			return Null(), sig.illegal()
		}
		if _, ok := s.(*ExprStmt); ok {
			result = v
		} else {
			result = Null()
		}
	}
	return result, nil
}

// ───────────────────────── control-flow signals ─────────────────────────────

type sigKind int

const (
	sigNone sigKind = iota
	sigBreak
	sigContinue
)

// signal is a non-local control outcome propagated alongside values.
// Loops intercept it; function bodies and the top level reject it.
type signal struct {
	kind sigKind
	line int
	col  int
}

var noSignal = signal{}

func (s signal) illegal() *RuntimeError {
	word := "break"
	if s.kind == sigContinue {
		word = "continue"
	}
	return &RuntimeError{
		Kind: IllegalControlFlow,
		Line: s.line,
		Col:  s.col,
		Msg:  fmt.Sprintf("`%s` outside of a loop", word),
	}
}

func rtErr(kind RuntimeErrorKind, n Node, format string, args ...interface{}) *RuntimeError {
	line, col := n.Pos()
	return &RuntimeError{Kind: kind, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// ─────────────────────────────── statements ─────────────────────────────────

func (ip *Interpreter) evalStmt(s Stmt, env *Env) (Value, signal, error) {
	switch st := s.(type) {
	case *VarDecl:
		v, sig, err := ip.evalExpr(st.Init, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		if !env.Define(st.Name, v) {
			return Null(), noSignal, rtErr(DuplicateDefinition, st, "`%s` is already defined in this scope", st.Name)
		}
		return Null(), noSignal, nil

	case *ExprStmt:
		return ip.evalExpr(st.X, env)

	case *Break:
		line, col := st.Pos()
		return Null(), signal{kind: sigBreak, line: line, col: col}, nil

	case *Continue:
		line, col := st.Pos()
		return Null(), signal{kind: sigContinue, line: line, col: col}, nil

	case *ClassDecl:
		cls := &Class{
			Name:        st.Name,
			Fields:      st.Fields,
			Constructor: st.Constructor,
			Methods:     make(map[string]*FunctionLit, len(st.Methods)),
			Env:         env,
		}
		for _, m := range st.Methods {
			cls.Methods[m.Name] = m.Fn
		}
		if !env.Define(st.Name, classValue(cls)) {
			return Null(), noSignal, rtErr(DuplicateDefinition, st, "`%s` is already defined in this scope", st.Name)
		}
		return Null(), noSignal, nil
	}
	return Null(), noSignal, rtErr(TypeMismatch, s, "cannot evaluate statement")
}

// evalBlock runs the block's statements in env (the caller creates the
// frame). Its value is the final expression statement's value, or null.
func (ip *Interpreter) evalBlock(b *Block, env *Env) (Value, signal, error) {
	result := Null()
	for _, s := range b.Stmts {
		v, sig, err := ip.evalStmt(s, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		if _, ok := s.(*ExprStmt); ok {
			result = v
		} else {
			result = Null()
		}
	}
	return result, noSignal, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (ip *Interpreter) evalExpr(e Expr, env *Env) (Value, signal, error) {
	switch ex := e.(type) {
	case *Literal:
		switch v := ex.Value.(type) {
		case nil:
			return Null(), noSignal, nil
		case bool:
			return Bool(v), noSignal, nil
		case int64:
			return Int(v), noSignal, nil
		case float64:
			return Float(v), noSignal, nil
		case string:
			return Str(v), noSignal, nil
		}
		return Null(), noSignal, rtErr(TypeMismatch, ex, "unsupported literal")

	case *Identifier:
		v, ok := env.Get(ex.Name)
		if !ok {
			return Null(), noSignal, rtErr(UndefinedVariable, ex, "undefined variable `%s`", ex.Name)
		}
		return v, noSignal, nil

	case *This:
		v, ok := env.Get("this")
		if !ok {
			return Null(), noSignal, rtErr(UndefinedVariable, ex, "`this` is only available inside constructors and methods")
		}
		return v, noSignal, nil

	case *Prefix:
		return ip.evalPrefix(ex, env)

	case *Binary:
		left, sig, err := ip.evalExpr(ex.Left, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		right, sig, err := ip.evalExpr(ex.Right, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		v, err := ip.applyBinary(ex, left, right)
		return v, noSignal, err

	case *Assign:
		return ip.evalAssign(ex, env)

	case *FunctionLit:
		return closure(&Closure{Params: ex.Params, Body: ex.Body, Env: env}), noSignal, nil

	case *If:
		return ip.evalIf(ex, env)

	case *While:
		return ip.evalWhile(ex, env)

	case *Member:
		obj, sig, err := ip.evalExpr(ex.Object, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		v, err := ip.getField(ex, obj)
		return v, noSignal, err

	case *Call:
		return ip.evalCall(ex, env)
	}
	return Null(), noSignal, rtErr(TypeMismatch, e, "cannot evaluate expression")
}

func (ip *Interpreter) evalPrefix(ex *Prefix, env *Env) (Value, signal, error) {
	v, sig, err := ip.evalExpr(ex.Operand, env)
	if err != nil || sig.kind != sigNone {
		return Null(), sig, err
	}
	switch ex.Op {
	case BANG:
		if v.Tag != VTBool {
			return Null(), noSignal, rtErr(TypeMismatch, ex, "operator `!` expects a Boolean, got %s", v.Tag)
		}
		return Bool(!v.AsBool()), noSignal, nil
	case MINUS:
		switch v.Tag {
		case VTInt:
			return Int(-v.AsInt()), noSignal, nil
		case VTFloat:
			return Float(-v.AsFloat()), noSignal, nil
		}
		return Null(), noSignal, rtErr(TypeMismatch, ex, "operator `-` expects a number, got %s", v.Tag)
	}
	return Null(), noSignal, rtErr(TypeMismatch, ex, "unknown prefix operator")
}

func (ip *Interpreter) evalAssign(ex *Assign, env *Env) (Value, signal, error) {
	v, sig, err := ip.evalExpr(ex.Value, env)
	if err != nil || sig.kind != sigNone {
		return Null(), sig, err
	}
	switch target := ex.Target.(type) {
	case *Identifier:
		if !env.Assign(target.Name, v) {
			return Null(), noSignal, rtErr(UndefinedVariable, target, "cannot assign to undefined variable `%s`", target.Name)
		}
		return v, noSignal, nil
	case *Member:
		obj, sig, err := ip.evalExpr(target.Object, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		if obj.Tag != VTInstance {
			return Null(), noSignal, rtErr(TypeMismatch, target, "cannot assign member on %s", obj.Tag)
		}
		inst := obj.AsInstance()
		if _, declared := inst.Fields[target.Name]; !declared {
			return Null(), noSignal, rtErr(UndefinedField, target, "class %s has no field `%s`", inst.Class.Name, target.Name)
		}
		inst.Fields[target.Name] = v
		return v, noSignal, nil
	}
	return Null(), noSignal, rtErr(TypeMismatch, ex, "invalid assignment target")
}

func (ip *Interpreter) evalIf(ex *If, env *Env) (Value, signal, error) {
	cond, sig, err := ip.evalExpr(ex.Cond, env)
	if err != nil || sig.kind != sigNone {
		return Null(), sig, err
	}
	if cond.Tag != VTBool {
		return Null(), noSignal, rtErr(TypeMismatch, ex, "`if` condition must be a Boolean, got %s", cond.Tag)
	}
	if cond.AsBool() {
		return ip.evalBlock(ex.Then, env.Child())
	}
	if ex.Else != nil {
		return ip.evalBlock(ex.Else, env.Child())
	}
	return Null(), noSignal, nil
}

func (ip *Interpreter) evalWhile(ex *While, env *Env) (Value, signal, error) {
	for {
		cond, sig, err := ip.evalExpr(ex.Cond, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		if cond.Tag != VTBool {
			return Null(), noSignal, rtErr(TypeMismatch, ex, "`while` condition must be a Boolean, got %s", cond.Tag)
		}
		if !cond.AsBool() {
			return Null(), noSignal, nil
		}
		// Fresh frame per iteration so `var` in the body does not leak
		// across iterations.
		_, sig, err = ip.evalBlock(ex.Body, env.Child())
		if err != nil {
			return Null(), noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return Null(), noSignal, nil
		case sigContinue, sigNone:
			// next condition check
		}
	}
}

func (ip *Interpreter) getField(ex *Member, obj Value) (Value, error) {
	if obj.Tag != VTInstance {
		return Null(), rtErr(TypeMismatch, ex, "%s has no members", obj.Tag)
	}
	inst := obj.AsInstance()
	if v, ok := inst.Fields[ex.Name]; ok {
		return v, nil
	}
	return Null(), rtErr(UndefinedField, ex, "class %s has no field `%s`", inst.Class.Name, ex.Name)
}

// ───────────────────────────── calls & classes ──────────────────────────────

func (ip *Interpreter) evalCall(ex *Call, env *Env) (Value, signal, error) {
	// instance.name(args) dispatches as a method call when `name` is a
	// method of the instance's class; a field holding a callable is
	// called as a plain value.
	if member, ok := ex.Callee.(*Member); ok {
		obj, sig, err := ip.evalExpr(member.Object, env)
		if err != nil || sig.kind != sigNone {
			return Null(), sig, err
		}
		if obj.Tag == VTInstance {
			inst := obj.AsInstance()
			if fn, found := inst.Class.Methods[member.Name]; found {
				args, sig, err := ip.evalArgs(ex.Args, env)
				if err != nil || sig.kind != sigNone {
					return Null(), sig, err
				}
				v, err := ip.callFunction(fn.Params, fn.Body, inst.Class.Env, &obj, args, ex)
				return v, noSignal, err
			}
			if _, declared := inst.Fields[member.Name]; !declared {
				return Null(), noSignal, rtErr(UndefinedMethod, member, "class %s has no method `%s`", inst.Class.Name, member.Name)
			}
			callee := inst.Fields[member.Name]
			return ip.applyValue(callee, ex, env)
		}
		return Null(), noSignal, rtErr(TypeMismatch, member, "%s has no members", obj.Tag)
	}

	callee, sig, err := ip.evalExpr(ex.Callee, env)
	if err != nil || sig.kind != sigNone {
		return Null(), sig, err
	}
	return ip.applyValue(callee, ex, env)
}

// applyValue calls a first-class callee with the call's arguments.
func (ip *Interpreter) applyValue(callee Value, ex *Call, env *Env) (Value, signal, error) {
	args, sig, err := ip.evalArgs(ex.Args, env)
	if err != nil || sig.kind != sigNone {
		return Null(), sig, err
	}
	switch callee.Tag {
	case VTClosure:
		c := callee.AsClosure()
		v, err := ip.callFunction(c.Params, c.Body, c.Env, nil, args, ex)
		return v, noSignal, err
	case VTClass:
		v, err := ip.instantiate(callee.AsClass(), args, ex)
		return v, noSignal, err
	case VTBuiltin:
		b := callee.AsBuiltin()
		if b.Arity >= 0 && len(args) != b.Arity {
			return Null(), noSignal, rtErr(ArityMismatch, ex, "%s expects %d argument(s), got %d", b.Name, b.Arity, len(args))
		}
		line, col := ex.Pos()
		v, err := b.Fn(ip, args, line, col)
		return v, noSignal, err
	}
	return Null(), noSignal, rtErr(TypeMismatch, ex, "%s is not callable", callee.Tag)
}

func (ip *Interpreter) evalArgs(exprs []Expr, env *Env) ([]Value, signal, error) {
	args := make([]Value, 0, len(exprs))
	for _, a := range exprs {
		v, sig, err := ip.evalExpr(a, env)
		if err != nil || sig.kind != sigNone {
			return nil, sig, err
		}
		args = append(args, v)
	}
	return args, noSignal, nil
}

// callFunction runs a function body: a parameter frame below defEnv (with
// `this` bound when receiver is non-nil), then the body in a frame of its
// own. A break or continue escaping the body is illegal control flow.
func (ip *Interpreter) callFunction(params []string, body *Block, defEnv *Env, receiver *Value, args []Value, site *Call) (Value, error) {
	if len(args) != len(params) {
		return Null(), rtErr(ArityMismatch, site, "function expects %d argument(s), got %d", len(params), len(args))
	}
	frame := defEnv.Child()
	if receiver != nil {
		frame.Define("this", *receiver)
	}
	for i, p := range params {
		if !frame.Define(p, args[i]) {
			return Null(), rtErr(DuplicateDefinition, site, "duplicate parameter `%s`", p)
		}
	}
	v, sig, err := ip.evalBlock(body, frame.Child())
	if err != nil {
		return Null(), err
	}
	if sig.kind != sigNone {
		return Null(), sig.illegal()
	}
	return v, nil
}

// instantiate allocates an instance with all fields null, then runs the
// constructor (if any) with `this` bound. The constructor's value is
// discarded; the instance is the result.
func (ip *Interpreter) instantiate(cls *Class, args []Value, site *Call) (Value, error) {
	inst := &Instance{Class: cls, Fields: make(map[string]Value, len(cls.Fields))}
	for _, f := range cls.Fields {
		inst.Fields[f] = Null()
	}
	self := instanceValue(inst)
	if cls.Constructor == nil {
		if len(args) != 0 {
			return Null(), rtErr(ArityMismatch, site, "class %s has no constructor and takes no arguments, got %d", cls.Name, len(args))
		}
		return self, nil
	}
	if _, err := ip.callFunction(cls.Constructor.Params, cls.Constructor.Body, cls.Env, &self, args, site); err != nil {
		return Null(), err
	}
	return self, nil
}

// ───────────────────────────── binary operators ─────────────────────────────

func (ip *Interpreter) applyBinary(ex *Binary, left, right Value) (Value, error) {
	switch ex.Op {
	case EQ:
		return Bool(left.Equal(right)), nil
	case NEQ:
		return Bool(!left.Equal(right)), nil
	case PLUS:
		// String on either side concatenates, coercing the other operand.
		if left.Tag == VTStr || right.Tag == VTStr {
			return Str(FormatValue(left) + FormatValue(right)), nil
		}
		return ip.arith(ex, left, right)
	case MINUS, STAR, SLASH:
		return ip.arith(ex, left, right)
	case PERCENT:
		if left.Tag != VTInt || right.Tag != VTInt {
			return Null(), rtErr(TypeMismatch, ex, "operator `%%` expects Integers, got %s and %s", left.Tag, right.Tag)
		}
		if right.AsInt() == 0 {
			return Null(), rtErr(DivisionByZero, ex, "modulo by zero")
		}
		return Int(left.AsInt() % right.AsInt()), nil
	case LESS, LESSEQ, GREATER, GREATEQ:
		return ip.relational(ex, left, right)
	}
	return Null(), rtErr(TypeMismatch, ex, "unknown binary operator")
}

func numeric(v Value) (float64, bool) {
	switch v.Tag {
	case VTInt:
		return float64(v.AsInt()), true
	case VTFloat:
		return v.AsFloat(), true
	}
	return 0, false
}

// arith handles + - * / over numbers with Integer⊗Float promotion.
func (ip *Interpreter) arith(ex *Binary, left, right Value) (Value, error) {
	if left.Tag == VTInt && right.Tag == VTInt {
		a, b := left.AsInt(), right.AsInt()
		switch ex.Op {
		case PLUS:
			return Int(a + b), nil
		case MINUS:
			return Int(a - b), nil
		case STAR:
			return Int(a * b), nil
		case SLASH:
			if b == 0 {
				return Null(), rtErr(DivisionByZero, ex, "division by zero")
			}
			return Int(a / b), nil
		}
	}
	a, aok := numeric(left)
	b, bok := numeric(right)
	if !aok || !bok {
		return Null(), rtErr(TypeMismatch, ex, "operator %s expects numbers, got %s and %s", ex.Op, left.Tag, right.Tag)
	}
	switch ex.Op {
	case PLUS:
		return Float(a + b), nil
	case MINUS:
		return Float(a - b), nil
	case STAR:
		return Float(a * b), nil
	case SLASH:
		if b == 0 {
			return Null(), rtErr(DivisionByZero, ex, "division by zero")
		}
		return Float(a / b), nil
	}
	return Null(), rtErr(TypeMismatch, ex, "unknown arithmetic operator")
}

func (ip *Interpreter) relational(ex *Binary, left, right Value) (Value, error) {
	a, aok := numeric(left)
	b, bok := numeric(right)
	if !aok || !bok {
		return Null(), rtErr(TypeMismatch, ex, "operator %s expects numbers, got %s and %s", ex.Op, left.Tag, right.Tag)
	}
	switch ex.Op {
	case LESS:
		return Bool(a < b), nil
	case LESSEQ:
		return Bool(a <= b), nil
	case GREATER:
		return Bool(a > b), nil
	case GREATEQ:
		return Bool(a >= b), nil
	}
	return Null(), rtErr(TypeMismatch, ex, "unknown relational operator")
}
