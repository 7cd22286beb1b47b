package spectra

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := New()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

func evalRuntimeErr(t *testing.T, src string, kind RuntimeErrorKind) *RuntimeError {
	t.Helper()
	ip := New()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("expected runtime error, got none\nsource:\n%s", src)
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T: %v\nsource:\n%s", err, err, src)
	}
	if re.Kind != kind {
		t.Fatalf("want runtime error kind %d, got %d (%v)\nsource:\n%s", kind, re.Kind, re, src)
	}
	return re
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInt || v.AsInt() != n {
		t.Fatalf("want int %d, got %#v", n, v)
	}
}

func wantFloat(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTFloat || v.AsFloat() != f {
		t.Fatalf("want float %g, got %#v", f, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.AsStr() != s {
		t.Fatalf("want str %q, got %#v", s, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.AsBool() != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantNull(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNull {
		t.Fatalf("want null, got %#v", v)
	}
}

// --- literals & operators ----------------------------------------------------

func Test_Interpreter_Literals(t *testing.T) {
	wantInt(t, evalSrc(t, "42;"), 42)
	wantFloat(t, evalSrc(t, "3.5;"), 3.5)
	wantStr(t, evalSrc(t, `"hi";`), "hi")
	wantStr(t, evalSrc(t, `'x';`), "x")
	wantBool(t, evalSrc(t, "true;"), true)
	wantNull(t, evalSrc(t, "null;"))
}

func Test_Interpreter_Arithmetic_And_Promotion(t *testing.T) {
	wantInt(t, evalSrc(t, "1 + 2 * 3;"), 7)
	wantInt(t, evalSrc(t, "7 / 2;"), 3)
	wantInt(t, evalSrc(t, "7 % 4;"), 3)
	wantFloat(t, evalSrc(t, "1 + 2.5;"), 3.5)
	wantFloat(t, evalSrc(t, "5.0 / 2;"), 2.5)
	wantInt(t, evalSrc(t, "-3 + 1;"), -2)
	wantFloat(t, evalSrc(t, "-1.5 * 2;"), -3.0)
}

func Test_Interpreter_Division_By_Zero(t *testing.T) {
	evalRuntimeErr(t, "1 / 0;", DivisionByZero)
	evalRuntimeErr(t, "1.0 / 0;", DivisionByZero)
	evalRuntimeErr(t, "1 % 0;", DivisionByZero)
}

func Test_Interpreter_Modulo_Is_Integer_Only(t *testing.T) {
	evalRuntimeErr(t, "1.5 % 2;", TypeMismatch)
	evalRuntimeErr(t, `"a" % 2;`, TypeMismatch)
}

func Test_Interpreter_String_Concatenation_And_Coercion(t *testing.T) {
	wantStr(t, evalSrc(t, `"foo" + "bar";`), "foobar")
	wantStr(t, evalSrc(t, `"n is " + 4;`), "n is 4")
	wantStr(t, evalSrc(t, `4 + " is n";`), "4 is n")
	wantStr(t, evalSrc(t, `"x = " + 1.5;`), "x = 1.5")
	wantStr(t, evalSrc(t, `"b = " + true;`), "b = true")
	wantStr(t, evalSrc(t, `"v = " + null;`), "v = null")
}

func Test_Interpreter_Equality(t *testing.T) {
	wantBool(t, evalSrc(t, "1 == 1;"), true)
	wantBool(t, evalSrc(t, "1 != 2;"), true)
	wantBool(t, evalSrc(t, `"a" == "a";`), true)
	wantBool(t, evalSrc(t, "null == null;"), true)
	// cross-kind comparison is false, never a type error
	wantBool(t, evalSrc(t, `1 == "1";`), false)
	wantBool(t, evalSrc(t, `1 != "1";`), true)
	wantBool(t, evalSrc(t, "1 == 1.0;"), false)
}

func Test_Interpreter_Relational(t *testing.T) {
	wantBool(t, evalSrc(t, "3 < 4;"), true)
	wantBool(t, evalSrc(t, "3.0 >= 3;"), true)
	wantBool(t, evalSrc(t, "2 <= 1;"), false)
	evalRuntimeErr(t, `"a" < "b";`, TypeMismatch)
	evalRuntimeErr(t, "true > false;", TypeMismatch)
}

func Test_Interpreter_Prefix_Operators(t *testing.T) {
	wantBool(t, evalSrc(t, "!true;"), false)
	wantBool(t, evalSrc(t, "!!false;"), false)
	wantInt(t, evalSrc(t, "--3;"), 3)
	evalRuntimeErr(t, "!1;", TypeMismatch)
	evalRuntimeErr(t, `-"x";`, TypeMismatch)
}

// --- variables & scoping -----------------------------------------------------

func Test_Interpreter_Var_And_Assignment(t *testing.T) {
	wantInt(t, evalSrc(t, "var a = 3; a;"), 3)
	wantInt(t, evalSrc(t, "var a = 3; a = a + 1; a;"), 4)
	// assignment is an expression yielding the assigned value
	wantInt(t, evalSrc(t, "var a = 0; var b = a = 5; b;"), 5)
}

func Test_Interpreter_Assignment_Never_Creates(t *testing.T) {
	evalRuntimeErr(t, "a = 1;", UndefinedVariable)
	evalRuntimeErr(t, "b;", UndefinedVariable)
}

func Test_Interpreter_Duplicate_Definition(t *testing.T) {
	evalRuntimeErr(t, "var a = 1; var a = 2;", DuplicateDefinition)
	// shadowing in a child frame is allowed
	wantInt(t, evalSrc(t, "var a = 1; if true { var a = 2; a } ;"), 2)
}

func Test_Interpreter_Loop_Scope_Does_Not_Leak(t *testing.T) {
	wantInt(t, evalSrc(t, "var a = 1; while true { var a = 2; break; } a;"), 1)
	// a fresh frame per iteration: redefining in the body never collides
	wantInt(t, evalSrc(t, `
var i = 0;
while i < 3 {
	var x = i;
	i = i + 1;
}
i;
`), 3)
}

func Test_Interpreter_Assignment_Writes_Outer_Frame(t *testing.T) {
	wantInt(t, evalSrc(t, "var a = 1; if true { a = 2; } a;"), 2)
}

// --- functions & closures ------------------------------------------------------

func Test_Interpreter_Closures(t *testing.T) {
	wantInt(t, evalSrc(t, "var make = fun (x) { fun (y) { x + y } }; var add5 = make(5); add5(3);"), 8)
}

func Test_Interpreter_Closure_Shares_Captured_Frame(t *testing.T) {
	wantInt(t, evalSrc(t, `
var counter = fun () {
	var n = 0;
	fun () { n = n + 1; n }
};
var tick = counter();
tick();
tick();
tick();
`), 3)
}

func Test_Interpreter_Call_Value_Is_Last_Expression(t *testing.T) {
	wantInt(t, evalSrc(t, "var f = fun () { 1; 2; 3 }; f();"), 3)
	// ending in a non-expression statement yields null
	wantNull(t, evalSrc(t, "var f = fun () { var x = 1; }; f();"))
	wantNull(t, evalSrc(t, "var f = fun () {}; f();"))
}

func Test_Interpreter_Arity_Mismatch(t *testing.T) {
	evalRuntimeErr(t, "var f = fun (x, y) { x + y }; f(1);", ArityMismatch)
	evalRuntimeErr(t, "var f = fun () { 1 }; f(1);", ArityMismatch)
}

func Test_Interpreter_Calling_Non_Callable(t *testing.T) {
	evalRuntimeErr(t, "var x = 1; x();", TypeMismatch)
}

// --- if / while as expressions --------------------------------------------------

func Test_Interpreter_If_Expression(t *testing.T) {
	wantStr(t, evalSrc(t, `if 4 % 2 == 0 { "even" } else { "odd" };`), "even")
	wantStr(t, evalSrc(t, `if 5 % 2 == 0 { "even" } else { "odd" };`), "odd")
	wantNull(t, evalSrc(t, "if false { 1 };"))
	wantInt(t, evalSrc(t, `
var n = 2;
if n == 1 { 10 } else if n == 2 { 20 } else { 30 };
`), 20)
	wantStr(t, evalSrc(t, `"n is " + if true { "one" } else { "two" };`), "n is one")
}

func Test_Interpreter_Condition_Must_Be_Boolean(t *testing.T) {
	evalRuntimeErr(t, "if 1 { 2 };", TypeMismatch)
	evalRuntimeErr(t, "while 1 { break; }", TypeMismatch)
}

func Test_Interpreter_While_Yields_Null(t *testing.T) {
	wantNull(t, evalSrc(t, "var i = 0; while i < 3 { i = i + 1; i };"))
	wantNull(t, evalSrc(t, "while false { 1 };"))
}

func Test_Interpreter_Break_And_Continue(t *testing.T) {
	wantInt(t, evalSrc(t, `
var i = 0;
var sum = 0;
while true {
	i = i + 1;
	if i > 10 { break; };
	if i % 2 == 1 { continue; };
	sum = sum + i;
}
sum;
`), 30)
}

func Test_Interpreter_Break_Terminates_Innermost_Loop(t *testing.T) {
	wantInt(t, evalSrc(t, `
var outer = 0;
while outer < 3 {
	outer = outer + 1;
	while true { break; }
}
outer;
`), 3)
}

func Test_Interpreter_Illegal_Control_Flow(t *testing.T) {
	evalRuntimeErr(t, "break;", IllegalControlFlow)
	evalRuntimeErr(t, "continue;", IllegalControlFlow)
	evalRuntimeErr(t, "if true { break; };", IllegalControlFlow)
	// a function body is a control-flow boundary
	evalRuntimeErr(t, "var f = fun () { break; }; while true { f(); }", IllegalControlFlow)
}

// --- classes ---------------------------------------------------------------------

const pointClass = `
class Point {
	x, y,
	constructor(x, y) {
		this.x = x;
		this.y = y;
	}
	manhattan() { this.x + this.y }
	moveX(dx) { this.x = this.x + dx; }
}
`

func Test_Interpreter_Class_Instantiation_And_Fields(t *testing.T) {
	wantInt(t, evalSrc(t, pointClass+"var p = Point(1, 2); p.x;"), 1)
	wantInt(t, evalSrc(t, pointClass+"var p = Point(1, 2); p.y;"), 2)
	evalRuntimeErr(t, pointClass+"var p = Point(1, 2); p.z;", UndefinedField)
	evalRuntimeErr(t, pointClass+"var p = Point(1, 2); p.z = 3;", UndefinedField)
}

func Test_Interpreter_Constructor_Arity(t *testing.T) {
	evalRuntimeErr(t, pointClass+"Point(1);", ArityMismatch)
	evalRuntimeErr(t, "class Flag { on } Flag(1);", ArityMismatch)
}

func Test_Interpreter_Fields_Default_To_Null(t *testing.T) {
	wantNull(t, evalSrc(t, "class Flag { on } var f = Flag(); f.on;"))
}

func Test_Interpreter_Methods(t *testing.T) {
	wantInt(t, evalSrc(t, pointClass+"var p = Point(1, 2); p.manhattan();"), 3)
	wantInt(t, evalSrc(t, pointClass+"var p = Point(1, 2); p.moveX(10); p.x;"), 11)
	evalRuntimeErr(t, pointClass+"var p = Point(1, 2); p.norm();", UndefinedMethod)
	evalRuntimeErr(t, pointClass+"var p = Point(1, 2); p.manhattan(1);", ArityMismatch)
}

func Test_Interpreter_Field_Holding_Function_Is_Callable(t *testing.T) {
	wantInt(t, evalSrc(t, `
class Box {
	f,
	constructor(f) { this.f = f; }
}
var b = Box(fun (x) { x * 2 });
b.f(3);
`), 6)
}

func Test_Interpreter_Constructor_Return_Is_Discarded(t *testing.T) {
	src := `
class Holder {
	v,
	constructor(v) { this.v = v; 999 }
}
var h = Holder(7);
h.v;
`
	wantInt(t, evalSrc(t, src), 7)
}

func Test_Interpreter_This_Outside_Method(t *testing.T) {
	evalRuntimeErr(t, "this;", UndefinedVariable)
}

func Test_Interpreter_Member_Access_On_Non_Instance(t *testing.T) {
	evalRuntimeErr(t, "var x = 1; x.y;", TypeMismatch)
	evalRuntimeErr(t, "var x = 1; x.y();", TypeMismatch)
}

// --- builtins & sessions -----------------------------------------------------------

func Test_Interpreter_Print_Builtins(t *testing.T) {
	var buf bytes.Buffer
	ip := New(WithOutput(&buf))
	if _, err := ip.EvalSource(`println("n is " + 4); print(1 + 2);`); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if got := buf.String(); got != "n is 4\n3" {
		t.Fatalf("want output %q, got %q", "n is 4\n3", got)
	}
}

func Test_Interpreter_Println_Arity(t *testing.T) {
	evalRuntimeErr(t, "println();", ArityMismatch)
	evalRuntimeErr(t, "println(1, 2);", ArityMismatch)
}

func Test_Interpreter_Persistent_Session(t *testing.T) {
	ip := New()
	if _, err := ip.EvalPersistentSource("var a = 1;"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	v, err := ip.EvalPersistentSource("a + 1;")
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	wantInt(t, v, 2)
}

func Test_Interpreter_EvalSource_Does_Not_Persist(t *testing.T) {
	ip := New()
	if _, err := ip.EvalSource("var a = 1;"); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if _, err := ip.EvalSource("a;"); err == nil {
		t.Fatalf("expected undefined variable, got none")
	}
}

func Test_Interpreter_Runtime_Error_Position(t *testing.T) {
	re := evalRuntimeErr(t, "var a = 1;\nb;", UndefinedVariable)
	if re.Line != 2 {
		t.Fatalf("want error on line 2, got %d", re.Line)
	}
	if !strings.Contains(re.Msg, "`b`") {
		t.Fatalf("want offending identifier in message, got %q", re.Msg)
	}
}
