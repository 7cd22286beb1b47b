package spectra

import "fmt"

// registerBuiltins installs the host functions into the Core scope, where
// user code can shadow but not redefine them.
func registerBuiltins(ip *Interpreter) {
	define := func(name string, arity int, fn BuiltinFn) {
		ip.Core.Define(name, BuiltinValue(&Builtin{Name: name, Arity: arity, Fn: fn}))
	}

	define("print", 1, func(ip *Interpreter, args []Value, line, col int) (Value, error) {
		fmt.Fprint(ip.out, FormatValue(args[0]))
		return Null(), nil
	})

	define("println", 1, func(ip *Interpreter, args []Value, line, col int) (Value, error) {
		fmt.Fprintln(ip.out, FormatValue(args[0]))
		return Null(), nil
	})
}
