package spectra

// ValueTag discriminates the runtime value union.
type ValueTag int

const (
	VTNull ValueTag = iota
	VTBool
	VTInt
	VTFloat
	VTStr
	VTClosure
	VTClass
	VTInstance
	VTBuiltin
)

var tagNames = map[ValueTag]string{
	VTNull:     "Null",
	VTBool:     "Boolean",
	VTInt:      "Integer",
	VTFloat:    "Float",
	VTStr:      "String",
	VTClosure:  "Function",
	VTClass:    "Class",
	VTInstance: "Instance",
	VTBuiltin:  "Function",
}

func (t ValueTag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Value is a tagged runtime value. Data holds bool for VTBool, int64 for
// VTInt, float64 for VTFloat, string for VTStr, *Closure, *Class,
// *Instance, or *Builtin for the remaining tags, and nil for VTNull.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Constructors.

func Null() Value           { return Value{Tag: VTNull} }
func Bool(b bool) Value     { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value     { return Value{Tag: VTInt, Data: n} }
func Float(f float64) Value { return Value{Tag: VTFloat, Data: f} }
func Str(s string) Value    { return Value{Tag: VTStr, Data: s} }

func closure(c *Closure) Value        { return Value{Tag: VTClosure, Data: c} }
func classValue(c *Class) Value       { return Value{Tag: VTClass, Data: c} }
func instanceValue(i *Instance) Value { return Value{Tag: VTInstance, Data: i} }

// BuiltinValue wraps a native function as a value.
func BuiltinValue(b *Builtin) Value { return Value{Tag: VTBuiltin, Data: b} }

// Accessors. Each panics if the tag is wrong; callers check Tag first.

func (v Value) AsBool() bool          { return v.Data.(bool) }
func (v Value) AsInt() int64          { return v.Data.(int64) }
func (v Value) AsFloat() float64      { return v.Data.(float64) }
func (v Value) AsStr() string         { return v.Data.(string) }
func (v Value) AsClosure() *Closure   { return v.Data.(*Closure) }
func (v Value) AsClass() *Class       { return v.Data.(*Class) }
func (v Value) AsInstance() *Instance { return v.Data.(*Instance) }
func (v Value) AsBuiltin() *Builtin   { return v.Data.(*Builtin) }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Tag == VTNull }

// Equal implements `==`: values of different kinds are never equal, and
// reference kinds compare by identity.
func (v Value) Equal(w Value) bool {
	if v.Tag != w.Tag {
		return false
	}
	switch v.Tag {
	case VTNull:
		return true
	case VTBool:
		return v.AsBool() == w.AsBool()
	case VTInt:
		return v.AsInt() == w.AsInt()
	case VTFloat:
		return v.AsFloat() == w.AsFloat()
	case VTStr:
		return v.AsStr() == w.AsStr()
	default:
		return v.Data == w.Data
	}
}

// Closure is a function literal paired with its defining environment.
type Closure struct {
	Params []string
	Body   *Block
	Env    *Env
}

// Class is a runtime class object: its field list in declaration order,
// an optional constructor, and its method table. Env is the scope the
// class was declared in; constructors and methods close over it.
type Class struct {
	Name        string
	Fields      []string
	Constructor *FunctionLit
	Methods     map[string]*FunctionLit
	Env         *Env
}

// Instance is a class instance. Its field set is fixed at creation; only
// the declared fields are readable or writable.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// BuiltinFn is the signature of a native function. The interpreter passes
// the call site position for error reporting.
type BuiltinFn func(interp *Interpreter, args []Value, line, col int) (Value, error)

// Builtin is a named native function with a fixed arity. Arity < 0 means
// variadic.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFn
}
