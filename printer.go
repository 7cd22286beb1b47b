package spectra

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue is the canonical display rendering of a value: numbers in
// literal form, booleans as true/false, null as null, strings as their
// raw contents. Instances render their fields in declaration order.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case VTInt:
		return strconv.FormatInt(v.AsInt(), 10)
	case VTFloat:
		return formatFloat(v.AsFloat())
	case VTStr:
		return v.AsStr()
	case VTClosure:
		return fmt.Sprintf("<fun/%d>", len(v.AsClosure().Params))
	case VTBuiltin:
		return fmt.Sprintf("<builtin %s>", v.AsBuiltin().Name)
	case VTClass:
		return fmt.Sprintf("<class %s>", v.AsClass().Name)
	case VTInstance:
		return formatInstance(v.AsInstance())
	}
	return "<unknown>"
}

// formatFloat keeps a float visibly a float: integral values get a
// trailing .0 rather than printing like an Integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func formatInstance(inst *Instance) string {
	var b strings.Builder
	b.WriteString(inst.Class.Name)
	b.WriteString(" {")
	for i, name := range inst.Class.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(quoteIfString(inst.Fields[name]))
	}
	b.WriteString("}")
	return b.String()
}

// quoteIfString renders nested string fields quoted so instance dumps
// stay unambiguous.
func quoteIfString(v Value) string {
	if v.Tag == VTStr {
		return strconv.Quote(v.AsStr())
	}
	return FormatValue(v)
}
