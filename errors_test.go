package spectra

import (
	"errors"
	"strings"
	"testing"
)

func Test_Wrap_LexError_Snippet(t *testing.T) {
	src := "var a = 1;\nvar b = @;\nvar c = 3;"
	_, err := Tokenize(src)
	if err == nil {
		t.Fatalf("expected lex error")
	}
	out := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(out, "LEXICAL ERROR at 2:9") {
		t.Fatalf("missing header, got:\n%s", out)
	}
	if !strings.Contains(out, "var b = @;") {
		t.Fatalf("missing offending line, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret, got:\n%s", out)
	}
	// one line of context on each side
	if !strings.Contains(out, "var a = 1;") || !strings.Contains(out, "var c = 3;") {
		t.Fatalf("missing context lines, got:\n%s", out)
	}
}

func Test_Wrap_ParseError_Snippet(t *testing.T) {
	src := "var a = ;"
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	out := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(out, "PARSE ERROR at 1:9") {
		t.Fatalf("missing header, got:\n%s", out)
	}
	if !strings.Contains(out, "expected expression, found `;`") {
		t.Fatalf("missing message, got:\n%s", out)
	}
}

func Test_Wrap_RuntimeError_With_Name(t *testing.T) {
	src := "b;"
	_, err := New().EvalSource(src)
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	out := WrapErrorWithName(err, "script.spc", src).Error()
	if !strings.Contains(out, "RUNTIME ERROR in script.spc at 1:1") {
		t.Fatalf("missing header, got:\n%s", out)
	}
}

func Test_Wrap_Passes_Through_Other_Errors(t *testing.T) {
	plain := errors.New("boom")
	if WrapErrorWithSource(plain, "src") != plain {
		t.Fatalf("unrelated error was rewritten")
	}
}

func Test_Wrap_Clamps_Out_Of_Range_Positions(t *testing.T) {
	err := &RuntimeError{Kind: UndefinedVariable, Line: 99, Col: 99, Msg: "x"}
	out := WrapErrorWithSource(err, "short").Error()
	if !strings.Contains(out, "^") {
		t.Fatalf("caret missing on clamped render:\n%s", out)
	}
}
