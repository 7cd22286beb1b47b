package spectra

import (
	"bytes"
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// The fixture corpus in testdata/programs.yaml runs whole programs and
// checks the final value, the expected runtime error kind, or printed
// output. New language behavior should gain a case here alongside its
// unit tests.

type fixtureFile struct {
	Cases []fixtureCase `yaml:"cases"`
}

type fixtureCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Want   struct {
		Kind  string  `yaml:"kind"`
		Int   int64   `yaml:"int"`
		Float float64 `yaml:"float"`
		Str   string  `yaml:"str"`
		Bool  bool    `yaml:"bool"`
		Error string  `yaml:"error"`
	} `yaml:"want"`
	Output *string `yaml:"output"`
}

var errorKinds = map[string]RuntimeErrorKind{
	"UndefinedVariable":   UndefinedVariable,
	"DuplicateDefinition": DuplicateDefinition,
	"TypeMismatch":        TypeMismatch,
	"ArityMismatch":       ArityMismatch,
	"UndefinedMethod":     UndefinedMethod,
	"UndefinedField":      UndefinedField,
	"IllegalControlFlow":  IllegalControlFlow,
	"DivisionByZero":      DivisionByZero,
}

func Test_Program_Fixtures(t *testing.T) {
	raw, err := os.ReadFile("testdata/programs.yaml")
	if err != nil {
		t.Fatalf("cannot read fixture file: %v", err)
	}
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		t.Fatalf("cannot decode fixture file: %v", err)
	}
	if len(file.Cases) == 0 {
		t.Fatalf("fixture file has no cases")
	}

	for _, c := range file.Cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			var buf bytes.Buffer
			ip := New(WithOutput(&buf))
			v, err := ip.EvalSource(c.Source)

			if c.Want.Kind == "error" {
				if err == nil {
					t.Fatalf("want %s error, got value %#v", c.Want.Error, v)
				}
				re, ok := err.(*RuntimeError)
				if !ok {
					t.Fatalf("want *RuntimeError, got %T: %v", err, err)
				}
				kind, known := errorKinds[c.Want.Error]
				if !known {
					t.Fatalf("fixture names unknown error kind %q", c.Want.Error)
				}
				if re.Kind != kind {
					t.Fatalf("want error kind %s, got %v", c.Want.Error, re)
				}
				return
			}

			if err != nil {
				t.Fatalf("eval error: %v", err)
			}
			switch c.Want.Kind {
			case "int":
				wantInt(t, v, c.Want.Int)
			case "float":
				wantFloat(t, v, c.Want.Float)
			case "str":
				wantStr(t, v, c.Want.Str)
			case "bool":
				wantBool(t, v, c.Want.Bool)
			case "null":
				wantNull(t, v)
			default:
				t.Fatalf("fixture names unknown want kind %q", c.Want.Kind)
			}
			if c.Output != nil && buf.String() != *c.Output {
				t.Fatalf("want output %q, got %q", *c.Output, buf.String())
			}
		})
	}
}
