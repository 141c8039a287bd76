package jsengine

import (
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	engine := New()

	tests := []struct {
		name     string
		script   string
		expected interface{}
	}{
		{"simple number", "1 + 2", int64(3)},
		{"string concat", "'hello' + ' ' + 'world'", "hello world"},
		{"boolean", "true && false", false},
		{"null coalescing", "null ?? 'default'", "default"},
		{"array length", "[1, 2, 3].length", int64(3)},
		{"object property", "({name: 'test'}).name", "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Eval(tt.script)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %v (%T), got %v (%T)", tt.expected, tt.expected, result, result)
			}
		})
	}
}

func TestSetVariable(t *testing.T) {
	engine := New()

	engine.SetVariable("username", "john")
	engine.SetVariable("count", 42)

	result, err := engine.EvalString("username")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "john" {
		t.Errorf("expected 'john', got %q", result)
	}

	result, err = engine.EvalString("count")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "42" {
		t.Errorf("expected '42', got %q", result)
	}
}

func TestExpandVariables(t *testing.T) {
	engine := New()
	engine.SetVariable("token", "abc123")
	engine.SetVariable("n", 2)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "no refs here", "no refs here"},
		{"single variable", "Bearer ${token}", "Bearer abc123"},
		{"expression", "total=${n * 3}", "total=6"},
		{"multiple refs", "${token}-${n}", "abc123-2"},
		{"failed expr left as-is", "x${not.defined.here}y", "x${not.defined.here}y"},
		{"unmatched brace left as-is", "a${open", "a${open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.ExpandVariables(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOutput(t *testing.T) {
	engine := New()

	if err := engine.RunScript("output.token = 'xyz'; output.count = 3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := engine.GetOutput()
	if out["token"] != "xyz" {
		t.Errorf("expected token xyz, got %v", out["token"])
	}
	if out["count"] != int64(3) {
		t.Errorf("expected count 3, got %v (%T)", out["count"], out["count"])
	}
}

func TestRunScriptError(t *testing.T) {
	engine := New()

	err := engine.RunScript("this is not javascript {")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "JS runtime error") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefineUndefinedIfMissing(t *testing.T) {
	engine := New()
	engine.DefineUndefinedIfMissing("maybe")

	result, err := engine.Eval("maybe === undefined")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != true {
		t.Error("missing variable should be defined as undefined")
	}
}
