// Package yamlgen projects a test case into the YAML-like textual
// configuration consumed by the execution engine. Rendering is a pure
// function of the case value: same input, byte-identical output.
//
// The dialect is emitted by hand rather than through yaml.Marshal because
// the engine fixes quoting and ordering rules (unquoted scalars unless they
// contain whitespace or flow indicators, insertion-ordered maps, inline
// `eq: [target, expected]` assertion lists) that a generic marshaller does
// not reproduce.
package yamlgen

import (
	"strings"

	"github.com/apitestkit/apitestkit/pkg/testcase"
)

// unnamedStep is the placeholder name for steps saved without one.
const unnamedStep = "未命名步骤"

// Render projects a test case into engine dialect text. Disabled steps
// are omitted entirely; an unset enabled flag counts as enabled.
func Render(tc *testcase.TestCase) string {
	var b strings.Builder

	line(&b, 0, "name: "+tc.Name)

	if !tc.Config.IsZero() {
		cfg := tc.Config
		line(&b, 0, "config:")
		if cfg.BaseURL != "" {
			line(&b, 2, "base_url: "+FormatValue(cfg.BaseURL))
		}
		if cfg.Verify != nil {
			line(&b, 2, "verify: "+FormatValue(*cfg.Verify))
		}
		if cfg.Timeout != 0 {
			line(&b, 2, "timeout: "+FormatValue(cfg.Timeout))
		}
		emitMap(&b, 2, "variables", cfg.Variables)
		emitMap(&b, 2, "headers", cfg.Headers)
	}

	if hasEnabled(tc.Items) {
		line(&b, 0, "steps:")
		emitSteps(&b, tc.Items, 2)
	}

	return b.String()
}

func hasEnabled(items []*testcase.Item) bool {
	for _, it := range items {
		if it.IsEnabled() {
			return true
		}
	}
	return false
}

// emitSteps writes a step sequence with `- name:` entries at pad columns.
func emitSteps(b *strings.Builder, items []*testcase.Item, pad int) {
	for _, it := range items {
		if !it.IsEnabled() {
			continue
		}
		name := it.Step.Name()
		if name == "" {
			name = unnamedStep
		}
		line(b, pad, "- name: "+name)
		emitStep(b, it.Step, pad+2)
	}
}

func emitStep(b *strings.Builder, step testcase.Step, pad int) {
	field := pad + 2
	switch s := step.(type) {
	case *testcase.RequestStep:
		line(b, pad, "request:")
		line(b, field, "url: "+FormatValue(s.URL))
		line(b, field, "method: "+FormatValue(s.Method))
		emitMap(b, field, "headers", s.Headers)
		emitMap(b, field, "params", s.Params)
		if s.Body != "" {
			emitText(b, field, "body", s.Body)
		}
		emitMap(b, field, "json", s.JSON)
		emitMap(b, field, "extract", s.Extract)
		emitAssertions(b, field, s.Validate)

	case *testcase.DatabaseStep:
		line(b, pad, "database:")
		line(b, field, "type: "+FormatValue(s.Driver))
		emitText(b, field, "query", s.Query)
		emitMap(b, field, "variables", s.Variables)
		emitMap(b, field, "extract", s.Extract)

	case *testcase.WaitStep:
		line(b, pad, "wait:")
		line(b, field, "seconds: "+FormatValue(s.Seconds))

	case *testcase.LoopStep:
		line(b, pad, "loop:")
		line(b, field, "times: "+FormatValue(s.Times))
		if hasEnabled(s.Steps) {
			line(b, field, "steps:")
			emitSteps(b, s.Steps, field+2)
		}

	case *testcase.ScriptStep:
		line(b, pad, "script:")
		line(b, field, "language: "+FormatValue(s.Language))
		emitText(b, field, "code", s.Code)

	case *testcase.ConcurrentStep:
		line(b, pad, "concurrent:")
		if hasEnabled(s.Steps) {
			line(b, field, "steps:")
			emitSteps(b, s.Steps, field+2)
		}

	case *testcase.ConditionStep:
		line(b, pad, "condition:")
		line(b, field, "variable: "+FormatValue(s.Variable))
		if s.Operator != "" {
			line(b, field, "operator: "+FormatValue(string(s.Operator)))
		}
		line(b, field, "value: "+FormatValue(s.Value))
		if hasEnabled(s.Then) {
			line(b, field, "steps:")
			emitSteps(b, s.Then, field+2)
		}
		if hasEnabled(s.Else) {
			line(b, field, "else_steps:")
			emitSteps(b, s.Else, field+2)
		}
	}
}

// emitMap writes `key:` followed by entries in insertion order. Empty and
// nil maps produce no output.
func emitMap(b *strings.Builder, pad int, key string, m *testcase.OrderedMap) {
	if m.Len() == 0 {
		return
	}
	line(b, pad, key+":")
	for _, p := range m.Pairs() {
		if nested, ok := p.Value.(*testcase.OrderedMap); ok {
			emitMap(b, pad+2, p.Key, nested)
			continue
		}
		line(b, pad+2, p.Key+": "+FormatValue(p.Value))
	}
}

func emitAssertions(b *strings.Builder, pad int, checks []testcase.Assertion) {
	if len(checks) == 0 {
		return
	}
	line(b, pad, "validate:")
	for _, a := range checks {
		args := make([]string, len(a.Args))
		for i, arg := range a.Args {
			args[i] = FormatValue(arg)
		}
		line(b, pad+2, "- "+string(a.Check)+": ["+strings.Join(args, ", ")+"]")
	}
}

// emitText writes a string field, switching to a literal block for
// multiline values so script bodies and SQL stay readable.
func emitText(b *strings.Builder, pad int, key, value string) {
	if !strings.Contains(value, "\n") {
		line(b, pad, key+": "+FormatValue(value))
		return
	}
	line(b, pad, key+": |")
	for _, l := range strings.Split(strings.TrimRight(value, "\n"), "\n") {
		line(b, pad+2, l)
	}
}

func line(b *strings.Builder, pad int, s string) {
	for i := 0; i < pad; i++ {
		b.WriteByte(' ')
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
