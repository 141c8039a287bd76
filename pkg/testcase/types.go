// Package testcase defines the API test case model: a named case with
// optional configuration and an ordered tree of typed steps, plus the
// editor document that mutates it.
package testcase

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StepType identifies the kind of a step.
type StepType string

// Step type constants. The set is closed; the projector and executor
// dispatch exhaustively over it.
const (
	StepRequest    StepType = "request"
	StepDatabase   StepType = "database"
	StepWait       StepType = "wait"
	StepLoop       StepType = "loop"
	StepScript     StepType = "script"
	StepConcurrent StepType = "concurrent"
	StepCondition  StepType = "condition"
)

// StepTypes returns all step kinds in display order.
func StepTypes() []StepType {
	return []StepType{
		StepRequest, StepDatabase, StepWait, StepLoop,
		StepScript, StepConcurrent, StepCondition,
	}
}

// Valid reports whether t is a known step kind.
func (t StepType) Valid() bool {
	switch t {
	case StepRequest, StepDatabase, StepWait, StepLoop,
		StepScript, StepConcurrent, StepCondition:
		return true
	}
	return false
}

// AssertionType identifies an assertion/comparison operator. The same set
// serves request/database validate blocks and condition step operators.
type AssertionType string

// Assertion operator constants.
const (
	AssertEq       AssertionType = "eq"
	AssertLt       AssertionType = "lt"
	AssertLe       AssertionType = "le"
	AssertGt       AssertionType = "gt"
	AssertGe       AssertionType = "ge"
	AssertNe       AssertionType = "ne"
	AssertContains AssertionType = "contains"
	AssertRegex    AssertionType = "regex"
)

// Valid reports whether t is a known assertion operator.
func (t AssertionType) Valid() bool {
	switch t {
	case AssertEq, AssertLt, AssertLe, AssertGt, AssertGe,
		AssertNe, AssertContains, AssertRegex:
		return true
	}
	return false
}

// Assertion is one validate entry, encoded in the engine dialect as
// `<type>: [<args...>]`. Args[0] names the target (status_code or a JSON
// path into the response body), Args[1] the expected value.
type Assertion struct {
	Check AssertionType
	Args  []any
}

// UnmarshalYAML decodes the single-key `eq: [target, expected]` form.
func (a *Assertion) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: assertion must be a single-key mapping", node.Line)
	}
	check := AssertionType(node.Content[0].Value)
	if !check.Valid() {
		return fmt.Errorf("line %d: unknown assertion type: %s", node.Line, check)
	}
	a.Check = check
	return node.Content[1].Decode(&a.Args)
}

// Step is the interface for all step payloads.
type Step interface {
	Type() StepType
	Name() string
	SetName(string)
	Describe() string
	// Clone returns a deep copy of the payload, including nested items.
	Clone() Step
}

// BaseStep contains the fields common to all steps.
type BaseStep struct {
	StepType StepType `yaml:"-"`
	StepName string   `yaml:"name"`
}

// Type returns the step kind.
func (b *BaseStep) Type() StepType { return b.StepType }

// Name returns the step display name.
func (b *BaseStep) Name() string { return b.StepName }

// SetName sets the step display name.
func (b *BaseStep) SetName(name string) { b.StepName = name }

// Describe returns a human-readable description.
func (b *BaseStep) Describe() string { return string(b.StepType) }

// Clone returns a copy of the base payload.
func (b *BaseStep) Clone() Step {
	out := *b
	return &out
}

// RequestStep performs an HTTP request.
type RequestStep struct {
	BaseStep `yaml:",inline"`
	URL      string      `yaml:"url"`
	Method   string      `yaml:"method"`
	Headers  *OrderedMap `yaml:"headers"`
	Params   *OrderedMap `yaml:"params"`
	Body     string      `yaml:"body"`
	JSON     *OrderedMap `yaml:"json"`
	Extract  *OrderedMap `yaml:"extract"`
	Validate []Assertion `yaml:"validate"`
}

// DatabaseStep runs a SQL query against a datasource.
type DatabaseStep struct {
	BaseStep  `yaml:",inline"`
	Driver    string      `yaml:"type"` // datasource dialect: sqlite, mysql, ...
	Query     string      `yaml:"query"`
	Variables *OrderedMap `yaml:"variables"`
	Extract   *OrderedMap `yaml:"extract"`
}

// WaitStep pauses execution.
type WaitStep struct {
	BaseStep `yaml:",inline"`
	Seconds  float64 `yaml:"seconds"`
}

// LoopStep repeats its child steps.
type LoopStep struct {
	BaseStep `yaml:",inline"`
	Times    string  `yaml:"times"` // string so ${var} references survive
	Steps    []*Item `yaml:"-"`
}

// ScriptStep runs an inline script.
type ScriptStep struct {
	BaseStep `yaml:",inline"`
	Language string `yaml:"language"`
	Code     string `yaml:"code"`
}

// ConcurrentStep runs its child steps in parallel.
type ConcurrentStep struct {
	BaseStep `yaml:",inline"`
	Steps    []*Item `yaml:"-"`
}

// ConditionStep branches on a variable comparison.
type ConditionStep struct {
	BaseStep `yaml:",inline"`
	Variable string        `yaml:"variable"`
	Operator AssertionType `yaml:"operator"`
	Value    any           `yaml:"value"`
	Then     []*Item       `yaml:"-"`
	Else     []*Item       `yaml:"-"`
}

// Describe returns a human-readable description of the request step.
func (s *RequestStep) Describe() string {
	method := s.Method
	if method == "" {
		method = "GET"
	}
	return fmt.Sprintf("request: %s %s", method, s.URL)
}

// Describe returns a human-readable description of the database step.
func (s *DatabaseStep) Describe() string {
	return "database: " + s.Driver
}

// Describe returns a human-readable description of the wait step.
func (s *WaitStep) Describe() string {
	return fmt.Sprintf("wait: %gs", s.Seconds)
}

// Describe returns a human-readable description of the loop step.
func (s *LoopStep) Describe() string {
	return fmt.Sprintf("loop: %s x %d step(s)", s.Times, len(s.Steps))
}

// Describe returns a human-readable description of the script step.
func (s *ScriptStep) Describe() string {
	return "script: " + s.Language
}

// Describe returns a human-readable description of the concurrent step.
func (s *ConcurrentStep) Describe() string {
	return fmt.Sprintf("concurrent: %d step(s)", len(s.Steps))
}

// Describe returns a human-readable description of the condition step.
func (s *ConditionStep) Describe() string {
	return fmt.Sprintf("condition: %s %s %v", s.Variable, s.Operator, s.Value)
}

// Clone returns a deep copy of the request step.
func (s *RequestStep) Clone() Step {
	out := *s
	out.Headers = s.Headers.Clone()
	out.Params = s.Params.Clone()
	out.JSON = s.JSON.Clone()
	out.Extract = s.Extract.Clone()
	if s.Validate != nil {
		out.Validate = make([]Assertion, len(s.Validate))
		for i, a := range s.Validate {
			out.Validate[i] = Assertion{Check: a.Check, Args: append([]any(nil), a.Args...)}
		}
	}
	return &out
}

// Clone returns a deep copy of the database step.
func (s *DatabaseStep) Clone() Step {
	out := *s
	out.Variables = s.Variables.Clone()
	out.Extract = s.Extract.Clone()
	return &out
}

// Clone returns a copy of the wait step.
func (s *WaitStep) Clone() Step {
	out := *s
	return &out
}

// Clone returns a deep copy of the loop step and its children.
func (s *LoopStep) Clone() Step {
	out := *s
	out.Steps = cloneItems(s.Steps)
	return &out
}

// Clone returns a copy of the script step.
func (s *ScriptStep) Clone() Step {
	out := *s
	return &out
}

// Clone returns a deep copy of the concurrent step and its children.
func (s *ConcurrentStep) Clone() Step {
	out := *s
	out.Steps = cloneItems(s.Steps)
	return &out
}

// Clone returns a deep copy of the condition step and both branches.
func (s *ConditionStep) Clone() Step {
	out := *s
	out.Then = cloneItems(s.Then)
	out.Else = cloneItems(s.Else)
	return &out
}

func cloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// CaseConfig is the optional top-level config block of a test case.
type CaseConfig struct {
	BaseURL   string      `yaml:"base_url"`
	Verify    *bool       `yaml:"verify"`
	Timeout   int         `yaml:"timeout"` // seconds
	Variables *OrderedMap `yaml:"variables"`
	Headers   *OrderedMap `yaml:"headers"`
}

// IsZero reports whether no config field is present.
func (c *CaseConfig) IsZero() bool {
	if c == nil {
		return true
	}
	return c.BaseURL == "" && c.Verify == nil && c.Timeout == 0 &&
		c.Variables.Len() == 0 && c.Headers.Len() == 0
}

// TestCase is the root entity owned by one editor session.
type TestCase struct {
	Name   string
	Config *CaseConfig
	Items  []*Item
}
