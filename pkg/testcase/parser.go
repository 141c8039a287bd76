package testcase

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile parses a single test case YAML file.
func ParseFile(path string) (*TestCase, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is a user-provided case file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses test case YAML content. Malformed documents are rejected
// with a positioned error; nothing is silently recovered.
func Parse(data []byte, sourcePath string) (*TestCase, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: sourcePath, Message: fmt.Sprintf("invalid yaml: %v", err)}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Path: sourcePath, Line: 1, Message: "empty test case"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: sourcePath, Line: root.Line, Message: "test case must be a mapping"}
	}

	tc := &TestCase{}
	for i := 0; i < len(root.Content)-1; i += 2 {
		key := root.Content[i].Value
		valueNode := root.Content[i+1]
		switch key {
		case "name":
			tc.Name = valueNode.Value
		case "config":
			var cfg CaseConfig
			if err := valueNode.Decode(&cfg); err != nil {
				return nil, wrapParseError(sourcePath, valueNode.Line, err)
			}
			tc.Config = &cfg
		case "steps":
			items, err := parseItems(valueNode, sourcePath)
			if err != nil {
				return nil, err
			}
			tc.Items = items
		default:
			return nil, &ParseError{
				Path:    sourcePath,
				Line:    root.Content[i].Line,
				Message: fmt.Sprintf("unknown top-level key: %s", key),
			}
		}
	}

	if tc.Name == "" {
		return nil, &ParseError{Path: sourcePath, Line: root.Line, Message: "missing case name"}
	}
	return tc, nil
}

func parseItems(node *yaml.Node, sourcePath string) ([]*Item, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &ParseError{Path: sourcePath, Line: node.Line, Message: "steps must be a sequence"}
	}
	var items []*Item
	for _, entry := range node.Content {
		it, err := parseItem(entry, sourcePath)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// parseItem decodes one `- name: ... / <kind>: {...}` step entry.
func parseItem(node *yaml.Node, sourcePath string) (*Item, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: sourcePath, Line: node.Line, Message: "step must be a mapping"}
	}

	var name string
	var stepType StepType
	var valueNode *yaml.Node
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		if key == "name" {
			name = node.Content[i+1].Value
			continue
		}
		if t := StepType(key); t.Valid() {
			if stepType != "" {
				return nil, &ParseError{
					Path:    sourcePath,
					Line:    node.Content[i].Line,
					Message: "step carries more than one payload",
				}
			}
			stepType = t
			valueNode = node.Content[i+1]
		}
	}
	if stepType == "" {
		return nil, &ParseError{Path: sourcePath, Line: node.Line, Message: "unknown step type"}
	}

	step, err := decodeStep(stepType, valueNode, sourcePath)
	if err != nil {
		return nil, err
	}
	step.SetName(name)
	it := NewItem(stepType)
	it.Step = step
	return it, nil
}

func decodeStep(stepType StepType, valueNode *yaml.Node, sourcePath string) (Step, error) {
	switch stepType {
	case StepRequest:
		var s RequestStep
		if err := valueNode.Decode(&s); err != nil {
			return nil, wrapParseError(sourcePath, valueNode.Line, err)
		}
		s.StepType = stepType
		return &s, nil

	case StepDatabase:
		var s DatabaseStep
		if err := valueNode.Decode(&s); err != nil {
			return nil, wrapParseError(sourcePath, valueNode.Line, err)
		}
		s.StepType = stepType
		return &s, nil

	case StepWait:
		var s WaitStep
		if valueNode.Kind == yaml.ScalarNode {
			if err := valueNode.Decode(&s.Seconds); err != nil {
				return nil, wrapParseError(sourcePath, valueNode.Line, err)
			}
		} else if err := valueNode.Decode(&s); err != nil {
			return nil, wrapParseError(sourcePath, valueNode.Line, err)
		}
		s.StepType = stepType
		return &s, nil

	case StepLoop:
		return parseLoopStep(valueNode, sourcePath)

	case StepScript:
		var s ScriptStep
		if valueNode.Kind == yaml.ScalarNode {
			s.Code = valueNode.Value
			s.Language = "javascript"
		} else if err := valueNode.Decode(&s); err != nil {
			return nil, wrapParseError(sourcePath, valueNode.Line, err)
		}
		s.StepType = stepType
		return &s, nil

	case StepConcurrent:
		return parseConcurrentStep(valueNode, sourcePath)

	case StepCondition:
		return parseConditionStep(valueNode, sourcePath)

	default:
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    valueNode.Line,
			Message: fmt.Sprintf("unknown step type: %s", stepType),
		}
	}
}

// parseLoopStep handles loop with nested steps. The steps field decodes
// as a value-typed yaml.Node (yaml.v3 leaves pointer-typed node fields
// untouched); a zero Kind means the key was absent.
func parseLoopStep(valueNode *yaml.Node, sourcePath string) (Step, error) {
	var raw struct {
		Times string    `yaml:"times"`
		Steps yaml.Node `yaml:"steps"`
	}
	if err := valueNode.Decode(&raw); err != nil {
		return nil, wrapParseError(sourcePath, valueNode.Line, err)
	}

	s := &LoopStep{BaseStep: BaseStep{StepType: StepLoop}, Times: raw.Times}
	if raw.Steps.Kind != 0 {
		items, err := parseItems(&raw.Steps, sourcePath)
		if err != nil {
			return nil, err
		}
		s.Steps = items
	}
	return s, nil
}

// parseConcurrentStep handles concurrent with nested steps.
func parseConcurrentStep(valueNode *yaml.Node, sourcePath string) (Step, error) {
	var raw struct {
		Steps yaml.Node `yaml:"steps"`
	}
	if err := valueNode.Decode(&raw); err != nil {
		return nil, wrapParseError(sourcePath, valueNode.Line, err)
	}

	s := &ConcurrentStep{BaseStep: BaseStep{StepType: StepConcurrent}}
	if raw.Steps.Kind != 0 {
		items, err := parseItems(&raw.Steps, sourcePath)
		if err != nil {
			return nil, err
		}
		s.Steps = items
	}
	return s, nil
}

// parseConditionStep handles condition with then and else branches.
func parseConditionStep(valueNode *yaml.Node, sourcePath string) (Step, error) {
	var raw struct {
		Variable  string    `yaml:"variable"`
		Operator  string    `yaml:"operator"`
		Value     any       `yaml:"value"`
		Steps     yaml.Node `yaml:"steps"`
		ElseSteps yaml.Node `yaml:"else_steps"`
	}
	if err := valueNode.Decode(&raw); err != nil {
		return nil, wrapParseError(sourcePath, valueNode.Line, err)
	}

	op := AssertionType(raw.Operator)
	if raw.Operator != "" && !op.Valid() {
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    valueNode.Line,
			Message: fmt.Sprintf("unknown condition operator: %s", raw.Operator),
		}
	}

	s := &ConditionStep{
		BaseStep: BaseStep{StepType: StepCondition},
		Variable: raw.Variable,
		Operator: op,
		Value:    raw.Value,
	}
	if raw.Steps.Kind != 0 {
		items, err := parseItems(&raw.Steps, sourcePath)
		if err != nil {
			return nil, err
		}
		s.Then = items
	}
	if raw.ElseSteps.Kind != 0 {
		items, err := parseItems(&raw.ElseSteps, sourcePath)
		if err != nil {
			return nil, err
		}
		s.Else = items
	}
	return s, nil
}

func wrapParseError(path string, line int, err error) error {
	return &ParseError{Path: path, Line: line, Message: err.Error()}
}

// ProbeName extracts the case name from arbitrary YAML-ish text without
// parsing it: the first line with a `name:` prefix wins. Returns "" when
// no such line exists. This is a best-effort title sniffer only; imports
// go through Parse.
func ProbeName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "name:") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(trimmed, "name:"))
		return strings.Trim(name, `"`)
	}
	return ""
}
