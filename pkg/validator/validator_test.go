package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apitestkit/apitestkit/pkg/testcase"
)

func item(t testcase.StepType, mutate func(testcase.Step)) *testcase.Item {
	it := testcase.NewItem(t)
	if mutate != nil {
		mutate(it.Step)
	}
	return it
}

func TestValidateCase_Valid(t *testing.T) {
	tc := &testcase.TestCase{
		Name: "ok",
		Items: []*testcase.Item{
			item(testcase.StepRequest, func(s testcase.Step) {
				s.(*testcase.RequestStep).URL = "/api/users"
			}),
			item(testcase.StepWait, nil),
		},
	}
	result := ValidateCase(tc)
	if !result.IsValid() {
		t.Errorf("expected valid, got %v", result.Errors)
	}
}

func TestValidateCase_StepProblems(t *testing.T) {
	tests := []struct {
		name    string
		item    *testcase.Item
		wantMsg string
	}{
		{
			"request without url",
			item(testcase.StepRequest, nil),
			"request url is required",
		},
		{
			"assertion missing args",
			item(testcase.StepRequest, func(s testcase.Step) {
				req := s.(*testcase.RequestStep)
				req.URL = "/x"
				req.Validate = []testcase.Assertion{{Check: testcase.AssertEq, Args: []any{"status_code"}}}
			}),
			"needs a target and an expected value",
		},
		{
			"database without query",
			item(testcase.StepDatabase, func(s testcase.Step) {
				s.(*testcase.DatabaseStep).Driver = "sqlite"
			}),
			"database query is required",
		},
		{
			"wait with zero seconds",
			item(testcase.StepWait, func(s testcase.Step) {
				s.(*testcase.WaitStep).Seconds = 0
			}),
			"wait seconds must be positive",
		},
		{
			"empty loop",
			item(testcase.StepLoop, nil),
			"loop has no steps",
		},
		{
			"script without code",
			item(testcase.StepScript, nil),
			"script code is required",
		},
		{
			"empty concurrent",
			item(testcase.StepConcurrent, nil),
			"concurrent block has no steps",
		},
		{
			"condition without branches",
			item(testcase.StepCondition, func(s testcase.Step) {
				s.(*testcase.ConditionStep).Variable = "v"
			}),
			"condition has no branch steps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &testcase.TestCase{Name: "x", Items: []*testcase.Item{tt.item}}
			result := ValidateCase(tc)
			if result.IsValid() {
				t.Fatal("expected errors")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e.Error(), tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q among %v", tt.wantMsg, result.Errors)
			}
		})
	}
}

func TestValidateCase_RecursesIntoNestedSteps(t *testing.T) {
	bad := item(testcase.StepRequest, nil) // missing url
	loop := item(testcase.StepLoop, func(s testcase.Step) {
		s.(*testcase.LoopStep).Steps = []*testcase.Item{bad}
	})
	tc := &testcase.TestCase{Name: "x", Items: []*testcase.Item{loop}}

	result := ValidateCase(tc)
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Error(), "request url is required") {
			found = true
		}
	}
	if !found {
		t.Errorf("nested step error not reported: %v", result.Errors)
	}
}

func TestValidatePath_Directory(t *testing.T) {
	dir := t.TempDir()
	good := `name: ok
steps:
  - name: s
    wait: 1
`
	bad := `name: broken
steps:
  - name: s
    request:
      method: GET
`
	if err := os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(good), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ValidatePath(dir)
	if len(result.Files) != 2 {
		t.Errorf("expected 2 case files, got %d (%v)", len(result.Files), result.Files)
	}
	if result.IsValid() {
		t.Error("expected errors from bad.yml")
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", result.Errors)
	}
}

func TestValidatePath_MissingPath(t *testing.T) {
	result := ValidatePath("/nonexistent/case.yaml")
	if result.IsValid() {
		t.Error("expected an error for a missing path")
	}
}
