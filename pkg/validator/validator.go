// Package validator checks test cases for structural problems before they
// are pushed to the platform or executed: missing required fields, unknown
// operators, empty compound steps. It walks nested step sequences too.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apitestkit/apitestkit/pkg/testcase"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Step    string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.File != "" && e.Step != "":
		return fmt.Sprintf("%s: step %q: %s", e.File, e.Step, e.Message)
	case e.Step != "":
		return fmt.Sprintf("step %q: %s", e.Step, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
}

// Result contains the validation outcome.
type Result struct {
	// Files lists the case file paths that were checked, in walk order.
	Files []string
	// Errors contains all validation errors found.
	Errors []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateCase checks a single in-memory test case.
func ValidateCase(tc *testcase.TestCase) *Result {
	result := &Result{}
	checkCase("", tc, result)
	return result
}

// ValidatePath checks a case file or a directory of case files.
func ValidatePath(path string) *Result {
	result := &Result{}

	info, err := os.Stat(path)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    path,
			Message: fmt.Sprintf("cannot access: %v", err),
		})
		return result
	}

	files := []string{path}
	if info.IsDir() {
		files, err = collectCaseFiles(path)
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("failed to scan directory: %v", err),
			})
			return result
		}
	}

	for _, file := range files {
		result.Files = append(result.Files, file)
		tc, err := testcase.ParseFile(file)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		checkCase(file, tc, result)
	}
	return result
}

// collectCaseFiles finds all .yaml/.yml files in a directory.
func collectCaseFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func checkCase(file string, tc *testcase.TestCase, result *Result) {
	if tc.Name == "" {
		result.Errors = append(result.Errors, &ValidationError{
			File:    file,
			Message: "missing case name",
		})
	}
	checkItems(file, tc.Items, result)
}

func checkItems(file string, items []*testcase.Item, result *Result) {
	for _, it := range items {
		checkStep(file, it.Step, result)
	}
}

//nolint:gocyclo
func checkStep(file string, step testcase.Step, result *Result) {
	fail := func(msg string) {
		result.Errors = append(result.Errors, &ValidationError{
			File:    file,
			Step:    step.Name(),
			Message: msg,
		})
	}

	switch s := step.(type) {
	case *testcase.RequestStep:
		if s.URL == "" {
			fail("request url is required")
		}
		if s.Method == "" {
			fail("request method is required")
		}
		for _, a := range s.Validate {
			if !a.Check.Valid() {
				fail(fmt.Sprintf("unknown assertion type: %s", a.Check))
			}
			if len(a.Args) < 2 {
				fail(fmt.Sprintf("assertion %s needs a target and an expected value", a.Check))
			}
		}

	case *testcase.DatabaseStep:
		if s.Driver == "" {
			fail("database type is required")
		}
		if s.Query == "" {
			fail("database query is required")
		}

	case *testcase.WaitStep:
		if s.Seconds <= 0 {
			fail("wait seconds must be positive")
		}

	case *testcase.LoopStep:
		if s.Times == "" {
			fail("loop times is required")
		}
		if len(s.Steps) == 0 {
			fail("loop has no steps")
		}
		checkItems(file, s.Steps, result)

	case *testcase.ScriptStep:
		if s.Language == "" {
			fail("script language is required")
		}
		if s.Code == "" {
			fail("script code is required")
		}

	case *testcase.ConcurrentStep:
		if len(s.Steps) == 0 {
			fail("concurrent block has no steps")
		}
		checkItems(file, s.Steps, result)

	case *testcase.ConditionStep:
		if s.Variable == "" {
			fail("condition variable is required")
		}
		if !s.Operator.Valid() {
			fail(fmt.Sprintf("unknown condition operator: %s", s.Operator))
		}
		if len(s.Then) == 0 && len(s.Else) == 0 {
			fail("condition has no branch steps")
		}
		checkItems(file, s.Then, result)
		checkItems(file, s.Else, result)
	}
}
