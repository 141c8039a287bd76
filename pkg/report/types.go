// Package report models local run results and exports them as JSON or
// Excel workbooks. The platform's dashboards render their own reports;
// this package serves the CLI dry-run path.
package report

import "time"

// Status represents the execution status of a step or case.
type Status string

// Status values.
const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"  // an assertion or condition did not hold
	StatusErrored Status = "errored" // infrastructure failure: network, script error, bad config
	StatusSkipped Status = "skipped"
)

// IsTerminal returns true if the status is a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored, StatusSkipped:
		return true
	}
	return false
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusPassed
}

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	Name      string            `json:"name"`
	Kind      string            `json:"kind"`
	Status    Status            `json:"status"`
	StartTime time.Time         `json:"startTime"`
	Duration  int64             `json:"duration"` // milliseconds
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Extracted map[string]string `json:"extracted,omitempty"`
	// Children holds nested results for loop iterations, concurrent
	// branches and condition branches.
	Children []StepResult `json:"children,omitempty"`
}

// Summary contains aggregated step counts.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// CaseResult captures the outcome of executing a test case.
type CaseResult struct {
	Name      string       `json:"name"`
	Status    Status       `json:"status"`
	StartTime time.Time    `json:"startTime"`
	Duration  int64        `json:"duration"` // milliseconds
	Steps     []StepResult `json:"steps"`
	Summary   Summary      `json:"summary"`
}
