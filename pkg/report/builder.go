package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Summarize counts top-level step results.
func Summarize(steps []StepResult) Summary {
	var s Summary
	s.Total = len(steps)
	for _, sr := range steps {
		switch sr.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusErrored:
			s.Errored++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Finalize fills the summary and overall status of a case result from its
// step results. A case fails if any step failed, errors if any step
// errored without a failure, and passes otherwise.
func Finalize(cr *CaseResult) {
	cr.Summary = Summarize(cr.Steps)
	switch {
	case cr.Summary.Failed > 0:
		cr.Status = StatusFailed
	case cr.Summary.Errored > 0:
		cr.Status = StatusErrored
	default:
		cr.Status = StatusPassed
	}
}

// WriteJSON writes a case result as indented JSON.
func WriteJSON(path string, cr *CaseResult) error {
	data, err := json.MarshalIndent(cr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
