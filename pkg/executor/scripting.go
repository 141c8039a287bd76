package executor

import (
	"fmt"
	"strings"

	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

func (r *Runner) runScript(s *testcase.ScriptStep, res *report.StepResult) {
	switch strings.ToLower(s.Language) {
	case "javascript", "js":
	default:
		fail(res, stepErrorf(CodeUnsupported, "unsupported script language: %s", s.Language))
		return
	}

	if err := r.js.RunScript(s.Code); err != nil {
		fail(res, &StepError{Code: CodeScript, Message: "script failed", Cause: err})
		return
	}

	// Values published through the output object become case variables.
	out := r.js.GetOutput()
	if len(out) > 0 {
		if res.Extracted == nil {
			res.Extracted = make(map[string]string)
		}
		for k, v := range out {
			value := fmt.Sprintf("%v", v)
			r.setVar(k, value)
			res.Extracted[k] = value
		}
	}

	res.Status = report.StatusPassed
	res.Message = "script executed"
}
