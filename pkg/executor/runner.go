// Package executor runs test cases locally for editor-side dry runs. The
// platform backend remains the canonical execution engine; this runner
// implements the same step semantics over the same case model.
package executor

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/apitestkit/apitestkit/pkg/jsengine"
	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

// unnamedStep mirrors the projector's placeholder for unnamed steps.
const unnamedStep = "未命名步骤"

// Options configures a Runner.
type Options struct {
	BaseURL     string            // overrides the case config base_url
	Timeout     time.Duration     // per-request timeout (default 30s)
	Env         map[string]string // extra variables, override case variables
	Datasources map[string]string // database dialect -> DSN

	// HTTPClient replaces the default client, mainly for tests.
	HTTPClient *http.Client

	// OnStepComplete is invoked after every step, including nested ones.
	OnStepComplete func(depth int, res *report.StepResult)
}

// Runner executes one test case at a time. It is not safe for concurrent
// use; concurrent steps fork their own runner per branch.
type Runner struct {
	opts    Options
	http    *http.Client
	js      *jsengine.Engine
	vars    map[string]string
	baseURL string
	headers []testcase.Pair
}

// New creates a Runner.
func New(opts Options) *Runner {
	return &Runner{
		opts: opts,
		js:   jsengine.New(),
		vars: make(map[string]string),
	}
}

// Run executes all enabled steps of the case in order and returns the
// aggregated result. Once a step fails or errors, the remaining steps in
// the same sequence are skipped.
func (r *Runner) Run(ctx context.Context, tc *testcase.TestCase) *report.CaseResult {
	start := time.Now()
	r.prepare(tc)

	cr := &report.CaseResult{
		Name:      tc.Name,
		StartTime: start,
		Steps:     r.runItems(ctx, tc.Items, 0),
	}
	cr.Duration = time.Since(start).Milliseconds()
	report.Finalize(cr)
	return cr
}

func (r *Runner) prepare(tc *testcase.TestCase) {
	cfg := tc.Config
	verify := true
	if cfg != nil {
		r.baseURL = cfg.BaseURL
		if cfg.Verify != nil {
			verify = *cfg.Verify
		}
		for _, p := range cfg.Variables.Pairs() {
			r.setVar(p.Key, fmt.Sprintf("%v", p.Value))
		}
		r.headers = cfg.Headers.Pairs()
	}
	if r.opts.BaseURL != "" {
		r.baseURL = r.opts.BaseURL
	}
	for k, v := range r.opts.Env {
		r.setVar(k, v)
	}

	// Caller options beat the case config, same as BaseURL above.
	timeout := r.opts.Timeout
	if timeout <= 0 && cfg != nil && cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r.http = r.opts.HTTPClient
	if r.http == nil {
		transport := &http.Transport{}
		if !verify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //#nosec G402 -- verify: false is an explicit case setting
		}
		r.http = &http.Client{Timeout: timeout, Transport: transport}
	}
}

// setVar stores a variable in the runner scope and the JS engine.
func (r *Runner) setVar(name, value string) {
	r.vars[name] = value
	r.js.SetVariable(name, value)
}

// expand resolves ${expr} references against the current variable scope.
func (r *Runner) expand(text string) string {
	out, err := r.js.ExpandVariables(text)
	if err != nil {
		return text
	}
	return out
}

func (r *Runner) runItems(ctx context.Context, items []*testcase.Item, depth int) []report.StepResult {
	var results []report.StepResult
	failed := false
	for _, it := range items {
		if !it.IsEnabled() {
			continue
		}
		if failed || ctx.Err() != nil {
			results = append(results, report.StepResult{
				Name:      stepName(it.Step),
				Kind:      string(it.Step.Type()),
				Status:    report.StatusSkipped,
				StartTime: time.Now(),
			})
			continue
		}
		res := r.runItem(ctx, it, depth)
		if !res.Status.IsSuccess() && res.Status != report.StatusSkipped {
			failed = true
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) runItem(ctx context.Context, it *testcase.Item, depth int) report.StepResult {
	start := time.Now()
	res := report.StepResult{
		Name:      stepName(it.Step),
		Kind:      string(it.Step.Type()),
		Status:    report.StatusRunning,
		StartTime: start,
	}

	switch s := it.Step.(type) {
	case *testcase.RequestStep:
		r.runRequest(ctx, s, &res)
	case *testcase.DatabaseStep:
		r.runDatabase(ctx, s, &res)
	case *testcase.WaitStep:
		r.runWait(ctx, s, &res)
	case *testcase.LoopStep:
		r.runLoop(ctx, s, &res, depth)
	case *testcase.ScriptStep:
		r.runScript(s, &res)
	case *testcase.ConcurrentStep:
		r.runConcurrent(ctx, s, &res, depth)
	case *testcase.ConditionStep:
		r.runCondition(ctx, s, &res, depth)
	default:
		fail(&res, stepErrorf(CodeUnsupported, "unsupported step type: %s", it.Step.Type()))
	}

	res.Duration = time.Since(start).Milliseconds()
	if r.opts.OnStepComplete != nil {
		r.opts.OnStepComplete(depth, &res)
	}
	return res
}

func (r *Runner) runWait(ctx context.Context, s *testcase.WaitStep, res *report.StepResult) {
	d := time.Duration(s.Seconds * float64(time.Second))
	select {
	case <-time.After(d):
		res.Status = report.StatusPassed
		res.Message = fmt.Sprintf("waited %gs", s.Seconds)
	case <-ctx.Done():
		fail(res, stepErrorf(CodeConfig, "wait cancelled"))
	}
}

func (r *Runner) runLoop(ctx context.Context, s *testcase.LoopStep, res *report.StepResult, depth int) {
	times, err := strconv.Atoi(r.expand(s.Times))
	if err != nil {
		fail(res, stepErrorf(CodeConfig, "loop times is not a number: %q", s.Times))
		return
	}
	for i := 0; i < times && ctx.Err() == nil; i++ {
		r.setVar("loop_index", strconv.Itoa(i))
		res.Children = append(res.Children, r.runItems(ctx, s.Steps, depth+1)...)
	}
	res.Status = aggregateStatus(res.Children)
	res.Message = fmt.Sprintf("%d iteration(s)", times)
}

func (r *Runner) runCondition(ctx context.Context, s *testcase.ConditionStep, res *report.StepResult, depth int) {
	actual := r.vars[s.Variable]
	expected := r.expand(fmt.Sprintf("%v", s.Value))
	ok, err := compare(s.Operator, actual, expected)
	if err != nil {
		fail(res, stepErrorf(CodeConfig, "condition: %v", err))
		return
	}

	branch := s.Then
	if !ok {
		branch = s.Else
	}
	res.Children = r.runItems(ctx, branch, depth+1)
	res.Status = aggregateStatus(res.Children)
	res.Message = fmt.Sprintf("%s %s %v is %t", s.Variable, s.Operator, s.Value, ok)
}

// aggregateStatus derives a compound step's status from its children.
// No children (empty branch) counts as passed.
func aggregateStatus(children []report.StepResult) report.Status {
	status := report.StatusPassed
	for _, c := range children {
		switch c.Status {
		case report.StatusFailed:
			return report.StatusFailed
		case report.StatusErrored:
			status = report.StatusErrored
		}
	}
	return status
}

func stepName(s testcase.Step) string {
	if s.Name() == "" {
		return unnamedStep
	}
	return s.Name()
}

func fail(res *report.StepResult, err *StepError) {
	if err.Code == CodeAssertion {
		res.Status = report.StatusFailed
	} else {
		res.Status = report.StatusErrored
	}
	res.Error = err.Error()
}
