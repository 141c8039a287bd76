package executor

import (
	"context"
	"sync"

	"github.com/apitestkit/apitestkit/pkg/jsengine"
	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

// runConcurrent fans the child steps out on goroutines. Each branch gets
// a forked runner seeded with a snapshot of the current variables, so
// branch-local extracts never race; they stay branch-local by design of
// the step semantics.
func (r *Runner) runConcurrent(ctx context.Context, s *testcase.ConcurrentStep, res *report.StepResult, depth int) {
	var enabled []*testcase.Item
	for _, it := range s.Steps {
		if it.IsEnabled() {
			enabled = append(enabled, it)
		}
	}
	if len(enabled) == 0 {
		res.Status = report.StatusPassed
		res.Message = "no steps"
		return
	}

	results := make([]report.StepResult, len(enabled))
	var wg sync.WaitGroup
	for i, it := range enabled {
		wg.Add(1)
		go func(idx int, item *testcase.Item) {
			defer wg.Done()
			sub := r.fork()
			results[idx] = sub.runItem(ctx, item, depth+1)
		}(i, it)
	}
	wg.Wait()

	res.Children = results
	res.Status = aggregateStatus(results)
}

// fork clones the runner for one concurrent branch: shared HTTP client
// and options, private variable scope and JS engine.
func (r *Runner) fork() *Runner {
	sub := &Runner{
		opts:    r.opts,
		http:    r.http,
		js:      jsengine.New(),
		vars:    make(map[string]string, len(r.vars)),
		baseURL: r.baseURL,
		headers: r.headers,
	}
	sub.opts.OnStepComplete = r.opts.OnStepComplete
	for k, v := range r.vars {
		sub.setVar(k, v)
	}
	return sub
}
