package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/apitestkit/apitestkit/pkg/report"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

func (r *Runner) runRequest(ctx context.Context, s *testcase.RequestStep, res *report.StepResult) {
	method := strings.ToUpper(s.Method)
	if method == "" {
		method = http.MethodGet
	}

	target, err := r.buildURL(s)
	if err != nil {
		fail(res, stepErrorf(CodeConfig, "bad request url: %v", err))
		return
	}

	body, contentType, err := r.buildBody(s)
	if err != nil {
		fail(res, stepErrorf(CodeConfig, "bad request body: %v", err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(body))
	if err != nil {
		fail(res, stepErrorf(CodeConfig, "build request: %v", err))
		return
	}
	for _, p := range r.headers {
		req.Header.Set(p.Key, r.expand(fmt.Sprintf("%v", p.Value)))
	}
	for _, p := range s.Headers.Pairs() {
		req.Header.Set(p.Key, r.expand(fmt.Sprintf("%v", p.Value)))
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		fail(res, &StepError{Code: CodeHTTP, Message: "request failed", Cause: err})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		fail(res, &StepError{Code: CodeHTTP, Message: "read response", Cause: err})
		return
	}
	bodyStr := string(data)
	res.Message = fmt.Sprintf("%s %s -> %d", method, target, resp.StatusCode)

	r.extractResponse(s.Extract, resp.StatusCode, bodyStr, res)

	var failures []string
	for _, a := range s.Validate {
		ok, desc := r.checkAssertion(a, resp.StatusCode, bodyStr)
		if !ok {
			failures = append(failures, desc)
		}
	}
	if len(failures) > 0 {
		fail(res, stepErrorf(CodeAssertion, "%s", strings.Join(failures, "; ")))
		return
	}
	res.Status = report.StatusPassed
}

// buildURL joins the case base_url with the step url (absolute step urls
// win), appending query params.
func (r *Runner) buildURL(s *testcase.RequestStep) (string, error) {
	raw := r.expand(s.URL)
	if r.baseURL != "" && !strings.Contains(raw, "://") {
		raw = strings.TrimRight(r.expand(r.baseURL), "/") + "/" + strings.TrimLeft(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if s.Params.Len() > 0 {
		q := u.Query()
		for _, p := range s.Params.Pairs() {
			q.Set(p.Key, r.expand(fmt.Sprintf("%v", p.Value)))
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// buildBody returns the request body and its content type. A raw body
// wins over a structured json block.
func (r *Runner) buildBody(s *testcase.RequestStep) (string, string, error) {
	if s.Body != "" {
		return r.expand(s.Body), "", nil
	}
	if s.JSON.Len() == 0 {
		return "", "", nil
	}
	acc := "{}"
	var err error
	for _, p := range s.JSON.Pairs() {
		value := p.Value
		if str, ok := value.(string); ok {
			value = r.expand(str)
		}
		acc, err = sjson.Set(acc, p.Key, value)
		if err != nil {
			return "", "", err
		}
	}
	return acc, "application/json", nil
}

// extractResponse resolves extract paths against the response and stores
// them as variables. The pseudo-path status_code reads the HTTP status.
func (r *Runner) extractResponse(m *testcase.OrderedMap, statusCode int, body string, res *report.StepResult) {
	if m.Len() == 0 {
		return
	}
	if res.Extracted == nil {
		res.Extracted = make(map[string]string)
	}
	for _, p := range m.Pairs() {
		path := fmt.Sprintf("%v", p.Value)
		var value string
		if path == "status_code" {
			value = strconv.Itoa(statusCode)
		} else {
			value = gjson.Get(body, path).String()
		}
		r.setVar(p.Key, value)
		res.Extracted[p.Key] = value
	}
}

// checkAssertion evaluates one validate entry against the response.
func (r *Runner) checkAssertion(a testcase.Assertion, statusCode int, body string) (bool, string) {
	if len(a.Args) < 2 {
		return false, fmt.Sprintf("%s: needs a target and an expected value", a.Check)
	}

	target := fmt.Sprintf("%v", a.Args[0])
	var actual any
	if target == "status_code" {
		actual = statusCode
	} else {
		got := gjson.Get(body, target)
		if got.Type == gjson.Number {
			actual = got.Num
		} else {
			actual = got.String()
		}
	}

	expected := a.Args[1]
	if str, ok := expected.(string); ok {
		expected = r.expand(str)
	}

	ok, err := compare(a.Check, actual, expected)
	if err != nil {
		return false, fmt.Sprintf("%s %s: %v", a.Check, target, err)
	}
	if !ok {
		return false, fmt.Sprintf("%s %s: expected %v, got %v", a.Check, target, expected, actual)
	}
	return true, ""
}
