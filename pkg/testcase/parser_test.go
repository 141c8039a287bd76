package testcase

import (
	"strings"
	"testing"
)

func TestParse_FullCase(t *testing.T) {
	content := `name: 登录用例
config:
  base_url: http://api.local
  timeout: 10
  variables:
    user: admin
steps:
  - name: Login
    request:
      url: /api/login
      method: POST
      json:
        username: ${user}
      extract:
        token: data.token
      validate:
        - eq: [status_code, 200]
  - name: Pause
    wait:
      seconds: 2
`
	tc, err := Parse([]byte(content), "case.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.Name != "登录用例" {
		t.Errorf("expected name 登录用例, got %s", tc.Name)
	}
	if tc.Config == nil || tc.Config.BaseURL != "http://api.local" || tc.Config.Timeout != 10 {
		t.Errorf("config not decoded: %+v", tc.Config)
	}
	if v, _ := tc.Config.Variables.Get("user"); v != "admin" {
		t.Errorf("expected variable user=admin, got %v", v)
	}
	if len(tc.Items) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(tc.Items))
	}

	req, ok := tc.Items[0].Step.(*RequestStep)
	if !ok {
		t.Fatalf("expected RequestStep, got %T", tc.Items[0].Step)
	}
	if req.Name() != "Login" || req.URL != "/api/login" || req.Method != "POST" {
		t.Errorf("request not decoded: %+v", req)
	}
	if v, _ := req.JSON.Get("username"); v != "${user}" {
		t.Errorf("json payload not decoded, got %v", v)
	}
	if v, _ := req.Extract.Get("token"); v != "data.token" {
		t.Errorf("extract not decoded, got %v", v)
	}
	if len(req.Validate) != 1 || req.Validate[0].Check != AssertEq {
		t.Fatalf("validate not decoded: %+v", req.Validate)
	}
	if req.Validate[0].Args[0] != "status_code" || req.Validate[0].Args[1] != 200 {
		t.Errorf("assertion args wrong: %v", req.Validate[0].Args)
	}

	wait, ok := tc.Items[1].Step.(*WaitStep)
	if !ok || wait.Seconds != 2 {
		t.Errorf("wait not decoded: %+v", tc.Items[1].Step)
	}
}

func TestParse_NestedSteps(t *testing.T) {
	content := `name: 嵌套
steps:
  - name: Retry
    loop:
      times: "3"
      steps:
        - name: Ping
          request:
            url: /ping
            method: GET
  - name: Branch
    condition:
      variable: status
      operator: eq
      value: ok
      steps:
        - name: T
          wait: 1
      else_steps:
        - name: E
          script: console.log("no")
  - name: Fan out
    concurrent:
      steps:
        - name: A
          wait: 1
        - name: B
          wait: 2
`
	tc, err := Parse([]byte(content), "case.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop := tc.Items[0].Step.(*LoopStep)
	if loop.Times != "3" || len(loop.Steps) != 1 {
		t.Fatalf("loop not decoded: %+v", loop)
	}
	if loop.Steps[0].Step.(*RequestStep).URL != "/ping" {
		t.Error("nested request not decoded")
	}

	cond := tc.Items[1].Step.(*ConditionStep)
	if cond.Variable != "status" || cond.Operator != AssertEq || cond.Value != "ok" {
		t.Fatalf("condition not decoded: %+v", cond)
	}
	if len(cond.Then) != 1 || len(cond.Else) != 1 {
		t.Fatalf("branches not decoded: then=%d else=%d", len(cond.Then), len(cond.Else))
	}
	if cond.Then[0].Step.(*WaitStep).Seconds != 1 {
		t.Error("scalar wait form not decoded")
	}
	script := cond.Else[0].Step.(*ScriptStep)
	if script.Language != "javascript" || !strings.Contains(script.Code, "console.log") {
		t.Errorf("scalar script form not decoded: %+v", script)
	}

	conc := tc.Items[2].Step.(*ConcurrentStep)
	if len(conc.Steps) != 2 {
		t.Fatalf("concurrent children not decoded: %d", len(conc.Steps))
	}
	if conc.Steps[1].Step.(*WaitStep).Seconds != 2 {
		t.Error("second concurrent child not decoded")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"empty", "", "empty test case"},
		{"not a mapping", "- 1\n- 2\n", "must be a mapping"},
		{"missing name", "steps: []\n", "missing case name"},
		{"unknown top-level key", "name: x\nbogus: 1\n", "unknown top-level key"},
		{"unknown step type", "name: x\nsteps:\n  - name: s\n    teleport: {}\n", "unknown step type"},
		{"two payloads", "name: x\nsteps:\n  - name: s\n    wait: 1\n    script: a()\n", "more than one payload"},
		{"bad operator", "name: x\nsteps:\n  - name: s\n    condition:\n      variable: v\n      operator: between\n", "unknown condition operator"},
		{"invalid yaml", "name: [broken\n", "invalid yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "case.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %q", tt.wantMsg, err)
			}
		})
	}
}

func TestParse_UnnamedStepGetsEmptyName(t *testing.T) {
	content := `name: x
steps:
  - wait: 1
`
	tc, err := Parse([]byte(content), "case.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tc.Items[0].Step.Name(); got != "" {
		t.Errorf("expected empty name, got %q", got)
	}
}

func TestProbeName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "name: 登录用例\nsteps: broken [", "登录用例"},
		{"quoted", "name: \"My Case\"\n", "My Case"},
		{"indented", "  name: deep\n", "deep"},
		{"missing", "steps:\n  - wait: 1\n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProbeName(tt.content); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
