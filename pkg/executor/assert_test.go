package executor

import (
	"testing"

	"github.com/apitestkit/apitestkit/pkg/testcase"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		op       testcase.AssertionType
		actual   any
		expected any
		want     bool
		wantErr  bool
	}{
		{"eq numbers", testcase.AssertEq, 200, "200", true, false},
		{"eq numeric string forms", testcase.AssertEq, "1.0", "1", true, false},
		{"eq strings", testcase.AssertEq, "ok", "ok", true, false},
		{"eq mismatch", testcase.AssertEq, "ok", "nope", false, false},
		{"ne", testcase.AssertNe, 404, 200, true, false},
		{"lt", testcase.AssertLt, 1, 2, true, false},
		{"le equal", testcase.AssertLe, 2, 2, true, false},
		{"gt", testcase.AssertGt, 3.5, "3", true, false},
		{"ge fails", testcase.AssertGe, 1, 2, false, false},
		{"lt non-numeric", testcase.AssertLt, "abc", 2, false, true},
		{"contains", testcase.AssertContains, "hello world", "world", true, false},
		{"contains missing", testcase.AssertContains, "hello", "bye", false, false},
		{"regex", testcase.AssertRegex, "user-42", `^user-\d+$`, true, false},
		{"regex no match", testcase.AssertRegex, "guest", `^user-\d+$`, false, false},
		{"regex bad pattern", testcase.AssertRegex, "x", "([", false, true},
		{"unknown operator", testcase.AssertionType("between"), 1, 2, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compare(tt.op, tt.actual, tt.expected)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("compare(%s, %v, %v) = %t, want %t", tt.op, tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}
