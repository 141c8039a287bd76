package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/apitestkit/apitestkit/pkg/testcase"
)

// compare evaluates actual against expected with the given operator.
// eq/ne compare numerically when both sides parse as numbers, as strings
// otherwise; the ordering operators require numbers; contains and regex
// work on the string forms.
func compare(op testcase.AssertionType, actual, expected any) (bool, error) {
	switch op {
	case testcase.AssertEq:
		return looseEqual(actual, expected), nil
	case testcase.AssertNe:
		return !looseEqual(actual, expected), nil

	case testcase.AssertLt, testcase.AssertLe, testcase.AssertGt, testcase.AssertGe:
		a, aok := toFloat(actual)
		e, eok := toFloat(expected)
		if !aok || !eok {
			return false, fmt.Errorf("%s requires numeric operands (%v, %v)", op, actual, expected)
		}
		switch op {
		case testcase.AssertLt:
			return a < e, nil
		case testcase.AssertLe:
			return a <= e, nil
		case testcase.AssertGt:
			return a > e, nil
		default:
			return a >= e, nil
		}

	case testcase.AssertContains:
		return strings.Contains(toString(actual), toString(expected)), nil

	case testcase.AssertRegex:
		matched, err := regexp.MatchString(toString(expected), toString(actual))
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", toString(expected), err)
		}
		return matched, nil

	default:
		return false, fmt.Errorf("unknown operator: %s", op)
	}
}

func looseEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return toString(a) == toString(b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
