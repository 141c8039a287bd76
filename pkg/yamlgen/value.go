package yamlgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// yamlSpecial is the set of characters that force quoting of a scalar:
// whitespace plus the YAML flow indicators the engine's reader treats as
// significant.
const yamlSpecial = " \t\n\"{}[]:,"

// FormatValue renders a scalar for the engine dialect. Strings containing
// whitespace or YAML-significant characters are double-quoted verbatim;
// numbers render in decimal; booleans and null as their literals. Anything
// else falls back to its JSON encoding.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.ContainsAny(x, yamlSpecial) {
			return `"` + x + `"`
		}
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
