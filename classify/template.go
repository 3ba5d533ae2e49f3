package classify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// placeholderRe matches {key} tokens. Keys are snake_case field names from
// the backend envelope or regex captures.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// expand substitutes {key} placeholders from ctx. A key with no value is
// left literally in place, so a missing backend field shows up as "{key}"
// in the rendered message instead of vanishing. Substitution is a single
// pass: values are inserted verbatim and never re-scanned, so feeding a
// fully-resolved message back through expand is a no-op.
func expand(template string, ctx map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(token string) string {
		key := token[1 : len(token)-1]
		if v, ok := ctx[key]; ok {
			return v
		}
		return token
	})
}

// formatValue renders an envelope value for substitution. JSON numbers
// decode as float64; format them without a trailing ".0" so counts read
// naturally ("3", not "3.0").
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
