package schemas

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// validateNode checks an instance against a schema node, collecting every
// problem rather than stopping at the first.
func validateNode(schema map[string]any, value any, path string) []string {
	var problems []string

	if enum, ok := schema["enum"].([]any); ok {
		if !enumContains(enum, value) {
			problems = append(problems, fmt.Sprintf("%s: value not in enum", path))
		}
		return problems
	}

	t, _ := schema["type"].(string)
	switch t {
	case "object":
		m, ok := value.(map[string]any)
		if !ok {
			return append(problems, fmt.Sprintf("%s: expected object", path))
		}
		problems = append(problems, validateObject(schema, m, path)...)
	case "array":
		arr, ok := value.([]any)
		if !ok {
			return append(problems, fmt.Sprintf("%s: expected array", path))
		}
		if itemsAny, ok := schema["items"].(map[string]any); ok {
			for i, item := range arr {
				problems = append(problems, validateNode(itemsAny, item, fmt.Sprintf("%s[%d]", path, i))...)
			}
		}
	case "string":
		s, ok := value.(string)
		if !ok {
			return append(problems, fmt.Sprintf("%s: expected string", path))
		}
		if min, ok := numberField(schema, "minLength"); ok && len(s) < int(min) {
			problems = append(problems, fmt.Sprintf("%s: shorter than minLength %d", path, int(min)))
		}
		if max, ok := numberField(schema, "maxLength"); ok && len(s) > int(max) {
			problems = append(problems, fmt.Sprintf("%s: longer than maxLength %d", path, int(max)))
		}
	case "number", "integer":
		n, ok := asNumber(value)
		if !ok {
			return append(problems, fmt.Sprintf("%s: expected %s", path, t))
		}
		if t == "integer" && n != math.Trunc(n) {
			problems = append(problems, fmt.Sprintf("%s: expected integer", path))
		}
		if min, ok := numberField(schema, "minimum"); ok && n < min {
			problems = append(problems, fmt.Sprintf("%s: below minimum %v", path, min))
		}
		if max, ok := numberField(schema, "maximum"); ok && n > max {
			problems = append(problems, fmt.Sprintf("%s: above maximum %v", path, max))
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			problems = append(problems, fmt.Sprintf("%s: expected boolean", path))
		}
	case "":
		// No type constraint on this node.
	default:
		problems = append(problems, fmt.Sprintf("%s: unsupported schema type %q", path, t))
	}

	return problems
}

func validateObject(schema map[string]any, m map[string]any, path string) []string {
	var problems []string

	props, _ := schema["properties"].(map[string]any)

	if reqAny, ok := schema["required"].([]any); ok {
		for _, r := range reqAny {
			key := strings.TrimSpace(fmt.Sprint(r))
			if key == "" {
				continue
			}
			if _, present := m[key]; !present {
				problems = append(problems, fmt.Sprintf("%s: missing required property %q", path, key))
			}
		}
	}

	if ap, ok := schema["additionalProperties"]; ok && ap == false {
		for k := range m {
			if _, declared := props[k]; !declared {
				problems = append(problems, fmt.Sprintf("%s: unexpected property %q", path, k))
			}
		}
	}

	for k, v := range m {
		propSchema, ok := props[k].(map[string]any)
		if !ok {
			continue
		}
		problems = append(problems, validateNode(propSchema, v, path+"."+k)...)
	}

	return problems
}

func enumContains(enum []any, value any) bool {
	for _, e := range enum {
		if e == value {
			return true
		}
		// JSON numbers decode as float64; compare numerically when possible.
		if en, ok := asNumber(e); ok {
			if vn, ok := asNumber(value); ok && en == vn {
				return true
			}
		}
	}
	return false
}

func numberField(schema map[string]any, key string) (float64, bool) {
	return asNumber(schema[key])
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
