package template

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Extract pulls values out of a JSON response body using JSONPath-style
// rules ($.foo.bar, $.items[0].id) mapped to workflow variable names.
func Extract(body []byte, rules map[string]string) (map[string]any, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.New("response body is not valid JSON")
	}

	result := make(map[string]any, len(rules))
	for varName, jsonPath := range rules {
		value := gjson.GetBytes(body, convertJSONPath(jsonPath))
		if !value.Exists() {
			return nil, errors.Errorf("path %q not found for variable %q", jsonPath, varName)
		}
		result[varName] = value.Value()
	}
	return result, nil
}

// convertJSONPath converts JSONPath syntax to gjson path format:
// $.foo.bar -> foo.bar, $.items[0].id -> items.0.id, [*] -> #.
func convertJSONPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")

	var b strings.Builder
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			b.WriteByte('.')
		case ']':
			// dropped; the index already got its dot
		case '*':
			b.WriteByte('#')
		default:
			b.WriteByte(path[i])
		}
	}
	return b.String()
}
