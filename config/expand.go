package config

import "strings"

// Expand replaces {{name}} placeholders in input with values from vars.
// Unknown placeholders are left as they are.
func Expand(input string, vars map[string]string) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ExpandMap applies Expand to every value of input. A nil map stays nil.
func ExpandMap(input map[string]string, vars map[string]string) map[string]string {
	if input == nil {
		return nil
	}

	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = Expand(value, vars)
	}
	return result
}

// ExpandValues applies Expand to the string values of a body, including
// strings inside lists. A nil map stays nil.
func ExpandValues(input map[string]any, vars map[string]string) map[string]any {
	if input == nil {
		return nil
	}

	result := make(map[string]any, len(input))
	for key, value := range input {
		switch v := value.(type) {
		case string:
			result[key] = Expand(v, vars)
		case []any:
			items := make([]any, len(v))
			for i, item := range v {
				if s, ok := item.(string); ok {
					items[i] = Expand(s, vars)
				} else {
					items[i] = item
				}
			}
			result[key] = items
		default:
			result[key] = value
		}
	}
	return result
}

// MergeVariables merges two variable sets, with override taking precedence.
func MergeVariables(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
