package secrets

import (
	"encoding/json"
	"fmt"
	"strings"
)

const defaultField = "value"

// splitPath separates "name#field" into its parts.
func splitPath(path string) (name, field string) {
	if i := strings.LastIndexByte(path, '#'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// pickField extracts field from a JSON object body. With no field requested
// a non-JSON body is returned whole, trimmed.
func pickField(body, field string) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		if field != "" {
			return "", fmt.Errorf("field %q requested but secret is not a JSON object", field)
		}
		return strings.TrimSpace(body), nil
	}
	return fromMap(obj, field)
}

// fromMap returns the string at field, or at "value" when field is empty.
func fromMap(obj map[string]interface{}, field string) (string, error) {
	if field == "" {
		field = defaultField
	}
	value, _ := obj[field].(string)
	if value == "" {
		return "", fmt.Errorf("secret field %q is empty or missing", field)
	}
	return value, nil
}
