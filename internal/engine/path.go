package engine

import "strings"

// Resolve walks a dot-separated field path through nested string-keyed
// maps. Missing or non-map intermediate values resolve to (nil, false)
// rather than an error: absent data is expected in rule contexts.
// Array indexing is not supported.
func Resolve(context map[string]interface{}, path string) (interface{}, bool) {
	if context == nil || path == "" {
		return nil, false
	}

	var current interface{} = context
	for _, field := range strings.Split(path, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, exists := node[field]
		if !exists || value == nil {
			return nil, false
		}
		current = value
	}
	return current, true
}
