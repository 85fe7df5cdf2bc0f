package main

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseKeyValue splits "key=value" and infers value's type: boolean,
// integer, float, JSON (if it starts with '[' or '{'), else the raw string.
func parseKeyValue(arg string) (string, any, bool) {
	key, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, false
	}
	return key, inferValue(raw), true
}

func inferValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}

	return raw
}
