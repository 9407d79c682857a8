// Package devutil holds helpers for the command-line tools' output.
package devutil

import (
	"encoding/json"
	"strings"
)

// Pick round-trips v through JSON and keeps only the requested keys, so it
// honours json tags. Unknown keys are ignored; a value that does not encode
// to a JSON object yields an empty map.
func Pick(v any, keys ...string) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		}
	}
	return out
}

// SplitFields parses a comma-separated -fields flag, dropping blanks.
func SplitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
