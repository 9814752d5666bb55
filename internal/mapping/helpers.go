// Package mapping decodes loosely typed store records into validated domain
// structs. Every adapter that reads from a store, and the HTTP write path,
// goes through here exactly once.
package mapping

import (
	"strconv"
	"strings"
)

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstAny returns the first non-nil value among paths.
func firstAny(m map[string]any, paths ...string) any {
	for _, p := range paths {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

// stringFlexible: first non-empty string, number rendered as text.
func stringFlexible(m map[string]any, paths ...string) string {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func optString(m map[string]any, paths ...string) *string {
	if s := stringFlexible(m, paths...); s != "" {
		return &s
	}
	return nil
}

// floatFlexible: number from several paths (float64/int/string like "8,0").
func floatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func intFlexible(m map[string]any, paths ...string) int {
	if f := floatFlexible(m, paths...); f != nil {
		return int(*f)
	}
	return 0
}

func boolFlexible(m map[string]any, paths ...string) bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return v
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "ja", "1":
				return true
			case "false", "no", "nee", "0":
				return false
			}
		case float64:
			return v != 0
		}
	}
	return false
}

// objects returns the first []any found under paths, keeping only map entries
// and wrapping plain strings as {key: s}.
func objects(m map[string]any, key string, paths ...string) []map[string]any {
	for _, p := range paths {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case map[string]any:
				out = append(out, t)
			case string:
				if s := strings.TrimSpace(t); s != "" {
					out = append(out, map[string]any{key: s})
				}
			}
		}
		return out
	}
	return nil
}

// stringSlice: accept []any with either strings or {url/src/id}.
func stringSlice(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if s := strings.TrimSpace(t); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := stringFlexible(t, "url", "src", "id"); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}
