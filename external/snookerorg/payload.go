package snookerorg

import (
	"strconv"
	"strings"
)

// The API is inconsistent about payload shapes: singular resources sometimes
// arrive as a one-element list, list resources sometimes as a bare object.
// Everything downstream works on map[string]any rows normalized here.

func firstObject(payload any) map[string]any {
	switch typed := payload.(type) {
	case []any:
		if len(typed) == 0 {
			return map[string]any{}
		}
		if row, ok := typed[0].(map[string]any); ok {
			return row
		}
		return map[string]any{}
	case map[string]any:
		return typed
	default:
		return map[string]any{}
	}
}

func objectList(payload any) []map[string]any {
	switch typed := payload.(type) {
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, row)
		}
		return out
	case map[string]any:
		return []map[string]any{typed}
	default:
		return []map[string]any{}
	}
}

// StringField returns the first present, non-empty candidate field as a
// trimmed string. Numeric values are stringified; nil and "" are skipped.
func StringField(src map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		value := stringify(raw)
		if value != "" {
			return value
		}
	}
	return ""
}

// IntField returns the first candidate field holding an integer-parseable
// value. The second return reports whether any candidate parsed.
func IntField(src map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := parseInt(raw); ok {
			return value, true
		}
	}
	return 0, false
}

// BoolField returns the first present candidate field interpreted as a bool.
func BoolField(src map[string]any, keys ...string) bool {
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case bool:
			return typed
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
			if err == nil {
				return parsed
			}
		case float64:
			return typed != 0
		}
	}
	return false
}

func stringify(raw any) string {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

func parseInt(raw any) (int, bool) {
	switch typed := raw.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		value := strings.TrimSpace(typed)
		if value == "" {
			return 0, false
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func payloadKeys(src map[string]any) []string {
	out := make([]string, 0, len(src))
	for key := range src {
		out = append(out, key)
	}
	return out
}
