package firestore

import (
	"encoding/json"
	"sort"
	"strings"
)

// NormalizeFields prepares a decoded catalog document for the Firestore
// client. json.Number values become int64 when written without a fraction or
// exponent and float64 otherwise; float64 values are left as doubles so one
// field keeps one Firestore type across documents.
func NormalizeFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return map[string]interface{}{}
	}
	normalized := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		normalized[key] = normalizeValue(value)
	}
	return normalized
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		return normalizeNumber(v)
	case float32:
		return float64(v)
	case map[string]interface{}:
		return NormalizeFields(v)
	case []interface{}:
		values := make([]interface{}, 0, len(v))
		for _, item := range v {
			values = append(values, normalizeValue(item))
		}
		return values
	default:
		return v
	}
}

func normalizeNumber(n json.Number) interface{} {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return s
}

// FieldNames returns the sorted top-level field names
func FieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
