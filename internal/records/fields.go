package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Fields is one decoded JSON object. Accessors fall back to a default when
// the field is missing or has the wrong shape, and accept numbers and
// booleans written as strings.
type Fields map[string]any

func (f Fields) Has(name string) bool {
	v, ok := f[name]
	return ok && v != nil
}

func (f Fields) String(name, def string) string {
	switch v := f[name].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return def
}

// OptString returns nil for a missing, null or non-string field.
func (f Fields) OptString(name string) *string {
	if v, ok := f[name].(string); ok {
		return &v
	}
	return nil
}

func (f Fields) Int64(name string, def int64) int64 {
	var s string
	switch v := f[name].(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	case float64:
		return int64(v)
	default:
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(x)
	}
	return def
}

func (f Fields) Int(name string, def int) int {
	return int(f.Int64(name, int64(def)))
}

func (f Fields) Bool(name string, def bool) bool {
	switch v := f[name].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n != 0
		}
	}
	return def
}
