// Package common provides shared types and utilities used by all Redmine
// resource clients: query parameter handling, response decoding, and the
// paginating fetch loop.
package common

import "reflect"

// Params holds query parameters for a Redmine request. Values may be
// scalars (string, int, bool, ...) or slices for repeated parameters.
type Params map[string]any

// Sanitize merges overrides over defaults and drops every entry whose value
// is considered unset: boolean false, nil, an empty string, or an empty
// slice/map. A numeric 0 is meaningful and kept.
func Sanitize(defaults, overrides Params) Params {
	merged := make(Params, len(defaults)+len(overrides))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}
	for key, value := range merged {
		if isEmptyValue(value) {
			delete(merged, key)
		}
	}
	return merged
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
