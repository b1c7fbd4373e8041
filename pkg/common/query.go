package common

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// EncodeQuery serializes params into a query string. Slice values are
// serialized in the repeated non-indexed form the Redmine server expects
// (`key[]=a&key[]=b`, never `key[0]=a&key[1]=b`). Keys are emitted in
// sorted order so the output is deterministic.
func EncodeQuery(params Params) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		switch value := params[key].(type) {
		case []string:
			for _, item := range value {
				parts = append(parts, url.QueryEscape(key+"[]")+"="+url.QueryEscape(item))
			}
		case []int:
			for _, item := range value {
				parts = append(parts, url.QueryEscape(key+"[]")+"="+strconv.Itoa(item))
			}
		case []any:
			for _, item := range value {
				parts = append(parts, url.QueryEscape(key+"[]")+"="+url.QueryEscape(scalarString(item)))
			}
		default:
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(scalarString(value)))
		}
	}
	return strings.Join(parts, "&")
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		// JSON numbers decode as float64; render integral ones without a dot.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
