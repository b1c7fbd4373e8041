package common

// Merge recursively merges src into dst and returns dst. When a key exists
// on both sides: slice values concatenate, map values merge recursively, and
// any other collision combines both values into a sequence. Pages of a
// paginated collection are combined this way, so array-valued keys (e.g.
// "issues") accumulate across chunks and scalar envelope fields ("limit",
// "total_count", ...) grow into one entry per page.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, srcValue := range src {
		dstValue, exists := dst[key]
		if !exists {
			dst[key] = srcValue
			continue
		}
		if dv, ok := dstValue.(map[string]any); ok {
			if sv, ok := srcValue.(map[string]any); ok {
				dst[key] = Merge(dv, sv)
				continue
			}
		}
		dst[key] = append(asSequence(dstValue), asSequence(srcValue)...)
	}
	return dst
}

// asSequence wraps a non-slice value so a collision always combines both
// sides instead of one overwriting the other.
func asSequence(value any) []any {
	if seq, ok := value.([]any); ok {
		return seq
	}
	return []any{value}
}
