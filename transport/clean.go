package transport

// contentKey is the wrapper key the REST format uses to nest primitive text
// values inside a one-field object.
const contentKey = "_content"

// CleanContent recursively rewrites a decoded envelope so the "_content"
// wrapping convention disappears: a map whose only key is "_content" collapses
// to its bare value, and a multi-key map containing "_content" has that key
// renamed to "text". Already-clean structures pass through unchanged.
func CleanContent(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if inner, ok := t[contentKey]; ok && len(t) == 1 {
			return CleanContent(inner)
		}
		clean := make(map[string]any, len(t))
		for k, val := range t {
			if k == contentKey {
				k = "text"
			}
			clean[k] = CleanContent(val)
		}
		return clean
	case []any:
		clean := make([]any, len(t))
		for i, item := range t {
			clean[i] = CleanContent(item)
		}
		return clean
	default:
		return v
	}
}
