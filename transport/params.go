package transport

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params is the parameter mapping sent with a method call. Values may be
// strings, numbers or booleans; everything is flattened to strings before
// request construction, with booleans normalized to "0"/"1".
type Params map[string]any

// oauth material excluded from cache keys: it varies per request even when the
// logical call is identical.
var ignoredCacheFields = map[string]bool{
	"oauth_nonce":     true,
	"oauth_timestamp": true,
	"oauth_signature": true,
}

// Values flattens the mapping into url.Values.
func (p Params) Values() url.Values {
	v := url.Values{}
	for k, val := range p {
		v.Set(k, stringify(val))
	}
	return v
}

// Clone returns a shallow copy so callers can merge defaults without mutating
// the caller-owned mapping.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		// JSON round-trips hand us float64 for whole numbers; keep ids intact.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CacheKey builds a stable key for the fully-encoded request, ignoring oauth
// material that changes on every signature.
func CacheKey(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		if ignoredCacheFields[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v.Get(k)))
	}
	return b.String()
}
