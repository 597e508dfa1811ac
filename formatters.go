package flickr

import (
	"strings"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

// dig walks nested maps along path.
func dig(p map[string]any, path ...string) (any, bool) {
	var cur any = p
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// digMap walks nested maps along path and requires a mapping at the end.
func digMap(p map[string]any, path ...string) (map[string]any, error) {
	v, ok := dig(p, path...)
	if !ok {
		return nil, &transport.MalformedResponseError{Want: strings.Join(path, ".")}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &transport.MalformedResponseError{Want: strings.Join(path, ".") + " mapping"}
	}
	return m, nil
}

// digList walks nested maps along path and normalizes the result to a slice:
// the wire format flattens single-element lists to a bare element.
func digList(p map[string]any, path ...string) ([]any, error) {
	v, ok := dig(p, path...)
	if !ok {
		return nil, &transport.MalformedResponseError{Want: strings.Join(path, ".") + " list"}
	}
	return checkList(v), nil
}

// checkList wraps a bare element in a one-item slice.
func checkList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{v}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

// objectID accepts either a domain object or a plain id string, so call
// sites can pass whichever they hold.
func objectID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case domainObject:
		return t.objectRef().ID
	default:
		return ""
	}
}

// joinExtras flattens a list-valued "extras" parameter to the comma-separated
// form the API expects.
func joinExtras(args Params) Params {
	if args == nil {
		return args
	}
	if l, ok := args["extras"].([]string); ok {
		args["extras"] = strings.Join(l, ", ")
	}
	return args
}

// listInfo extracts pagination metadata from a list section, ignoring the
// item key itself.
func listInfo(section map[string]any, itemKey string) Info {
	meta := make(map[string]any, len(section))
	for k, v := range section {
		if k == itemKey {
			continue
		}
		meta[k] = v
	}
	return parseInfo(meta)
}

// extractPhotoList builds the canonical paginated photo list: one Photo per
// entry with its owner wrapped as a Person, credentials propagated to both.
func extractPhotoList(c *Client, tok *auth.Handler, r transport.Payload, topKey string) (*List[*Photo], error) {
	section, err := digMap(r, topKey)
	if err != nil {
		return nil, err
	}
	entries, err := digList(section, "photo")
	if err != nil {
		return nil, err
	}

	photos := make([]*Photo, 0, len(entries))
	for _, e := range entries {
		fields := asMap(e)
		if ownerID, ok := fields["owner"].(string); ok {
			fields["owner"] = c.newPerson(tok, map[string]any{"id": ownerID})
		}
		photos = append(photos, c.newPhoto(tok, fields))
	}
	return &List[*Photo]{Items: photos, Info: listInfo(section, "photo")}, nil
}
