// Package methodinfo queries the service's reflection endpoints: the list of
// remote procedures and the per-procedure documentation (arguments, errors,
// required permissions).
package methodinfo

import (
	"context"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	flickr "github.com/photoflow/go-flickr"
	"github.com/photoflow/go-flickr/transport"
)

// Perm is the permission level a remote procedure requires.
type Perm int

const (
	PermNone Perm = iota
	PermRead
	PermWrite
	PermDelete
)

func (p Perm) String() string {
	switch p {
	case PermNone:
		return "none"
	case PermRead:
		return "read"
	case PermWrite:
		return "write"
	case PermDelete:
		return "delete"
	default:
		return fmt.Sprintf("perm(%d)", int(p))
	}
}

// Argument is one documented parameter of a remote procedure.
type Argument struct {
	Name        string `mapstructure:"name"`
	Optional    bool   `mapstructure:"optional"`
	Description string `mapstructure:"text"`
}

// MethodError is one documented error code of a remote procedure.
type MethodError struct {
	Code    int    `mapstructure:"code"`
	Message string `mapstructure:"message"`
}

// Method is the documentation record of one remote procedure.
type Method struct {
	Name          string
	Description   string
	NeedsLogin    bool
	NeedsSigning  bool
	RequiredPerms Perm
	Arguments     []Argument
	Errors        []MethodError
}

// Methods returns the names of every remote procedure the service exposes,
// sorted.
func Methods(ctx context.Context, c *flickr.Client) ([]string, error) {
	r, err := c.Call(ctx, "flickr.reflection.getMethods", nil, flickr.Unsigned())
	if err != nil {
		return nil, err
	}
	entries, ok := dig(r, "methods", "method")
	if !ok {
		return nil, &transport.MalformedResponseError{Method: "flickr.reflection.getMethods", Want: "methods.method"}
	}
	var out []string
	for _, e := range asList(entries) {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Get returns the documentation record of one remote procedure.
func Get(ctx context.Context, c *flickr.Client, name string) (*Method, error) {
	r, err := c.Call(ctx, "flickr.reflection.getMethodInfo", flickr.Params{"method_name": name}, flickr.Unsigned())
	if err != nil {
		return nil, err
	}
	raw, ok := dig(r, "method")
	if !ok {
		return nil, &transport.MalformedResponseError{Method: "flickr.reflection.getMethodInfo", Want: "method"}
	}
	head := asMap(raw)

	m := &Method{Name: name}
	if s, ok := head["name"].(string); ok {
		m.Name = s
	}
	if s, ok := head["description"].(string); ok {
		m.Description = s
	}
	m.NeedsLogin = truthy(head["needslogin"])
	m.NeedsSigning = truthy(head["needssigning"])
	m.RequiredPerms = Perm(intval(head["requiredperms"]))

	if rawArgs, ok := dig(r, "arguments", "argument"); ok {
		for _, a := range asList(rawArgs) {
			var arg Argument
			if decodeWeak(asMap(a), &arg) == nil {
				m.Arguments = append(m.Arguments, arg)
			}
		}
	}
	if rawErrs, ok := dig(r, "errors", "error"); ok {
		for _, e := range asList(rawErrs) {
			errMap := asMap(e)
			if _, ok := errMap["message"]; !ok {
				errMap["message"] = errMap["text"]
			}
			var me MethodError
			if decodeWeak(errMap, &me) == nil {
				m.Errors = append(m.Errors, me)
			}
		}
	}
	return m, nil
}

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

func asList(v any) []any {
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

func decodeWeak(m map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "1" || t == "true"
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

func intval(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		var n int
		fmt.Sscanf(t, "%d", &n)
		return n
	default:
		return 0
	}
}
