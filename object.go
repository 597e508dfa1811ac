package flickr

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/photoflow/go-flickr/auth"
)

// domainObject is implemented by every variant through its embedded Object.
type domainObject interface {
	objectRef() *Object
}

// loaderFunc fetches the full record for an object and returns the fields to
// merge. Variants without a full-record method leave it nil.
type loaderFunc func(ctx context.Context) (map[string]any, error)

// Object is the state shared by every domain variant: the identity used to
// address the object in requests, the credentials it propagates to children,
// the backing field mapping and the lazy-hydration state. Fields are
// immutable from the caller's perspective; they only change when a response
// fragment is merged in during construction or hydration.
type Object struct {
	// ID addresses the object in outgoing requests under the variant's
	// self-parameter name. It is never hydrated on demand: an object without
	// an id cannot issue the hydration call in the first place.
	ID string `mapstructure:"id"`

	client    *Client
	authRef   *auth.Handler
	variant   string
	selfParam string
	fields    map[string]any
	loaded    bool
	loader    loaderFunc
	target    any
}

func (o *Object) objectRef() *Object { return o }

// init wires a freshly constructed variant. target is the outer variant
// struct; its typed fields are decoded from the field mapping.
func (o *Object) init(c *Client, variant, selfParam string, a *auth.Handler, fields map[string]any, target any) {
	o.client = c
	o.variant = variant
	o.selfParam = selfParam
	o.authRef = a
	o.target = target
	o.fields = map[string]any{}
	if fields != nil {
		o.mergeFields(fields)
	}
}

// SetAuth attaches the credentials to use for this object's calls. The object
// only references the handler; it never manages the credential lifecycle.
func (o *Object) SetAuth(a *auth.Handler) { o.authRef = a }

// Auth returns the credentials attached to this object, if any.
func (o *Object) Auth() *auth.Handler { return o.authRef }

// Loaded reports whether the full record has been fetched.
func (o *Object) Loaded() bool { return o.loaded }

// Fields returns the backing field mapping. Treat it as read-only.
func (o *Object) Fields() map[string]any { return o.fields }

// Attr looks up an attribute by name. A miss on a partially constructed
// object triggers exactly one full-record fetch before the lookup is
// retried; afterwards the object counts as hydrated whether or not the
// attribute turned up, so an attribute the service simply does not provide
// is reported absent instead of refetched forever.
func (o *Object) Attr(ctx context.Context, name string) (any, error) {
	if v, ok := o.fields[name]; ok {
		return v, nil
	}
	if name == "id" {
		if o.ID != "" {
			return o.ID, nil
		}
		return nil, &AttributeNotFoundError{Variant: o.variant, Attribute: name}
	}
	if !o.loaded && o.loader != nil {
		if err := o.Load(ctx); err != nil {
			return nil, err
		}
		if v, ok := o.fields[name]; ok {
			return v, nil
		}
	}
	return nil, &AttributeNotFoundError{Variant: o.variant, Attribute: name}
}

// Load fetches the full record and merges it in. The transition to the
// hydrated state is one-directional and happens regardless of what the
// response contained.
func (o *Object) Load(ctx context.Context) error {
	if o.loader == nil {
		return &AttributeNotFoundError{Variant: o.variant, Attribute: "(full record)"}
	}
	props, err := o.loader(ctx)
	if err != nil {
		return err
	}
	o.loaded = true
	o.mergeFields(props)
	return nil
}

// mergeFields folds a response fragment into the field mapping (response
// fields win, omitted fields survive) and refreshes the typed fields on the
// variant struct.
func (o *Object) mergeFields(fields map[string]any) {
	for k, v := range fields {
		o.fields[k] = v
	}
	if id, ok := o.fields["id"]; ok && o.ID == "" {
		o.ID = stringify(id)
	}
	if o.target != nil {
		o.decodeInto(o.target)
	}
}

// decodeInto refreshes the variant's typed fields from the field mapping.
// Values that are already constructed domain objects are excluded: those are
// placed on typed fields by the result formatters and must not be rebuilt by
// a weakly typed decode that would lose their wiring.
func (o *Object) decodeInto(target any) {
	plain := make(map[string]any, len(o.fields))
	for k, v := range o.fields {
		if _, ok := v.(domainObject); ok {
			continue
		}
		plain[k] = v
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return
	}
	// Variants populate whatever subset the remote method returned; a field
	// that fails to convert is still reachable through Attr.
	_ = dec.Decode(plain)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
