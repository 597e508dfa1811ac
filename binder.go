package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

// CallOption adjusts a single remote operation.
type CallOption func(*callSettings)

type callSettings struct {
	auth     *auth.Handler
	unsigned bool
}

// WithAuth signs this call with explicit credentials, overriding both the
// object's and the client's.
func WithAuth(h *auth.Handler) CallOption {
	return func(s *callSettings) {
		s.auth = h
	}
}

// Unsigned forces the call out unsigned even when credentials are available.
func Unsigned() CallOption {
	return func(s *callSettings) {
		s.unsigned = true
	}
}

func applyCallOptions(opts []CallOption) *callSettings {
	s := &callSettings{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveAuth picks the credentials for a call: explicit option, then the
// object's own, then the client default. Static calls consult the client
// default only while the fallback is enabled (see
// WithoutStaticAuthFallback).
func (c *Client) resolveAuth(self *Object, s *callSettings, static bool) *auth.Handler {
	if s.unsigned {
		return nil
	}
	if s.auth != nil {
		return s.auth
	}
	if self != nil && self.authRef != nil {
		return self.authRef
	}
	if !static || c.staticAuthFallback {
		return c.auth
	}
	return nil
}

// perform is the bound-call shape: it resolves credentials, injects the
// object's identity under its self-parameter name and dispatches through the
// transport. It returns the resolved credentials alongside the payload so
// formatters can hand them down to child objects.
func (c *Client) perform(ctx context.Context, self *Object, m remoteMethod, args Params, opts []CallOption) (transport.Payload, *auth.Handler, error) {
	s := applyCallOptions(opts)
	static := self == nil
	tok := c.resolveAuth(self, s, static)

	if m.needsAuth && tok == nil {
		return nil, nil, &transport.MissingCredentialsError{Method: m.name}
	}

	merged := args.Clone()
	if merged == nil {
		merged = Params{}
	}
	if self != nil {
		if self.ID == "" {
			return nil, nil, &MissingIDError{Variant: self.variant}
		}
		merged[self.selfParam] = self.ID
	}

	co := &transport.CallOptions{NeedsSigning: m.needsAuth}
	if tok != nil {
		co.Signer = tok
	}
	resp, err := c.caller.Call(ctx, m.name, merged, co)
	if err != nil {
		return nil, nil, err
	}
	return resp, tok, nil
}

// call runs an operation whose formatter does not propagate credentials.
// Formatter dispatch is by which helper the method author picked; nothing is
// inferred from the formatter's shape at run time.
func call[T any](ctx context.Context, c *Client, self *Object, m remoteMethod, args Params, format func(transport.Payload) (T, error), opts ...CallOption) (T, error) {
	var zero T
	resp, _, err := c.perform(ctx, self, m, args, opts)
	if err != nil {
		return zero, err
	}
	return format(resp)
}

// callAuth runs an operation whose formatter receives the resolved
// credentials, so child objects built from the response inherit them.
func callAuth[T any](ctx context.Context, c *Client, self *Object, m remoteMethod, args Params, format func(transport.Payload, *auth.Handler) (T, error), opts ...CallOption) (T, error) {
	var zero T
	resp, tok, err := c.perform(ctx, self, m, args, opts)
	if err != nil {
		return zero, err
	}
	return format(resp, tok)
}

// callNone runs an operation whose response carries nothing of interest.
func callNone(ctx context.Context, c *Client, self *Object, m remoteMethod, args Params, opts ...CallOption) error {
	_, _, err := c.perform(ctx, self, m, args, opts)
	return err
}
