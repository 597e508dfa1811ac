package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mTestEcho  = bind("Client.TestEcho", "flickr.test.echo")
	mTestLogin = bindAuth("Client.TestLogin", "flickr.test.login")
	mTestNull  = bindAuth("Client.TestNull", "flickr.test.null")
)

// TestEcho calls the echo endpoint and returns the reflected parameters.
func (c *Client) TestEcho(ctx context.Context, args Params, opts ...CallOption) (transport.Payload, error) {
	return call(ctx, c, nil, mTestEcho, args,
		func(r transport.Payload) (transport.Payload, error) {
			return r, nil
		}, opts...)
}

// TestLogin verifies the configured credentials and returns the calling user.
func (c *Client) TestLogin(ctx context.Context, opts ...CallOption) (*Person, error) {
	return callAuth(ctx, c, nil, mTestLogin, nil,
		func(r transport.Payload, tok *auth.Handler) (*Person, error) {
			user, err := digMap(r, "user")
			if err != nil {
				return nil, err
			}
			return c.newPerson(tok, user), nil
		}, opts...)
}

// TestNull makes a signed no-op call.
func (c *Client) TestNull(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, c, nil, mTestNull, nil, opts...)
}
