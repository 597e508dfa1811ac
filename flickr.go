// Package flickr is a typed, object-oriented client for the Flickr REST API.
// Remote operations are invoked as methods on domain objects (Photo, Person,
// Photoset, ...); request signing, envelope unwrapping and pagination are
// handled underneath.
package flickr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/cache"
	"github.com/photoflow/go-flickr/config"
	"github.com/photoflow/go-flickr/transport"
)

// Default endpoints for the upload path, which does not go through the REST
// caller.
const (
	DefaultUploadURL  = "https://api.flickr.com/services/upload/"
	DefaultReplaceURL = "https://api.flickr.com/services/replace/"
)

// Params is the parameter mapping passed to remote operations.
type Params = transport.Params

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for REST calls, uploads and photo
// downloads.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRestURL sets a custom REST endpoint.
func WithRestURL(restURL string) Option {
	return func(c *Client) {
		c.restURL = restURL
	}
}

// WithUploadURL sets custom upload and replace endpoints.
func WithUploadURL(uploadURL, replaceURL string) Option {
	return func(c *Client) {
		if uploadURL != "" {
			c.uploadURL = strings.TrimSuffix(uploadURL, "/") + "/"
		}
		if replaceURL != "" {
			c.replaceURL = strings.TrimSuffix(replaceURL, "/") + "/"
		}
	}
}

// WithAuthHandler sets the client-wide default credentials, used when neither
// the call nor the object carries its own.
func WithAuthHandler(h *auth.Handler) Option {
	return func(c *Client) {
		c.auth = h
	}
}

// WithCache enables the response cache.
func WithCache(store transport.Cache) Option {
	return func(c *Client) {
		c.cache = store
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracing instruments outgoing HTTP with OpenTelemetry.
func WithTracing() Option {
	return func(c *Client) {
		c.traced = true
	}
}

// WithoutStaticAuthFallback stops static (class-level) operations from
// falling back to the client-wide credentials. Bound operations always fall
// back; the reference behavior diverged between the two paths, so here it is
// an explicit switch.
func WithoutStaticAuthFallback() Option {
	return func(c *Client) {
		c.staticAuthFallback = false
	}
}

// Client is the context object every call threads through: credentials,
// transport, cache and logging. It replaces the process-wide mutable globals
// of older client generations, so separate clients never share hidden state.
type Client struct {
	apiKey    string
	apiSecret string

	caller     *transport.Caller
	httpClient *http.Client
	logger     *slog.Logger
	cache      transport.Cache
	auth       *auth.Handler
	traced     bool

	restURL    string
	uploadURL  string
	replaceURL string

	staticAuthFallback bool
}

// New creates a client for the given consumer credentials.
func New(apiKey, apiSecret string, opts ...Option) *Client {
	c := &Client{
		apiKey:             apiKey,
		apiSecret:          apiSecret,
		httpClient:         http.DefaultClient,
		logger:             slog.Default(),
		restURL:            transport.DefaultRestURL,
		uploadURL:          DefaultUploadURL,
		replaceURL:         DefaultReplaceURL,
		staticAuthFallback: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	callerOpts := []transport.Option{
		transport.WithHTTPClient(c.httpClient),
		transport.WithRestURL(c.restURL),
		transport.WithLogger(c.logger),
	}
	if c.cache != nil {
		callerOpts = append(callerOpts, transport.WithCache(c.cache))
	}
	if c.traced {
		callerOpts = append(callerOpts, transport.WithTracing())
	}
	c.caller = transport.NewCaller(apiKey, callerOpts...)
	return c
}

// FromConfig builds a client from loaded configuration: credentials, cache
// selection and a saved access token if one is configured.
func FromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("flickr: API keys have not been set")
	}

	var base []Option
	if cfg.RestURL != "" {
		base = append(base, WithRestURL(cfg.RestURL))
	}
	if cfg.UploadURL != "" || cfg.ReplaceURL != "" {
		base = append(base, WithUploadURL(cfg.UploadURL, cfg.ReplaceURL))
	}
	if cfg.Tracing {
		base = append(base, WithTracing())
	}

	switch cfg.Cache.Type {
	case "", "none":
	case "memory":
		base = append(base, WithCache(cache.NewMemory(cfg.Cache.TTL, cfg.Cache.MaxEntries)))
	case "bigcache":
		store, err := cache.NewBigCache(cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("flickr: building bigcache: %w", err)
		}
		base = append(base, WithCache(store))
	case "sqlite":
		store, err := cache.NewSQLite(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("flickr: building sqlite cache: %w", err)
		}
		base = append(base, WithCache(store))
	default:
		return nil, fmt.Errorf("flickr: unknown cache type %q", cfg.Cache.Type)
	}

	if cfg.AuthFile != "" {
		h, err := auth.LoadFile(cfg.AuthFile, cfg.APIKey, cfg.APISecret)
		if err != nil {
			return nil, fmt.Errorf("flickr: loading auth file: %w", err)
		}
		base = append(base, WithAuthHandler(h))
	}

	return New(cfg.APIKey, cfg.APISecret, append(base, opts...)...), nil
}

// AuthHandler returns the client-wide default credentials, if set.
func (c *Client) AuthHandler() *auth.Handler { return c.auth }

// NewAuthHandler creates an auth handler from the client's consumer
// credentials, ready for the authorization flow.
func (c *Client) NewAuthHandler(opts ...auth.Option) (*auth.Handler, error) {
	opts = append([]auth.Option{auth.WithHTTPClient(c.httpClient)}, opts...)
	return auth.NewHandler(c.apiKey, c.apiSecret, opts...)
}

// Call invokes a remote procedure by name and returns the decoded payload,
// an escape hatch for methods without a typed binding. Credentials resolve
// the same way as for static bound calls; pass Unsigned to skip signing.
func (c *Client) Call(ctx context.Context, method string, args Params, opts ...CallOption) (transport.Payload, error) {
	resp, _, err := c.perform(ctx, nil, remoteMethod{name: method}, args, opts)
	return resp, err
}

// CallRaw invokes a remote procedure by name and returns the raw response
// body, an escape hatch for methods without a typed binding.
func (c *Client) CallRaw(ctx context.Context, method string, args Params, opts ...CallOption) ([]byte, error) {
	s := applyCallOptions(opts)
	tok := c.resolveAuth(nil, s, true)
	co := &transport.CallOptions{}
	if tok != nil {
		co.Signer = tok
	}
	return c.caller.Raw(ctx, method, args, co)
}
