// Package transport performs the calls to the REST interface: it encodes
// parameter mappings, dispatches signed or unsigned requests, unwraps the
// response envelope and normalizes its text-wrapping convention.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultRestURL is the production REST endpoint.
const DefaultRestURL = "https://api.flickr.com/services/rest/"

// Signer completes a parameter set with authentication material (oauth token,
// nonce, signature) for a request to the given URL. Implementations own the
// credential lifecycle; the transport only borrows them for one request.
type Signer interface {
	Sign(httpMethod, requestURL string, params url.Values) (url.Values, error)
}

// Cache is the pluggable response cache consulted before each round-trip.
// Entries are immutable once set; population and eviction policy belong to the
// implementation. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Contains(key string) bool
}

// Payload is a decoded, content-cleaned response envelope.
type Payload = map[string]any

// Option configures the caller.
type Option func(*Caller)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Caller) {
		c.httpClient = httpClient
	}
}

// WithRestURL sets a custom REST endpoint.
func WithRestURL(restURL string) Option {
	return func(c *Caller) {
		c.restURL = strings.TrimSuffix(restURL, "/") + "/"
	}
}

// WithCache enables the response cache.
func WithCache(cache Cache) Option {
	return func(c *Caller) {
		c.cache = cache
	}
}

// WithLogger sets the logger used for call and cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Caller) {
		c.logger = logger
	}
}

// WithTracing instruments the HTTP transport with OpenTelemetry.
func WithTracing() Option {
	return func(c *Caller) {
		c.traced = true
	}
}

// Caller dispatches method calls to the REST interface.
type Caller struct {
	restURL    string
	apiKey     string
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
	traced     bool
}

// NewCaller creates a caller for the given API key.
func NewCaller(apiKey string, opts ...Option) *Caller {
	c := &Caller{
		restURL:    DefaultRestURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.traced {
		base := c.httpClient.Transport
		instrumented := *c.httpClient
		instrumented.Transport = otelhttp.NewTransport(base)
		c.httpClient = &instrumented
	}
	return c
}

// CallOptions carries per-call options.
type CallOptions struct {
	// Signer completes the parameters with oauth material. Nil means the call
	// goes out unsigned.
	Signer Signer

	// NeedsSigning marks methods that refuse unsigned requests. When set and
	// no Signer is available the call fails before touching the network.
	NeedsSigning bool
}

// Call performs a method call and returns the decoded, content-cleaned
// envelope. Application-level failures surface as *APIError, HTTP-layer
// failures as *ServerError; neither is ever retried here.
func (c *Caller) Call(ctx context.Context, method string, params Params, opts *CallOptions) (Payload, error) {
	body, err := c.roundTrip(ctx, method, params, opts, false)
	if err != nil {
		return nil, err
	}

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Method: method, Want: "JSON envelope"}
	}

	if stat, _ := envelope["stat"].(string); stat != "ok" {
		return nil, &APIError{
			Code:    intField(envelope, "code"),
			Message: stringField(envelope, "message"),
		}
	}

	return CleanContent(envelope).(map[string]any), nil
}

// Raw performs a method call and returns the response body untouched. Only
// the upload path and the direct method proxy use this.
func (c *Caller) Raw(ctx context.Context, method string, params Params, opts *CallOptions) ([]byte, error) {
	return c.roundTrip(ctx, method, params, opts, true)
}

func (c *Caller) roundTrip(ctx context.Context, method string, params Params, opts *CallOptions, raw bool) ([]byte, error) {
	if opts == nil {
		opts = &CallOptions{}
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("the API key has not been set")
	}

	merged := params.Clone()
	if merged == nil {
		merged = Params{}
	}
	merged["method"] = method
	merged["api_key"] = c.apiKey
	if !raw {
		merged["format"] = "json"
		merged["nojsoncallback"] = 1
	}

	values := merged.Values()
	if opts.Signer != nil {
		signed, err := opts.Signer.Sign(http.MethodPost, c.restURL, values)
		if err != nil {
			return nil, fmt.Errorf("signing request for %s: %w", method, err)
		}
		values = signed
	} else if opts.NeedsSigning {
		return nil, &MissingCredentialsError{Method: method}
	}

	key := CacheKey(values)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug("response cache hit", slog.String("method", method))
			return body, nil
		}
		c.logger.Debug("response cache miss", slog.String("method", method))
	}

	c.logger.Debug("calling method", slog.String("method", method))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", method, err)
	}

	if resp.StatusCode >= 500 && resp.StatusCode < 600 {
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if c.cache != nil && !c.cache.Contains(key) {
		c.cache.Set(key, body)
	}

	return body, nil
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	case int:
		return v
	default:
		return 0
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
