// Package auth implements the OAuth 1.0a authentication flow used by the
// photo service: request-token fetch, user authorization, verifier exchange
// and per-request HMAC-SHA1 signing. A Handler doubles as the credential
// reference propagated to domain objects, which identifies the credentials to
// sign with but never owns their lifecycle.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const (
	// TokenRequestURL is the request-token endpoint.
	TokenRequestURL = "https://www.flickr.com/services/oauth/request_token"
	// AuthorizeURL is where the user grants permissions.
	AuthorizeURL = "https://www.flickr.com/services/oauth/authorize"
	// AccessTokenURL exchanges a verified request token for an access token.
	AccessTokenURL = "https://www.flickr.com/services/oauth/access_token"
)

// Token is an oauth token/secret pair, either a request token awaiting
// verification or a granted access token.
type Token struct {
	Key    string
	Secret string
}

// Option configures a Handler.
type Option func(*Handler)

// WithHTTPClient sets the HTTP client used for the token exchange endpoints.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(h *Handler) {
		h.httpClient = httpClient
	}
}

// WithCallback sets the callback URL the user is redirected to after
// authorizing. Out-of-band ("oob") flows can leave the default.
func WithCallback(callback string) Option {
	return func(h *Handler) {
		h.callback = callback
	}
}

// WithEndpoints overrides the oauth endpoints, for tests.
func WithEndpoints(request, authorize, access string) Option {
	return func(h *Handler) {
		h.requestURL = request
		h.authorizeURL = authorize
		h.accessURL = access
	}
}

// Handler holds consumer credentials plus at most one of a request token or
// an access token, and signs outgoing requests with them.
type Handler struct {
	key    string
	secret string

	callback     string
	requestURL   string
	authorizeURL string
	accessURL    string
	httpClient   *http.Client

	requestToken *Token
	accessToken  *Token
}

// NewHandler creates a handler from consumer credentials. Unlike the granted
// tokens, the consumer key and secret are always required for signing.
func NewHandler(key, secret string, opts ...Option) (*Handler, error) {
	if key == "" || secret == "" {
		return nil, errors.New("auth: API keys have not been set")
	}
	h := &Handler{
		key:          key,
		secret:       secret,
		requestURL:   TokenRequestURL,
		authorizeURL: AuthorizeURL,
		accessURL:    AccessTokenURL,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.callback == "" {
		h.callback = "oob"
	}
	return h, nil
}

// NewHandlerWithToken creates a handler around an already granted access
// token, skipping the authorization flow entirely.
func NewHandlerWithToken(key, secret string, token *Token, opts ...Option) (*Handler, error) {
	h, err := NewHandler(key, secret, opts...)
	if err != nil {
		return nil, err
	}
	h.accessToken = token
	return h, nil
}

// Key returns the consumer key.
func (h *Handler) Key() string { return h.key }

// AccessToken returns the granted access token, or nil before the exchange.
func (h *Handler) AccessToken() *Token { return h.accessToken }

// FetchRequestToken obtains a fresh request token. It must be called before
// AuthorizationURL when no access token is loaded.
func (h *Handler) FetchRequestToken(ctx context.Context) error {
	params := url.Values{}
	params.Set("oauth_callback", h.callback)
	body, err := h.tokenRequest(ctx, h.requestURL, params, nil)
	if err != nil {
		return fmt.Errorf("fetching request token: %w", err)
	}
	tok, err := parseTokenResponse(body)
	if err != nil {
		return fmt.Errorf("fetching request token: %w", err)
	}
	h.requestToken = tok
	h.accessToken = nil
	return nil
}

// AuthorizationURL returns the URL the user must visit to grant the given
// permission level (read, write or delete).
func (h *Handler) AuthorizationURL(perms string) (string, error) {
	if h.requestToken == nil {
		return "", errors.New("auth: request token is not set; call FetchRequestToken first")
	}
	return fmt.Sprintf("%s?oauth_token=%s&perms=%s",
		h.authorizeURL, url.QueryEscape(h.requestToken.Key), url.QueryEscape(perms)), nil
}

// ExchangeVerifier trades the verified request token for an access token.
func (h *Handler) ExchangeVerifier(ctx context.Context, verifier string) error {
	if h.requestToken == nil {
		return errors.New("auth: request token is not set; call FetchRequestToken first")
	}
	params := url.Values{}
	params.Set("oauth_token", h.requestToken.Key)
	params.Set("oauth_verifier", verifier)
	body, err := h.tokenRequest(ctx, h.accessURL, params, h.requestToken)
	if err != nil {
		return fmt.Errorf("exchanging verifier: %w", err)
	}
	tok, err := parseTokenResponse(body)
	if err != nil {
		return fmt.Errorf("exchanging verifier: %w", err)
	}
	h.accessToken = tok
	h.requestToken = nil
	return nil
}

// tokenRequest performs a signed GET against one of the token endpoints.
func (h *Handler) tokenRequest(ctx context.Context, endpoint string, params url.Values, tok *Token) ([]byte, error) {
	signed, err := h.sign(http.MethodGet, endpoint, params, tok)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+signed.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func parseTokenResponse(body []byte) (*Token, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	key := values.Get("oauth_token")
	secret := values.Get("oauth_token_secret")
	if key == "" || secret == "" {
		return nil, fmt.Errorf("token response missing oauth_token fields: %q", string(body))
	}
	return &Token{Key: key, Secret: secret}, nil
}

// SaveFile writes the access token to filename, one field per line. The
// consumer keys are included only on request; keeping them out of token files
// is the recommended arrangement.
func (h *Handler) SaveFile(filename string, includeAPIKeys bool) error {
	if h.accessToken == nil {
		return errors.New("auth: access token not set yet")
	}
	lines := []string{h.accessToken.Key, h.accessToken.Secret}
	if includeAPIKeys {
		lines = append([]string{h.key, h.secret}, lines...)
	}
	return os.WriteFile(filename, []byte(strings.Join(lines, "\n")), 0o600)
}

// LoadFile reads a handler back from a file written by SaveFile. Two-line
// files carry only the access token; key and secret must then be non-empty.
// Four-line files carry the consumer keys too, overriding the arguments.
func LoadFile(filename, key, secret string) (*Handler, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var tok *Token
	switch len(lines) {
	case 4:
		key, secret = lines[0], lines[1]
		tok = &Token{Key: lines[2], Secret: lines[3]}
	case 2:
		tok = &Token{Key: lines[0], Secret: lines[1]}
	default:
		return nil, fmt.Errorf("auth: unexpected token file format in %s", filename)
	}
	return NewHandlerWithToken(key, secret, tok)
}
