package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sign implements the transport Signer: it completes params with the oauth
// protocol parameters and an HMAC-SHA1 signature over the request. The access
// token is used when present; during the authorization flow the request token
// signs the exchange endpoints instead.
func (h *Handler) Sign(httpMethod, requestURL string, params url.Values) (url.Values, error) {
	return h.sign(httpMethod, requestURL, params, h.accessToken)
}

func (h *Handler) sign(httpMethod, requestURL string, params url.Values, tok *Token) (url.Values, error) {
	signed := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			signed.Add(k, v)
		}
	}
	signed.Set("oauth_consumer_key", h.key)
	signed.Set("oauth_nonce", uuid.NewString())
	signed.Set("oauth_timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	signed.Set("oauth_signature_method", "HMAC-SHA1")
	signed.Set("oauth_version", "1.0")
	if tok != nil {
		signed.Set("oauth_token", tok.Key)
	}

	var tokenSecret string
	if tok != nil {
		tokenSecret = tok.Secret
	}
	signed.Set("oauth_signature", signature(httpMethod, requestURL, signed, h.secret, tokenSecret))
	return signed, nil
}

// signature computes the HMAC-SHA1 oauth signature for the request.
func signature(httpMethod, requestURL string, params url.Values, consumerSecret, tokenSecret string) string {
	base := signatureBase(httpMethod, requestURL, params)
	key := percentEncode(consumerSecret) + "&" + percentEncode(tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signatureBase builds the base string: METHOD&url&sorted-encoded-params,
// each component percent-encoded per RFC 3986.
func signatureBase(httpMethod, requestURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "oauth_signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params.Get(k)))
	}
	return strings.Join([]string{
		strings.ToUpper(httpMethod),
		percentEncode(requestURL),
		percentEncode(strings.Join(pairs, "&")),
	}, "&")
}

// percentEncode escapes per RFC 3986: only unreserved characters pass.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}
