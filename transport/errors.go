package transport

import "fmt"

// ServerError reports an HTTP-layer failure (a non-2xx status from the REST
// endpoint). The body is kept verbatim so callers can inspect what the server
// actually sent.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("HTTP Server Error %d: %s", e.StatusCode, e.Body)
}

// APIError reports an application-level failure carried inside a well-formed
// response envelope (stat != "ok"). Code and Message come verbatim from the
// envelope's own fields.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d : %s", e.Code, e.Message)
}

// MissingCredentialsError is returned when a call requires request signing but
// no signer or token could be resolved.
type MissingCredentialsError struct {
	Method string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("method %s requires signing but no credentials are available", e.Method)
}

// MalformedResponseError reports an envelope whose structure does not match
// the shape expected for the invoked method, e.g. a list payload with the list
// field absent.
type MalformedResponseError struct {
	Method string
	Want   string
}

func (e *MalformedResponseError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("malformed response: expected %s", e.Want)
	}
	return fmt.Sprintf("malformed response from %s: expected %s", e.Method, e.Want)
}
