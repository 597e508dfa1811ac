package flickr

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/photoflow/go-flickr/auth"
)

// fakeAPI is a scriptable stand-in for the REST endpoint: it records every
// request form and answers by method name.
type fakeAPI struct {
	t *testing.T

	mu        sync.Mutex
	calls     []url.Values
	responses map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		f.t.Errorf("parsing form: %v", err)
		return
	}
	f.mu.Lock()
	f.calls = append(f.calls, r.PostForm)
	body, ok := f.responses[r.PostForm.Get("method")]
	f.mu.Unlock()
	if !ok {
		body = `{"stat":"ok"}`
	}
	fmt.Fprint(w, body)
}

func (f *fakeAPI) respond(method, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = body
}

func (f *fakeAPI) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Get("method") == method {
			n++
		}
	}
	return n
}

func (f *fakeAPI) lastCall() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{t: t, responses: map[string]string{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRestURL(srv.URL)}, opts...)
	return New("test-key", "test-secret", opts...), api
}

func testAuthHandler(t *testing.T) *auth.Handler {
	t.Helper()
	h, err := auth.NewHandlerWithToken("test-key", "test-secret",
		&auth.Token{Key: "access-tok", Secret: "access-sec"})
	if err != nil {
		t.Fatalf("building auth handler: %v", err)
	}
	return h
}
