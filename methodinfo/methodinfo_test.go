package methodinfo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	flickr "github.com/photoflow/go-flickr"
)

func newTestClient(t *testing.T, responses map[string]string) *flickr.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
			return
		}
		body, ok := responses[r.PostForm.Get("method")]
		if !ok {
			body = `{"stat":"fail","code":"112","message":"Method not found"}`
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return flickr.New("k", "s", flickr.WithRestURL(srv.URL))
}

func TestMethods(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"flickr.reflection.getMethods": `{"stat":"ok","methods":{"method":[
			{"_content":"flickr.test.echo"},{"_content":"flickr.photos.getInfo"}
		]}}`,
	})

	methods, err := Methods(context.Background(), client)
	if err != nil {
		t.Fatalf("Methods: %v", err)
	}
	want := []string{"flickr.photos.getInfo", "flickr.test.echo"}
	if len(methods) != 2 || methods[0] != want[0] || methods[1] != want[1] {
		t.Errorf("methods = %v, want %v", methods, want)
	}
}

func TestGet(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"flickr.reflection.getMethodInfo": `{"stat":"ok",
			"method":{"name":"flickr.photos.delete","needslogin":1,"needssigning":1,
				"requiredperms":"3","description":{"_content":"Delete a photo."}},
			"arguments":{"argument":[
				{"name":"api_key","optional":0,"_content":"Your API key."},
				{"name":"photo_id","optional":0,"_content":"The id of the photo."}
			]},
			"errors":{"error":{"code":"1","message":"Photo not found","_content":"The photo id was invalid."}}}`,
	})

	m, err := Get(context.Background(), client, "flickr.photos.delete")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Name != "flickr.photos.delete" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Description != "Delete a photo." {
		t.Errorf("Description = %q", m.Description)
	}
	if !m.NeedsLogin || !m.NeedsSigning {
		t.Error("login/signing flags not decoded")
	}
	if m.RequiredPerms != PermDelete {
		t.Errorf("RequiredPerms = %v", m.RequiredPerms)
	}
	if got := m.RequiredPerms.String(); got != "delete" {
		t.Errorf("Perm.String() = %q", got)
	}
	if len(m.Arguments) != 2 || m.Arguments[1].Name != "photo_id" {
		t.Errorf("arguments = %+v", m.Arguments)
	}
	if m.Arguments[0].Description != "Your API key." {
		t.Errorf("argument description = %q", m.Arguments[0].Description)
	}
	if len(m.Errors) != 1 || m.Errors[0].Code != 1 || m.Errors[0].Message != "Photo not found" {
		t.Errorf("errors = %+v", m.Errors)
	}
}

func TestPermString(t *testing.T) {
	cases := map[Perm]string{
		PermNone:   "none",
		PermRead:   "read",
		PermWrite:  "write",
		PermDelete: "delete",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(p), got, want)
		}
	}
}
