package flickr

import (
	"context"
	"errors"
	"testing"

	"github.com/photoflow/go-flickr/transport"
)

func TestBoundCallInjectsSelfParameter(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getSizes",
		`{"stat":"ok","sizes":{"size":[{"label":"Small","width":"100","height":"75","source":"s.jpg","url":"u","media":"photo"}]}}`)

	photo := client.NewPhoto("424242")
	if _, err := photo.GetSizes(context.Background()); err != nil {
		t.Fatalf("GetSizes: %v", err)
	}
	if got := api.lastCall().Get("photo_id"); got != "424242" {
		t.Errorf("photo_id = %q", got)
	}
}

func TestBoundCallRequiresID(t *testing.T) {
	client, _ := newTestClient(t)
	photo := client.NewPhoto("")

	_, err := photo.GetSizes(context.Background())
	var idErr *MissingIDError
	if !errors.As(err, &idErr) {
		t.Fatalf("expected *MissingIDError, got %v", err)
	}
}

func TestAuthRequiredWithoutCredentials(t *testing.T) {
	client, api := newTestClient(t)
	photo := client.NewPhoto("1")

	err := photo.Delete(context.Background())
	var credErr *transport.MissingCredentialsError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *MissingCredentialsError, got %v", err)
	}
	if api.callCount("flickr.photos.delete") != 0 {
		t.Error("unauthenticated call reached the network")
	}
}

func TestAuthResolutionPrecedence(t *testing.T) {
	clientAuth := testAuthHandler(t)
	client, api := newTestClient(t, WithAuthHandler(clientAuth))
	ctx := context.Background()

	// Client default suffices.
	photo := client.NewPhoto("1")
	if err := photo.Delete(ctx); err != nil {
		t.Fatalf("Delete with client default: %v", err)
	}
	if api.lastCall().Get("oauth_token") != "access-tok" {
		t.Error("client default credentials not used")
	}

	// The object's own credentials win over the client default.
	objAuth := testAuthHandler(t)
	photo.SetAuth(objAuth)
	if err := photo.Delete(ctx); err != nil {
		t.Fatalf("Delete with object auth: %v", err)
	}
	if photo.Auth() != objAuth {
		t.Error("object credentials not retained")
	}

	// Unsigned strips credentials entirely and the call is rejected before
	// the network for auth-requiring methods.
	err := photo.Delete(ctx, Unsigned())
	var credErr *transport.MissingCredentialsError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *MissingCredentialsError for unsigned call, got %v", err)
	}
}

func TestStaticAuthFallbackToggle(t *testing.T) {
	ctx := context.Background()

	client, api := newTestClient(t, WithAuthHandler(testAuthHandler(t)))
	api.respond("flickr.photos.getNotInSet",
		`{"stat":"ok","photos":{"page":1,"pages":1,"perpage":100,"total":"0","photo":[]}}`)
	if _, err := client.PhotosNotInSet(ctx, nil); err != nil {
		t.Fatalf("static call with fallback: %v", err)
	}

	strict, strictAPI := newTestClient(t, WithAuthHandler(testAuthHandler(t)), WithoutStaticAuthFallback())
	_, err := strict.PhotosNotInSet(ctx, nil)
	var credErr *transport.MissingCredentialsError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *MissingCredentialsError without fallback, got %v", err)
	}
	if strictAPI.callCount("flickr.photos.getNotInSet") != 0 {
		t.Error("call reached the network without credentials")
	}
}

func TestBindingTable(t *testing.T) {
	remote, ok := RemoteFor("Photo.GetSizes")
	if !ok || remote != "flickr.photos.getSizes" {
		t.Errorf("RemoteFor = %q, %t", remote, ok)
	}
	methods := BindingsTo("flickr.photos.getSizes")
	if len(methods) != 1 || methods[0] != "Photo.GetSizes" {
		t.Errorf("BindingsTo = %v", methods)
	}
	if len(BoundMethods()) == 0 {
		t.Error("no bound methods registered")
	}
}
