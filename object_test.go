package flickr

import (
	"context"
	"errors"
	"testing"
)

const photoInfoResponse = `{"stat":"ok","photo":{
	"id":"777","secret":"sec","server":"65535","media":"photo",
	"title":{"_content":"Sunset"},
	"owner":{"nsid":"u99","username":"alice"},
	"visibility":{"ispublic":1,"isfriend":0,"isfamily":0},
	"dates":{"taken":"2024-05-01 12:00:00"},
	"tags":{"tag":[{"id":"t1","author":"u99","raw":"sunset","_content":"sunset"}]},
	"notes":{"note":[{"id":"n1","_content":"look here","x":"10","y":"20"}]}
}}`

func TestAttrHydratesOnce(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getInfo", photoInfoResponse)
	ctx := context.Background()

	photo := client.NewPhoto("777")
	if photo.Loaded() {
		t.Fatal("fresh object claims to be hydrated")
	}

	taken, err := photo.Attr(ctx, "taken")
	if err != nil {
		t.Fatalf("Attr(taken): %v", err)
	}
	if taken != "2024-05-01 12:00:00" {
		t.Errorf("taken = %v", taken)
	}
	if !photo.Loaded() {
		t.Error("object not marked hydrated after fetch")
	}
	if photo.Title != "Sunset" {
		t.Errorf("typed Title = %q after hydration", photo.Title)
	}
	if photo.Owner == nil || photo.Owner.ID != "u99" {
		t.Errorf("Owner = %+v", photo.Owner)
	}
	if !photo.IsPublic {
		t.Error("visibility not flattened into fields")
	}

	// A second miss must not refetch.
	if _, err := photo.Attr(ctx, "no_such_field"); err == nil {
		t.Error("expected AttributeNotFoundError")
	}
	if got := api.callCount("flickr.photos.getInfo"); got != 1 {
		t.Errorf("getInfo called %d times, want 1", got)
	}
}

func TestAttrIDNeverHydrates(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	photo := client.NewPhoto("5")
	id, err := photo.Attr(ctx, "id")
	if err != nil {
		t.Fatalf("Attr(id): %v", err)
	}
	if id != "5" {
		t.Errorf("id = %v", id)
	}
	if len(api.calls) != 0 {
		t.Error("id lookup must not touch the network")
	}
}

func TestAttrMissReportsVariantAndName(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getInfo", `{"stat":"ok","photo":{"id":"1"}}`)

	photo := client.NewPhoto("1")
	_, err := photo.Attr(context.Background(), "bogus")
	var attrErr *AttributeNotFoundError
	if !errors.As(err, &attrErr) {
		t.Fatalf("expected *AttributeNotFoundError, got %v", err)
	}
	if got := attrErr.Error(); got != "'Photo' object has no attribute 'bogus'" {
		t.Errorf("Error() = %q", got)
	}
}

func TestConstructionFieldsSatisfyAttr(t *testing.T) {
	client, api := newTestClient(t)

	photo := client.NewPhotoFromFields(map[string]any{"id": "9", "title": "known"})
	title, err := photo.Attr(context.Background(), "title")
	if err != nil {
		t.Fatalf("Attr(title): %v", err)
	}
	if title != "known" {
		t.Errorf("title = %v", title)
	}
	if len(api.calls) != 0 {
		t.Error("known field triggered a fetch")
	}
	if photo.Title != "known" {
		t.Errorf("typed Title = %q", photo.Title)
	}
}

func TestWeakDecodeOfStringCounters(t *testing.T) {
	client, _ := newTestClient(t)

	photo := client.NewPhotoFromFields(map[string]any{
		"id": "3", "views": "1500", "ispublic": "1",
	})
	if photo.Views != 1500 {
		t.Errorf("Views = %d", photo.Views)
	}
	if !photo.IsPublic {
		t.Error("ispublic string not coerced")
	}
}
