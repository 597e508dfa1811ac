package flickr

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPhotosBuildsOwners(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.search",
		`{"stat":"ok","photos":{"page":1,"pages":3,"perpage":2,"total":"5","photo":[
			{"id":"p1","owner":"u1","title":"first","ispublic":1},
			{"id":"p2","owner":"u2","title":"second","ispublic":0}
		]}}`)

	list, err := client.SearchPhotos(context.Background(), Params{"tags": "cats"})
	if err != nil {
		t.Fatalf("SearchPhotos: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("got %d photos", len(list.Items))
	}
	if list.Info.Page != 1 || list.Info.Pages != 3 || list.Info.Total != 5 {
		t.Errorf("pagination info = %+v", list.Info)
	}

	first := list.Items[0]
	if first.ID != "p1" || first.Title != "first" {
		t.Errorf("photo = %+v", first)
	}
	if first.Owner == nil || first.Owner.ID != "u1" {
		t.Errorf("owner = %+v", first.Owner)
	}
	if !first.IsPublic {
		t.Error("ispublic not decoded")
	}
}

func TestSearchPhotosJoinsExtras(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.search",
		`{"stat":"ok","photos":{"page":1,"pages":1,"perpage":10,"total":"0","photo":[]}}`)

	_, err := client.SearchPhotos(context.Background(),
		Params{"tags": "cats", "extras": []string{"views", "media"}})
	if err != nil {
		t.Fatalf("SearchPhotos: %v", err)
	}
	if got := api.lastCall().Get("extras"); got != "views, media" {
		t.Errorf("extras = %q", got)
	}
}

func TestSearchPhotosBareElementList(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.search",
		`{"stat":"ok","photos":{"page":1,"pages":1,"perpage":10,"total":"1",
			"photo":{"id":"only","owner":"u1"}}}`)

	list, err := client.SearchPhotos(context.Background(), nil)
	if err != nil {
		t.Fatalf("SearchPhotos: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != "only" {
		t.Errorf("bare element not normalized: %+v", list.Items)
	}
}

const sizesResponse = `{"stat":"ok","sizes":{"size":[
	{"label":"Square","width":75,"height":75,"source":"sq.jpg","url":"u-sq","media":"photo"},
	{"label":"Large","width":"1024","height":"768","source":"p/large.jpg","url":"u-l","media":"photo"},
	{"label":"Original","width":"full","height":"full","source":"orig.jpg","url":"u-o","media":"photo"},
	{"label":"HD MP4","width":"1280","height":"720","source":"video-hd","url":"u-v","media":"video"},
	{"label":"Site MP4","width":"640","height":"360","source":"video-site","url":"u-vs","media":"video"}
]}}`

func TestLargestSizeMatchesOwnMedia(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getSizes", sizesResponse)
	ctx := context.Background()

	photo := client.NewPhotoFromFields(map[string]any{"id": "1", "media": "photo"})
	label, err := photo.LargestSizeLabel(ctx)
	if err != nil {
		t.Fatalf("LargestSizeLabel: %v", err)
	}
	// Original has non-numeric dimensions, so Large wins among photos.
	if label != "Large" {
		t.Errorf("label = %q", label)
	}

	video := client.NewPhotoFromFields(map[string]any{"id": "2", "media": "video"})
	label, err = video.LargestSizeLabel(ctx)
	if err != nil {
		t.Fatalf("LargestSizeLabel(video): %v", err)
	}
	if label != "HD MP4" {
		t.Errorf("video label = %q", label)
	}
}

func TestGetSizesCachedOnPhoto(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getSizes", sizesResponse)
	ctx := context.Background()

	photo := client.NewPhoto("1")
	if _, err := photo.GetSizes(ctx); err != nil {
		t.Fatalf("GetSizes: %v", err)
	}
	if _, err := photo.GetSizes(ctx); err != nil {
		t.Fatalf("GetSizes again: %v", err)
	}
	if got := api.callCount("flickr.photos.getSizes"); got != 1 {
		t.Errorf("getSizes called %d times", got)
	}
}

func TestPhotoURLUnknownSize(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getSizes", sizesResponse)

	photo := client.NewPhotoFromFields(map[string]any{"id": "1", "media": "photo"})
	if _, err := photo.PhotoURL(context.Background(), "Gigantic"); err == nil {
		t.Error("expected error for unavailable size")
	}
}

func TestOutputFilename(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.getSizes", sizesResponse)
	ctx := context.Background()

	photo := client.NewPhotoFromFields(map[string]any{"id": "1", "media": "photo"})
	video := client.NewPhotoFromFields(map[string]any{"id": "2", "media": "video"})

	cases := []struct {
		photo *Photo
		name  string
		label string
		want  string
	}{
		{photo, "shot", "Large", "shot.jpg"},
		{photo, "shot.jpeg", "Large", "shot.jpeg"},
		{video, "clip", "HD MP4", "clip.mp4"},
		{video, "clip.mov", "HD MP4", "clip.mov"},
	}
	for _, c := range cases {
		got, err := c.photo.OutputFilename(ctx, c.name, c.label)
		if err != nil {
			t.Fatalf("OutputFilename(%q, %q): %v", c.name, c.label, err)
		}
		if got != c.want {
			t.Errorf("OutputFilename(%q, %q) = %q, want %q", c.name, c.label, got, c.want)
		}
	}
}

func TestPageURL(t *testing.T) {
	client, _ := newTestClient(t)
	photo := client.newPhoto(nil, map[string]any{
		"id":    "123",
		"owner": client.NewPerson("u7"),
	})
	got, err := photo.PageURL()
	if err != nil {
		t.Fatalf("PageURL: %v", err)
	}
	if got != "https://www.flickr.com/photos/u7/123" {
		t.Errorf("PageURL = %q", got)
	}

	orphan := client.NewPhoto("9")
	if _, err := orphan.PageURL(); err == nil {
		t.Error("expected error without owner")
	}
}

func TestDownloadWritesBody(t *testing.T) {
	fileSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "jpeg-bytes")
	}))
	defer fileSrv.Close()

	client, api := newTestClient(t)
	api.respond("flickr.photos.getSizes", fmt.Sprintf(
		`{"stat":"ok","sizes":{"size":[{"label":"Large","width":"10","height":"10","source":"%s/f.jpg","url":"u","media":"photo"}]}}`,
		fileSrv.URL))

	photo := client.NewPhotoFromFields(map[string]any{"id": "1", "media": "photo"})
	var buf bytes.Buffer
	if err := photo.Download(context.Background(), &buf, "Large"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if buf.String() != "jpeg-bytes" {
		t.Errorf("downloaded %q", buf.String())
	}
}

func TestAddCommentReturnsComment(t *testing.T) {
	client, api := newTestClient(t, WithAuthHandler(testAuthHandler(t)))
	api.respond("flickr.photos.comments.addComment",
		`{"stat":"ok","comment":{"id":"c1","permalink":"http://x"}}`)

	photo := client.NewPhoto("1")
	cm, err := photo.AddComment(context.Background(), "nice shot")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if cm.ID != "c1" || cm.Text != "nice shot" {
		t.Errorf("comment = %+v", cm)
	}
	if cm.Photo != photo {
		t.Error("comment lost its photo reference")
	}
	if got := api.lastCall().Get("comment_text"); got != "nice shot" {
		t.Errorf("comment_text = %q", got)
	}
}

func TestGetCommentsBuildsAuthors(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.comments.getList",
		`{"stat":"ok","comments":{"comment":[
			{"id":"c1","author":"u5","authorname":"bob","_content":"hello"}
		]}}`)

	photo := client.NewPhoto("1")
	comments, err := photo.GetComments(context.Background())
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("got %d comments", len(comments))
	}
	cm := comments[0]
	if cm.Text != "hello" {
		t.Errorf("text = %q", cm.Text)
	}
	if cm.Author == nil || cm.Author.ID != "u5" {
		t.Errorf("author = %+v", cm.Author)
	}
}
