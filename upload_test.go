package flickr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/photoflow/go-flickr/transport"
)

func newUploadClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, _ := newTestClient(t,
		WithAuthHandler(testAuthHandler(t)),
		WithUploadURL(srv.URL+"/upload", srv.URL+"/replace"))
	return client
}

func TestUploadSynchronous(t *testing.T) {
	var gotFile string
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if r.MultipartForm.Value["oauth_signature"] == nil {
			t.Error("upload request is unsigned")
		}
		if got := r.FormValue("title"); got != "My Shot" {
			t.Errorf("title = %q", got)
		}
		if got := r.FormValue("is_public"); got != "1" {
			t.Errorf("is_public = %q", got)
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			t.Fatalf("missing photo part: %v", err)
		}
		defer file.Close()
		gotFile = header.Filename
		fmt.Fprint(w, `<?xml version="1.0"?><rsp stat="ok"><photoid>98765</photoid></rsp>`)
	})

	res, err := client.Upload(context.Background(), "shot.jpg", strings.NewReader("bytes"),
		Params{"title": "My Shot", "is_public": true})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Photo == nil || res.Photo.ID != "98765" {
		t.Errorf("result = %+v", res)
	}
	if res.Ticket != nil {
		t.Error("synchronous upload returned a ticket")
	}
	if gotFile != "shot.jpg" {
		t.Errorf("filename = %q", gotFile)
	}
}

func TestUploadAsynchronous(t *testing.T) {
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<rsp stat="ok"><ticketid>t-1</ticketid></rsp>`)
	})

	res, err := client.Upload(context.Background(), "shot.jpg", strings.NewReader("bytes"),
		Params{"async": true})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Ticket == nil || res.Ticket.ID != "t-1" {
		t.Errorf("result = %+v", res)
	}
}

func TestUploadAPIError(t *testing.T) {
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<rsp stat="fail"><err code="5" msg="Filetype was not recognised" /></rsp>`)
	})

	_, err := client.Upload(context.Background(), "x.bin", strings.NewReader("?"), nil)
	var apiErr *transport.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != 5 || apiErr.Message != "Filetype was not recognised" {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestUploadHTTPError(t *testing.T) {
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	})

	_, err := client.Upload(context.Background(), "x.jpg", strings.NewReader("?"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "HTTP Error 500: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUploadRequiresCredentials(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.Upload(context.Background(), "x.jpg", strings.NewReader("?"), nil)
	var credErr *transport.MissingCredentialsError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *MissingCredentialsError, got %v", err)
	}
}

func TestReplaceSendsPhotoID(t *testing.T) {
	var gotID string
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/replace/") && !strings.HasSuffix(r.URL.Path, "/replace") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotID = r.FormValue("photo_id")
		fmt.Fprint(w, `<rsp stat="ok"><photoid>11</photoid></rsp>`)
	})

	photo := client.NewPhoto("11")
	res, err := client.Replace(context.Background(), photo, "new.jpg", strings.NewReader("bytes"), nil)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if gotID != "11" {
		t.Errorf("photo_id = %q", gotID)
	}
	if res.Photo == nil || res.Photo.ID != "11" {
		t.Errorf("result = %+v", res)
	}
}

func TestTicketCheckStatus(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.photos.upload.checkTickets",
		`{"stat":"ok","uploader":{"ticket":[{"id":"t-1","complete":1,"photoid":"555"}]}}`)

	ticket := client.NewUploadTicket("t-1")
	done, err := ticket.CheckStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if !done || !ticket.Done() || ticket.Failed() {
		t.Errorf("ticket state = %+v", ticket)
	}
	if ticket.PhotoID != "555" {
		t.Errorf("PhotoID = %q", ticket.PhotoID)
	}
	if got := api.lastCall().Get("tickets"); got != "t-1" {
		t.Errorf("tickets = %q", got)
	}
}
