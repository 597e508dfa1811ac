package flickr

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var mTicketCheck = bind("UploadTicket.CheckStatus", "flickr.photos.upload.checkTickets")

// UploadResult is the outcome of an upload or replace: a photo for
// synchronous requests, a ticket for asynchronous ones. Exactly one of the
// two is set.
type UploadResult struct {
	Photo  *Photo
	Ticket *UploadTicket
}

// Upload sends a new photo or video. filename labels the file part; args
// carries title, description, tags, visibility and the async flag. The
// upload endpoint speaks XML rather than the JSON envelope, and it always
// requires credentials.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, args Params, opts ...CallOption) (*UploadResult, error) {
	return c.uploadTo(ctx, c.uploadURL, filename, file, args, opts)
}

// Replace swaps the file behind an existing photo (object or id), keeping
// its metadata, comments and id.
func (c *Client) Replace(ctx context.Context, photo any, filename string, file io.Reader, args Params, opts ...CallOption) (*UploadResult, error) {
	merged := args.Clone()
	if merged == nil {
		merged = Params{}
	}
	merged["photo_id"] = objectID(photo)
	return c.uploadTo(ctx, c.replaceURL, filename, file, merged, opts)
}

func (c *Client) uploadTo(ctx context.Context, endpoint, filename string, file io.Reader, args Params, opts []CallOption) (*UploadResult, error) {
	s := applyCallOptions(opts)
	tok := c.resolveAuth(nil, s, false)
	if tok == nil {
		return nil, &transport.MissingCredentialsError{Method: "upload"}
	}

	values := args.Values()
	values.Set("api_key", c.apiKey)
	signed, err := tok.Sign(http.MethodPost, endpoint, values)
	if err != nil {
		return nil, fmt.Errorf("signing upload: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key := range signed {
		if err := mw.WriteField(key, signed.Get(key)); err != nil {
			return nil, fmt.Errorf("building upload form: %w", err)
		}
	}
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug("uploading", "endpoint", endpoint, "filename", filename)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting upload: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP Error %d: %s", resp.StatusCode, data)
	}
	return c.parseUploadResponse(tok, data)
}

type uploadEnvelope struct {
	XMLName  xml.Name `xml:"rsp"`
	Stat     string   `xml:"stat,attr"`
	PhotoID  string   `xml:"photoid"`
	TicketID string   `xml:"ticketid"`
	Err      *struct {
		Code    int    `xml:"code,attr"`
		Message string `xml:"msg,attr"`
	} `xml:"err"`
}

func (c *Client) parseUploadResponse(tok *auth.Handler, data []byte) (*UploadResult, error) {
	var env uploadEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, &transport.MalformedResponseError{Method: "upload", Want: "rsp envelope"}
	}
	if env.Stat != "ok" {
		if env.Err != nil {
			return nil, &transport.APIError{Code: env.Err.Code, Message: env.Err.Message}
		}
		return nil, &transport.MalformedResponseError{Method: "upload", Want: "err element"}
	}
	switch {
	case env.PhotoID != "":
		return &UploadResult{Photo: c.newPhoto(tok, map[string]any{"id": env.PhotoID})}, nil
	case env.TicketID != "":
		return &UploadResult{Ticket: c.newUploadTicket(tok, map[string]any{"id": env.TicketID})}, nil
	default:
		return nil, &transport.MalformedResponseError{Method: "upload", Want: "photoid or ticketid"}
	}
}

// UploadTicket tracks an asynchronous upload until processing finishes.
type UploadTicket struct {
	Object `mapstructure:",squash"`

	Complete int    `mapstructure:"complete"`
	PhotoID  string `mapstructure:"photoid"`
	Invalid  bool   `mapstructure:"invalid"`
}

// NewUploadTicket constructs a ticket from a known id.
func (c *Client) NewUploadTicket(id string) *UploadTicket {
	return c.newUploadTicket(nil, map[string]any{"id": id})
}

func (c *Client) newUploadTicket(tok *auth.Handler, fields map[string]any) *UploadTicket {
	t := &UploadTicket{}
	t.Object.init(c, "UploadTicket", "tickets", tok, fields, t)
	return t
}

// Done reports whether processing finished successfully. PhotoID is set once
// it has.
func (t *UploadTicket) Done() bool { return t.Complete == 1 }

// Failed reports whether processing failed; the file will not become a photo.
func (t *UploadTicket) Failed() bool { return t.Complete == 2 }

// CheckStatus refreshes the ticket from the service and reports whether
// processing finished (successfully or not).
func (t *UploadTicket) CheckStatus(ctx context.Context, opts ...CallOption) (bool, error) {
	_, err := call(ctx, t.client, t.objectRef(), mTicketCheck, nil,
		func(r transport.Payload) (struct{}, error) {
			entries, err := digList(r, "uploader", "ticket")
			if err != nil {
				return struct{}{}, err
			}
			if len(entries) == 0 {
				return struct{}{}, &transport.MalformedResponseError{Want: "uploader.ticket"}
			}
			t.mergeFields(asMap(entries[0]))
			return struct{}{}, nil
		}, opts...)
	if err != nil {
		return false, err
	}
	return t.Complete != 0, nil
}
