package flickr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mPhotoGetInfo       = bind("Photo.Load", "flickr.photos.getInfo")
	mPhotoSearch        = bind("Client.SearchPhotos", "flickr.photos.search")
	mPhotoGetRecent     = bind("Client.RecentPhotos", "flickr.photos.getRecent")
	mPhotoNotInSet      = bindAuth("Client.PhotosNotInSet", "flickr.photos.getNotInSet")
	mPhotoGetSizes      = bind("Photo.GetSizes", "flickr.photos.getSizes")
	mPhotoGetExif       = bind("Photo.GetExif", "flickr.photos.getExif")
	mPhotoGetTags       = bind("Photo.GetTags", "flickr.tags.getListPhoto")
	mPhotoAddTags       = bindAuth("Photo.AddTags", "flickr.photos.addTags")
	mPhotoSetMeta       = bindAuth("Photo.SetMeta", "flickr.photos.setMeta")
	mPhotoDelete        = bindAuth("Photo.Delete", "flickr.photos.delete")
	mPhotoGetFavorites  = bind("Photo.GetFavorites", "flickr.photos.getFavorites")
	mPhotoAddPerson     = bindAuth("Photo.AddPerson", "flickr.photos.people.add")
	mPhotoDeletePerson  = bindAuth("Photo.DeletePerson", "flickr.photos.people.delete")
	mPhotoAddComment    = bindAuth("Photo.AddComment", "flickr.photos.comments.addComment")
	mPhotoGetComments   = bind("Photo.GetComments", "flickr.photos.comments.getList")
	mPhotoCommentDelete = bindAuth("PhotoComment.Delete", "flickr.photos.comments.deleteComment")
	mPhotoCommentEdit   = bindAuth("PhotoComment.Edit", "flickr.photos.comments.editComment")
	mPhotoAddNote       = bindAuth("Photo.AddNote", "flickr.photos.notes.add")
	mPhotoNoteEdit      = bindAuth("PhotoNote.Edit", "flickr.photos.notes.edit")
	mPhotoNoteDelete    = bindAuth("PhotoNote.Delete", "flickr.photos.notes.delete")
)

// Photo is a single photo or video. Most list-returning operations build
// partial photos; reading an attribute the producing call did not include
// triggers one full-record fetch.
type Photo struct {
	Object `mapstructure:",squash"`

	Title    string `mapstructure:"title"`
	Secret   string `mapstructure:"secret"`
	Server   string `mapstructure:"server"`
	Media    string `mapstructure:"media"`
	IsPublic bool   `mapstructure:"ispublic"`
	IsFriend bool   `mapstructure:"isfriend"`
	IsFamily bool   `mapstructure:"isfamily"`
	Views    int    `mapstructure:"views"`

	// Owner is built by result formatters, never by the field decode.
	Owner *Person `mapstructure:"-"`

	sizes map[string]Size
}

// Size describes one rendition of a photo. Width and Height stay strings:
// the service sends numbers, numeric strings or nothing at all, and
// selection logic is expected to skip what it cannot parse.
type Size struct {
	Label  string `mapstructure:"label"`
	Width  string `mapstructure:"width"`
	Height string `mapstructure:"height"`
	Source string `mapstructure:"source"`
	URL    string `mapstructure:"url"`
	Media  string `mapstructure:"media"`
}

// NewPhoto constructs a partial photo from a known id.
func (c *Client) NewPhoto(id string) *Photo {
	return c.newPhoto(nil, map[string]any{"id": id})
}

// NewPhotoFromFields constructs a photo from an arbitrary response-shaped
// fragment, e.g. {"id": ..., "media": "video", "sizes": {...}}.
func (c *Client) NewPhotoFromFields(fields map[string]any) *Photo {
	return c.newPhoto(nil, fields)
}

func (c *Client) newPhoto(tok *auth.Handler, fields map[string]any) *Photo {
	p := &Photo{}
	p.Object.init(c, "Photo", "photo_id", tok, fields, p)
	p.loader = p.fetchInfo
	if owner, ok := p.fields["owner"].(*Person); ok {
		p.Owner = owner
	}
	if raw, ok := p.fields["sizes"]; ok {
		p.sizes = decodeSizes(raw)
	}
	return p
}

func decodeSizes(v any) map[string]Size {
	if s, ok := v.(map[string]Size); ok {
		return s
	}
	var out map[string]Size
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil
	}
	if err := dec.Decode(v); err != nil {
		return nil
	}
	return out
}

// fetchInfo is the hydration path: flickr.photos.getInfo, with the nested
// owner/tags/notes structures lifted into domain objects and the grab-bag
// sub-mappings flattened the way every consumer expects them.
func (p *Photo) fetchInfo(ctx context.Context) (map[string]any, error) {
	return callAuth(ctx, p.client, p.objectRef(), mPhotoGetInfo, nil,
		func(r transport.Payload, tok *auth.Handler) (map[string]any, error) {
			photo, err := digMap(r, "photo")
			if err != nil {
				return nil, err
			}

			if owner, ok := photo["owner"].(map[string]any); ok {
				if nsid, ok := owner["nsid"]; ok {
					owner["id"] = nsid
				}
				person := p.client.newPerson(tok, owner)
				photo["owner"] = person
				p.Owner = person
			}

			for _, grab := range []string{"usage", "visibility", "publiceditability", "dates"} {
				if sub, ok := photo[grab].(map[string]any); ok {
					delete(photo, grab)
					for k, v := range sub {
						photo[k] = v
					}
				}
			}

			if rawTags, ok := dig(photo, "tags", "tag"); ok {
				tags := make([]*Tag, 0)
				for _, t := range checkList(rawTags) {
					fields := asMap(t)
					if author, ok := fields["author"].(string); ok {
						fields["author"] = p.client.newPerson(tok, map[string]any{"id": author})
					}
					tags = append(tags, p.client.newTag(tok, fields))
				}
				photo["tags"] = tags
			}
			if rawNotes, ok := dig(photo, "notes", "note"); ok {
				notes := make([]*PhotoNote, 0)
				for _, n := range checkList(rawNotes) {
					note := p.client.newPhotoNote(tok, asMap(n))
					note.Photo = p
					notes = append(notes, note)
				}
				photo["notes"] = notes
			}
			return photo, nil
		})
}

// SearchPhotos searches for photos matching args (tags, text, user_id, ...).
// A list-valued "extras" entry is joined to the comma-separated wire form.
func (c *Client) SearchPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, c, nil, mPhotoSearch, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(c, tok, r, "photos")
		}, opts...)
}

// RecentPhotos returns the latest public photos.
func (c *Client) RecentPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, c, nil, mPhotoGetRecent, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(c, tok, r, "photos")
		}, opts...)
}

// PhotosNotInSet returns the calling user's photos that are in no set.
func (c *Client) PhotosNotInSet(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, c, nil, mPhotoNotInSet, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(c, tok, r, "photos")
		}, opts...)
}

// GetSizes returns the available renditions keyed by label. The result is
// cached on the photo; sizes supplied at construction short-circuit the call.
func (p *Photo) GetSizes(ctx context.Context, opts ...CallOption) (map[string]Size, error) {
	if p.sizes != nil {
		return p.sizes, nil
	}
	sizes, err := call(ctx, p.client, p.objectRef(), mPhotoGetSizes, nil,
		func(r transport.Payload) (map[string]Size, error) {
			entries, err := digList(r, "sizes", "size")
			if err != nil {
				return nil, err
			}
			out := make(map[string]Size, len(entries))
			for _, e := range entries {
				s := decodeSize(asMap(e))
				out[s.Label] = s
			}
			return out, nil
		}, opts...)
	if err != nil {
		return nil, err
	}
	p.sizes = sizes
	p.fields["sizes"] = sizes
	return sizes, nil
}

func decodeSize(m map[string]any) Size {
	var s Size
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err == nil {
		_ = dec.Decode(m)
	}
	return s
}

// LargestSizeLabel picks the rendition with the greatest pixel area among
// those whose media kind matches the photo's own. Entries with dimensions
// that do not parse as numbers are skipped.
func (p *Photo) LargestSizeLabel(ctx context.Context, opts ...CallOption) (string, error) {
	sizes, err := p.GetSizes(ctx, opts...)
	if err != nil {
		return "", err
	}
	best := ""
	bestArea := -1
	for label, s := range sizes {
		if p.Media != "" && s.Media != p.Media {
			continue
		}
		w, errW := strconv.Atoi(strings.TrimSpace(s.Width))
		h, errH := strconv.Atoi(strings.TrimSpace(s.Height))
		if errW != nil || errH != nil {
			continue
		}
		if area := w * h; area > bestArea {
			best = label
			bestArea = area
		}
	}
	if best == "" {
		return "", fmt.Errorf("photo %s has no usable size", p.ID)
	}
	return best, nil
}

// PhotoURL returns the photo page URL for a size label; an empty label picks
// the largest size.
func (p *Photo) PhotoURL(ctx context.Context, sizeLabel string) (string, error) {
	s, err := p.size(ctx, sizeLabel)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// PhotoFile returns the downloadable file URL for a size label; an empty
// label picks the largest size.
func (p *Photo) PhotoFile(ctx context.Context, sizeLabel string) (string, error) {
	s, err := p.size(ctx, sizeLabel)
	if err != nil {
		return "", err
	}
	return s.Source, nil
}

func (p *Photo) size(ctx context.Context, sizeLabel string) (Size, error) {
	if sizeLabel == "" {
		label, err := p.LargestSizeLabel(ctx)
		if err != nil {
			return Size{}, err
		}
		sizeLabel = label
	}
	sizes, err := p.GetSizes(ctx)
	if err != nil {
		return Size{}, err
	}
	s, ok := sizes[sizeLabel]
	if !ok {
		return Size{}, fmt.Errorf("the requested size %q is not available", sizeLabel)
	}
	return s, nil
}

// OutputFilename returns filename with an extension fitting the rendition:
// names that already carry one pass through, videos get ".mp4", photos get
// the extension of the source file (".jpg" when it has none either).
func (p *Photo) OutputFilename(ctx context.Context, filename, sizeLabel string) (string, error) {
	if path.Ext(filename) != "" {
		return filename, nil
	}
	s, err := p.size(ctx, sizeLabel)
	if err != nil {
		return "", err
	}
	if s.Media == "video" {
		return filename + ".mp4", nil
	}
	ext := path.Ext(s.Source)
	if ext == "" {
		ext = ".jpg"
	}
	return filename + ext, nil
}

// PageURL returns the URL of the photo's page. The owner must be known.
func (p *Photo) PageURL() (string, error) {
	if p.Owner == nil || p.Owner.ID == "" {
		return "", &AttributeNotFoundError{Variant: "Photo", Attribute: "owner"}
	}
	return fmt.Sprintf("https://www.flickr.com/photos/%s/%s", p.Owner.ID, p.ID), nil
}

// Download writes the photo file for the given size label to w.
func (p *Photo) Download(ctx context.Context, w io.Writer, sizeLabel string) error {
	source, err := p.PhotoFile(ctx, sizeLabel)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &transport.ServerError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// GetExif returns the camera metadata recorded with the photo.
func (p *Photo) GetExif(ctx context.Context, opts ...CallOption) ([]*PhotoExif, error) {
	return call(ctx, p.client, p.objectRef(), mPhotoGetExif, nil,
		func(r transport.Payload) ([]*PhotoExif, error) {
			entries, err := digList(r, "photo", "exif")
			if err != nil {
				return nil, err
			}
			out := make([]*PhotoExif, 0, len(entries))
			for _, e := range entries {
				exif := &PhotoExif{}
				exif.Object.init(p.client, "PhotoExif", "", nil, asMap(e), exif)
				out = append(out, exif)
			}
			return out, nil
		}, opts...)
}

// GetTags returns the tags attached to the photo.
func (p *Photo) GetTags(ctx context.Context, opts ...CallOption) ([]*Tag, error) {
	return callAuth(ctx, p.client, p.objectRef(), mPhotoGetTags, nil,
		func(r transport.Payload, tok *auth.Handler) ([]*Tag, error) {
			entries, err := digList(r, "photo", "tags", "tag")
			if err != nil {
				return nil, err
			}
			out := make([]*Tag, 0, len(entries))
			for _, e := range entries {
				out = append(out, p.client.newTag(tok, asMap(e)))
			}
			return out, nil
		}, opts...)
}

// AddTags attaches tags to the photo.
func (p *Photo) AddTags(ctx context.Context, tags []string, opts ...CallOption) error {
	return callNone(ctx, p.client, p.objectRef(), mPhotoAddTags,
		Params{"tags": strings.Join(tags, " ")}, opts...)
}

// SetMeta updates the photo's title and description.
func (p *Photo) SetMeta(ctx context.Context, title, description string, opts ...CallOption) error {
	return callNone(ctx, p.client, p.objectRef(), mPhotoSetMeta,
		Params{"title": title, "description": description}, opts...)
}

// Delete removes the photo.
func (p *Photo) Delete(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, p.client, p.objectRef(), mPhotoDelete, nil, opts...)
}

// GetFavorites returns the people who favorited the photo, paginated.
func (p *Photo) GetFavorites(ctx context.Context, args Params, opts ...CallOption) (*List[*Person], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPhotoGetFavorites, args,
		func(r transport.Payload, tok *auth.Handler) (*List[*Person], error) {
			section, err := digMap(r, "photo")
			if err != nil {
				return nil, err
			}
			entries, err := digList(section, "person")
			if err != nil {
				return nil, err
			}
			people := make([]*Person, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if nsid, ok := fields["nsid"]; ok {
					fields["id"] = nsid
				}
				people = append(people, p.client.newPerson(tok, fields))
			}
			return &List[*Person]{Items: people, Info: listInfo(section, "person")}, nil
		}, opts...)
}

// AddPerson tags a person (object or id) as appearing in the photo.
func (p *Photo) AddPerson(ctx context.Context, user any, opts ...CallOption) error {
	return callNone(ctx, p.client, p.objectRef(), mPhotoAddPerson,
		Params{"user_id": objectID(user)}, opts...)
}

// DeletePerson removes a person (object or id) from the photo.
func (p *Photo) DeletePerson(ctx context.Context, user any, opts ...CallOption) error {
	return callNone(ctx, p.client, p.objectRef(), mPhotoDeletePerson,
		Params{"user_id": objectID(user)}, opts...)
}

// PhotoComment is a comment on a photo. It keeps a forward reference to the
// photo it belongs to; the relation is deliberately one-way.
type PhotoComment struct {
	Object `mapstructure:",squash"`

	Text       string `mapstructure:"text"`
	AuthorName string `mapstructure:"authorname"`
	Permalink  string `mapstructure:"permalink"`

	Photo  *Photo  `mapstructure:"-"`
	Author *Person `mapstructure:"-"`
}

func (c *Client) newPhotoComment(tok *auth.Handler, fields map[string]any) *PhotoComment {
	cm := &PhotoComment{}
	cm.Object.init(c, "PhotoComment", "comment_id", tok, fields, cm)
	if author, ok := cm.fields["author"].(*Person); ok {
		cm.Author = author
	}
	return cm
}

// AddComment posts a comment and returns it.
func (p *Photo) AddComment(ctx context.Context, text string, opts ...CallOption) (*PhotoComment, error) {
	return callAuth(ctx, p.client, p.objectRef(), mPhotoAddComment, Params{"comment_text": text},
		func(r transport.Payload, tok *auth.Handler) (*PhotoComment, error) {
			id, ok := dig(r, "comment", "id")
			if !ok {
				return nil, &transport.MalformedResponseError{Want: "comment.id"}
			}
			cm := p.client.newPhotoComment(tok, map[string]any{"id": id, "text": text})
			cm.Photo = p
			return cm, nil
		}, opts...)
}

// GetComments returns the photo's comments.
func (p *Photo) GetComments(ctx context.Context, opts ...CallOption) ([]*PhotoComment, error) {
	return callAuth(ctx, p.client, p.objectRef(), mPhotoGetComments, nil,
		func(r transport.Payload, tok *auth.Handler) ([]*PhotoComment, error) {
			entries, err := digList(r, "comments", "comment")
			if err != nil {
				return nil, err
			}
			out := make([]*PhotoComment, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if author, ok := fields["author"].(string); ok {
					fields["author"] = p.client.newPerson(tok, map[string]any{
						"id":       author,
						"username": fields["authorname"],
					})
				}
				cm := p.client.newPhotoComment(tok, fields)
				cm.Photo = p
				out = append(out, cm)
			}
			return out, nil
		}, opts...)
}

// Delete removes the comment. The comment addresses itself; the photo is not
// consulted.
func (cm *PhotoComment) Delete(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, cm.client, cm.objectRef(), mPhotoCommentDelete, nil, opts...)
}

// Edit replaces the comment's text.
func (cm *PhotoComment) Edit(ctx context.Context, text string, opts ...CallOption) error {
	if err := callNone(ctx, cm.client, cm.objectRef(), mPhotoCommentEdit,
		Params{"comment_text": text}, opts...); err != nil {
		return err
	}
	cm.mergeFields(map[string]any{"text": text})
	return nil
}

// PhotoNote is a rectangular annotation on a photo.
type PhotoNote struct {
	Object `mapstructure:",squash"`

	Text string `mapstructure:"text"`

	Photo *Photo `mapstructure:"-"`
}

func (c *Client) newPhotoNote(tok *auth.Handler, fields map[string]any) *PhotoNote {
	n := &PhotoNote{}
	n.Object.init(c, "PhotoNote", "note_id", tok, fields, n)
	return n
}

// AddNote places a note on the photo; args carries the geometry
// (note_x, note_y, note_w, note_h).
func (p *Photo) AddNote(ctx context.Context, text string, args Params, opts ...CallOption) (*PhotoNote, error) {
	merged := args.Clone()
	if merged == nil {
		merged = Params{}
	}
	merged["note_text"] = text
	return callAuth(ctx, p.client, p.objectRef(), mPhotoAddNote, merged,
		func(r transport.Payload, tok *auth.Handler) (*PhotoNote, error) {
			id, ok := dig(r, "note", "id")
			if !ok {
				return nil, &transport.MalformedResponseError{Want: "note.id"}
			}
			n := p.client.newPhotoNote(tok, map[string]any{"id": id, "text": text})
			n.Photo = p
			return n, nil
		}, opts...)
}

// Edit replaces the note's text and geometry.
func (n *PhotoNote) Edit(ctx context.Context, text string, args Params, opts ...CallOption) error {
	merged := args.Clone()
	if merged == nil {
		merged = Params{}
	}
	merged["note_text"] = text
	if err := callNone(ctx, n.client, n.objectRef(), mPhotoNoteEdit, merged, opts...); err != nil {
		return err
	}
	n.mergeFields(map[string]any{"text": text})
	return nil
}

// Delete removes the note.
func (n *PhotoNote) Delete(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, n.client, n.objectRef(), mPhotoNoteDelete, nil, opts...)
}

// PhotoExif is one EXIF record of a photo.
type PhotoExif struct {
	Object `mapstructure:",squash"`

	TagSpace string `mapstructure:"tagspace"`
	Tag      string `mapstructure:"tag"`
	Label    string `mapstructure:"label"`
	Raw      string `mapstructure:"raw"`
}
