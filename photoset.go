package flickr

import (
	"context"
	"strings"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mPhotosetGetInfo       = bind("Photoset.Load", "flickr.photosets.getInfo")
	mPhotosetCreate        = bindAuth("Client.CreatePhotoset", "flickr.photosets.create")
	mPhotosetDelete        = bindAuth("Photoset.Delete", "flickr.photosets.delete")
	mPhotosetEditMeta      = bindAuth("Photoset.EditMeta", "flickr.photosets.editMeta")
	mPhotosetEditPhotos    = bindAuth("Photoset.EditPhotos", "flickr.photosets.editPhotos")
	mPhotosetAddPhoto      = bindAuth("Photoset.AddPhoto", "flickr.photosets.addPhoto")
	mPhotosetRemovePhoto   = bindAuth("Photoset.RemovePhoto", "flickr.photosets.removePhoto")
	mPhotosetGetPhotos     = bind("Photoset.GetPhotos", "flickr.photosets.getPhotos")
	mPhotosetAddComment    = bindAuth("Photoset.AddComment", "flickr.photosets.comments.addComment")
	mPhotosetGetComments   = bind("Photoset.GetComments", "flickr.photosets.comments.getList")
	mPhotosetCommentDelete = bindAuth("PhotosetComment.Delete", "flickr.photosets.comments.deleteComment")
	mPhotosetCommentEdit   = bindAuth("PhotosetComment.Edit", "flickr.photosets.comments.editComment")
)

// Photoset is an ordered collection of one user's photos.
type Photoset struct {
	Object `mapstructure:",squash"`

	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Photos      int    `mapstructure:"photos"`
	Videos      int    `mapstructure:"videos"`
	Primary     string `mapstructure:"primary"`

	Owner *Person `mapstructure:"-"`
}

// NewPhotoset constructs a partial photoset from a known id.
func (c *Client) NewPhotoset(id string) *Photoset {
	return c.newPhotoset(nil, map[string]any{"id": id})
}

func (c *Client) newPhotoset(tok *auth.Handler, fields map[string]any) *Photoset {
	s := &Photoset{}
	s.Object.init(c, "Photoset", "photoset_id", tok, fields, s)
	s.loader = s.fetchInfo
	if owner, ok := s.fields["owner"].(*Person); ok {
		s.Owner = owner
	}
	return s
}

func (s *Photoset) fetchInfo(ctx context.Context) (map[string]any, error) {
	return callAuth(ctx, s.client, s.objectRef(), mPhotosetGetInfo, nil,
		func(r transport.Payload, tok *auth.Handler) (map[string]any, error) {
			set, err := digMap(r, "photoset")
			if err != nil {
				return nil, err
			}
			if ownerID, ok := set["owner"].(string); ok {
				owner := s.client.newPerson(tok, map[string]any{"id": ownerID})
				set["owner"] = owner
				s.Owner = owner
			}
			return set, nil
		})
}

// CreatePhotoset creates a photoset with the given primary photo (object or
// id).
func (c *Client) CreatePhotoset(ctx context.Context, title, description string, primaryPhoto any, opts ...CallOption) (*Photoset, error) {
	args := Params{
		"title":            title,
		"description":      description,
		"primary_photo_id": objectID(primaryPhoto),
	}
	return callAuth(ctx, c, nil, mPhotosetCreate, args,
		func(r transport.Payload, tok *auth.Handler) (*Photoset, error) {
			set, err := digMap(r, "photoset")
			if err != nil {
				return nil, err
			}
			set["title"] = title
			set["description"] = description
			return c.newPhotoset(tok, set), nil
		}, opts...)
}

// Delete removes the photoset. Its photos are untouched.
func (s *Photoset) Delete(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, s.client, s.objectRef(), mPhotosetDelete, nil, opts...)
}

// EditMeta updates the photoset's title and description.
func (s *Photoset) EditMeta(ctx context.Context, title, description string, opts ...CallOption) error {
	if err := callNone(ctx, s.client, s.objectRef(), mPhotosetEditMeta,
		Params{"title": title, "description": description}, opts...); err != nil {
		return err
	}
	s.mergeFields(map[string]any{"title": title, "description": description})
	return nil
}

// EditPhotos replaces the photoset's contents and primary photo in one call.
func (s *Photoset) EditPhotos(ctx context.Context, primaryPhoto any, photos []any, opts ...CallOption) error {
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, objectID(p))
	}
	return callNone(ctx, s.client, s.objectRef(), mPhotosetEditPhotos, Params{
		"primary_photo_id": objectID(primaryPhoto),
		"photo_ids":        strings.Join(ids, ","),
	}, opts...)
}

// AddPhoto appends a photo (object or id) to the photoset.
func (s *Photoset) AddPhoto(ctx context.Context, photo any, opts ...CallOption) error {
	return callNone(ctx, s.client, s.objectRef(), mPhotosetAddPhoto,
		Params{"photo_id": objectID(photo)}, opts...)
}

// RemovePhoto removes a photo (object or id) from the photoset.
func (s *Photoset) RemovePhoto(ctx context.Context, photo any, opts ...CallOption) error {
	return callNone(ctx, s.client, s.objectRef(), mPhotosetRemovePhoto,
		Params{"photo_id": objectID(photo)}, opts...)
}

// GetPhotos returns the photoset's photos, paginated.
func (s *Photoset) GetPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, s.client, s.objectRef(), mPhotosetGetPhotos, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(s.client, tok, r, "photoset")
		}, opts...)
}

// PhotosetComment is a comment on a photoset.
type PhotosetComment struct {
	Object `mapstructure:",squash"`

	Text       string `mapstructure:"text"`
	AuthorName string `mapstructure:"authorname"`

	Photoset *Photoset `mapstructure:"-"`
	Author   *Person   `mapstructure:"-"`
}

func (c *Client) newPhotosetComment(tok *auth.Handler, fields map[string]any) *PhotosetComment {
	cm := &PhotosetComment{}
	cm.Object.init(c, "PhotosetComment", "comment_id", tok, fields, cm)
	if author, ok := cm.fields["author"].(*Person); ok {
		cm.Author = author
	}
	return cm
}

// AddComment posts a comment on the photoset and returns it.
func (s *Photoset) AddComment(ctx context.Context, text string, opts ...CallOption) (*PhotosetComment, error) {
	return callAuth(ctx, s.client, s.objectRef(), mPhotosetAddComment, Params{"comment_text": text},
		func(r transport.Payload, tok *auth.Handler) (*PhotosetComment, error) {
			id, ok := dig(r, "comment", "id")
			if !ok {
				return nil, &transport.MalformedResponseError{Want: "comment.id"}
			}
			cm := s.client.newPhotosetComment(tok, map[string]any{"id": id, "text": text})
			cm.Photoset = s
			return cm, nil
		}, opts...)
}

// GetComments returns the photoset's comments.
func (s *Photoset) GetComments(ctx context.Context, opts ...CallOption) ([]*PhotosetComment, error) {
	return callAuth(ctx, s.client, s.objectRef(), mPhotosetGetComments, nil,
		func(r transport.Payload, tok *auth.Handler) ([]*PhotosetComment, error) {
			entries, err := digList(r, "comments", "comment")
			if err != nil {
				return nil, err
			}
			out := make([]*PhotosetComment, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if author, ok := fields["author"].(string); ok {
					fields["author"] = s.client.newPerson(tok, map[string]any{
						"id":       author,
						"username": fields["authorname"],
					})
				}
				cm := s.client.newPhotosetComment(tok, fields)
				cm.Photoset = s
				out = append(out, cm)
			}
			return out, nil
		}, opts...)
}

// Delete removes the comment.
func (cm *PhotosetComment) Delete(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, cm.client, cm.objectRef(), mPhotosetCommentDelete, nil, opts...)
}

// Edit replaces the comment's text.
func (cm *PhotosetComment) Edit(ctx context.Context, text string, opts ...CallOption) error {
	if err := callNone(ctx, cm.client, cm.objectRef(), mPhotosetCommentEdit,
		Params{"comment_text": text}, opts...); err != nil {
		return err
	}
	cm.mergeFields(map[string]any{"text": text})
	return nil
}
