package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mGalleryGetInfo   = bind("Gallery.Load", "flickr.galleries.getInfo")
	mGalleryCreate    = bindAuth("Client.CreateGallery", "flickr.galleries.create")
	mGalleryAddPhoto  = bindAuth("Gallery.AddPhoto", "flickr.galleries.addPhoto")
	mGalleryEditMeta  = bindAuth("Gallery.EditMeta", "flickr.galleries.editMeta")
	mGalleryEditPhoto = bindAuth("Gallery.EditPhoto", "flickr.galleries.editPhoto")
	mGalleryGetPhotos = bind("Gallery.GetPhotos", "flickr.galleries.getPhotos")
)

// Gallery is a curated collection of other people's photos.
type Gallery struct {
	Object `mapstructure:",squash"`

	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Owner       string `mapstructure:"owner"`
	CountPhotos int    `mapstructure:"count_photos"`
	CountVideos int    `mapstructure:"count_videos"`
	URL         string `mapstructure:"url"`
}

// NewGallery constructs a partial gallery from a known id.
func (c *Client) NewGallery(id string) *Gallery {
	return c.newGallery(nil, map[string]any{"id": id})
}

func (c *Client) newGallery(tok *auth.Handler, fields map[string]any) *Gallery {
	g := &Gallery{}
	g.Object.init(c, "Gallery", "gallery_id", tok, fields, g)
	g.loader = g.fetchInfo
	return g
}

func (g *Gallery) fetchInfo(ctx context.Context) (map[string]any, error) {
	return call(ctx, g.client, g.objectRef(), mGalleryGetInfo, nil,
		func(r transport.Payload) (map[string]any, error) {
			return digMap(r, "gallery")
		})
}

// CreateGallery creates a gallery, optionally seeded with a primary photo
// (object or id, nil for none).
func (c *Client) CreateGallery(ctx context.Context, title, description string, primaryPhoto any, opts ...CallOption) (*Gallery, error) {
	args := Params{"title": title, "description": description}
	if primaryPhoto != nil {
		args["primary_photo_id"] = objectID(primaryPhoto)
	}
	return callAuth(ctx, c, nil, mGalleryCreate, args,
		func(r transport.Payload, tok *auth.Handler) (*Gallery, error) {
			gallery, err := digMap(r, "gallery")
			if err != nil {
				return nil, err
			}
			gallery["title"] = title
			gallery["description"] = description
			return c.newGallery(tok, gallery), nil
		}, opts...)
}

// AddPhoto adds a photo (object or id) to the gallery with an optional
// comment.
func (g *Gallery) AddPhoto(ctx context.Context, photo any, comment string, opts ...CallOption) error {
	args := Params{"photo_id": objectID(photo)}
	if comment != "" {
		args["comment"] = comment
	}
	return callNone(ctx, g.client, g.objectRef(), mGalleryAddPhoto, args, opts...)
}

// EditMeta updates the gallery's title and description.
func (g *Gallery) EditMeta(ctx context.Context, title, description string, opts ...CallOption) error {
	if err := callNone(ctx, g.client, g.objectRef(), mGalleryEditMeta,
		Params{"title": title, "description": description}, opts...); err != nil {
		return err
	}
	g.mergeFields(map[string]any{"title": title, "description": description})
	return nil
}

// EditPhoto replaces the gallery's comment on one of its photos.
func (g *Gallery) EditPhoto(ctx context.Context, photo any, comment string, opts ...CallOption) error {
	return callNone(ctx, g.client, g.objectRef(), mGalleryEditPhoto,
		Params{"photo_id": objectID(photo), "comment": comment}, opts...)
}

// GetPhotos returns the gallery's photos, paginated.
func (g *Gallery) GetPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, g.client, g.objectRef(), mGalleryGetPhotos, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(g.client, tok, r, "photos")
		}, opts...)
}
