package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mPersonGetInfo      = bind("Person.Load", "flickr.people.getInfo")
	mPersonByUsername   = bind("Client.FindPersonByUsername", "flickr.people.findByUsername")
	mPersonByEmail      = bind("Client.FindPersonByEmail", "flickr.people.findByEmail")
	mPersonGetPhotos    = bind("Person.GetPhotos", "flickr.people.getPhotos")
	mPersonPublicPhotos = bind("Person.GetPublicPhotos", "flickr.people.getPublicPhotos")
	mPersonPhotosOf     = bind("Person.GetPhotosOf", "flickr.people.getPhotosOf")
	mPersonPhotosets    = bind("Person.GetPhotosets", "flickr.photosets.getList")
	mPersonGalleries    = bind("Person.GetGalleries", "flickr.galleries.getList")
	mPersonGetTags      = bindAuth("Person.GetTags", "flickr.tags.getListUser")
)

// Person is a user account.
type Person struct {
	Object `mapstructure:",squash"`

	Username  string `mapstructure:"username"`
	RealName  string `mapstructure:"realname"`
	Location  string `mapstructure:"location"`
	PathAlias string `mapstructure:"path_alias"`
	IsPro     bool   `mapstructure:"ispro"`
}

// NewPerson constructs a partial person from a known id.
func (c *Client) NewPerson(id string) *Person {
	return c.newPerson(nil, map[string]any{"id": id})
}

func (c *Client) newPerson(tok *auth.Handler, fields map[string]any) *Person {
	p := &Person{}
	p.Object.init(c, "Person", "user_id", tok, fields, p)
	p.loader = p.fetchInfo
	return p
}

func (p *Person) fetchInfo(ctx context.Context) (map[string]any, error) {
	return call(ctx, p.client, p.objectRef(), mPersonGetInfo, nil,
		func(r transport.Payload) (map[string]any, error) {
			person, err := digMap(r, "person")
			if err != nil {
				return nil, err
			}
			// The photo counters live under their own key; keep them reachable
			// without shadowing the person's own fields.
			if photos, ok := person["photos"].(map[string]any); ok {
				delete(person, "photos")
				person["photos_info"] = photos
			}
			return person, nil
		})
}

// FindPersonByUsername resolves a username to a person.
func (c *Client) FindPersonByUsername(ctx context.Context, username string, opts ...CallOption) (*Person, error) {
	return callAuth(ctx, c, nil, mPersonByUsername, Params{"username": username},
		func(r transport.Payload, tok *auth.Handler) (*Person, error) {
			user, err := digMap(r, "user")
			if err != nil {
				return nil, err
			}
			return c.newPerson(tok, user), nil
		}, opts...)
}

// FindPersonByEmail resolves an email address to a person.
func (c *Client) FindPersonByEmail(ctx context.Context, email string, opts ...CallOption) (*Person, error) {
	return callAuth(ctx, c, nil, mPersonByEmail, Params{"find_email": email},
		func(r transport.Payload, tok *auth.Handler) (*Person, error) {
			user, err := digMap(r, "user")
			if err != nil {
				return nil, err
			}
			return c.newPerson(tok, user), nil
		}, opts...)
}

// GetPhotos returns the person's photos visible to the calling user,
// paginated.
func (p *Person) GetPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPersonGetPhotos, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(p.client, tok, r, "photos")
		}, opts...)
}

// GetPublicPhotos returns the person's public photos, paginated.
func (p *Person) GetPublicPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPersonPublicPhotos, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(p.client, tok, r, "photos")
		}, opts...)
}

// GetPhotosOf returns photos the person appears in, paginated.
func (p *Person) GetPhotosOf(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPersonPhotosOf, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(p.client, tok, r, "photos")
		}, opts...)
}

// GetPhotosets returns the person's photosets, paginated.
func (p *Person) GetPhotosets(ctx context.Context, args Params, opts ...CallOption) (*List[*Photoset], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPersonPhotosets, args,
		func(r transport.Payload, tok *auth.Handler) (*List[*Photoset], error) {
			section, err := digMap(r, "photosets")
			if err != nil {
				return nil, err
			}
			entries, err := digList(section, "photoset")
			if err != nil {
				return nil, err
			}
			sets := make([]*Photoset, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				fields["owner"] = p
				sets = append(sets, p.client.newPhotoset(tok, fields))
			}
			return &List[*Photoset]{Items: sets, Info: listInfo(section, "photoset")}, nil
		}, opts...)
}

// GetGalleries returns the person's galleries, paginated.
func (p *Person) GetGalleries(ctx context.Context, args Params, opts ...CallOption) (*List[*Gallery], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPersonGalleries, args,
		func(r transport.Payload, tok *auth.Handler) (*List[*Gallery], error) {
			section, err := digMap(r, "galleries")
			if err != nil {
				return nil, err
			}
			entries, err := digList(section, "gallery")
			if err != nil {
				return nil, err
			}
			galleries := make([]*Gallery, 0, len(entries))
			for _, e := range entries {
				galleries = append(galleries, p.client.newGallery(tok, asMap(e)))
			}
			return &List[*Gallery]{Items: galleries, Info: listInfo(section, "gallery")}, nil
		}, opts...)
}

// GetTags returns the person's tags.
func (p *Person) GetTags(ctx context.Context, opts ...CallOption) ([]*Tag, error) {
	return callAuth(ctx, p.client, p.objectRef(), mPersonGetTags, nil,
		func(r transport.Payload, tok *auth.Handler) ([]*Tag, error) {
			entries, err := digList(r, "who", "tags", "tag")
			if err != nil {
				return nil, err
			}
			out := make([]*Tag, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if text, ok := fields["text"]; ok {
					if _, hasID := fields["id"]; !hasID {
						fields["id"] = text
					}
				}
				out = append(out, p.client.newTag(tok, fields))
			}
			return out, nil
		}, opts...)
}
