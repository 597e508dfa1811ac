package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mPlaceGetInfo  = bind("Place.Load", "flickr.places.getInfo")
	mPlaceFind     = bind("Client.FindPlaces", "flickr.places.find")
	mPlaceFindLL   = bind("Client.FindPlacesByLatLon", "flickr.places.findByLatLon")
	mPlaceTags     = bind("Place.GetTags", "flickr.places.tagsForPlace")
	mPlaceChildren = bind("Place.GetChildrenWithPhotos", "flickr.places.getChildrenWithPhotosPublic")
)

// Place is a geographic location in the places hierarchy.
type Place struct {
	Object `mapstructure:",squash"`

	Name      string  `mapstructure:"name"`
	WoeID     string  `mapstructure:"woeid"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	PlaceType string  `mapstructure:"place_type"`
	PlaceURL  string  `mapstructure:"place_url"`
}

// NewPlace constructs a partial place from a known id.
func (c *Client) NewPlace(id string) *Place {
	return c.newPlace(nil, map[string]any{"id": id})
}

func (c *Client) newPlace(tok *auth.Handler, fields map[string]any) *Place {
	p := &Place{}
	// Place records carry their id under place_id.
	if placeID, ok := fields["place_id"]; ok {
		fields["id"] = placeID
	}
	p.Object.init(c, "Place", "place_id", tok, fields, p)
	p.loader = p.fetchInfo
	return p
}

func (p *Place) fetchInfo(ctx context.Context) (map[string]any, error) {
	return call(ctx, p.client, p.objectRef(), mPlaceGetInfo, nil,
		func(r transport.Payload) (map[string]any, error) {
			place, err := digMap(r, "place")
			if err != nil {
				return nil, err
			}
			if placeID, ok := place["place_id"]; ok {
				place["id"] = placeID
			}
			return place, nil
		})
}

// FindPlaces resolves a free-text query to matching places.
func (c *Client) FindPlaces(ctx context.Context, query string, opts ...CallOption) (*List[*Place], error) {
	return callAuth(ctx, c, nil, mPlaceFind, Params{"query": query},
		func(r transport.Payload, tok *auth.Handler) (*List[*Place], error) {
			return extractPlaceList(c, tok, r)
		}, opts...)
}

// FindPlacesByLatLon resolves a coordinate pair to the enclosing places.
func (c *Client) FindPlacesByLatLon(ctx context.Context, lat, lon float64, args Params, opts ...CallOption) (*List[*Place], error) {
	merged := args.Clone()
	if merged == nil {
		merged = Params{}
	}
	merged["lat"] = lat
	merged["lon"] = lon
	return callAuth(ctx, c, nil, mPlaceFindLL, merged,
		func(r transport.Payload, tok *auth.Handler) (*List[*Place], error) {
			return extractPlaceList(c, tok, r)
		}, opts...)
}

func extractPlaceList(c *Client, tok *auth.Handler, r transport.Payload) (*List[*Place], error) {
	section, err := digMap(r, "places")
	if err != nil {
		return nil, err
	}
	entries, err := digList(section, "place")
	if err != nil {
		return nil, err
	}
	places := make([]*Place, 0, len(entries))
	for _, e := range entries {
		places = append(places, c.newPlace(tok, asMap(e)))
	}
	return &List[*Place]{Items: places, Info: listInfo(section, "place")}, nil
}

// GetTags returns the tags most used for photos taken in the place.
func (p *Place) GetTags(ctx context.Context, args Params, opts ...CallOption) ([]*Tag, error) {
	return callAuth(ctx, p.client, p.objectRef(), mPlaceTags, args,
		func(r transport.Payload, tok *auth.Handler) ([]*Tag, error) {
			entries, err := digList(r, "tags", "tag")
			if err != nil {
				return nil, err
			}
			out := make([]*Tag, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if text, ok := fields["text"]; ok {
					fields["id"] = text
				}
				out = append(out, p.client.newTag(tok, fields))
			}
			return out, nil
		}, opts...)
}

// GetChildrenWithPhotos returns sub-places that have public photos.
func (p *Place) GetChildrenWithPhotos(ctx context.Context, opts ...CallOption) (*List[*Place], error) {
	return callAuth(ctx, p.client, p.objectRef(), mPlaceChildren, nil,
		func(r transport.Payload, tok *auth.Handler) (*List[*Place], error) {
			return extractPlaceList(p.client, tok, r)
		}, opts...)
}
