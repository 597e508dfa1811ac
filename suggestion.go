package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mSuggestionList    = bindAuth("Photo.GetSuggestions", "flickr.photos.suggestions.getList")
	mSuggestLocation   = bindAuth("Photo.SuggestLocation", "flickr.photos.suggestions.suggestLocation")
	mSuggestionApprove = bindAuth("PhotoSuggestion.Approve", "flickr.photos.suggestions.approveSuggestion")
	mSuggestionReject  = bindAuth("PhotoSuggestion.Reject", "flickr.photos.suggestions.rejectSuggestion")
	mSuggestionRemove  = bindAuth("PhotoSuggestion.Remove", "flickr.photos.suggestions.removeSuggestion")
)

// PhotoSuggestion is a location suggested for someone else's photo, pending
// the owner's decision.
type PhotoSuggestion struct {
	Object `mapstructure:",squash"`

	Note string `mapstructure:"note"`

	Photo       *Photo  `mapstructure:"-"`
	SuggestedBy *Person `mapstructure:"-"`
}

func (c *Client) newPhotoSuggestion(tok *auth.Handler, fields map[string]any) *PhotoSuggestion {
	s := &PhotoSuggestion{}
	s.Object.init(c, "PhotoSuggestion", "suggestion_id", tok, fields, s)
	if by, ok := s.fields["suggested_by"].(*Person); ok {
		s.SuggestedBy = by
	}
	return s
}

// GetSuggestions returns the pending location suggestions for the photo.
func (p *Photo) GetSuggestions(ctx context.Context, opts ...CallOption) ([]*PhotoSuggestion, error) {
	return callAuth(ctx, p.client, p.objectRef(), mSuggestionList, nil,
		func(r transport.Payload, tok *auth.Handler) ([]*PhotoSuggestion, error) {
			entries, err := digList(r, "suggestions", "suggestion")
			if err != nil {
				return nil, err
			}
			out := make([]*PhotoSuggestion, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if by, ok := fields["suggested_by"].(map[string]any); ok {
					if nsid, ok := by["nsid"]; ok {
						by["id"] = nsid
					}
					fields["suggested_by"] = p.client.newPerson(tok, by)
				}
				s := p.client.newPhotoSuggestion(tok, fields)
				s.Photo = p
				out = append(out, s)
			}
			return out, nil
		}, opts...)
}

// SuggestLocation proposes a location for the photo. args carries lat, lon
// and optionally accuracy, woe_id, place_id and note.
func (p *Photo) SuggestLocation(ctx context.Context, lat, lon float64, args Params, opts ...CallOption) error {
	merged := args.Clone()
	merged["lat"] = lat
	merged["lon"] = lon
	return callNone(ctx, p.client, p.objectRef(), mSuggestLocation, merged, opts...)
}

// Approve accepts the suggestion, geotagging the photo with it.
func (s *PhotoSuggestion) Approve(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, s.client, s.objectRef(), mSuggestionApprove, nil, opts...)
}

// Reject declines the suggestion.
func (s *PhotoSuggestion) Reject(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, s.client, s.objectRef(), mSuggestionReject, nil, opts...)
}

// Remove withdraws a suggestion the calling user made.
func (s *PhotoSuggestion) Remove(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, s.client, s.objectRef(), mSuggestionRemove, nil, opts...)
}
