package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mActivityUserPhotos   = bindAuth("Client.UserPhotoActivity", "flickr.activity.userPhotos")
	mActivityUserComments = bindAuth("Client.UserCommentActivity", "flickr.activity.userComments")
)

// Activity is recent activity on one of the calling user's items: the item
// the activity happened on plus the individual events.
type Activity struct {
	// Item is the photo or photoset the events belong to.
	Item   any
	Type   string
	Events []ActivityEvent
}

// ActivityEvent is one comment, note or favorite recorded on an item.
type ActivityEvent struct {
	Type      string
	User      *Person
	Text      string
	DateAdded string
}

// UserPhotoActivity returns recent activity on the calling user's photos.
// args may carry timeframe, per_page and page.
func (c *Client) UserPhotoActivity(ctx context.Context, args Params, opts ...CallOption) ([]*Activity, error) {
	return callAuth(ctx, c, nil, mActivityUserPhotos, args, c.extractActivity, opts...)
}

// UserCommentActivity returns recent activity on items the calling user
// commented on.
func (c *Client) UserCommentActivity(ctx context.Context, args Params, opts ...CallOption) ([]*Activity, error) {
	return callAuth(ctx, c, nil, mActivityUserComments, args, c.extractActivity, opts...)
}

// extractActivity unfolds the doubly nested activity feed: items carry their
// kind in a type discriminator, events hang off each item under
// activity.event.
func (c *Client) extractActivity(r transport.Payload, tok *auth.Handler) ([]*Activity, error) {
	entries, err := digList(r, "items", "item")
	if err != nil {
		return nil, err
	}
	out := make([]*Activity, 0, len(entries))
	for _, e := range entries {
		fields := asMap(e)
		kind, _ := fields["type"].(string)

		a := &Activity{Type: kind}
		itemFields := make(map[string]any, len(fields))
		for k, v := range fields {
			if k == "activity" || k == "type" {
				continue
			}
			itemFields[k] = v
		}
		switch kind {
		case "photoset":
			a.Item = c.newPhotoset(tok, itemFields)
		default:
			a.Item = c.newPhoto(tok, itemFields)
		}

		if rawEvents, ok := dig(fields, "activity", "event"); ok {
			for _, ev := range checkList(rawEvents) {
				evFields := asMap(ev)
				event := ActivityEvent{}
				event.Type, _ = evFields["type"].(string)
				event.Text, _ = evFields["text"].(string)
				event.DateAdded = stringify(evFields["dateadded"])
				if userID, ok := evFields["user"].(string); ok {
					event.User = c.newPerson(tok, map[string]any{
						"id":       userID,
						"username": evFields["username"],
					})
				}
				a.Events = append(a.Events, event)
			}
		}
		out = append(out, a)
	}
	return out, nil
}
