package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mTagRemove      = bindAuth("Tag.Remove", "flickr.photos.removeTag")
	mTagHotList     = bind("Client.HotTags", "flickr.tags.getHotList")
	mTagRelated     = bind("Client.RelatedTags", "flickr.tags.getRelated")
	mTagClusters    = bind("Client.TagClusters", "flickr.tags.getClusters")
	mTagClusterList = bind("Client.TagClusterPhotos", "flickr.tags.getClusterPhotos")
)

// Tag is a label attached to a photo. Tags coming from a photo carry the
// removable tag id; tags coming from aggregate listings carry only text.
type Tag struct {
	Object `mapstructure:",squash"`

	Text  string `mapstructure:"text"`
	Raw   string `mapstructure:"raw"`
	Score int    `mapstructure:"score"`

	Author *Person `mapstructure:"-"`
}

func (c *Client) newTag(tok *auth.Handler, fields map[string]any) *Tag {
	t := &Tag{}
	t.Object.init(c, "Tag", "tag_id", tok, fields, t)
	if author, ok := t.fields["author"].(*Person); ok {
		t.Author = author
	}
	return t
}

// Remove detaches the tag from its photo.
func (t *Tag) Remove(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, t.client, t.objectRef(), mTagRemove, nil, opts...)
}

// HotTags returns the currently trending tags. args may carry period and
// count.
func (c *Client) HotTags(ctx context.Context, args Params, opts ...CallOption) ([]*Tag, error) {
	return callAuth(ctx, c, nil, mTagHotList, args,
		func(r transport.Payload, tok *auth.Handler) ([]*Tag, error) {
			entries, err := digList(r, "hottags", "tag")
			if err != nil {
				return nil, err
			}
			out := make([]*Tag, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if text, ok := fields["text"]; ok {
					fields["id"] = text
				}
				out = append(out, c.newTag(tok, fields))
			}
			return out, nil
		}, opts...)
}

// RelatedTags returns tags frequently used together with the given one.
func (c *Client) RelatedTags(ctx context.Context, tag string, opts ...CallOption) ([]string, error) {
	return call(ctx, c, nil, mTagRelated, Params{"tag": tag},
		func(r transport.Payload) ([]string, error) {
			entries, err := digList(r, "tags", "tag")
			if err != nil {
				return nil, err
			}
			out := make([]string, 0, len(entries))
			for _, e := range entries {
				if s, ok := e.(string); ok {
					out = append(out, s)
				}
			}
			return out, nil
		}, opts...)
}

// TagClusters returns the usage clusters of a tag, each a group of related
// tag texts.
func (c *Client) TagClusters(ctx context.Context, tag string, opts ...CallOption) ([][]string, error) {
	return call(ctx, c, nil, mTagClusters, Params{"tag": tag},
		func(r transport.Payload) ([][]string, error) {
			entries, err := digList(r, "clusters", "cluster")
			if err != nil {
				return nil, err
			}
			out := make([][]string, 0, len(entries))
			for _, e := range entries {
				cluster := asMap(e)
				var texts []string
				for _, t := range checkList(cluster["tag"]) {
					if s, ok := t.(string); ok {
						texts = append(texts, s)
					}
				}
				out = append(out, texts)
			}
			return out, nil
		}, opts...)
}

// TagClusterPhotos returns sample photos for one cluster of a tag.
func (c *Client) TagClusterPhotos(ctx context.Context, tag, clusterID string, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, c, nil, mTagClusterList, Params{"tag": tag, "cluster_id": clusterID},
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(c, tok, r, "photos")
		}, opts...)
}
