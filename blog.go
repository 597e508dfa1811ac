package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mBlogList      = bindAuth("Client.Blogs", "flickr.blogs.getList")
	mBlogPostPhoto = bindAuth("Blog.PostPhoto", "flickr.blogs.postPhoto")
	mBlogServices  = bind("Client.BlogServices", "flickr.blogs.getServices")
)

// Blog is an external weblog connected to the calling user's account.
type Blog struct {
	Object `mapstructure:",squash"`

	Name          string `mapstructure:"name"`
	URL           string `mapstructure:"url"`
	Service       string `mapstructure:"service"`
	NeedsPassword bool   `mapstructure:"needspassword"`
}

func (c *Client) newBlog(tok *auth.Handler, fields map[string]any) *Blog {
	b := &Blog{}
	b.Object.init(c, "Blog", "blog_id", tok, fields, b)
	return b
}

// Blogs returns the blogs connected to the calling user's account. service
// narrows to one blogging service, empty means all.
func (c *Client) Blogs(ctx context.Context, service string, opts ...CallOption) ([]*Blog, error) {
	var args Params
	if service != "" {
		args = Params{"service": service}
	}
	return callAuth(ctx, c, nil, mBlogList, args,
		func(r transport.Payload, tok *auth.Handler) ([]*Blog, error) {
			entries, err := digList(r, "blogs", "blog")
			if err != nil {
				return nil, err
			}
			out := make([]*Blog, 0, len(entries))
			for _, e := range entries {
				out = append(out, c.newBlog(tok, asMap(e)))
			}
			return out, nil
		}, opts...)
}

// PostPhoto publishes a photo (object or id) to the blog. password is for
// blogs that require one per post, empty otherwise.
func (b *Blog) PostPhoto(ctx context.Context, photo any, title, description, password string, opts ...CallOption) error {
	args := Params{
		"photo_id":    objectID(photo),
		"title":       title,
		"description": description,
	}
	if password != "" {
		args["blog_password"] = password
	}
	return callNone(ctx, b.client, b.objectRef(), mBlogPostPhoto, args, opts...)
}

// BlogService is one supported external blogging service.
type BlogService struct {
	Object `mapstructure:",squash"`

	Text string `mapstructure:"text"`
}

// BlogServices returns the blogging services photos can be posted to.
func (c *Client) BlogServices(ctx context.Context, opts ...CallOption) ([]*BlogService, error) {
	return call(ctx, c, nil, mBlogServices, nil,
		func(r transport.Payload) ([]*BlogService, error) {
			entries, err := digList(r, "services", "service")
			if err != nil {
				return nil, err
			}
			out := make([]*BlogService, 0, len(entries))
			for _, e := range entries {
				s := &BlogService{}
				s.Object.init(c, "BlogService", "service", nil, asMap(e), s)
				out = append(out, s)
			}
			return out, nil
		}, opts...)
}
