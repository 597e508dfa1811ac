package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mGroupGetInfo     = bind("Group.Load", "flickr.groups.getInfo")
	mGroupSearch      = bind("Client.SearchGroups", "flickr.groups.search")
	mGroupJoin        = bindAuth("Group.Join", "flickr.groups.join")
	mGroupLeave       = bindAuth("Group.Leave", "flickr.groups.leave")
	mGroupPoolAdd     = bindAuth("Group.AddPhoto", "flickr.groups.pools.add")
	mGroupPoolRemove  = bindAuth("Group.RemovePhoto", "flickr.groups.pools.remove")
	mGroupPoolPhotos  = bind("Group.GetPhotos", "flickr.groups.pools.getPhotos")
	mGroupTopics      = bind("Group.GetTopics", "flickr.groups.discuss.topics.getList")
	mGroupTopicAdd    = bindAuth("Group.AddTopic", "flickr.groups.discuss.topics.add")
	mGroupReplies     = bind("GroupTopic.GetReplies", "flickr.groups.discuss.replies.getList")
	mGroupReplyAdd    = bindAuth("GroupTopic.AddReply", "flickr.groups.discuss.replies.add")
	mGroupReplyDelete = bindAuth("GroupTopicReply.Delete", "flickr.groups.discuss.replies.delete")
)

// Group is a community group with a photo pool and a discussion board.
type Group struct {
	Object `mapstructure:",squash"`

	Name    string `mapstructure:"name"`
	Members int    `mapstructure:"members"`
	Privacy int    `mapstructure:"privacy"`
}

// NewGroup constructs a partial group from a known id.
func (c *Client) NewGroup(id string) *Group {
	return c.newGroup(nil, map[string]any{"id": id})
}

func (c *Client) newGroup(tok *auth.Handler, fields map[string]any) *Group {
	g := &Group{}
	g.Object.init(c, "Group", "group_id", tok, fields, g)
	g.loader = g.fetchInfo
	return g
}

func (g *Group) fetchInfo(ctx context.Context) (map[string]any, error) {
	return call(ctx, g.client, g.objectRef(), mGroupGetInfo, nil,
		func(r transport.Payload) (map[string]any, error) {
			return digMap(r, "group")
		})
}

// SearchGroups searches for groups by text, paginated.
func (c *Client) SearchGroups(ctx context.Context, text string, args Params, opts ...CallOption) (*List[*Group], error) {
	merged := args.Clone()
	if merged == nil {
		merged = Params{}
	}
	merged["text"] = text
	return callAuth(ctx, c, nil, mGroupSearch, merged,
		func(r transport.Payload, tok *auth.Handler) (*List[*Group], error) {
			section, err := digMap(r, "groups")
			if err != nil {
				return nil, err
			}
			entries, err := digList(section, "group")
			if err != nil {
				return nil, err
			}
			groups := make([]*Group, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if nsid, ok := fields["nsid"]; ok {
					fields["id"] = nsid
				}
				groups = append(groups, c.newGroup(tok, fields))
			}
			return &List[*Group]{Items: groups, Info: listInfo(section, "group")}, nil
		}, opts...)
}

// Join adds the calling user to the group.
func (g *Group) Join(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, g.client, g.objectRef(), mGroupJoin, nil, opts...)
}

// Leave removes the calling user from the group.
func (g *Group) Leave(ctx context.Context, opts ...CallOption) error {
	return callNone(ctx, g.client, g.objectRef(), mGroupLeave, nil, opts...)
}

// AddPhoto adds a photo (object or id) to the group pool.
func (g *Group) AddPhoto(ctx context.Context, photo any, opts ...CallOption) error {
	return callNone(ctx, g.client, g.objectRef(), mGroupPoolAdd,
		Params{"photo_id": objectID(photo)}, opts...)
}

// RemovePhoto removes a photo (object or id) from the group pool.
func (g *Group) RemovePhoto(ctx context.Context, photo any, opts ...CallOption) error {
	return callNone(ctx, g.client, g.objectRef(), mGroupPoolRemove,
		Params{"photo_id": objectID(photo)}, opts...)
}

// GetPhotos returns the group pool, paginated.
func (g *Group) GetPhotos(ctx context.Context, args Params, opts ...CallOption) (*List[*Photo], error) {
	return callAuth(ctx, g.client, g.objectRef(), mGroupPoolPhotos, joinExtras(args),
		func(r transport.Payload, tok *auth.Handler) (*List[*Photo], error) {
			return extractPhotoList(g.client, tok, r, "photos")
		}, opts...)
}

// GroupTopic is one discussion thread of a group. Replies address the topic
// and carry the group id alongside, so a topic keeps its parent reference.
type GroupTopic struct {
	Object `mapstructure:",squash"`

	Subject    string `mapstructure:"subject"`
	Message    string `mapstructure:"message"`
	AuthorName string `mapstructure:"authorname"`
	CountReply int    `mapstructure:"count_replies"`

	Group  *Group  `mapstructure:"-"`
	Author *Person `mapstructure:"-"`
}

func (c *Client) newGroupTopic(tok *auth.Handler, fields map[string]any) *GroupTopic {
	t := &GroupTopic{}
	t.Object.init(c, "GroupTopic", "topic_id", tok, fields, t)
	if author, ok := t.fields["author"].(*Person); ok {
		t.Author = author
	}
	return t
}

// GetTopics returns the group's discussion topics, paginated.
func (g *Group) GetTopics(ctx context.Context, args Params, opts ...CallOption) (*List[*GroupTopic], error) {
	return callAuth(ctx, g.client, g.objectRef(), mGroupTopics, args,
		func(r transport.Payload, tok *auth.Handler) (*List[*GroupTopic], error) {
			section, err := digMap(r, "topics")
			if err != nil {
				return nil, err
			}
			entries, err := digList(section, "topic")
			if err != nil {
				return nil, err
			}
			topics := make([]*GroupTopic, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if author, ok := fields["author"].(string); ok {
					fields["author"] = g.client.newPerson(tok, map[string]any{"id": author})
				}
				t := g.client.newGroupTopic(tok, fields)
				t.Group = g
				topics = append(topics, t)
			}
			return &List[*GroupTopic]{Items: topics, Info: listInfo(section, "topic")}, nil
		}, opts...)
}

// AddTopic starts a new discussion topic and returns it.
func (g *Group) AddTopic(ctx context.Context, subject, message string, opts ...CallOption) (*GroupTopic, error) {
	return callAuth(ctx, g.client, g.objectRef(), mGroupTopicAdd,
		Params{"subject": subject, "message": message},
		func(r transport.Payload, tok *auth.Handler) (*GroupTopic, error) {
			id, ok := dig(r, "topic", "id")
			if !ok {
				return nil, &transport.MalformedResponseError{Want: "topic.id"}
			}
			t := g.client.newGroupTopic(tok, map[string]any{
				"id": id, "subject": subject, "message": message,
			})
			t.Group = g
			return t, nil
		}, opts...)
}

// GroupTopicReply is one reply within a discussion topic.
type GroupTopicReply struct {
	Object `mapstructure:",squash"`

	Message    string `mapstructure:"message"`
	AuthorName string `mapstructure:"authorname"`

	Topic  *GroupTopic `mapstructure:"-"`
	Author *Person     `mapstructure:"-"`
}

func (c *Client) newGroupTopicReply(tok *auth.Handler, fields map[string]any) *GroupTopicReply {
	rp := &GroupTopicReply{}
	rp.Object.init(c, "GroupTopicReply", "reply_id", tok, fields, rp)
	if author, ok := rp.fields["author"].(*Person); ok {
		rp.Author = author
	}
	return rp
}

// GetReplies returns the topic's replies, paginated.
func (t *GroupTopic) GetReplies(ctx context.Context, args Params, opts ...CallOption) (*List[*GroupTopicReply], error) {
	return callAuth(ctx, t.client, t.objectRef(), mGroupReplies, args,
		func(r transport.Payload, tok *auth.Handler) (*List[*GroupTopicReply], error) {
			section, err := digMap(r, "replies")
			if err != nil {
				return nil, err
			}
			entries, err := digList(section, "reply")
			if err != nil {
				return nil, err
			}
			replies := make([]*GroupTopicReply, 0, len(entries))
			for _, e := range entries {
				fields := asMap(e)
				if author, ok := fields["author"].(string); ok {
					fields["author"] = t.client.newPerson(tok, map[string]any{"id": author})
				}
				rp := t.client.newGroupTopicReply(tok, fields)
				rp.Topic = t
				replies = append(replies, rp)
			}
			return &List[*GroupTopicReply]{Items: replies, Info: listInfo(section, "reply")}, nil
		}, opts...)
}

// AddReply posts a reply to the topic.
func (t *GroupTopic) AddReply(ctx context.Context, message string, opts ...CallOption) error {
	return callNone(ctx, t.client, t.objectRef(), mGroupReplyAdd,
		Params{"message": message}, opts...)
}

// Delete removes the reply. The remote procedure addresses the reply through
// its topic, so a reply detached from one cannot be deleted.
func (rp *GroupTopicReply) Delete(ctx context.Context, opts ...CallOption) error {
	if rp.Topic == nil || rp.Topic.ID == "" {
		return &MissingIDError{Variant: "GroupTopic"}
	}
	return callNone(ctx, rp.client, rp.objectRef(), mGroupReplyDelete,
		Params{"topic_id": rp.Topic.ID}, opts...)
}
