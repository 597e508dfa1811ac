package flickr

import (
	"context"
	"testing"
)

func TestSearchGroups(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.groups.search",
		`{"stat":"ok","groups":{"page":1,"pages":1,"perpage":10,"total":"1","group":[
			{"nsid":"g1","name":"Birds","members":"1200"}
		]}}`)

	list, err := client.SearchGroups(context.Background(), "birds", nil)
	if err != nil {
		t.Fatalf("SearchGroups: %v", err)
	}
	if got := api.lastCall().Get("text"); got != "birds" {
		t.Errorf("text = %q", got)
	}
	g := list.Items[0]
	if g.ID != "g1" || g.Name != "Birds" || g.Members != 1200 {
		t.Errorf("group = %+v", g)
	}
}

func TestGroupTopicsAndReplies(t *testing.T) {
	client, api := newTestClient(t)
	api.respond("flickr.groups.discuss.topics.getList",
		`{"stat":"ok","topics":{"page":1,"pages":1,"perpage":10,"total":"1","topic":[
			{"id":"t1","subject":"Welcome","author":"u1","authorname":"alice","count_replies":"3"}
		]}}`)
	api.respond("flickr.groups.discuss.replies.getList",
		`{"stat":"ok","replies":{"page":1,"pages":1,"perpage":10,"total":"1","reply":[
			{"id":"r1","author":"u2","authorname":"bob","message":{"_content":"hi"}}
		]}}`)

	group := client.NewGroup("g1")
	topics, err := group.GetTopics(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetTopics: %v", err)
	}
	topic := topics.Items[0]
	if topic.Subject != "Welcome" || topic.CountReply != 3 {
		t.Errorf("topic = %+v", topic)
	}
	if topic.Group != group {
		t.Error("topic lost its group reference")
	}
	if topic.Author == nil || topic.Author.ID != "u1" {
		t.Errorf("author = %+v", topic.Author)
	}

	replies, err := topic.GetReplies(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetReplies: %v", err)
	}
	if got := api.lastCall().Get("topic_id"); got != "t1" {
		t.Errorf("topic_id = %q", got)
	}
	reply := replies.Items[0]
	if reply.Message != "hi" {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Topic != topic {
		t.Error("reply lost its topic reference")
	}
}

func TestReplyDeleteSendsTopicID(t *testing.T) {
	client, api := newTestClient(t, WithAuthHandler(testAuthHandler(t)))

	group := client.NewGroup("g1")
	topic := client.newGroupTopic(nil, map[string]any{"id": "t1"})
	topic.Group = group
	reply := client.newGroupTopicReply(nil, map[string]any{"id": "r1"})
	reply.Topic = topic

	if err := reply.Delete(context.Background()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	last := api.lastCall()
	if last.Get("topic_id") != "t1" || last.Get("reply_id") != "r1" {
		t.Errorf("params = %v", last)
	}

	orphan := client.newGroupTopicReply(nil, map[string]any{"id": "r2"})
	if err := orphan.Delete(context.Background()); err == nil {
		t.Error("expected error for reply without topic")
	}
}
