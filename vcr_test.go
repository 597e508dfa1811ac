package flickr

import (
	"context"
	"testing"

	"github.com/photoflow/go-flickr/internal/testutil"
)

func TestEchoAgainstCassette(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "test_echo")
	defer cleanup()

	client := New("test-key", "test-secret",
		WithHTTPClient(testutil.VCRHTTPClient(r)))

	resp, err := client.TestEcho(context.Background(), Params{"ping": "pong"})
	if err != nil {
		t.Fatalf("TestEcho: %v", err)
	}
	if resp["ping"] != "pong" {
		t.Errorf("ping = %v", resp["ping"])
	}
	if resp["method"] != "flickr.test.echo" {
		t.Errorf("method = %v", resp["method"])
	}
}
