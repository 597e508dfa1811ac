package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewSQLite(path, time.Minute)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache reported a hit")
	}
	c.Set("k", []byte("body"))
	got, ok := c.Get("k")
	if !ok || string(got) != "body" {
		t.Errorf("Get = %q, %t", got, ok)
	}
	if !c.Contains("k") {
		t.Error("Contains missed a stored key")
	}

	// Overwrites replace the previous body.
	c.Set("k", []byte("other"))
	got, _ = c.Get("k")
	if string(got) != "other" {
		t.Errorf("after overwrite Get = %q", got)
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewSQLite(path, time.Minute)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	c.Set("k", []byte("v"))
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLite(path, time.Minute)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()
	got, ok := reopened.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %t", got, ok)
	}
}

func TestSQLiteExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewSQLite(path, time.Minute)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer c.Close()

	c.Set("k", []byte("v"))
	if _, err := c.db.Exec(`UPDATE responses SET expires_at = 0 WHERE key = 'k'`); err != nil {
		t.Fatalf("forcing expiry: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry reported as a hit")
	}
}
