package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory(time.Minute, 10)
	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache reported a hit")
	}
	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get = %q, %t", got, ok)
	}
	if !c.Contains("k") {
		t.Error("Contains missed a stored key")
	}
	c.Delete("k")
	if c.Contains("k") {
		t.Error("Delete left the key behind")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory(time.Minute, 10)
	c.Set("k", []byte("v"))
	c.entries["k"] = memoryEntry{value: []byte("v"), expires: time.Now().Add(-time.Second)}
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry reported as a hit")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed on read, Len = %d", c.Len())
	}
}

func TestMemoryCullsWhenFull(t *testing.T) {
	c := NewMemory(time.Minute, 9)
	for i := 0; i < 9; i++ {
		c.Set(fmt.Sprintf("k%d", i), []byte("v"))
	}
	if c.Len() != 9 {
		t.Fatalf("Len = %d before cull", c.Len())
	}
	c.Set("overflow", []byte("v"))
	// Every third key of the nine gets culled before the insert.
	if got := c.Len(); got != 7 {
		t.Errorf("Len = %d after cull, want 7", got)
	}
	if !c.Contains("overflow") {
		t.Error("new entry missing after cull")
	}
}
