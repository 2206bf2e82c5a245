package cache

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)

	if _, found := c.Get("missing"); found {
		t.Error("Get on empty cache: want miss")
	}

	if err := c.Set("k", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found := c.Get("k")
	if !found || !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get = %q, %v", got, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Get after Delete: want miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Get after TTL: want miss")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := SearchKey("tavily", "some query", 3)
	if err := c.Set(key, []byte(`[{"title":"T"}]`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found := c.Get(key)
	if !found || !bytes.Equal(got, []byte(`[{"title":"T"}]`)) {
		t.Errorf("Get = %q, %v", got, found)
	}

	// A fresh cache over the same directory sees the entry
	reopened := NewDiskCache(dir, time.Hour)
	if _, found := reopened.Get(key); !found {
		t.Error("entry not visible after reopen")
	}
}

func TestDiskCache_ExpiredEntryRemoved(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Get after TTL: want miss")
	}

	// The expired file is removed on read
	matches, err := filepath.Glob(filepath.Join(dir, "*.cache"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expired cache files left on disk: %v", matches)
	}
}

func TestDiskCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("Get after Clear: want miss")
	}
}

func TestLayeredCache_DiskHitPromotedToMemory(t *testing.T) {
	dir := t.TempDir()

	// Seed disk directly, bypassing the layered Set
	seed := NewDiskCache(dir, time.Hour)
	if err := seed.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("seed Set: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Hour)

	got, found := c.Get("k")
	if !found || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("Get = %q, %v", got, found)
	}

	// After promotion the value survives removal of the disk layer
	if err := seed.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Error("promoted entry missing from memory layer")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	disk := NewDiskCache(dir, time.Hour)
	if _, found := disk.Get("k"); !found {
		t.Error("entry missing from disk layer")
	}
}

func TestSearchKey_Deterministic(t *testing.T) {
	a := SearchKey("bing", "q", 3)
	b := SearchKey("bing", "q", 3)
	if a != b {
		t.Errorf("keys differ for identical inputs: %q vs %q", a, b)
	}
	if SearchKey("bing", "q", 3) == SearchKey("google", "q", 3) {
		t.Error("keys collide across providers")
	}
}
