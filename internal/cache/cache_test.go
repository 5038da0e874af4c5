package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("capital", "France")
	b := CacheKey("capital", "france")
	c := CacheKey("capital", "Germany")

	if a != b {
		t.Errorf("expected case-insensitive keys, got %s and %s", a, b)
	}
	if a == c {
		t.Error("expected different keys for different countries")
	}
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("expected prefix %s, got %s", keyPrefix, a)
	}
	if CacheKey("ab", "c") == CacheKey("a", "bc") {
		t.Error("expected part boundaries to affect the key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set("k", []byte("Paris"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != "Paris" {
		t.Fatalf("expected Paris, got %q (found=%v)", val, ok)
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after clear, got %d items", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	key := CacheKey("capital", "Peru")

	if err := c.Set(key, []byte("Lima"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(key)
	if !ok || string(val) != "Lima" {
		t.Fatalf("expected Lima, got %q (found=%v)", val, ok)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 cache file, got %d", len(entries))
	}
	if strings.Contains(entries[0].Name(), ":") {
		t.Errorf("cache file name contains a colon: %s", entries[0].Name())
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("expected deleting a missing key to succeed, got %v", err)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	_ = c.Set("k", []byte("v"), time.Millisecond)

	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expected expired entry file to be removed")
	}
}

func TestLayeredCache_PromotesBackHits(t *testing.T) {
	dir := t.TempDir()
	front := NewMemoryCache(time.Hour, time.Minute)
	c := NewLayeredCache(front, NewDiskCache(dir, time.Hour))

	// Populate disk only, as a fresh process would see it
	_ = NewDiskCache(dir, time.Hour).Set("k", []byte("Ottawa"), 0)

	val, ok := c.Get("k")
	if !ok || string(val) != "Ottawa" {
		t.Fatalf("expected disk hit, got %q (found=%v)", val, ok)
	}

	if _, ok := front.Get("k"); !ok {
		t.Error("expected back-tier hit to be promoted to memory")
	}
}

func TestLayeredCache_WritesThrough(t *testing.T) {
	front := NewMemoryCache(time.Hour, time.Minute)
	back := NewDiskCache(t.TempDir(), time.Hour)
	c := NewLayeredCache(front, back)

	if err := c.Set("k", []byte("Canberra"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := back.Get("k"); !ok {
		t.Error("expected value in back tier")
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected delete to clear both tiers")
	}
}

func TestLayeredCache_RedisBackFailure(t *testing.T) {
	// Unreachable redis: the front tier still serves what was written
	front := NewMemoryCache(time.Hour, time.Minute)
	c := NewLayeredCache(front, NewRedisCache("127.0.0.1:1", "", 0, time.Minute))
	defer func() { _ = c.Close() }()

	if err := c.Set("k", []byte("Seoul"), 0); err == nil {
		t.Error("expected back-tier error")
	}
	if val, ok := c.Get("k"); !ok || string(val) != "Seoul" {
		t.Errorf("expected front-tier hit, got %q (found=%v)", val, ok)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.CacheConfig
		wantNil bool
		wantErr bool
	}{
		{"disabled", model.CacheConfig{Enabled: false, Backend: "memory"}, true, false},
		{"memory", model.CacheConfig{Enabled: true, Backend: "memory", TTL: time.Hour}, false, false},
		{"default backend", model.CacheConfig{Enabled: true, TTL: time.Hour}, false, false},
		{"disk", model.CacheConfig{Enabled: true, Backend: "disk", Dir: t.TempDir()}, false, false},
		{"layered", model.CacheConfig{Enabled: true, Backend: "layered", Dir: t.TempDir()}, false, false},
		{"layered redis", model.CacheConfig{Enabled: true, Backend: "layered", RedisAddr: "127.0.0.1:6379"}, false, false},
		{"redis without addr", model.CacheConfig{Enabled: true, Backend: "redis"}, true, true},
		{"redis", model.CacheConfig{Enabled: true, Backend: "redis", RedisAddr: "127.0.0.1:6379"}, false, false},
		{"unknown", model.CacheConfig{Enabled: true, Backend: "memcached"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (c == nil) != tt.wantNil {
				t.Errorf("New() returned %T, wantNil %v", c, tt.wantNil)
			}
			if closer, ok := c.(interface{ Close() error }); ok {
				_ = closer.Close()
			}
		})
	}
}

func TestRedisCache_Unreachable(t *testing.T) {
	// Nothing listens on port 1; operations must fail fast and report misses
	c := NewRedisCache("127.0.0.1:1", "", 0, time.Minute)
	defer func() { _ = c.Close() }()

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss from unreachable redis")
	}
	if err := c.Set("k", []byte("v"), 0); err == nil {
		t.Error("expected error from unreachable redis")
	}
}
