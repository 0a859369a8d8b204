package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if n := len(Hash([]byte("x"))); n != 64 {
		t.Errorf("Hash length = %d, want 64", n)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.MetadataKey("npm", "react", "18.2.0"); got != "meta:npm:react@18.2.0" {
		t.Errorf("MetadataKey = %s", got)
	}
	if got := k.MetadataKey("npm", "react", ""); got != "meta:npm:react@latest" {
		t.Errorf("MetadataKey latest = %s", got)
	}
	if got := k.VersionsKey("pantry", "@scope/pkg"); got != "versions:pantry:@scope/pkg" {
		t.Errorf("VersionsKey = %s", got)
	}
	if k.SearchKey("npm", "react") == k.SearchKey("npm", "vue") {
		t.Error("different queries should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "ci:")
	if got := scoped.VersionsKey("npm", "express"); got != "ci:versions:npm:express" {
		t.Errorf("VersionsKey = %s", got)
	}
	if got := scoped.SearchKey("npm", "x"); !strings.HasPrefix(got, "ci:search:") {
		t.Errorf("SearchKey = %s", got)
	}
}

// exercise runs the behaviour every backend must share.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v1" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("after overwrite Get = %q", data)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	path := c.path("k")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want silent miss", hit, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClearAndPrune(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)
	_ = os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644)

	now = now.Add(time.Hour)
	if n, err := c.Prune(); err != nil || n != 1 {
		t.Errorf("Prune = %d, %v; want 1", n, err)
	}
	if n, err := c.Clear(); err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
}

func TestMemoryCache(t *testing.T) {
	exercise(t, NewMemoryCache(8, 0))
}

func TestMemoryCacheEvictsAndExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), time.Second)
	_ = c.Set(ctx, "c", []byte("3"), 0)
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("least recently used entry should be evicted")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("expired entry returned")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	c, err := NewRedisCache(ctx, "redis://"+mr.Addr(), "pantry:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	exercise(t, c)

	_ = c.Set(ctx, "ttl", []byte("x"), time.Minute)
	if !mr.Exists("pantry:ttl") {
		t.Fatal("key not stored under prefix")
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("redis entry outlived its ttl")
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = mr.Set("other:key", "keep")
	if n, err := c.Clear(ctx); err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
	if !mr.Exists("other:key") {
		t.Error("Clear removed a key outside the prefix")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	if c, err := Open(ctx, Options{Backend: BackendMemory}); err != nil {
		t.Errorf("memory: %v", err)
	} else if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("memory: got %T", c)
	}
	if c, err := Open(ctx, Options{Dir: t.TempDir()}); err != nil {
		t.Errorf("file default: %v", err)
	} else if _, ok := c.(*FileCache); !ok {
		t.Errorf("file default: got %T", c)
	}
	if _, err := Open(ctx, Options{Backend: BackendRedis}); !errors.Is(err, ErrMissingRedisURL) {
		t.Errorf("redis without url: %v", err)
	}
	if _, err := Open(ctx, Options{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend: %v", err)
	}
}
