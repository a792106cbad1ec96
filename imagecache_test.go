package rendercore

import (
	"fmt"
	"testing"

	"github.com/gogpu/gg/cache"
)

// sameShardKeys returns n keys that land in one shard of the bounded cache.
func sameShardKeys(n int) []string {
	const mask = cache.DefaultShardCount - 1
	var keys []string
	want := cache.StringHasher("k0") & mask
	for i := 0; len(keys) < n; i++ {
		k := fmt.Sprintf("k%d", i)
		if cache.StringHasher(k)&mask == want {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestMapImageCacheContainsIsPure(t *testing.T) {
	c := NewImageCache(0)
	img := NewImage(nil)
	c.Insert("a", img)
	if !c.Contains("a") || c.Contains("b") {
		t.Error("Contains mismatch")
	}
	if got, ok := c.Get("a"); !ok || got != img {
		t.Error("Get lost the image")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestLRUImageCacheContainsRefreshesRecency(t *testing.T) {
	c := NewImageCache(2 * cache.DefaultShardCount) // two per shard
	keys := sameShardKeys(3)
	a, b, d := keys[0], keys[1], keys[2]

	c.Insert(a, NewImage(nil))
	c.Insert(b, NewImage(nil))
	if !c.Contains(a) {
		t.Fatal("a missing")
	}
	c.Insert(d, NewImage(nil))

	if c.Contains(b) {
		t.Error("b should be evicted as least recently used")
	}
	if !c.Contains(a) || !c.Contains(d) {
		t.Error("a and d should survive")
	}
}
