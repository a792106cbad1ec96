package rendercore

import "github.com/gogpu/gg/cache"

// ImageCache maps identifier keys to decoded images.
type ImageCache interface {
	// Insert stores img under key, replacing any previous entry.
	Insert(key string, img *Image)
	// Get returns the image stored under key.
	Get(key string) (*Image, bool)
	// Contains reports whether key has an entry. In the bounded cache a hit
	// also marks the image as recently used.
	Contains(key string) bool
	// Len returns the number of entries.
	Len() int
}

// NewImageCache returns an unbounded cache when capacity <= 0, otherwise an
// LRU cache holding roughly capacity images.
func NewImageCache(capacity int) ImageCache {
	if capacity <= 0 {
		return make(mapImageCache)
	}
	perShard := (capacity + cache.DefaultShardCount - 1) / cache.DefaultShardCount
	return &lruImageCache{c: cache.NewSharded[string, *Image](perShard, cache.StringHasher)}
}

// mapImageCache never evicts.
type mapImageCache map[string]*Image

func (m mapImageCache) Insert(key string, img *Image) { m[key] = img }

func (m mapImageCache) Get(key string) (*Image, bool) {
	img, ok := m[key]
	return img, ok
}

func (m mapImageCache) Contains(key string) bool {
	_, ok := m[key]
	return ok
}

func (m mapImageCache) Len() int { return len(m) }

// lruImageCache evicts the least recently used image of a shard once the
// shard is full. gg's cache has no side-effect-free lookup, so Contains and
// Get both count as a use.
type lruImageCache struct {
	c *cache.ShardedCache[string, *Image]
}

func (l *lruImageCache) Insert(key string, img *Image) { l.c.Set(key, img) }

func (l *lruImageCache) Get(key string) (*Image, bool) { return l.c.Get(key) }

func (l *lruImageCache) Contains(key string) bool {
	_, ok := l.c.Get(key)
	return ok
}

func (l *lruImageCache) Len() int { return l.c.Len() }
