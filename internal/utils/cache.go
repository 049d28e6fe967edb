package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem 包装缓存数据和过期时间
type cacheItem[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache 本地 LRU 缓存，条目带 TTL
type Cache[V any] struct {
	lruCache *lru.Cache[string, cacheItem[V]]
	ttl      time.Duration
}

// NewCache 创建容量为 size 的缓存，size <= 0 时使用 500
func NewCache[V any](size int, ttl time.Duration) *Cache[V] {
	if size <= 0 {
		size = 500
	}
	l, err := lru.New[string, cacheItem[V]](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Cache[V]{lruCache: l, ttl: ttl}
}

// Set 设置缓存，使用缓存的默认 TTL
func (c *Cache[V]) Set(key string, data V) {
	c.lruCache.Add(key, cacheItem[V]{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 false
func (c *Cache[V]) Get(key string) (V, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		var zero V
		return zero, false
	}

	// 检查过期
	if time.Now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		var zero V
		return zero, false
	}

	return val.data, true
}

// Delete 删除指定缓存
func (c *Cache[V]) Delete(key string) {
	c.lruCache.Remove(key)
}

func (c *Cache[V]) Len() int {
	return c.lruCache.Len()
}
