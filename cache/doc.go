// Package cache provides the generic LRU caches shared by viewers.
//
// # Cache[K, V]
//
// A mutex-guarded LRU with a hard capacity and an eviction callback. Viewers
// use it for composite results keyed by the canonical controls key, returning
// evicted buffers to their scratch pool.
//
//	c := cache.New[string, *Frame](32)
//	c.OnEvict(func(key string, f *Frame) { pool.Put(f.buf) })
//
// # ShardedCache[K, V]
//
// A 16-shard LRU for read-mostly data shared by every viewer of a dataset,
// such as the per-field lookup tables.
//
//	luts := cache.NewSharded[string, *LUT](64, cache.StringHasher)
//	lut := luts.GetOrCreate("temperature", build)
//
// # Thread Safety
//
// Both caches are safe for concurrent use and must not be copied after
// creation.
package cache
