// Package cache provides the small LRU used to share derived lookup tables
// (gamma ramps, palette expansions) between decoders.
//
//	c := cache.New[uint32, *Table](16)
//	t := c.GetOrCreate(key, func() *Table { return build(key) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
