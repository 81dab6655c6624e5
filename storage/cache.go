package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// TxCache holds recently-seen transaction lookups keyed by the raw hash
// bytes, so repeated GetTransaction calls on the same txid don't pay a fresh
// slabhash walk every time. A miss is cached too (as tombstone), so a repeat
// GetTransaction for a missing hash does not re-walk the chain only to fail
// again. Pop clears the whole cache.
type TxCache interface {
	Get(hash string) ([]byte, bool)
	Set(op int, hash string, value []byte)
	Clear()
}

const (
	txPresent = iota
	txTombstone
)

const (
	txCacheSweepInterval = 1 * time.Minute
	txCacheEntryLifetime = 2 * time.Minute
)

type txLookupCache struct {
	entries *cache.Cache
}

type txCacheEntry struct {
	op   int
	body []byte
}

func newCache() TxCache {
	return &txLookupCache{
		entries: cache.New(txCacheSweepInterval, txCacheEntryLifetime),
	}
}

func (c *txLookupCache) Get(hash string) ([]byte, bool) {
	obj, found := c.entries.Get(hash)
	if !found {
		return nil, false
	}

	entry := obj.(txCacheEntry)
	if entry.op == txTombstone {
		return nil, false
	}

	return entry.body, true
}

func (c *txLookupCache) Set(op int, hash string, body []byte) {
	c.entries.Set(hash, txCacheEntry{op: op, body: body}, txCacheEntryLifetime)
}

func (c *txLookupCache) Clear() {
	c.entries.Flush()
}
