package cache

import (
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tranvictor/chainlens/common"
)

const (
	DefaultSize = 1024
	DefaultTTL  = 10 * time.Minute
)

// NameCache keeps recent name resolutions in memory. Entries expire after
// the configured TTL and nothing is written to disk.
type NameCache struct {
	lru *expirable.LRU[ethcommon.Address, common.NameResolution]
}

func NewNameCache(size int, ttl time.Duration) *NameCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &NameCache{
		lru: expirable.NewLRU[ethcommon.Address, common.NameResolution](size, nil, ttl),
	}
}

func (c *NameCache) Get(addr ethcommon.Address) (common.NameResolution, bool) {
	return c.lru.Get(addr)
}

func (c *NameCache) Set(res common.NameResolution) {
	c.lru.Add(res.Address, res)
}

func (c *NameCache) Len() int {
	return c.lru.Len()
}

func (c *NameCache) Purge() {
	c.lru.Purge()
}
