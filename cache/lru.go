package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/netradar/mmdbquery/callback"
)

// lruCache interns CharSeq text in a fixed-size least-recently-used cache
// keyed by data-section offset, rather than the fixed hash-bucket table
// bucketCache uses. It trades a little more per-lookup bookkeeping for
// eviction that actually tracks recency, which suits a Reader that sees a
// skewed, long-tailed distribution of distinct string offsets (many
// databases have a handful of hot locales and a long tail of rare ones).
type lruCache struct {
	entries *lru.Cache[uint, string]
}

func (c *lruCache) Intern(offset uint, text callback.CharSeq) callback.CharSeq {
	raw := text.Bytes()
	if s, ok := c.entries.Get(offset); ok {
		return callback.CharSeqCached(raw, s)
	}
	s := text.String()
	c.entries.Add(offset, s)
	return callback.CharSeqCached(raw, s)
}

type lruProvider struct {
	cache *lruCache
}

func (p *lruProvider) Acquire() Cache { return p.cache }
func (*lruProvider) Release(Cache)    {}

// NewLRUProvider creates a provider backed by a single shared, size-bounded
// LRU cache holding up to entryCount distinct interned strings. Unlike
// NewSharedProvider's fixed hash-bucket table, entries are never silently
// clobbered by an unrelated offset hashing into the same slot; they are
// evicted strictly in least-recently-used order once the cache is full.
func NewLRUProvider(entryCount int) (Provider, error) {
	c, err := lru.New[uint, string](entryCount)
	if err != nil {
		return nil, err
	}
	return &lruProvider{cache: &lruCache{entries: c}}, nil
}
