// Package cache provides pluggable interning for the CharSeq values the
// decoder hands to Text sinks: repeated fields (ISO country codes, locale
// names) decode from the same data-section offset across a huge number of
// lookups, since the database builder already deduplicates identical string
// values behind shared pointers. Keying a cache by that offset turns the
// format's own deduplication into a free cache key.
package cache

import (
	"sync"

	"github.com/netradar/mmdbquery/callback"
)

// Cache interns the text backing a CharSeq decoded at a fixed data-section
// offset. Interning implementations return a CharSeq carrying an
// already-materialized Go string, reused while the offset stays cached,
// instead of letting every CharSeq.String() call copy its bytes anew; a
// string whose cache entry was evicted or overwritten is materialized again.
type Cache interface {
	Intern(offset uint, text callback.CharSeq) callback.CharSeq
}

// Provider acquires and releases caches for decode operations.
//
// Providers may return a shared thread-safe Cache or a per-decode exclusive
// Cache (e.g., from a pool). Release is called after decoding.
type Provider interface {
	Acquire() Cache
	Release(Cache)
}

// Options configure built-in cache providers.
type Options struct {
	EntryCount   int
	MinCachedLen uint
	MaxCachedLen uint
}

// DefaultOptions returns the built-in cache defaults.
func DefaultOptions() Options {
	return Options{
		EntryCount:   4096,
		MinCachedLen: 2,
		MaxCachedLen: 32,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	out := o
	if out.EntryCount <= 0 {
		out.EntryCount = def.EntryCount
	}
	if out.MinCachedLen == 0 {
		out.MinCachedLen = def.MinCachedLen
	}
	if out.MaxCachedLen == 0 {
		out.MaxCachedLen = def.MaxCachedLen
	}
	if out.MaxCachedLen < out.MinCachedLen {
		out.MaxCachedLen = out.MinCachedLen
	}
	return out
}

// bucketEntry holds the one interned string a fixed-size bucket table slot
// remembers; a later offset that hashes into the same slot simply clobbers
// it; there is no chaining.
type bucketEntry struct {
	text   string
	offset uint
	mu     sync.Mutex
}

// bucketCache is a fixed hash-bucket interning table with a dedicated
// lowercase-two-letter fast path (ISO country/continent codes are the
// single most repeated short string shape in a geolocation database, and
// this avoids a bucket slot and its lock entirely for them).
type bucketCache struct {
	twoLetter    [26 * 26]string
	buckets      []bucketEntry
	bucketMask   uint
	minLen       uint
	maxLen       uint
	synchronized bool
}

func newBucketCache(opts Options, synchronized bool) *bucketCache {
	opts = opts.normalized()
	c := &bucketCache{
		synchronized: synchronized,
		minLen:       opts.MinCachedLen,
		maxLen:       opts.MaxCachedLen,
		buckets:      make([]bucketEntry, opts.EntryCount),
	}
	if opts.EntryCount&(opts.EntryCount-1) == 0 {
		c.bucketMask = uint(opts.EntryCount - 1)
	}
	for a := byte('a'); a <= 'z'; a++ {
		for b := byte('a'); b <= 'z'; b++ {
			c.twoLetter[int(a-'a')*26+int(b-'a')] = string([]byte{a, b})
		}
	}
	return c
}

func (c *bucketCache) Intern(offset uint, text callback.CharSeq) callback.CharSeq {
	raw := text.Bytes()
	size := uint(len(raw))
	if size < c.minLen || size > c.maxLen {
		return text
	}

	if size == 2 {
		a, b := raw[0], raw[1]
		if a >= 'a' && a <= 'z' && b >= 'a' && b <= 'z' {
			return callback.CharSeqCached(raw, c.twoLetter[int(a-'a')*26+int(b-'a')])
		}
	}

	var i uint
	if c.bucketMask != 0 {
		i = offset & c.bucketMask
	} else {
		i = offset % uint(len(c.buckets))
	}
	entry := &c.buckets[i]

	if c.synchronized {
		entry.mu.Lock()
		defer entry.mu.Unlock()
	}
	if entry.offset == offset && entry.text != "" {
		return callback.CharSeqCached(raw, entry.text)
	}
	str := text.String()
	entry.offset = offset
	entry.text = str
	return callback.CharSeqCached(raw, str)
}

type sharedProvider struct {
	cache Cache
}

func (p *sharedProvider) Acquire() Cache {
	return p.cache
}

func (*sharedProvider) Release(Cache) {}

// NewSharedProvider creates a provider that returns one shared lock-based
// cache instance.
func NewSharedProvider(opts Options) Provider {
	opts = opts.normalized()
	return &sharedProvider{
		cache: newBucketCache(opts, true),
	}
}

type pooledProvider struct {
	pool *sync.Pool
}

func (p *pooledProvider) Acquire() Cache {
	v := p.pool.Get()
	c, _ := v.(Cache)
	if c == nil {
		return newBucketCache(DefaultOptions(), false)
	}
	return c
}

func (p *pooledProvider) Release(c Cache) {
	if c == nil {
		return
	}
	p.pool.Put(c)
}

// NewPooledProvider creates a provider that returns an exclusive no-lock cache
// from a pool per decode call.
func NewPooledProvider(opts Options) Provider {
	opts = opts.normalized()
	return &pooledProvider{
		pool: &sync.Pool{
			New: func() any {
				return newBucketCache(opts, false)
			},
		},
	}
}

type noCache struct{}

func (noCache) Intern(_ uint, text callback.CharSeq) callback.CharSeq {
	return text
}

type noCacheProvider struct {
	cache noCache
}

func (p *noCacheProvider) Acquire() Cache {
	return p.cache
}

func (*noCacheProvider) Release(Cache) {}

// NewNoCacheProvider creates a provider that disables interning.
func NewNoCacheProvider() Provider {
	return &noCacheProvider{}
}
