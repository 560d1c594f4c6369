package mmdbquery

import "github.com/netradar/mmdbquery/cache"

type readerOptions struct {
	cacheProvider cache.Provider
}

// ReaderOption configures Open and FromBytes.
type ReaderOption func(*readerOptions)

// WithCacheProvider attaches a string-interning cache to every Lookup.
// Decoded UTF8_STRING values that flow to a Text sink are looked up (and,
// on a miss, stored) in the cache instead of being copied fresh each time;
// this is worth it for fields like ISO country codes or locale names that
// repeat across a huge number of records sharing the same handful of
// distinct values. Without this option, Lookup never interns: every
// CharSeq.String() call copies.
func WithCacheProvider(p cache.Provider) ReaderOption {
	return func(o *readerOptions) { o.cacheProvider = p }
}

func defaultReaderOptions() readerOptions {
	return readerOptions{}
}
