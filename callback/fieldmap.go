package callback

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/swiss"
)

// FieldMap is the compiled, read-only field dispatch table for an object
// node: on-disk map keys are matched against registered field names by
// hashing the key's character sequence, exactly as suggested for zero-copy
// key comparison — a hash table keyed by character-sequence content rather
// than a sorted binary search over borrowed views.
//
// Hash collisions are resolved by an exact byte comparison against the
// stored field name before a child is returned, so an unlucky xxhash
// collision between two unrelated keys can never misroute a value.
type FieldMap struct {
	buckets *swiss.Map[uint64, []fieldEntry]
}

type fieldEntry struct {
	name  string
	child *Callback
}

func newFieldMap() *FieldMap {
	return &FieldMap{buckets: swiss.New[uint64, []fieldEntry](8)}
}

func (fm *FieldMap) put(name string, child *Callback) {
	h := xxhash.Sum64String(name)
	entries, _ := fm.buckets.Get(h)
	fm.buckets.Put(h, append(entries, fieldEntry{name: name, child: child}))
}

// Lookup returns the child Callback registered for key, or nil if the
// caller's tree does not cover this field. It does not allocate: key is
// hashed in place and compared against stored field names without
// conversion via the compiler's no-copy `string(b) == s` special case.
func (fm *FieldMap) Lookup(key []byte) *Callback {
	if fm == nil {
		return nil
	}
	h := xxhash.Sum64(key)
	entries, ok := fm.buckets.Get(h)
	if !ok {
		return nil
	}
	for _, e := range entries {
		if len(key) == len(e.name) && string(key) == e.name {
			return e.child
		}
	}
	return nil
}
