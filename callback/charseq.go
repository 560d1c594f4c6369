package callback

import "bytes"

// CharSeq is a transient view over a UTF-8 byte sequence decoded from the
// data section. It borrows storage owned by the decoder's backing buffer:
// its contents are valid only for the duration of the sink call that
// receives it. Callers that need to retain the text must copy it, e.g. via
// String or Clone.
type CharSeq struct {
	b      []byte
	cached string
}

// CharSeqFromBytes wraps b as a CharSeq without copying. It exists for the
// decoder to hand borrowed views to sinks; callers building callback trees
// never need it.
func CharSeqFromBytes(b []byte) CharSeq {
	return CharSeq{b: b}
}

// CharSeqCached wraps b as a CharSeq that already has an interned Go string
// available, so String() returns it directly instead of copying b. The
// decoder uses this when a string-interning cache is attached to the
// lookup; ordinary callback trees never need to call it themselves.
func CharSeqCached(b []byte, cached string) CharSeq {
	return CharSeq{b: b, cached: cached}
}

// Bytes returns the raw UTF-8 bytes backing the view. Do not retain past the
// sink call.
func (c CharSeq) Bytes() []byte {
	return c.b
}

// Len returns the number of bytes in the view.
func (c CharSeq) Len() int {
	return len(c.b)
}

// String returns an owned Go string. If the decoder attached an interned
// string for this view (see CharSeqCached), that string is returned
// directly; otherwise this copies b, which allocates. Use it only when
// retention beyond the sink call is actually needed.
func (c CharSeq) String() string {
	if c.cached != "" {
		return c.cached
	}
	return string(c.b)
}

// Clone copies the view into a freshly allocated, independently owned byte
// slice.
func (c CharSeq) Clone() []byte {
	out := make([]byte, len(c.b))
	copy(out, c.b)
	return out
}

// Equal reports whether the view's bytes equal s, without allocating.
func (c CharSeq) Equal(s string) bool {
	return len(c.b) == len(s) && string(c.b) == s
}

// EqualBytes reports whether the view's bytes equal other, without
// allocating.
func (c CharSeq) EqualBytes(other []byte) bool {
	return bytes.Equal(c.b, other)
}
