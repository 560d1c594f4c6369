// Package scratch holds the per-lookup mutable state the decoder needs
// while walking a record, pooled across lookups so a warmed-up Reader does
// not allocate one per call.
package scratch

import (
	"sync"

	"github.com/netradar/mmdbquery/cache"
	"github.com/netradar/mmdbquery/internal/mmdberrors"
)

// MaxPointerChain caps how many POINTER indirections a single decode step
// may follow before the database is declared corrupt. libmaxminddb enforces
// the same bound; nothing a well-formed writer produces ever approaches it.
const MaxPointerChain = 32

// Decoder is the scratch state threaded through one decoder.Decoder.Decode
// walk: the pointer-chase counter that guards against cyclic or absurdly
// long pointer chains, the lazily built error path, and the string
// interning cache leased for the call. It carries no buffer of its own —
// the decoder always reads directly from the Reader's backing
// byteview.View — so pooling it mostly saves the struct's own allocation,
// but it keeps the call signature uncluttered and gives later scratch
// fields (pointer-offset dedupe, nesting depth) a home without changing
// every call site again.
type Decoder struct {
	pointerDepth int
	path         *mmdberrors.PathBuilder
	intern       cache.Cache
}

// Reset zeroes the scratch state for reuse on a new lookup, including the
// string interning cache: Reader sets that once per decode, after Acquire,
// and it is tied to that call's cache.Provider lease rather than to the
// pooled Decoder's lifetime.
func (d *Decoder) Reset() {
	d.pointerDepth = 0
	d.path = nil
	d.intern = nil
}

// SetCache attaches the string interning cache leased for this lookup.
func (d *Decoder) SetCache(c cache.Cache) {
	d.intern = c
}

// Cache returns the string interning cache attached for this lookup, or
// nil if none was set.
func (d *Decoder) Cache() cache.Cache {
	return d.intern
}

// NotePathMap records a map key on the error path. Callers only need to
// call this once a nested decode has already failed and is unwinding; it
// allocates its PathBuilder lazily, so a successful lookup never pays for it.
func (d *Decoder) NotePathMap(key []byte) {
	d.pathBuilder().PrependMap(string(key))
}

// NotePathSlice records a slice index on the error path, on the same terms
// as NotePathMap.
func (d *Decoder) NotePathSlice(index int) {
	d.pathBuilder().PrependSlice(index)
}

func (d *Decoder) pathBuilder() *mmdberrors.PathBuilder {
	if d.path == nil {
		d.path = mmdberrors.NewPathBuilder()
	}
	return d.path
}

// BuildPath implements mmdberrors.PathTracker. It reports an empty path if
// nothing was ever noted.
func (d *Decoder) BuildPath() string {
	if d.path == nil {
		return ""
	}
	return d.path.Build()
}

// EnterPointer increments the pointer-chase counter and reports whether the
// chain has grown too long.
func (d *Decoder) EnterPointer() bool {
	d.pointerDepth++
	return d.pointerDepth > MaxPointerChain
}

// LeavePointer decrements the pointer-chase counter after a chased pointer's
// target has been fully decoded, so sibling pointers in the same record
// each get the full budget rather than sharing a monotonic counter.
func (d *Decoder) LeavePointer() {
	d.pointerDepth--
}

var pool = sync.Pool{
	New: func() any { return new(Decoder) },
}

// Acquire borrows a reset Decoder scratch from the shared pool.
func Acquire() *Decoder {
	d := pool.Get().(*Decoder)
	d.Reset()
	return d
}

// Release returns d to the pool for reuse by a later lookup.
func Release(d *Decoder) {
	pool.Put(d)
}
