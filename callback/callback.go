// Package callback implements the "areas of interest" callback tree: the
// caller-built specification of which fields and elements of an MMDB record
// should be materialized, and by which sink. Paths the tree does not cover
// are skipped structurally by the decoder without allocation or dispatch.
package callback

import "net/netip"

// Shape tags which sink a Callback node carries. The decoder matches the
// on-disk control-byte type against a node's Shape; a mismatch (e.g. a Text
// node over an on-disk map) causes the value to be skipped rather than
// dispatched.
type Shape uint8

const (
	// ShapeNone marks a node with no sink at all; the decoder always skips it.
	ShapeNone Shape = iota
	ShapeText
	ShapeInt
	ShapeFloat
	ShapeBool
	ShapeBytes
	ShapeBigInt
	ShapeArray
	ShapeObject
	// ShapeAny matches whichever on-disk type is actually present and
	// dispatches through whichever typed sink field is set for it. Builder
	// never produces ShapeAny; it exists for generic materializers such as
	// Any that must accept any value shape at a single tree position.
	ShapeAny
)

// FieldLookup resolves an object field's key to the Callback that should
// receive its value, or nil to skip the field structurally. *FieldMap, built
// by ObjectBuilder, is the only implementation most callers need.
type FieldLookup interface {
	Lookup(key []byte) *Callback
}

// Sink function types. Every sink receives the caller-owned state value by
// reference (as state any) and the decoded value; sinks that want to reject
// or abort a lookup return a non-nil error, which propagates out of Lookup
// unchanged.
type (
	// TextSink receives a transient view over a UTF8_STRING value.
	TextSink func(state any, text CharSeq) error
	// IntSink receives UINT16, UINT32, or INT32 values widened to int64.
	IntSink func(state any, v int64) error
	// FloatSink receives DOUBLE or FLOAT values widened to float64.
	FloatSink func(state any, v float64) error
	// BoolSink receives BOOLEAN values.
	BoolSink func(state any, v bool) error
	// BytesSink receives a transient view over a BYTES value.
	BytesSink func(state any, v []byte) error
	// BigIntSink receives the raw big-endian magnitude of a UINT64 or
	// UINT128 value, as a transient view.
	BigIntSink func(state any, raw []byte) error

	// ObjectBeginSink announces the start of a MAP, before any field.
	ObjectBeginSink func(state any) error
	// ObjectEndSink announces the end of a MAP, after every field.
	ObjectEndSink func(state any) error

	// ArrayBeginSink announces the start of an ARRAY, before any element.
	ArrayBeginSink func(state any, size int) error
	// ArrayEndSink announces the end of an ARRAY, after every element.
	ArrayEndSink func(state any) error
	// ElementCallback is asked, for each array index in ascending order,
	// which Callback (if any) should receive that element. Returning nil
	// skips the element structurally.
	ElementCallback func(state any, index, size int) (*Callback, error)

	// NetworkSink receives the raw queried address and the matched prefix
	// length, regardless of whether the lookup resolved to a data record.
	NetworkSink func(state any, addr netip.Addr, prefixLen int) error
)

// Callback is one node of an areas-of-interest tree: a single leaf sink, or
// an object/array node with its own children. The zero value has Shape
// ShapeNone and is always skipped.
//
// Callback trees are built with ObjectBuilder or RecordBuilder and are immutable once Build is
// called; the same tree may be reused concurrently across any number of
// lookups.
type Callback struct {
	Shape Shape

	Text   TextSink
	Int    IntSink
	Float  FloatSink
	Bool   BoolSink
	Bytes  BytesSink
	BigInt BigIntSink

	Fields        FieldLookup
	OnObjectBegin ObjectBeginSink
	OnObjectEnd   ObjectEndSink

	OnArrayBegin ArrayBeginSink
	PerElement   ElementCallback
	OnArrayEnd   ArrayEndSink

	// OnNetwork is only meaningful on the record-level (top of tree)
	// Callback passed to Lookup; it is invoked once per lookup regardless
	// of whether a data record was found.
	OnNetwork NetworkSink
}
