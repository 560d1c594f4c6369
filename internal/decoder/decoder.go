// Package decoder walks the data section of an opened database, dispatching
// each value it finds to the caller-supplied callback tree and skipping,
// structurally and without allocation, anything the tree does not cover.
package decoder

import (
	"math"
	"unicode/utf8"

	"github.com/netradar/mmdbquery/callback"
	"github.com/netradar/mmdbquery/internal/byteview"
	"github.com/netradar/mmdbquery/internal/mmdberrors"
	"github.com/netradar/mmdbquery/internal/scratch"
)

// Decoder reads values from a data-section-only byte view. It holds no
// mutable state of its own; the caller-supplied scratch.Decoder carries the
// pointer-chase budget for one logical lookup.
type Decoder struct {
	buf byteview.View
}

// New wraps buf, which must cover exactly the data section (the trie and
// its 16-byte separator already stripped), for decoding.
func New(buf byteview.View) Decoder {
	return Decoder{buf: buf}
}

// cbMatches reports whether cb carries a sink for expected, either directly
// or via the generic-materializer escape hatch ShapeAny.
func cbMatches(cb *callback.Callback, expected callback.Shape) bool {
	return cb != nil && (cb.Shape == expected || cb.Shape == callback.ShapeAny)
}

// Decode dispatches the value at offset into cb, or skips it structurally if
// cb is nil or its Shape does not match the on-disk type. It returns the
// offset immediately following the value (for a POINTER, immediately
// following the pointer's own encoded bytes, not its target).
func (d *Decoder) Decode(
	offset uint,
	cb *callback.Callback,
	state any,
	scr *scratch.Decoder,
) (uint, error) {
	kind, size, next, err := d.decodeCtrlData(offset)
	if err != nil {
		return 0, err
	}

	switch kind {
	case KindPointer:
		pointer, afterPointer, err := d.decodePointer(size, next)
		if err != nil {
			return 0, err
		}
		if scr.EnterPointer() {
			return 0, mmdberrors.NewInvalidDatabaseError(
				"pointer chain exceeded maximum depth; database is likely corrupt")
		}
		_, err = d.Decode(pointer, cb, state, scr)
		scr.LeavePointer()
		return afterPointer, err

	case KindMap:
		return d.decodeMap(size, next, cb, state, scr)

	case KindSlice:
		return d.decodeSlice(size, next, cb, state, scr)

	case KindBool:
		if cbMatches(cb, callback.ShapeBool) {
			if size > 1 {
				return 0, mmdberrors.NewInvalidDatabaseError(
					"the MaxMind DB file's data section contains bad data (bool size of %d)", size)
			}
			if err := cb.Bool(state, size != 0); err != nil {
				return 0, err
			}
		}
		return next, nil

	case KindString:
		if !cbMatches(cb, callback.ShapeText) {
			return next + size, nil
		}
		raw, err := d.buf.Slice(next, next+size)
		if err != nil {
			return 0, err
		}
		if !utf8.Valid(raw) {
			return 0, mmdberrors.NewBadUTF8Error(next)
		}
		text := callback.CharSeqFromBytes(raw)
		if interner := scr.Cache(); interner != nil {
			text = interner.Intern(next, text)
		}
		if err := cb.Text(state, text); err != nil {
			return 0, err
		}
		return next + size, nil

	case KindBytes:
		if !cbMatches(cb, callback.ShapeBytes) {
			return next + size, nil
		}
		raw, err := d.buf.Slice(next, next+size)
		if err != nil {
			return 0, err
		}
		if err := cb.Bytes(state, raw); err != nil {
			return 0, err
		}
		return next + size, nil

	case KindFloat64:
		if !cbMatches(cb, callback.ShapeFloat) {
			return next + size, nil
		}
		if size != 8 {
			return 0, mmdberrors.NewInvalidDatabaseError(
				"the MaxMind DB file's data section contains bad data (float 64 size of %d)", size)
		}
		bits, err := d.buf.UintN(next, size)
		if err != nil {
			return 0, err
		}
		if err := cb.Float(state, math.Float64frombits(bits)); err != nil {
			return 0, err
		}
		return next + size, nil

	case KindFloat32:
		if !cbMatches(cb, callback.ShapeFloat) {
			return next + size, nil
		}
		if size != 4 {
			return 0, mmdberrors.NewInvalidDatabaseError(
				"the MaxMind DB file's data section contains bad data (float 32 size of %d)", size)
		}
		bits, err := d.buf.UintN(next, size)
		if err != nil {
			return 0, err
		}
		if err := cb.Float(state, float64(math.Float32frombits(uint32(bits)))); err != nil {
			return 0, err
		}
		return next + size, nil

	case KindInt32:
		if !cbMatches(cb, callback.ShapeInt) {
			return next + size, nil
		}
		raw, err := d.buf.Slice(next, next+size)
		if err != nil {
			return 0, err
		}
		var v int32
		for _, b := range raw {
			v = (v << 8) | int32(b)
		}
		if err := cb.Int(state, int64(v)); err != nil {
			return 0, err
		}
		return next + size, nil

	case KindUint16, KindUint32:
		if !cbMatches(cb, callback.ShapeInt) {
			return next + size, nil
		}
		v, err := d.buf.UintN(next, size)
		if err != nil {
			return 0, err
		}
		if err := cb.Int(state, int64(v)); err != nil {
			return 0, err
		}
		return next + size, nil

	case KindUint64, KindUint128:
		if !cbMatches(cb, callback.ShapeBigInt) {
			return next + size, nil
		}
		raw, err := d.buf.Slice(next, next+size)
		if err != nil {
			return 0, err
		}
		if err := cb.BigInt(state, raw); err != nil {
			return 0, err
		}
		return next + size, nil

	default:
		return 0, mmdberrors.NewInvalidDatabaseError("unknown data type: %d", int(kind))
	}
}

func (d *Decoder) decodeMap(
	size, offset uint,
	cb *callback.Callback,
	state any,
	scr *scratch.Decoder,
) (uint, error) {
	if !cbMatches(cb, callback.ShapeObject) {
		return d.skipValue(offset, 2*size)
	}
	if cb.OnObjectBegin != nil {
		if err := cb.OnObjectBegin(state); err != nil {
			return 0, err
		}
	}
	for i := uint(0); i < size; i++ {
		key, next, err := d.decodeKey(offset, scr)
		if err != nil {
			return 0, err
		}
		var child *callback.Callback
		if cb.Fields != nil {
			child = cb.Fields.Lookup(key)
		}
		next, err = d.Decode(next, child, state, scr)
		if err != nil {
			scr.NotePathMap(key)
			return 0, err
		}
		offset = next
	}
	if cb.OnObjectEnd != nil {
		if err := cb.OnObjectEnd(state); err != nil {
			return 0, err
		}
	}
	return offset, nil
}

func (d *Decoder) decodeSlice(
	size, offset uint,
	cb *callback.Callback,
	state any,
	scr *scratch.Decoder,
) (uint, error) {
	if !cbMatches(cb, callback.ShapeArray) {
		return d.skipValue(offset, size)
	}
	if cb.OnArrayBegin != nil {
		if err := cb.OnArrayBegin(state, int(size)); err != nil {
			return 0, err
		}
	}
	for i := uint(0); i < size; i++ {
		var child *callback.Callback
		var err error
		if cb.PerElement != nil {
			child, err = cb.PerElement(state, int(i), int(size))
			if err != nil {
				return 0, err
			}
		}
		offset, err = d.Decode(offset, child, state, scr)
		if err != nil {
			scr.NotePathSlice(int(i))
			return 0, err
		}
	}
	if cb.OnArrayEnd != nil {
		if err := cb.OnArrayEnd(state); err != nil {
			return 0, err
		}
	}
	return offset, nil
}
