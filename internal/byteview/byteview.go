// Package byteview provides a bounded, read-only view over the bytes of an
// opened MaxMind DB image: the memory-mapped or in-memory buffer backing a
// Reader. It is the "ByteRange" leaf referred to by the rest of the engine.
//
// A View never copies and never allocates; every method either returns a
// value type or a sub-slice of the original backing array.
package byteview

import "github.com/netradar/mmdbquery/internal/mmdberrors"

// View is an immutable, random-access window over database bytes.
type View struct {
	buf []byte
}

// Of wraps buf without copying it. The caller retains ownership; buf must
// outlive every View built from it.
func Of(buf []byte) View {
	return View{buf: buf}
}

// Len returns the number of bytes in the view.
func (v View) Len() int {
	return len(v.buf)
}

// Bytes returns the full backing slice. Callers must not mutate it.
func (v View) Bytes() []byte {
	return v.buf
}

// Slice returns the sub-range [start, end), bounds-checked.
func (v View) Slice(start, end uint) ([]byte, error) {
	if end > uint(len(v.buf)) || start > end {
		return nil, mmdberrors.NewOffsetError()
	}
	return v.buf[start:end], nil
}

// At returns the single byte at offset.
func (v View) At(offset uint) (byte, error) {
	if offset >= uint(len(v.buf)) {
		return 0, mmdberrors.NewOffsetError()
	}
	return v.buf[offset], nil
}

// Uint24 reads a 3-byte big-endian unsigned integer at offset.
func (v View) Uint24(offset uint) (uint32, error) {
	b, err := v.Slice(offset, offset+3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// Uint32 reads a 4-byte big-endian unsigned integer at offset.
func (v View) Uint32(offset uint) (uint32, error) {
	b, err := v.Slice(offset, offset+4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// UintN reads an n-byte (n <= 8) big-endian unsigned integer at offset.
func (v View) UintN(offset uint, n uint) (uint64, error) {
	b, err := v.Slice(offset, offset+n)
	if err != nil {
		return 0, err
	}
	var val uint64
	for _, c := range b {
		val = (val << 8) | uint64(c)
	}
	return val, nil
}

// LastIndex returns the offset of the final occurrence of marker in the
// view, or -1 if marker does not occur.
func (v View) LastIndex(marker []byte) int {
	n := len(marker)
	if n == 0 || n > len(v.buf) {
		return -1
	}
	for i := len(v.buf) - n; i >= 0; i-- {
		if string(v.buf[i:i+n]) == string(marker) {
			return i
		}
	}
	return -1
}
