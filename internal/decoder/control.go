package decoder

import (
	"github.com/netradar/mmdbquery/internal/mmdberrors"
	"github.com/netradar/mmdbquery/internal/scratch"
)

// decodeCtrlData reads the control byte (and, for extended types, the
// following type byte) at offset, returning the resolved Kind, the value's
// size, and the offset immediately after the control sequence.
func (d *Decoder) decodeCtrlData(offset uint) (Kind, uint, uint, error) {
	ctrl, err := d.buf.At(offset)
	if err != nil {
		return 0, 0, 0, err
	}
	newOffset := offset + 1

	kind := Kind(ctrl >> 5)
	if kind == KindExtended {
		next, err := d.buf.At(newOffset)
		if err != nil {
			return 0, 0, 0, err
		}
		if next == 0 {
			return 0, 0, 0, mmdberrors.NewInvalidDatabaseError(
				"invalid extended type: %d", int(next)+7)
		}
		kind = Kind(next) + 7
		newOffset++
	}

	size, newOffset, err := d.sizeFromCtrlByte(ctrl, newOffset, kind)
	if err != nil {
		return 0, 0, 0, err
	}
	return kind, size, newOffset, nil
}

// sizeFromCtrlByte decodes the value's size, resolving the 29/30/31
// size-extension encoding described by the format for sizes of 29 or more.
func (d *Decoder) sizeFromCtrlByte(ctrl byte, offset uint, kind Kind) (uint, uint, error) {
	size := uint(ctrl & 0x1f)
	if kind == KindExtended {
		return size, offset, nil
	}
	if size < 29 {
		return size, offset, nil
	}

	bytesToRead := size - 28
	newOffset := offset + bytesToRead
	extra, err := d.buf.Slice(offset, newOffset)
	if err != nil {
		return 0, 0, err
	}

	switch size {
	case 29:
		return 29 + uint(extra[0]), newOffset, nil
	case 30:
		return 285 + uintFromBytes(extra), newOffset, nil
	default:
		return uintFromBytes(extra) + 65821, newOffset, nil
	}
}

func uintFromBytes(b []byte) uint {
	var v uint
	for _, c := range b {
		v = (v << 8) | uint(c)
	}
	return v
}

// decodePointer resolves an in-band POINTER control's size field into the
// byte offset, within the data section, of the value it references. The
// Decoder always operates over a data-section-only view, so unlike the
// trie's node-to-offset math there is no additional base to add: the
// pointer's payload plus its size-class offset lands directly on the
// target's control byte.
func (d *Decoder) decodePointer(size, offset uint) (pointer uint, newOffset uint, err error) {
	pointerSize := ((size >> 3) & 0x3) + 1
	newOffset = offset + pointerSize
	raw, err := d.buf.Slice(offset, newOffset)
	if err != nil {
		return 0, 0, err
	}

	var prefix uint
	if pointerSize != 4 {
		prefix = size & 0x7
	}

	var payloadOffset uint
	switch pointerSize {
	case 2:
		payloadOffset = 2048
	case 3:
		payloadOffset = 526336
	}

	pointer = (prefix << (8 * len(raw))) | uintFromBytes(raw)
	pointer += payloadOffset
	return pointer, newOffset, nil
}

// decodeKey resolves a map key at offset, chasing POINTER indirection (the
// common case for deduplicated keys) before requiring a UTF8_STRING. It
// returns a borrowed view into the backing buffer; callers must not retain it
// past the current sink call. scr's pointer-chase budget guards this the
// same way it guards value pointers in Decode, since a key pointer chain is
// no less capable of cycling on a corrupt database.
func (d *Decoder) decodeKey(offset uint, scr *scratch.Decoder) ([]byte, uint, error) {
	kind, size, dataOffset, err := d.decodeCtrlData(offset)
	if err != nil {
		return nil, 0, err
	}
	if kind == KindPointer {
		pointer, afterPointer, err := d.decodePointer(size, dataOffset)
		if err != nil {
			return nil, 0, err
		}
		if scr.EnterPointer() {
			return nil, 0, mmdberrors.NewInvalidDatabaseError(
				"pointer chain exceeded maximum depth; database is likely corrupt")
		}
		key, _, err := d.decodeKey(pointer, scr)
		scr.LeavePointer()
		return key, afterPointer, err
	}
	if kind != KindString {
		return nil, 0, mmdberrors.NewInvalidDatabaseError(
			"unexpected type when decoding map key: %s", kind)
	}
	key, err := d.buf.Slice(dataOffset, dataOffset+size)
	if err != nil {
		return nil, 0, err
	}
	return key, dataOffset + size, nil
}
