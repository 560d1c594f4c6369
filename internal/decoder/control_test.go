package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netradar/mmdbquery/internal/byteview"
	"github.com/netradar/mmdbquery/internal/scratch"
)

func ctrl(kind Kind, size uint) byte {
	return byte(kind)<<5 | byte(size&0x1f)
}

func TestDecodeCtrlDataSmallSize(t *testing.T) {
	// A string control byte with size 5, followed by 5 payload bytes.
	buf := []byte{ctrl(KindString, 5), 'h', 'e', 'l', 'l', 'o'}
	d := New(byteview.Of(buf))

	kind, size, next, err := d.decodeCtrlData(0)
	require.NoError(t, err)
	assert.Equal(t, KindString, kind)
	assert.Equal(t, uint(5), size)
	assert.Equal(t, uint(1), next)
}

func TestDecodeCtrlDataSizeExtension(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want uint
	}{
		{"29-plus-one-byte", []byte{ctrl(KindBytes, 29), 0x01}, 30},
		{"30-plus-two-bytes", []byte{ctrl(KindBytes, 30), 0x00, 0x01}, 286},
		{"31-plus-three-bytes", []byte{ctrl(KindBytes, 31), 0x00, 0x00, 0x01}, 65822},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(byteview.Of(tt.buf))
			_, size, next, err := d.decodeCtrlData(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, size)
			assert.Equal(t, uint(len(tt.buf)), next)
		})
	}
}

func TestDecodeCtrlDataExtendedType(t *testing.T) {
	// Extended type tag: top 3 bits 0, next byte is (kind - 7); here
	// 1 -> Int32 (kind 8).
	buf := []byte{ctrl(KindExtended, 4), 1}
	d := New(byteview.Of(buf))

	kind, size, next, err := d.decodeCtrlData(0)
	require.NoError(t, err)
	assert.Equal(t, KindInt32, kind)
	assert.Equal(t, uint(4), size)
	assert.Equal(t, uint(2), next)
}

func TestDecodePointerSizeClasses(t *testing.T) {
	tests := []struct {
		name       string
		sizeField  uint // low 5 bits of the pointer control byte
		payload    []byte
		wantTarget uint
	}{
		// pointer_size 1: payload is 1 byte, prefixed by low 3 bits of
		// the control byte's size field (here 0b011 == 3).
		{"size-class-1", 0b00011, []byte{0x05}, (3 << 8) | 0x05},
		// pointer_size 2: prefix 0b010 == 2, payload_offset 2048.
		{"size-class-2", 0b01010, []byte{0x00, 0x05}, (2 << 16) | 0x0005 + 2048},
		// pointer_size 3: prefix 0b001 == 1, payload_offset 526336.
		{"size-class-3", 0b10001, []byte{0x00, 0x00, 0x05}, (1 << 24) | 0x000005 + 526336},
		// pointer_size 4: no prefix bits, payload_offset 0.
		{"size-class-4", 0b11000, []byte{0x00, 0x00, 0x00, 0x07}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(byteview.Of(tt.payload))
			target, next, err := d.decodePointer(tt.sizeField, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, uint(len(tt.payload)), next)
		})
	}
}

func TestDecodeKeyChasesPointer(t *testing.T) {
	// Data section: offset 0 holds the real string "country", offset
	// after it holds a 1-byte-class pointer back to offset 0.
	buf := []byte{ctrl(KindString, 7), 'c', 'o', 'u', 'n', 't', 'r', 'y'}
	ptrOffset := uint(len(buf))
	buf = append(buf, ctrl(KindPointer, 0b00000), 0x00) // pointer_size 1, prefix 0, payload 0x00 -> target 0

	d := New(byteview.Of(buf))
	scr := scratch.Acquire()
	defer scratch.Release(scr)

	key, next, err := d.decodeKey(ptrOffset, scr)
	require.NoError(t, err)
	assert.Equal(t, "country", string(key))
	assert.Equal(t, uint(len(buf)), next)
}

func TestDecodeKeyRejectsNonStringType(t *testing.T) {
	buf := []byte{ctrl(KindUint32, 1), 0x01}
	d := New(byteview.Of(buf))
	scr := scratch.Acquire()
	defer scratch.Release(scr)

	_, _, err := d.decodeKey(0, scr)
	require.Error(t, err)
}

func TestDecodeKeyPointerChainDepthGuard(t *testing.T) {
	// A pointer that targets itself: an infinite chase that must be
	// stopped by the MaxPointerChain guard rather than recursing forever.
	buf := []byte{ctrl(KindPointer, 0b00000), 0x00}
	d := New(byteview.Of(buf))
	scr := scratch.Acquire()
	defer scratch.Release(scr)

	_, _, err := d.decodeKey(0, scr)
	require.Error(t, err)
}
