package mmdbquery

// This file builds small, fully synthetic MMDB byte images in memory so the
// rest of the test suite can exercise Open/FromBytes/Lookup/Networks/Verify
// without depending on an external .mmdb fixture file. Each encodeX helper
// mirrors the control-byte and size-extension rules decoder.go decodes
// against, just run in reverse.

import (
	"math"
	"math/big"
)

const (
	ctrlPointer = 1
	ctrlString  = 2
	ctrlFloat64 = 3
	ctrlBytes   = 4
	ctrlUint16  = 5
	ctrlUint32  = 6
	ctrlMap     = 7
	// Extended types: top 3 (type) bits of the control byte are 0, and the
	// following byte carries (kind - 7).
	ctrlInt32   = 8
	ctrlUint64  = 9
	ctrlUint128 = 10
	ctrlArray   = 11
	ctrlBool    = 14
	ctrlFloat32 = 15
)

func encodeCtrl(kind, size int) []byte {
	if kind >= 8 {
		out := []byte{byte(0x00<<5) | sizeLowBits(size), byte(kind - 7)}
		return appendSizeExtension(out, size)
	}
	out := []byte{byte(kind<<5) | sizeLowBits(size)}
	return appendSizeExtension(out, size)
}

func sizeLowBits(size int) byte {
	if size < 29 {
		return byte(size)
	}
	switch {
	case size < 29+256:
		return 29
	case size < 285+65536:
		return 30
	default:
		return 31
	}
}

func appendSizeExtension(out []byte, size int) []byte {
	switch {
	case size < 29:
		return out
	case size < 29+256:
		return append(out, byte(size-29))
	case size < 285+65536:
		rest := size - 285
		return append(out, byte(rest>>8), byte(rest))
	default:
		rest := size - 65821
		return append(out, byte(rest>>16), byte(rest>>8), byte(rest))
	}
}

func encodeString(s string) []byte {
	return append(encodeCtrl(ctrlString, len(s)), []byte(s)...)
}

func encodeUint16(v uint16) []byte {
	return append(encodeCtrl(ctrlUint16, 2), byte(v>>8), byte(v))
}

func encodeUint32(v uint32) []byte {
	return append(encodeCtrl(ctrlUint32, 4), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func encodeInt32(v int32) []byte {
	return append(encodeCtrl(ctrlInt32, 4), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func encodeUint64(v uint64) []byte {
	out := encodeCtrl(ctrlUint64, 8)
	for i := 7; i >= 0; i-- {
		out = append(out, byte(v>>(8*uint(i))))
	}
	return out
}

func encodeUint128(v *big.Int) []byte {
	raw := v.Bytes()
	padded := make([]byte, 16)
	copy(padded[16-len(raw):], raw)
	return append(encodeCtrl(ctrlUint128, 16), padded...)
}

func encodeDouble(f float64) []byte {
	bits := float64bits(f)
	out := encodeCtrl(ctrlFloat64, 8)
	for i := 7; i >= 0; i-- {
		out = append(out, byte(bits>>(8*uint(i))))
	}
	return out
}

func encodeFloat32(f float32) []byte {
	bits := float32bits(f)
	return append(encodeCtrl(ctrlFloat32, 4), byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
}

func encodeBool(b bool) []byte {
	v := 0
	if b {
		v = 1
	}
	return encodeCtrl(ctrlBool, v)
}

func encodeBytes(b []byte) []byte {
	return append(encodeCtrl(ctrlBytes, len(b)), b...)
}

func encodeArray(elems ...[]byte) []byte {
	out := encodeCtrl(ctrlArray, len(elems))
	for _, e := range elems {
		out = append(out, e...)
	}
	return out
}

type kv struct {
	key string
	val []byte
}

func encodeMap(pairs ...kv) []byte {
	out := encodeCtrl(ctrlMap, len(pairs))
	for _, p := range pairs {
		out = append(out, encodeString(p.key)...)
		out = append(out, p.val...)
	}
	return out
}

// encodePointer1 encodes a size-class-1 pointer (11-bit payload, no offset
// bias) targeting dataOffset, which must be representable in 11 bits.
func encodePointer1(dataOffset int) []byte {
	prefix := byte((dataOffset >> 8) & 0x7)
	return []byte{byte(ctrlPointer<<5) | prefix, byte(dataOffset)}
}

func float64bits(f float64) uint64 {
	return math.Float64bits(f)
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

// encodeTree24 packs a list of (left, right) record pairs into a
// record_size=24 search tree: 3 bytes per record, 6 bytes per node.
func encodeTree24(nodes [][2]uint32) []byte {
	out := make([]byte, 0, len(nodes)*6)
	for _, n := range nodes {
		out = append(out,
			byte(n[0]>>16), byte(n[0]>>8), byte(n[0]),
			byte(n[1]>>16), byte(n[1]>>8), byte(n[1]))
	}
	return out
}

// dataPointerRecord converts a data-section-relative offset into the trie
// record value that resolves to it, per resolveDataPointer's inverse:
// record - nodeCount - 16 == dataOffset.
func dataPointerRecord(nodeCount uint32, dataOffset int) uint32 {
	return uint32(dataOffset) + nodeCount + 16
}

var metadataMarker = []byte("\xAB\xCD\xEFMaxMind.com")

type fixtureMetadata struct {
	recordSize   uint16
	nodeCount    uint32
	ipVersion    uint16
	databaseType string
	languages    []string
	description  map[string]string
	buildEpoch   uint64
}

func encodeMetadataMap(m fixtureMetadata) []byte {
	langs := make([][]byte, len(m.languages))
	for i, l := range m.languages {
		langs[i] = encodeString(l)
	}
	descPairs := make([]kv, 0, len(m.description))
	for locale, text := range m.description {
		descPairs = append(descPairs, kv{locale, encodeString(text)})
	}
	return encodeMap(
		kv{"binary_format_major_version", encodeUint16(2)},
		kv{"binary_format_minor_version", encodeUint16(0)},
		kv{"build_epoch", encodeUint64(m.buildEpoch)},
		kv{"database_type", encodeString(m.databaseType)},
		kv{"description", encodeMap(descPairs...)},
		kv{"ip_version", encodeUint16(m.ipVersion)},
		kv{"languages", encodeArray(langs...)},
		kv{"node_count", encodeUint32(m.nodeCount)},
		kv{"record_size", encodeUint16(m.recordSize)},
	)
}

// buildImage assembles a complete MMDB byte image: the search tree, its
// 16-byte separator, the data section, and the trailing metadata marker
// plus map.
func buildImage(tree, data []byte, meta fixtureMetadata) []byte {
	img := make([]byte, 0, len(tree)+16+len(data)+len(metadataMarker)+64)
	img = append(img, tree...)
	img = append(img, make([]byte, 16)...)
	img = append(img, data...)
	img = append(img, metadataMarker...)
	img = append(img, encodeMetadataMap(meta)...)
	return img
}
