package decoder

// Kind is the on-disk data type tag carried by a control byte, in the same
// bit-layout and ordering as the format's type enumeration.
type Kind int

const (
	KindExtended Kind = iota
	KindPointer
	KindString
	KindFloat64
	KindBytes
	KindUint16
	KindUint32
	KindMap
	KindInt32
	KindUint64
	KindUint128
	KindSlice
	kindContainer // unused, placeholder per format
	kindMarker    // unused, placeholder per format
	KindBool
	KindFloat32
)

func (k Kind) String() string {
	switch k {
	case KindExtended:
		return "extended"
	case KindPointer:
		return "pointer"
	case KindString:
		return "string"
	case KindFloat64:
		return "float64"
	case KindBytes:
		return "bytes"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindMap:
		return "map"
	case KindInt32:
		return "int32"
	case KindUint64:
		return "uint64"
	case KindUint128:
		return "uint128"
	case KindSlice:
		return "slice"
	case KindBool:
		return "bool"
	case KindFloat32:
		return "float32"
	default:
		return "unknown"
	}
}
