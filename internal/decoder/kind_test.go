package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindExtended, "extended"},
		{KindPointer, "pointer"},
		{KindString, "string"},
		{KindFloat64, "float64"},
		{KindBytes, "bytes"},
		{KindUint16, "uint16"},
		{KindUint32, "uint32"},
		{KindMap, "map"},
		{KindInt32, "int32"},
		{KindUint64, "uint64"},
		{KindUint128, "uint128"},
		{KindSlice, "slice"},
		{KindBool, "bool"},
		{KindFloat32, "float32"},
		{Kind(999), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
