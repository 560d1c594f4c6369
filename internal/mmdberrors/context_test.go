package mmdberrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapWithContextNilIsNoop(t *testing.T) {
	assert.NoError(t, WrapWithContext(nil, 5, nil))
}

func TestWrapWithContextWithoutTracker(t *testing.T) {
	cause := errors.New("boom")
	err := WrapWithContext(cause, 12, nil)
	require.Error(t, err)
	assert.Equal(t, "at offset 12: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrapWithContextWithPath(t *testing.T) {
	cause := errors.New("boom")
	pb := NewPathBuilder()
	pb.PrependSlice(2)
	pb.PrependMap("country")

	err := WrapWithContext(cause, 12, pb)
	require.Error(t, err)
	assert.Equal(t, "at offset 12, path /country/2: boom", err.Error())
}

func TestPathBuilderEmptyPathIsRootSlash(t *testing.T) {
	pb := NewPathBuilder()
	assert.Equal(t, "/", pb.Build())
}

func TestPathBuilderPrependOrdering(t *testing.T) {
	pb := NewPathBuilder()
	pb.PrependMap("b")
	pb.PrependMap("a")
	assert.Equal(t, "/a/b", pb.Build())
}
