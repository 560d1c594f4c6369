package mmdberrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidDatabaseErrorFormatsMessage(t *testing.T) {
	err := NewInvalidDatabaseError("bad record size: %d", 99)
	assert.Equal(t, "bad record size: 99", err.Error())
}

func TestOffsetErrorIsInvalidDatabase(t *testing.T) {
	err := NewOffsetError()
	var target InvalidDatabaseError
	require.True(t, errors.As(err, &target))
}

func TestIoErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk exploded")
	err := NewIoError(cause)
	assert.Contains(t, err.Error(), "disk exploded")
	assert.ErrorIs(t, err, cause)
}

func TestClosedDatabaseError(t *testing.T) {
	err := NewClosedDatabaseError()
	assert.Equal(t, "cannot call Lookup on a closed database", err.Error())
}

func TestBadUTF8ErrorReportsOffset(t *testing.T) {
	err := NewBadUTF8Error(42)
	assert.Contains(t, err.Error(), "42")
}

func TestCallerContractErrorFormatsMessage(t *testing.T) {
	err := NewCallerContractError("duplicate key %q", "name")
	assert.Contains(t, err.Error(), `"name"`)
}
