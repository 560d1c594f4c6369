package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireReleaseResetsState(t *testing.T) {
	d := Acquire()
	d.NotePathMap([]byte("country"))
	d.EnterPointer()
	Release(d)

	d2 := Acquire()
	assert.Equal(t, "", d2.BuildPath())
	assert.Nil(t, d2.Cache())
	Release(d2)
}

func TestEnterLeavePointerTracksDepth(t *testing.T) {
	d := Acquire()
	defer Release(d)

	for i := 0; i < MaxPointerChain; i++ {
		assert.False(t, d.EnterPointer(), "depth %d should still be within budget", i+1)
	}
	assert.True(t, d.EnterPointer(), "depth exceeding MaxPointerChain must be reported")

	for i := 0; i < MaxPointerChain+1; i++ {
		d.LeavePointer()
	}
}

func TestBuildPathAccumulatesLazily(t *testing.T) {
	d := Acquire()
	defer Release(d)

	assert.Equal(t, "", d.BuildPath())
	d.NotePathSlice(3)
	d.NotePathMap([]byte("tags"))
	assert.Equal(t, "/tags/3", d.BuildPath())
}
