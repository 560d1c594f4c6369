package mmdberrors

import (
	"fmt"
	"strconv"
	"strings"
)

// ContextualError decorates an underlying decode error with the byte offset
// and (optionally) the field path at which it occurred. It is only
// constructed once an error has actually happened, so it never costs
// anything on the happy path.
type ContextualError struct {
	Err    error
	Path   string
	Offset uint
}

func (e ContextualError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("at offset %d, path %s: %v", e.Offset, e.Path, e.Err)
	}
	return fmt.Sprintf("at offset %d: %v", e.Offset, e.Err)
}

func (e ContextualError) Unwrap() error {
	return e.Err
}

// PathTracker supplies a human-readable path for the decoder's current
// position. Implementations only need to do real work once an error has
// occurred; WrapWithContext does not call BuildPath on the happy path.
type PathTracker interface {
	BuildPath() string
}

// WrapWithContext wraps err with offset and, if tracker is non-nil, a path.
// Returns nil unchanged so callers can write `return WrapWithContext(err, ...)`
// unconditionally without an extra branch.
func WrapWithContext(err error, offset uint, tracker PathTracker) error {
	if err == nil {
		return nil
	}

	ctxErr := ContextualError{Offset: offset, Err: err}
	if tracker != nil {
		ctxErr.Path = tracker.BuildPath()
	}
	return ctxErr
}

// PathBuilder accumulates map keys and slice indices on the way back out of
// a failed decode, innermost first, so the final path reads outermost first.
type PathBuilder struct {
	segments []string
}

// NewPathBuilder creates a builder with headroom for typical nesting depth.
func NewPathBuilder() *PathBuilder {
	return &PathBuilder{segments: make([]string, 0, 8)}
}

// BuildPath implements PathTracker.
func (p *PathBuilder) BuildPath() string {
	return p.Build()
}

// PrependMap records a map key, innermost call wins the rightmost position.
func (p *PathBuilder) PrependMap(key string) {
	p.segments = append([]string{key}, p.segments...)
}

// PrependSlice records a slice index.
func (p *PathBuilder) PrependSlice(index int) {
	p.segments = append([]string{strconv.Itoa(index)}, p.segments...)
}

// Build renders the accumulated path as a JSON-pointer-like string.
func (p *PathBuilder) Build() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}
