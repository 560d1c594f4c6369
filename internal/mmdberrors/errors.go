// Package mmdberrors defines the error kinds returned by the query engine.
package mmdberrors

import (
	"github.com/cockroachdb/errors"
)

// InvalidDatabaseError is returned when the database contains invalid data
// and cannot be parsed: an unknown control byte, an out-of-range pointer,
// a malformed record size, a missing metadata marker, and so on.
type InvalidDatabaseError struct {
	message string
}

// NewInvalidDatabaseError builds an InvalidDatabaseError from a format string.
func NewInvalidDatabaseError(format string, args ...any) error {
	return errors.WithStackDepth(InvalidDatabaseError{errors.Newf(format, args...).Error()}, 1)
}

func (e InvalidDatabaseError) Error() string {
	return e.message
}

// NewOffsetError reports a read that fell outside the data section.
func NewOffsetError() error {
	return NewInvalidDatabaseError("unexpected end of database")
}

// ClosedDatabaseError is returned when a lookup is attempted after the
// Reader's byte range has been released via Close.
type ClosedDatabaseError struct{}

func (ClosedDatabaseError) Error() string {
	return "cannot call Lookup on a closed database"
}

// NewClosedDatabaseError builds a ClosedDatabaseError.
func NewClosedDatabaseError() error {
	return errors.WithStackDepth(ClosedDatabaseError{}, 1)
}

// IoError wraps a failure reading the underlying byte range (file I/O,
// a truncated mmap, and so on).
type IoError struct {
	cause error
}

// NewIoError wraps cause as an IoError.
func NewIoError(cause error) error {
	return errors.WithStackDepth(IoError{cause: cause}, 1)
}

func (e IoError) Error() string {
	return "mmdb: i/o error: " + e.cause.Error()
}

func (e IoError) Unwrap() error {
	return e.cause
}

// BadUTF8Error is returned when a UTF8_STRING entry contains bytes that are
// not valid UTF-8.
type BadUTF8Error struct {
	Offset uint
}

func (e BadUTF8Error) Error() string {
	return errors.Newf("mmdb: invalid UTF-8 in string at offset %d", e.Offset).Error()
}

// NewBadUTF8Error builds a BadUTF8Error at offset.
func NewBadUTF8Error(offset uint) error {
	return errors.WithStackDepth(BadUTF8Error{Offset: offset}, 1)
}

// CallerContractError reports a programmer error in how a callback tree was
// built: a duplicate or conflicting sink registration for the same
// (object, key) pair. It is surfaced eagerly, at build time, rather than
// during a lookup.
type CallerContractError struct {
	message string
}

func (e CallerContractError) Error() string {
	return e.message
}

// NewCallerContractError builds a CallerContractError from a format string.
func NewCallerContractError(format string, args ...any) error {
	return errors.WithStackDepth(CallerContractError{errors.Newf(format, args...).Error()}, 1)
}
