package mmdbquery

import "github.com/netradar/mmdbquery/internal/mmdberrors"

// InvalidDatabaseError reports that the database contains invalid data and
// cannot be parsed: an unknown control byte, an out-of-range pointer, a
// malformed record size, a missing metadata marker, and so on.
type InvalidDatabaseError = mmdberrors.InvalidDatabaseError

// ClosedDatabaseError reports a Lookup or Networks call made after Close.
type ClosedDatabaseError = mmdberrors.ClosedDatabaseError

// IoError wraps a failure reading the underlying file or memory mapping.
type IoError = mmdberrors.IoError

// BadUTF8Error reports a UTF8_STRING value that is not valid UTF-8.
type BadUTF8Error = mmdberrors.BadUTF8Error

// CallerContractError reports a programmer error in how a callback tree
// was built, such as registering the same object key twice.
type CallerContractError = mmdberrors.CallerContractError
