package mmdbquery

import (
	"fmt"

	"github.com/netradar/mmdbquery/callback"
	"github.com/netradar/mmdbquery/internal/mmdberrors"
)

// Verify checks that the database's metadata and every network's data
// record are at least structurally well-formed: the search tree terminates
// correctly, every data pointer resolves in range, and every value decodes
// without a control-byte or size error. This is stricter than strictly
// necessary to serve Lookup — it walks records most callers never ask for —
// so a database that is fine for ordinary use can still fail Verify if some
// far corner of it is corrupt.
func (r *Reader) Verify() error {
	if err := r.verifyMetadata(); err != nil {
		return err
	}
	return r.Networks(callback.Any(), callback.NewAnyState())
}

func (r *Reader) verifyMetadata() error {
	m := r.Metadata
	if m.BinaryFormatMajorVersion != 2 {
		return testError("binary_format_major_version", 2, m.BinaryFormatMajorVersion)
	}
	if m.DatabaseType == "" {
		return testError("database_type", "non-empty string", m.DatabaseType)
	}
	if len(m.Description) == 0 {
		return testError("description", "non-empty map", m.Description)
	}
	if m.IPVersion != 4 && m.IPVersion != 6 {
		return testError("ip_version", "4 or 6", m.IPVersion)
	}
	if m.RecordSize != 24 && m.RecordSize != 28 && m.RecordSize != 32 {
		return testError("record_size", "24, 28, or 32", m.RecordSize)
	}
	if m.NodeCount == 0 {
		return testError("node_count", "positive", m.NodeCount)
	}
	return nil
}

func testError(field string, expected, actual any) error {
	return mmdberrors.NewInvalidDatabaseError(
		"metadata field %q: expected %v, got %v", field, expected, fmt.Sprint(actual))
}
