package mmdbquery

import (
	"time"

	"github.com/netradar/mmdbquery/callback"
	"github.com/netradar/mmdbquery/internal/byteview"
	"github.com/netradar/mmdbquery/internal/decoder"
	"github.com/netradar/mmdbquery/internal/scratch"
)

// Metadata holds the metadata record that trails every database file.
type Metadata struct {
	// Description maps language code to a localized description of the
	// database, e.g. {"en": "GeoIP2 City database"}.
	Description map[string]string
	// DatabaseType names the structure of the records the database holds,
	// e.g. "GeoIP2-City". Names beginning with "GeoIP" are reserved for
	// MaxMind's own databases.
	DatabaseType string
	// Languages lists the locale codes the database may contain localized
	// data for.
	Languages []string
	// BinaryFormatMajorVersion is the major version of the on-disk format.
	BinaryFormatMajorVersion uint
	// BinaryFormatMinorVersion is the minor version of the on-disk format.
	BinaryFormatMinorVersion uint
	// BuildEpoch is the database build time, in Unix epoch seconds.
	BuildEpoch uint64
	// IPVersion is 4 for an IPv4-only database or 6 for one that also
	// accepts IPv6 addresses.
	IPVersion uint
	// NodeCount is the number of nodes in the search tree.
	NodeCount uint32
	// RecordSize is the width, in bits, of each of a node's two records:
	// 24, 28, or 32.
	RecordSize uint
}

// BuildTime converts BuildEpoch to a time.Time.
func (m Metadata) BuildTime() time.Time {
	return time.Unix(int64(m.BuildEpoch), 0)
}

// descriptionFields routes every key of the metadata "description" map to a
// Text sink that writes straight into target: the set of locales varies per
// database, so unlike the rest of Metadata this can't be registered
// field-by-field ahead of time.
type descriptionFields struct {
	target map[string]string
}

func (f descriptionFields) Lookup(key []byte) *callback.Callback {
	name := string(key)
	return &callback.Callback{
		Shape: callback.ShapeText,
		Text: func(_ any, v callback.CharSeq) error {
			f.target[name] = v.String()
			return nil
		},
	}
}

func bigEndianUint64(raw []byte) uint64 {
	var v uint64
	for _, b := range raw {
		v = (v << 8) | uint64(b)
	}
	return v
}

// decodeMetadata decodes the metadata record out of buf, which must be the
// view starting immediately after the 14-byte metadata marker. It is built
// on the same callback/decoder machinery the rest of the engine uses,
// rather than a reflection-based path, since metadata is just another MAP
// value in the data section.
func decodeMetadata(buf byteview.View) (Metadata, error) {
	var meta Metadata
	meta.Description = make(map[string]string)

	b := callback.NewObject()
	b.Text("database_type", func(_ any, v callback.CharSeq) error {
		meta.DatabaseType = v.String()
		return nil
	})
	b.Integer("binary_format_major_version", func(_ any, v int64) error {
		meta.BinaryFormatMajorVersion = uint(v)
		return nil
	})
	b.Integer("binary_format_minor_version", func(_ any, v int64) error {
		meta.BinaryFormatMinorVersion = uint(v)
		return nil
	})
	b.Integer("ip_version", func(_ any, v int64) error {
		meta.IPVersion = uint(v)
		return nil
	})
	b.Integer("node_count", func(_ any, v int64) error {
		meta.NodeCount = uint32(v)
		return nil
	})
	b.Integer("record_size", func(_ any, v int64) error {
		meta.RecordSize = uint(v)
		return nil
	})
	b.BigInt("build_epoch", func(_ any, raw []byte) error {
		meta.BuildEpoch = bigEndianUint64(raw)
		return nil
	})
	b.Array(
		"languages",
		func(_ any, size int) error {
			meta.Languages = make([]string, 0, size)
			return nil
		},
		func(_ any, _, _ int) (*callback.Callback, error) {
			return &callback.Callback{
				Shape: callback.ShapeText,
				Text: func(_ any, v callback.CharSeq) error {
					meta.Languages = append(meta.Languages, v.String())
					return nil
				},
			}, nil
		},
		nil,
	)
	b.Raw("description", &callback.Callback{
		Shape:  callback.ShapeObject,
		Fields: descriptionFields{target: meta.Description},
	})

	cb, err := b.Build()
	if err != nil {
		return Metadata{}, err
	}

	dec := decoder.New(buf)
	scr := scratch.Acquire()
	defer scratch.Release(scr)
	if _, err := dec.Decode(0, cb, nil, scr); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}
