// Package mmdbquery reads MaxMind DB (.mmdb) files: a packed binary search
// trie over IP prefixes plus a self-describing data section. Lookup drives
// a caller-supplied callback tree (package callback) over exactly the
// fields the caller asked for, skipping everything else structurally.
//
// # Basic usage
//
//	db, err := mmdbquery.Open("GeoLite2-City.mmdb")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	var isoCode string
//	record := callback.NewRecord().
//		Object("country", func(c *callback.ObjectBuilder) {
//			c.Text("iso_code", func(_ any, v callback.CharSeq) error {
//				isoCode = v.String()
//				return nil
//			})
//		}).
//		MustBuild()
//
//	addr := netip.MustParseAddr("81.2.69.142")
//	if err := db.Lookup(addr, record, nil); err != nil {
//		log.Fatal(err)
//	}
//
// # Thread safety
//
// A *Reader is safe for concurrent use by any number of goroutines once
// constructed. A *callback.Callback tree built once with callback.NewRecord
// or callback.NewObject is immutable and may likewise be shared and reused
// concurrently, provided the state value each Lookup passes is not itself
// shared.
package mmdbquery

import (
	"errors"
	"net/netip"
	"os"
	"runtime"

	"github.com/netradar/mmdbquery/callback"
	"github.com/netradar/mmdbquery/cache"
	"github.com/netradar/mmdbquery/internal/byteview"
	"github.com/netradar/mmdbquery/internal/decoder"
	"github.com/netradar/mmdbquery/internal/mmdberrors"
	"github.com/netradar/mmdbquery/internal/scratch"
	"github.com/netradar/mmdbquery/internal/trie"
)

const dataSectionSeparatorSize = 16

var metadataStartMarker = []byte("\xAB\xCD\xEFMaxMind.com")

// Reader holds an opened database. Its Metadata field is safe to read
// directly; every method is safe for concurrent use.
type Reader struct {
	data          byteview.View
	tree          trie.Walker
	dec           decoder.Decoder
	dataLen       uint
	cacheProvider cache.Provider
	Metadata      Metadata

	hasMappedFile bool
}

// Open opens the database at path. The file is memory-mapped; if the
// mapping attempt fails it is read into memory in full instead. Call Close
// to release whichever resource was used.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck // read-only fd; close failure is not actionable here

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 == 0 {
		return nil, mmdberrors.NewInvalidDatabaseError("error opening database: file is empty")
	}
	size := int(size64)
	if int64(size) != size64 {
		return nil, mmdberrors.NewInvalidDatabaseError("error opening database: file too large")
	}

	// Any mmap failure, not just an unsupported-platform one, falls back to
	// a full read: a mapping can also fail on a filesystem that rejects it
	// (some container overlays, network mounts), and reading the file
	// whole still serves every correctness guarantee Lookup makes.
	data, err := mmap(int(file.Fd()), size)
	if err != nil {
		data, err = readFallback(file, size)
		if err != nil {
			return nil, err
		}
		return FromBytes(data, opts...)
	}

	reader, err := FromBytes(data, opts...)
	if err != nil {
		_ = munmap(data)
		return nil, err
	}
	reader.hasMappedFile = true
	runtime.SetFinalizer(reader, (*Reader).Close)
	return reader, nil
}

func readFallback(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, mmdberrors.NewIoError(err)
	}
	return data, nil
}

// FromBytes builds a Reader directly over an in-memory database image. The
// caller retains ownership of buf; it must not be modified for as long as
// the returned Reader is in use.
func FromBytes(buf []byte, opts ...ReaderOption) (*Reader, error) {
	o := defaultReaderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	view := byteview.Of(buf)
	markerOffset := view.LastIndex(metadataStartMarker)
	if markerOffset == -1 {
		return nil, mmdberrors.NewInvalidDatabaseError(
			"error opening database: invalid MaxMind DB file")
	}

	metadataStart := uint(markerOffset) + uint(len(metadataStartMarker))
	metaView, err := view.Slice(metadataStart, uint(view.Len()))
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetadata(metaView)
	if err != nil {
		return nil, err
	}

	searchTreeSize := uint(meta.NodeCount) * (meta.RecordSize / 4)
	dataSectionStart := searchTreeSize + dataSectionSeparatorSize
	dataSectionEnd := uint(markerOffset)
	if dataSectionStart > dataSectionEnd {
		return nil, mmdberrors.NewInvalidDatabaseError("the MaxMind DB contains invalid metadata")
	}

	treeView, err := view.Slice(0, searchTreeSize)
	if err != nil {
		return nil, err
	}
	dataView, err := view.Slice(dataSectionStart, dataSectionEnd)
	if err != nil {
		return nil, err
	}

	walker := trie.New(treeView, meta.RecordSize, meta.NodeCount, meta.IPVersion)

	return &Reader{
		data:          view,
		tree:          walker,
		dec:           decoder.New(dataView),
		dataLen:       uint(len(dataView)),
		cacheProvider: o.cacheProvider,
		Metadata:      meta,
	}, nil
}

// Close releases the resources backing the Reader. It is idempotent; a
// closed Reader's Lookup returns an error rather than panicking.
func (r *Reader) Close() error {
	if r.hasMappedFile {
		runtime.SetFinalizer(r, nil)
		r.hasMappedFile = false
		err := munmap(r.data.Bytes())
		r.data = byteview.View{}
		return err
	}
	r.data = byteview.View{}
	return nil
}

func (r *Reader) closed() bool {
	return r.data.Len() == 0
}

// Lookup finds the record for addr and drives cb over it: cb.OnNetwork, if
// set, always fires with the address and the matched prefix length,
// regardless of whether a data record was found; the rest of cb's tree only
// fires if one was. state is passed through to every sink unchanged — it is
// typically a pointer to wherever the caller wants results written.
func (r *Reader) Lookup(addr netip.Addr, cb *callback.Callback, state any) error {
	if r.closed() {
		return mmdberrors.NewClosedDatabaseError()
	}
	if r.Metadata.IPVersion == 4 && addr.Is6() {
		return mmdberrors.NewInvalidDatabaseError(
			"error looking up %q: you attempted to look up an IPv6 address in an IPv4-only database",
			addr.String())
	}

	// As16 always yields a 16-byte IPv4-mapped form with the real octets at
	// bytes 12-15, so the walk always proceeds over the full 128 bits; only
	// the starting node and depth differ for an IPv4 query (see
	// trie.Walker.StartNode).
	const bitLen = 128
	node, i := r.tree.StartNode(addr.Is4())
	nodeCount := r.tree.NodeCount()
	ip16 := addr.As16()

	for ; i < bitLen && node < nodeCount; i++ {
		byteIdx := i >> 3
		bitPos := 7 - (i & 7)
		bit := (ip16[byteIdx] >> uint(bitPos)) & 1
		next, err := r.tree.ReadChild(node, bit)
		if err != nil {
			return err
		}
		node = next
	}

	// i is a depth within the full 128-bit walk; rebase it back into addr's
	// own address space (0-32 for IPv4) before handing it to the caller,
	// since OnNetwork reports addr unchanged and prefixLen must be valid
	// relative to that address for addr.Prefix(prefixLen) to make sense.
	prefixLen := i
	if addr.Is4() {
		if prefixLen < 96 {
			prefixLen = 0
		} else {
			prefixLen -= 96
		}
	}

	if cb != nil && cb.OnNetwork != nil {
		if err := cb.OnNetwork(state, addr, prefixLen); err != nil {
			return err
		}
	}

	if node == nodeCount {
		return nil // empty record: address is covered, but has no data
	}
	if node < nodeCount {
		return mmdberrors.NewInvalidDatabaseError("invalid node in search tree")
	}
	if cb == nil {
		return nil
	}

	offset, err := r.resolveDataPointer(node)
	if err != nil {
		return err
	}
	return r.decodeAt(offset, cb, state)
}

// decodeAt decodes the record at a resolved data-section offset into cb,
// leasing a scratch.Decoder (and, if configured, a string-interning cache)
// for the duration of the call. Lookup and Networks share this path.
func (r *Reader) decodeAt(offset uint, cb *callback.Callback, state any) error {
	scr := scratch.Acquire()
	defer scratch.Release(scr)
	if r.cacheProvider != nil {
		c := r.cacheProvider.Acquire()
		scr.SetCache(c)
		defer r.cacheProvider.Release(c)
	}

	if _, err := r.dec.Decode(offset, cb, state, scr); err != nil {
		// Only decoder-raised errors get the offset/path annotation; an error
		// returned by a caller's sink is passed back as the sink returned it.
		var invalid mmdberrors.InvalidDatabaseError
		var badUTF8 mmdberrors.BadUTF8Error
		if errors.As(err, &invalid) || errors.As(err, &badUTF8) {
			return mmdberrors.WrapWithContext(err, offset, scr)
		}
		return err
	}
	return nil
}

// resolveDataPointer converts a trie record that exceeds NodeCount into a
// data-section-relative offset. Because node encodes the record's distance
// past the search tree and its 16-byte separator, and the Decoder's view is
// already scoped to start right after that separator, the conversion has no
// base term to add back in: it is exactly node - nodeCount - 16.
func (r *Reader) resolveDataPointer(node uint32) (uint, error) {
	offset := uint(node) - uint(r.tree.NodeCount()) - dataSectionSeparatorSize
	if offset >= r.dataLen {
		return 0, mmdberrors.NewInvalidDatabaseError("the MaxMind DB file's search tree is corrupt")
	}
	return offset, nil
}
