// Package trie implements the binary search-tree walk over a packed MMDB
// search trie: longest-prefix-match lookup with record widths of 24, 28, or
// 32 bits, plus the IPv4-in-IPv6 fast path.
package trie

import (
	"github.com/netradar/mmdbquery/internal/byteview"
	"github.com/netradar/mmdbquery/internal/mmdberrors"
)

// Walker reads trie nodes out of a search-tree byte range. It holds no
// mutable state beyond the one-time IPv4 start node computed at open, so a
// single Walker is safely shared by any number of concurrent lookups.
type Walker struct {
	tree       byteview.View
	recordSize uint
	nodeCount  uint32

	ipv4Start         uint32
	ipv4StartBitDepth int
	embedsIPv4        bool
}

// New builds a Walker over the search-tree region of the database (the
// bytes preceding the 16-byte separator). recordSize must be 24, 28, or 32;
// callers are expected to have already validated this against metadata.
func New(tree byteview.View, recordSize uint, nodeCount uint32, ipVersion uint) Walker {
	w := Walker{
		tree:       tree,
		recordSize: recordSize,
		nodeCount:  nodeCount,
		embedsIPv4: ipVersion == 6,
	}
	w.ipv4Start, w.ipv4StartBitDepth = w.computeIPv4Start(ipVersion)
	return w
}

// NodeCount returns the number of nodes in the search tree.
func (w Walker) NodeCount() uint32 {
	return w.nodeCount
}

// ReadChild fetches the child record of node for the given bit (0 or 1).
// The returned value is either a node index (< NodeCount), NodeCount itself
// (empty record), or a value > NodeCount encoding a data pointer.
func (w Walker) ReadChild(node uint32, bit uint8) (uint32, error) {
	switch w.recordSize {
	case 24:
		return w.readChild24(node, bit)
	case 28:
		return w.readChild28(node, bit)
	case 32:
		return w.readChild32(node, bit)
	default:
		return 0, mmdberrors.NewInvalidDatabaseError("unsupported record size: %d", w.recordSize)
	}
}

func (w Walker) readChild24(node uint32, bit uint8) (uint32, error) {
	base := uint(node) * 6
	off := base + uint(bit)*3
	v, err := w.tree.Uint24(off)
	return v, err
}

func (w Walker) readChild28(node uint32, bit uint8) (uint32, error) {
	base := uint(node) * 7
	shared, err := w.tree.At(base + 3)
	if err != nil {
		return 0, err
	}
	var nibble uint32
	var off uint
	if bit == 0 {
		nibble = uint32(shared&0xF0) << 20
		off = base
	} else {
		nibble = uint32(shared&0x0F) << 24
		off = base + 4
	}
	low, err := w.tree.Uint24(off)
	if err != nil {
		return 0, err
	}
	return nibble | low, nil
}

func (w Walker) readChild32(node uint32, bit uint8) (uint32, error) {
	base := uint(node) * 8
	off := base + uint(bit)*4
	return w.tree.Uint32(off)
}

// StartNode returns the node (and the bit depth reached to get there) that a
// lookup should begin walking from. netip.Addr.As16 always returns a 16-byte
// IPv4-mapped form with the real octets at bytes 12-15, so every walk
// proceeds over the full 128 bits; what differs for an IPv4 query is only
// where it starts. Against an IPv4-only database the tree has no embedding
// prefix, so an IPv4 query starts at the root, 96 bits in. Against a tree
// that embeds IPv4 under ::/96, it starts at the precomputed ipv4Start node.
// An IPv6 query always starts at the root, bit depth 0.
func (w Walker) StartNode(isIPv4 bool) (uint32, int) {
	if !isIPv4 {
		return 0, 0
	}
	if w.embedsIPv4 {
		return w.ipv4Start, w.ipv4StartBitDepth
	}
	return 0, 96
}

// computeIPv4Start walks 96 steps of bit=0 from the root, stopping early on
// an empty record or a data pointer. It is only meaningful for a database
// whose tree embeds IPv4 under ::/96; StartNode does not consult it
// otherwise.
func (w Walker) computeIPv4Start(ipVersion uint) (uint32, int) {
	if ipVersion != 6 {
		return 0, 0
	}

	var node uint32
	i := 0
	for ; i < 96 && node < w.nodeCount; i++ {
		next, err := w.ReadChild(node, 0)
		if err != nil {
			return node, i
		}
		node = next
	}
	return node, i
}
