package mmdbquery

import (
	"net/netip"

	"github.com/netradar/mmdbquery/callback"
	"github.com/netradar/mmdbquery/internal/mmdberrors"
)

// Networks walks every network in the database in tree order, driving cb
// for each one that has a data record: OnNetwork fires with the network's
// base address and prefix length, then the rest of cb's tree fires over the
// record. Networks that end in an empty record are not reported.
//
// This enumerates the tree as stored: a IPv6-capable database's embedded
// ::ffff:0:0/96 IPv4 range is walked like any other IPv6 subtree, so an
// IPv4 network reachable through it is reported once, as an IPv6 prefix,
// alongside its native IPv4 counterpart if the database also maps one
// separately. Deduplicating the two is left to the caller.
func (r *Reader) Networks(cb *callback.Callback, state any) error {
	if r.closed() {
		return mmdberrors.NewClosedDatabaseError()
	}

	bitLen := 128
	if r.Metadata.IPVersion == 4 {
		bitLen = 32
	}

	var path [16]byte
	return r.walkNetworks(0, path, 0, bitLen, cb, state)
}

func (r *Reader) walkNetworks(
	node uint32,
	path [16]byte,
	depth, bitLen int,
	cb *callback.Callback,
	state any,
) error {
	nodeCount := r.tree.NodeCount()

	if node == nodeCount {
		return nil
	}
	if node > nodeCount {
		addr := addrFromPath(path, bitLen)
		if cb != nil && cb.OnNetwork != nil {
			if err := cb.OnNetwork(state, addr, depth); err != nil {
				return err
			}
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

	for _, bit := range [2]uint8{0, 1} {
		child, err := r.tree.ReadChild(node, bit)
		if err != nil {
			return err
		}
		childPath := path
		if bit == 1 {
			childPath[depth>>3] |= 1 << uint(7-(depth&7))
		}
		if err := r.walkNetworks(child, childPath, depth+1, bitLen, cb, state); err != nil {
			return err
		}
	}
	return nil
}

func addrFromPath(path [16]byte, bitLen int) netip.Addr {
	if bitLen == 32 {
		var b [4]byte
		copy(b[:], path[:4])
		return netip.AddrFrom4(b)
	}
	return netip.AddrFrom16(path)
}
