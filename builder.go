// SPDX-License-Identifier: MIT

package poptrie

import "github.com/bits-and-blooms/bitset"

// Builder accumulates CIDR prefixes with associated 16-bit tags into a
// single in-memory radix tree, ready to be pruned and serialized by Save.
// IPv4 and IPv6 prefixes share the same tree: the tree itself carries no
// family discriminator, since a lookup tells the two apart purely by how
// many address bytes it walks (4 or 16), starting from the same root.
//
// A Builder is single-threaded and holds no concurrency primitives: the
// build side is an offline, one-shot, throughput-oriented pass with no
// shared mutable state beyond the tree under construction. The zero value
// is not ready to use; call New.
type Builder struct {
	root *node
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{root: &node{}}
}

// AddCIDR parses text as an IPv4 or IPv6 CIDR prefix and inserts it with
// the given tag.
//
// A parse failure is a silent no-op: it reports (false, nil), matching a
// permissive ingest style where malformed input is skipped rather than
// aborting the whole load. An out-of-range tag is a caller bug and is
// reported as an error, never swallowed.
//
// Callers presenting prefixes from multiple sources should sort by mask
// ascending first: under that discipline a longer, already-covered prefix
// becomes a no-op; without it, exact-length duplicates are resolved
// last-write-wins.
func (b *Builder) AddCIDR(text string, tag uint16) (inserted bool, err error) {
	if tag == 0 || tag > maxTag {
		return false, ErrBadTag
	}

	addrBytes, maskBits, ok := parseCIDR(text)
	if !ok {
		return false, nil
	}

	insert(b.root, addrBytes, maskBits, tag)
	return true, nil
}

// insert implements the coverage-aware insertion engine: a shorter
// prefix's tag suppresses any longer prefix inserted beneath it, and a
// non-byte-aligned mask fans out into the range of leaf children it
// covers. Apart from a /0, which marks the root itself as a leaf, every
// terminal tag is stored as a leaf CHILD of some node, never as a flag on
// a node reached by full traversal: that keeps "is this node a leaf" a
// property of how it was linked in by its parent, so a single uniform
// check (does the parent's leaf bitmap have this byte set?) answers every
// lookup step, with no special case for the last byte of an address.
func insert(root *node, addr []byte, mask int, tag uint16) {
	if mask == 0 {
		root.isLeaf = true
		root.value = tag
		root.reset()
		return
	}

	steps := mask >> 3
	remaining := mask & 7

	hops := steps
	if remaining == 0 {
		// Byte-aligned: stop one level short of addr[steps-1] so that
		// byte becomes a single leaf child of the node we land on,
		// instead of continuing to walk into a node that doesn't exist.
		hops = steps - 1
	}

	cur := root
	for i := range hops {
		if cur.isLeaf {
			// A leaf ancestor already covers this insert.
			return
		}

		child, ok := cur.children.Get(uint(addr[i]))
		if !ok {
			child = &node{}
			cur.children.InsertAt(uint(addr[i]), child)
		}
		cur = child
	}

	if cur.isLeaf {
		return
	}

	if remaining == 0 {
		// Exact overwrite: this also discards whatever subtree, if any,
		// previously lived at this byte.
		cur.children.InsertAt(uint(addr[steps-1]), &node{isLeaf: true, value: tag})
		return
	}

	shift := uint(8 - remaining)
	lo := addr[steps] & byte(0xFF<<shift)
	hi := lo | byte(0xFF>>uint(remaining))

	// Track the affected byte range with a real bitset, mirroring the
	// teacher's own use of github.com/bits-and-blooms/bitset for
	// runtime-computed allotment ranges (gaissmai-bart's allot_tbl.go,
	// node.go): set the covered bytes, then walk them back out in
	// ascending order.
	affected := bitset.New(256)
	for byteVal := uint(lo); byteVal <= uint(hi); byteVal++ {
		affected.Set(byteVal)
	}

	for byteVal, ok := affected.NextSet(0); ok; byteVal, ok = affected.NextSet(byteVal + 1) {
		// Last-write-wins: this unconditionally overwrites any existing
		// subtree at byteVal.
		cur.children.InsertAt(byteVal, &node{isLeaf: true, value: tag})
	}
}
