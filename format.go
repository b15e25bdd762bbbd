// SPDX-License-Identifier: MIT

package poptrie

import "github.com/swoiow/poptrie/internal/wirebits"

// Wire format constants for the serialized artifact. The file is laid
// out as:
//
//	header      headerSize bytes: magic, node_cnt, val_cnt, reserved
//	            (the three counts are little-endian uint32)
//	node array  node_cnt records of nodeSize bytes, BFS order, root first;
//	            each is child bitmap, leaf bitmap (wirebits encoding),
//	            child offset, leaf base index (little-endian uint32)
//	value table val_cnt little-endian uint16 tags
//
// The child offset is the index, within the node array, of the node's
// first child (not a byte offset); the leaf base index is the value-table
// index of the node's first leaf.
//
// The file holds one merged tree covering both address families: IPv4 and
// IPv6 prefixes are inserted into the same byte-stride radix tree, and
// Lookup tells them apart only by how many bytes it is given to walk (4
// for an IPv4 key, 16 for an IPv6 key), starting from the same root node.
const (
	// magic identifies a poptrie artifact. It is written verbatim as the
	// first 4 bytes of the file.
	magic = "PTV2"

	// headerSize is the fixed size, in bytes, of the file header:
	// magic(4) + node_cnt(4) + val_cnt(4) + reserved(4).
	headerSize = 4 + 4 + 4 + 4

	// nodeSize is the fixed size, in bytes, of one serialized node: a
	// child bitmap, a leaf bitmap, a 4-byte child offset and a 4-byte
	// leaf base index.
	nodeSize = 2*wirebits.Size + 4 + 4

	// maxTag is the largest value a tag may hold. Tag 0 is reserved to
	// mean "no match."
	maxTag = 0xFFFF

	// v4Bytes and v6Bytes are the packed address lengths for the two
	// supported families; they also bound the number of nodes a lookup
	// may visit, one per address byte.
	v4Bytes = 4
	v6Bytes = 16
)

// header mirrors the fixed-size file header, in field order: magic is
// handled separately by the writer/reader, node_cnt/val_cnt/reserved
// follow.
type header struct {
	nodeCount uint32
	valCount  uint32
	// reserved is always written as 0 and ignored on read.
	reserved uint32
}
