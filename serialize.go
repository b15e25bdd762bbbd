// SPDX-License-Identifier: MIT

package poptrie

import (
	"encoding/binary"
	"os"

	"github.com/swoiow/poptrie/internal/wirebits"
)

// serializedNode is the in-memory staging form of one on-disk node record,
// laid out identically to the wire format (see format.go).
type serializedNode struct {
	childBitmap [wirebits.Size]byte
	leafBitmap  [wirebits.Size]byte
	childOffset uint32
	leafBase    uint32
}

func (n *serializedNode) encode(buf []byte) {
	copy(buf[0:wirebits.Size], n.childBitmap[:])
	copy(buf[wirebits.Size:2*wirebits.Size], n.leafBitmap[:])
	binary.LittleEndian.PutUint32(buf[2*wirebits.Size:], n.childOffset)
	binary.LittleEndian.PutUint32(buf[2*wirebits.Size+4:], n.leafBase)
}

// serializeTree walks root breadth-first and produces its node array and
// value table. root is always emitted as the first node record, even when
// root itself is a leaf (a whole-address-space match, e.g. from a bare
// "/0" insert or from pruning a fully saturated tree): since a node record
// can only express leaf-ness per outgoing byte, not for the node as a
// whole, that case is materialized as a node with every one of its 256
// leaf-bitmap bits set, each pointing at its own (identical) entry in the
// value table. Every other leaf in the tree is recorded the cheap way, as
// a single bitmap bit plus one value-table entry in its parent's record,
// because insert never lets a leaf become reachable by a full BFS
// traversal except at the root.
func serializeTree(root *node) (nodes []serializedNode, values []uint16) {
	order := []*node{root}
	nodes = make([]serializedNode, 0, 1)
	values = make([]uint16, 0)

	for i := 0; i < len(order); i++ {
		cur := order[i]
		var rec serializedNode

		if cur.isLeaf {
			rec.leafBase = uint32(len(values))
			for b := 0; b < 256; b++ {
				wirebits.Set(rec.leafBitmap[:], byte(b))
				values = append(values, cur.value)
			}
			nodes = append(nodes, rec)
			continue
		}

		haveChildOffset := false
		haveLeafBase := false

		for _, key := range cur.children.Keys() {
			child, _ := cur.children.Get(key)
			b := byte(key)

			if child.isLeaf {
				wirebits.Set(rec.leafBitmap[:], b)
				if !haveLeafBase {
					rec.leafBase = uint32(len(values))
					haveLeafBase = true
				}
				values = append(values, child.value)
				continue
			}

			wirebits.Set(rec.childBitmap[:], b)
			if !haveChildOffset {
				rec.childOffset = uint32(len(order))
				haveChildOffset = true
			}
			order = append(order, child)
		}

		nodes = append(nodes, rec)
	}

	return nodes, values
}

// Save prunes the tree and writes it to path in the binary format
// described in format.go. Pruning changes the Builder's own tree in place,
// so after Save a prefix added beneath a collapsed subtree is treated as
// covered by it and suppressed.
func (b *Builder) Save(path string) (err error) {
	b.root = prune(b.root)

	nodes, values := serializeTree(b.root)

	f, err := os.Create(path)
	if err != nil {
		return wrapf("create artifact", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = wrapf("close artifact", cerr)
		}
	}()

	hdr := header{
		nodeCount: uint32(len(nodes)),
		valCount:  uint32(len(values)),
	}

	if err = writeHeader(f, hdr); err != nil {
		return err
	}
	if err = writeNodesAndValues(f, nodes, values); err != nil {
		return err
	}

	return nil
}

func writeHeader(f *os.File, hdr header) error {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic)

	binary.LittleEndian.PutUint32(buf[4:], hdr.nodeCount)
	binary.LittleEndian.PutUint32(buf[8:], hdr.valCount)
	binary.LittleEndian.PutUint32(buf[12:], hdr.reserved)

	_, err := f.Write(buf)
	return wrapf("write header", err)
}

func writeNodesAndValues(f *os.File, nodes []serializedNode, values []uint16) error {
	nodeBuf := make([]byte, nodeSize)
	for i := range nodes {
		nodes[i].encode(nodeBuf)
		if _, err := f.Write(nodeBuf); err != nil {
			return wrapf("write node", err)
		}
	}

	valBuf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(valBuf[2*i:], v)
	}
	if _, err := f.Write(valBuf); err != nil {
		return wrapf("write value table", err)
	}

	return nil
}
