// SPDX-License-Identifier: MIT

package poptrie

import "github.com/swoiow/poptrie/internal/sparse"

// node is the build-time representation of one radix tree node. children
// is sparse and keyed by byte value; a leaf node's children is always the
// zero value.
type node struct {
	children sparse.Array256[*node]
	isLeaf   bool
	value    uint16
}

// reset clears a node back to an empty non-leaf, dropping any children.
func (n *node) reset() {
	n.children = sparse.Array256[*node]{}
}
