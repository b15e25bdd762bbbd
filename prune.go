// SPDX-License-Identifier: MIT

package poptrie

// prune walks the tree post-order and collapses any node whose 256
// children are all present, all leaves, and all carry the same tag, into
// a single leaf carrying that tag. Such a node arises when sibling
// prefixes together cover every value of one address byte under one tag
// (for example all 256 x.0.0.0/8); once collapsed, its parent records it
// as one leaf bit and one value-table entry instead of a child node. A
// collapsed root is still written as one node (see serializeTree).
//
// Returns the (possibly already collapsed) node so callers can prune a
// root in place: prune(root) is always safe to call even if root is
// already a leaf.
func prune(n *node) *node {
	if n == nil || n.isLeaf {
		return n
	}

	for _, key := range n.children.Keys() {
		child, _ := n.children.Get(key)
		pruned := prune(child)
		n.children.InsertAt(key, pruned)
	}

	if uniform, tag := uniformLeafChildren(n); uniform {
		n.isLeaf = true
		n.value = tag
		n.reset()
	}

	return n
}

// uniformLeafChildren reports whether n has exactly 256 children, each one
// a leaf, all sharing the same tag value.
func uniformLeafChildren(n *node) (ok bool, tag uint16) {
	if n.children.Len() != 256 {
		return false, 0
	}

	keys := n.children.Keys()
	first, _ := n.children.Get(keys[0])
	if !first.isLeaf {
		return false, 0
	}
	tag = first.value

	for _, key := range keys[1:] {
		child, _ := n.children.Get(key)
		if !child.isLeaf || child.value != tag {
			return false, 0
		}
	}

	return true, tag
}
