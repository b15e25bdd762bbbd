// SPDX-License-Identifier: MIT

// Package sparse implements a popcount-compressed sparse array over
// [0..255], the build-time representation of a radix node's children.
//
// Instead of a 256-slot dense array or a map[byte]T, the occupied slots are
// tracked in a BitSet256 and the payloads are kept in a dense slice ordered
// by ascending byte key; looking up or inserting slot i costs one Rank0
// call plus a slice access/shift. This keeps the upper, sparse layers of
// the tree small while still visiting children in ascending numeric order
// for free, which is exactly the order the pruner and serializer need.
package sparse

import "github.com/swoiow/poptrie/internal/bitset"

// Array256 is a sparse array with popcount compression for up to 256 items
// keyed by byte value, holding payloads of type T.
type Array256[T any] struct {
	bitset.BitSet256
	Items []T
}

// Len returns the number of items in the sparse array.
func (a *Array256[T]) Len() int {
	return len(a.Items)
}

// Get returns the value at key i, if present.
func (a *Array256[T]) Get(i uint) (value T, ok bool) {
	if a.Test(i) {
		return a.Items[a.Rank0(i)], true
	}
	return
}

// InsertAt inserts or overwrites the value at key i.
// Reports whether a value already existed at i.
func (a *Array256[T]) InsertAt(i uint, value T) (exists bool) {
	if a.Test(i) {
		a.Items[a.Rank0(i)] = value
		return true
	}

	a.BitSet256.MustSet(i)
	a.insertItem(a.Rank0(i), value)

	return false
}

// Keys returns the occupied byte keys in ascending order. Items[j]
// corresponds to Keys()[j].
func (a *Array256[T]) Keys() []uint {
	bs := a.BitSet256
	return bs.AsSlice(make([]uint, 0, a.Len()))
}

// insertItem inserts item at slice index i, shifting the tail right.
func (a *Array256[T]) insertItem(i int, item T) {
	if len(a.Items) < cap(a.Items) {
		a.Items = a.Items[:len(a.Items)+1]
	} else {
		var zero T
		a.Items = append(a.Items, zero)
	}

	copy(a.Items[i+1:], a.Items[i:])
	a.Items[i] = item
}
