// SPDX-License-Identifier: MIT

// Package poptrie provides a compact, immutable, memory-mappable binary
// representation of a merged IPv4+IPv6 prefix set, together with a Builder
// that ingests CIDR strings and a Reader that performs longest-prefix-match
// lookups against the resulting artifact.
//
// A Builder consumes CIDR prefixes with associated 16-bit tags, builds a
// byte-stride radix tree with coverage-aware insertion (a shorter prefix's
// tag suppresses any longer prefix already inserted beneath it) and
// uniform-subtree pruning (256 identical leaf children collapse into their
// parent), then serializes the result as a breadth-first, bitmap-indexed
// node array plus a leaf-value table.
//
// A Reader opens that artifact, preferably via mmap, and walks one address
// byte at a time using two 256-bit bitmaps per node and constant-time
// popcount to resolve child and leaf indices, visiting at most 4 nodes for
// an IPv4 key and 16 for an IPv6 key.
//
// The two halves share a bit-exact binary contract (see format.go) and
// nothing else: the in-memory tree is owned by the Builder and discarded
// after Save; the serialized file is immutable, and the Reader holds only
// a read-only view over it.
package poptrie
