// SPDX-License-Identifier: MIT

package poptrie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAddCIDRRejectsZeroTagAcceptsMaxTag checks both ends of the tag
// range: 0 is reserved and rejected, 0xFFFF is the largest tag a uint16
// can carry and is accepted.
func TestAddCIDRRejectsZeroTagAcceptsMaxTag(t *testing.T) {
	b := New()

	_, err := b.AddCIDR("10.0.0.0/8", 0)
	require.ErrorIs(t, err, ErrBadTag)

	inserted, err := b.AddCIDR("10.0.0.0/8", 0xFFFF)
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestAddCIDRSilentlyIgnoresUnparseableText(t *testing.T) {
	b := New()

	inserted, err := b.AddCIDR("not-a-cidr", 1)
	require.NoError(t, err)
	require.False(t, inserted)
}

// TestAddCIDRSharesOneTreeAcrossFamilies checks that IPv4 and IPv6
// prefixes are inserted into the same merged tree: each contributes its
// own top-level byte key to the single root's children, per spec.md §1's
// "merged IPv4+IPv6 prefix set."
func TestAddCIDRSharesOneTreeAcrossFamilies(t *testing.T) {
	b := New()

	inserted, err := b.AddCIDR("10.0.0.0/8", 1)
	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, 1, b.root.children.Len())

	inserted, err = b.AddCIDR("2001:db8::/32", 2)
	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, 2, b.root.children.Len())
}

// TestCoverageAwareInsertionNoOp exercises the duplicate-coverage scenario:
// a /32 for an address already covered by an earlier /24 over the same
// range is suppressed as a no-op.
func TestCoverageAwareInsertionNoOp(t *testing.T) {
	b := New()

	inserted, err := b.AddCIDR("203.0.113.0/24", 10)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = b.AddCIDR("203.0.113.5/32", 20)
	require.NoError(t, err)
	require.True(t, inserted) // AddCIDR always reports "accepted for processing"

	tag := lookupInTree(t, b.root, []byte{203, 0, 113, 5})
	require.Equal(t, uint16(10), tag, "the /24's tag must still win, the /32 insert was suppressed")
}

// TestMoreSpecificOverridesOneSlotOfARange checks that a /32 landing
// inside a /30's non-aligned fan-out can still override just its own
// slot, leaving the rest of the range at the broader tag.
func TestMoreSpecificOverridesOneSlotOfARange(t *testing.T) {
	b := New()

	_, err := b.AddCIDR("198.51.100.0/30", 10)
	require.NoError(t, err)
	_, err = b.AddCIDR("198.51.100.1/32", 20)
	require.NoError(t, err)

	require.Equal(t, uint16(10), lookupInTree(t, b.root, []byte{198, 51, 100, 0}))
	require.Equal(t, uint16(20), lookupInTree(t, b.root, []byte{198, 51, 100, 1}))
	require.Equal(t, uint16(10), lookupInTree(t, b.root, []byte{198, 51, 100, 2}))
	require.Equal(t, uint16(10), lookupInTree(t, b.root, []byte{198, 51, 100, 3}))
}

// TestBoundaryMaskFanOutCoversExactRange confirms a /18 (a
// non-aligned boundary similar to 240e::/18) produces the expected
// coverage without over- or under-shooting the fan-out range.
func TestBoundaryMaskFanOutCoversExactRange(t *testing.T) {
	b := New()

	_, err := b.AddCIDR("240e::/18", 7)
	require.NoError(t, err)

	// 240e::/18 is 2 full bytes (0x24, 0x0e) plus the top 2 bits of the
	// third byte: that byte is 0x00 and 0x00 & 0xc0 == 0, so the covered
	// third-byte range is [0x00, 0x3f].
	inRange := []byte{0x24, 0x0e, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	outOfRange := []byte{0x24, 0x0e, 0x40, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	require.Equal(t, uint16(7), lookupInTree(t, b.root, inRange))
	require.Equal(t, uint16(0), lookupInTree(t, b.root, outOfRange))

	// Re-inserting the same /18 is a boundary no-op: same tag, same range.
	_, err = b.AddCIDR("240e::/18", 7)
	require.NoError(t, err)
	require.Equal(t, uint16(7), lookupInTree(t, b.root, inRange))
}

// lookupInTree walks an in-memory, unpruned, unserialized tree the same
// way Reader.Lookup walks a serialized one, for use in builder-level
// tests before a round trip through Save/Open.
func lookupInTree(t *testing.T, root *node, addr []byte) uint16 {
	t.Helper()

	cur := root
	if cur.isLeaf {
		return cur.value
	}

	for _, b := range addr {
		child, ok := cur.children.Get(uint(b))
		if !ok {
			return 0
		}
		if child.isLeaf {
			return child.value
		}
		cur = child
	}

	return 0
}
