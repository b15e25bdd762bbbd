// SPDX-License-Identifier: MIT

package bitset

import "testing"

func TestBitSet256SetTestClear(t *testing.T) {
	t.Parallel()

	var b BitSet256
	for _, bit := range []uint{0, 1, 63, 64, 127, 128, 200, 255} {
		if b.Test(bit) {
			t.Fatalf("bit %d: expected unset before MustSet", bit)
		}
		b.MustSet(bit)
		if !b.Test(bit) {
			t.Fatalf("bit %d: expected set after MustSet", bit)
		}
		b.MustClear(bit)
		if b.Test(bit) {
			t.Fatalf("bit %d: expected unset after MustClear", bit)
		}
	}
}

func TestBitSet256Rank0(t *testing.T) {
	t.Parallel()

	var b BitSet256
	for _, bit := range []uint{0, 5, 64, 100, 200, 255} {
		b.MustSet(bit)
	}

	want := 0
	for idx := range uint(256) {
		if b.Test(idx) {
			if got := b.Rank0(idx); got != want {
				t.Fatalf("Rank0(%d) = %d, want %d", idx, got, want)
			}
			want++
		}
	}
}

func TestBitSet256AsSlice(t *testing.T) {
	t.Parallel()

	var b BitSet256
	set := []uint{0, 3, 64, 65, 254, 255}
	for _, bit := range set {
		b.MustSet(bit)
	}

	got := b.AsSlice(make([]uint, 0, 256))
	if len(got) != len(set) {
		t.Fatalf("AsSlice len = %d, want %d", len(got), len(set))
	}
	for i, bit := range set {
		if got[i] != bit {
			t.Fatalf("AsSlice[%d] = %d, want %d", i, got[i], bit)
		}
	}

	if size := b.Size(); size != len(set) {
		t.Fatalf("Size() = %d, want %d", size, len(set))
	}
}
