// SPDX-License-Identifier: MIT

package poptrie

import "net/netip"

// Prefix is a parsed CIDR prefix together with its associated tag. Tag is
// opaque to the core; callers are free to pack any 1..65535 value into it
// (package geotag builds a two-letter country-code convention on top of
// this).
type Prefix struct {
	Addr netip.Addr
	Bits int
	Tag  uint16
}

// parseCIDR parses text as a CIDR prefix and returns its packed address
// bytes (4 for IPv4, 16 for IPv6) and mask width. It reports ok=false on
// any parse error, matching AddCIDR's permissive ingest behavior: callers
// that need strictness should call netip.ParsePrefix themselves before
// handing text to a Builder.
func parseCIDR(text string) (addrBytes []byte, maskBits int, ok bool) {
	p, err := netip.ParsePrefix(text)
	if err != nil {
		return nil, 0, false
	}

	p = p.Masked()
	addr := p.Addr()

	return addr.AsSlice(), p.Bits(), true
}

// parseLiteral parses text as a bare IPv4 or IPv6 address (no mask) and
// returns its packed bytes (4 or 16 of them).
func parseLiteral(text string) (addrBytes []byte, ok bool) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return nil, false
	}
	return addr.AsSlice(), true
}
