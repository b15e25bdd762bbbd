// SPDX-License-Identifier: MIT

package poptrie

import (
	"errors"
	"fmt"
)

// Sentinel errors, usable with errors.Is. They mark caller bugs and
// malformed artifacts; a well-formed artifact never causes a lookup to
// fail.
var (
	// ErrBadTag is returned by AddCIDR when the tag is outside 1..65535.
	// Tag 0 is reserved to mean "no match" and may never be stored.
	ErrBadTag = errors.New("poptrie: tag out of range, must be 1..65535")

	// ErrBadStride is returned by the packed bulk APIs when a buffer's
	// length is not a multiple of the address stride (4 for v4, 16 for v6).
	ErrBadStride = errors.New("poptrie: packed buffer length is not a multiple of the address stride")

	// ErrBadMagic is returned by Open when the file does not start with
	// the expected "PTV2" magic.
	ErrBadMagic = errors.New("poptrie: bad magic, not a poptrie artifact")

	// ErrShortFile is returned by Open when the file is too small to hold
	// the header, the node array, and the value table it claims to.
	ErrShortFile = errors.New("poptrie: file too short for its own header")

	// ErrClosed is returned by any Reader operation performed after Close.
	ErrClosed = errors.New("poptrie: reader is closed")

	// ErrBadAddr is returned by LookupString when text is not a valid
	// bare IPv4/IPv6 address literal.
	ErrBadAddr = errors.New("poptrie: not a valid address literal")
)

// wrapf wraps cause with a short "what was being attempted" prefix over a
// bare %w. Returns nil if cause is nil, so it can wrap the result of a
// call unconditionally.
func wrapf(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, cause)
}
