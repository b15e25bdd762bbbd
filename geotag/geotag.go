// SPDX-License-Identifier: MIT

// Package geotag layers a two-letter country-code convention on top of a
// poptrie.Reader's opaque 16-bit tags: tag (first<<8)|second packs the two
// ASCII letters of an ISO-3166-1 alpha-2 code, so "CN" and "US" round-trip
// through a lookup without the core package needing to know what a tag
// means.
package geotag

import (
	"strings"

	"github.com/swoiow/poptrie"
)

// Code packs a 2-letter country code (e.g. "CN") into the tag convention
// this package uses. It panics if code is not exactly two ASCII letters:
// callers building a data set are expected to validate codes once, ahead
// of time, not on every lookup.
func Code(code string) uint16 {
	if len(code) != 2 {
		panic("geotag: country code must be exactly 2 letters")
	}

	code = strings.ToUpper(code)
	a, b := code[0], code[1]
	if a < 'A' || a > 'Z' || b < 'A' || b > 'Z' {
		panic("geotag: country code must be ASCII letters")
	}

	return uint16(a)<<8 | uint16(b)
}

// String decodes a tag produced by Code back into its 2-letter country
// code. It reports ok=false for tag 0 (no match) or any tag whose bytes
// aren't both ASCII letters.
func String(tag uint16) (code string, ok bool) {
	if tag == 0 {
		return "", false
	}

	a := byte(tag >> 8)
	b := byte(tag)
	if a < 'A' || a > 'Z' || b < 'A' || b > 'Z' {
		return "", false
	}

	return string([]byte{a, b}), true
}

// Lookup wraps a *poptrie.Reader and exposes country-code convenience
// methods over it. The zero value is not usable; call New.
type Lookup struct {
	reader *poptrie.Reader
}

// New wraps an already-open Reader. It does not take ownership: the
// caller is still responsible for calling reader.Close.
func New(reader *poptrie.Reader) *Lookup {
	return &Lookup{reader: reader}
}

// CountryOf returns the 2-letter country code matching addr, if any.
func (l *Lookup) CountryOf(addr []byte) (code string, ok bool, err error) {
	tag, err := l.reader.Lookup(addr)
	if err != nil {
		return "", false, err
	}
	code, ok = String(tag)
	return code, ok, nil
}

// CountryOfString parses text as a bare IP literal and returns its
// matching country code, if any.
func (l *Lookup) CountryOfString(text string) (code string, ok bool, err error) {
	tag, err := l.reader.LookupString(text)
	if err != nil {
		return "", false, err
	}
	code, ok = String(tag)
	return code, ok, nil
}

// IsCountry reports whether addr matches the given 2-letter country code
// exactly.
func (l *Lookup) IsCountry(addr []byte, code string) (bool, error) {
	tag, err := l.reader.Lookup(addr)
	if err != nil {
		return false, err
	}
	return tag == Code(code), nil
}
