// SPDX-License-Identifier: MIT

package poptrie

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/swoiow/poptrie/internal/wirebits"
)

// Reader is a read-only, concurrency-safe view over a serialized artifact:
// one merged IPv4+IPv6 radix tree, BFS-laid-out, rooted at node 0. Multiple
// goroutines may call Lookup and friends concurrently; Close must only be
// called once all lookups have returned.
type Reader struct {
	mu     sync.RWMutex
	data   mmap.MMap // nil if opened WithoutMmap
	raw    []byte    // the bytes actually being read: data, or a plain buffer
	closer io.Closer
	closed bool

	nodes     []byte // nodeCount * nodeSize bytes
	values    []byte // valCount * 2 bytes, little-endian uint16 each
	nodeCount uint32
}

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	disableMmap bool
}

// WithoutMmap forces Open to read the whole file into memory instead of
// mapping it. Useful on filesystems where mmap is unavailable or
// undesirable (network mounts, some container runtimes).
func WithoutMmap() Option {
	return func(c *openConfig) { c.disableMmap = true }
}

// Open opens the artifact at path. It maps the file read-only, or reads it
// whole into memory when WithoutMmap is given. A failed mapping is
// returned as an error; Open does not retry with a buffered read.
func Open(path string, opts ...Option) (*Reader, error) {
	cfg := openConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wrapf("open artifact", err)
	}

	r := &Reader{}

	if cfg.disableMmap {
		buf, err := io.ReadAll(f)
		closeErr := f.Close()
		if err != nil {
			return nil, wrapf("read artifact", err)
		}
		if closeErr != nil {
			return nil, wrapf("close artifact", closeErr)
		}
		r.raw = buf
		r.closer = io.NopCloser(nil)
	} else {
		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			_ = f.Close()
			return nil, wrapf("mmap artifact", err)
		}
		r.data = m
		r.raw = m
		r.closer = f
	}

	if err := r.parseHeader(); err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *Reader) parseHeader() error {
	if len(r.raw) < headerSize {
		return ErrShortFile
	}
	if !bytes.Equal(r.raw[0:4], []byte(magic)) {
		return ErrBadMagic
	}

	nodeCount := binary.LittleEndian.Uint32(r.raw[4:])
	valCount := binary.LittleEndian.Uint32(r.raw[8:])

	nodesLen := int(nodeCount) * nodeSize
	valsLen := int(valCount) * 2

	if headerSize+nodesLen+valsLen > len(r.raw) {
		return ErrShortFile
	}
	if nodeCount == 0 {
		// A well-formed artifact always has a root, per the "root is
		// always emitted as one node" rule in serialize.go.
		return ErrShortFile
	}

	r.nodeCount = nodeCount
	r.nodes = r.raw[headerSize : headerSize+nodesLen]
	r.values = r.raw[headerSize+nodesLen : headerSize+nodesLen+valsLen]

	return nil
}

// Close releases the underlying mapping or buffer. It is safe to call
// more than once.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.data != nil {
		if err := r.data.Unmap(); err != nil {
			return wrapf("unmap artifact", err)
		}
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			return wrapf("close artifact", err)
		}
	}

	return nil
}

// nodeAt returns the child bitmap, leaf bitmap, child offset and leaf base
// index for node idx, read directly out of the backing bytes.
func (r *Reader) nodeAt(idx uint32) (childBitmap, leafBitmap []byte, childOffset, leafBase uint32) {
	base := int(idx) * nodeSize
	rec := r.nodes[base : base+nodeSize]

	childBitmap = rec[0:wirebits.Size]
	leafBitmap = rec[wirebits.Size : 2*wirebits.Size]
	childOffset = binary.LittleEndian.Uint32(rec[2*wirebits.Size:])
	leafBase = binary.LittleEndian.Uint32(rec[2*wirebits.Size+4:])

	return
}

func (r *Reader) valueAt(idx uint32) uint16 {
	return binary.LittleEndian.Uint16(r.values[2*idx:])
}

// lookup performs the bounded byte-stride walk described in doc.go,
// starting at the root (node 0), and returns the matched tag, or 0 if
// addr matches no stored prefix.
func (r *Reader) lookup(addr []byte) uint16 {
	var nodeIdx uint32
	for _, b := range addr {
		childBitmap, leafBitmap, childOffset, leafBase := r.nodeAt(nodeIdx)

		if wirebits.Test(leafBitmap, b) {
			rank := wirebits.Rank(leafBitmap, b)
			return r.valueAt(leafBase + uint32(rank))
		}

		if wirebits.Test(childBitmap, b) {
			rank := wirebits.Rank(childBitmap, b)
			nodeIdx = childOffset + uint32(rank)
			continue
		}

		return 0
	}

	return 0
}

// Lookup returns the tag stored for the longest prefix matching addr (4
// bytes for IPv4, 16 for IPv6), or 0 if nothing matches. It visits at most
// 4 nodes for an IPv4 key and 16 for an IPv6 key.
func (r *Reader) Lookup(addr []byte) (uint16, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrClosed
	}

	if len(addr) != v4Bytes && len(addr) != v6Bytes {
		return 0, ErrBadStride
	}

	return r.lookup(addr), nil
}

// Contains reports whether addr matches any stored prefix.
func (r *Reader) Contains(addr []byte) (bool, error) {
	tag, err := r.Lookup(addr)
	if err != nil {
		return false, err
	}
	return tag != 0, nil
}

// LookupString parses text as an IPv4 or IPv6 address literal (no mask)
// and looks it up.
func (r *Reader) LookupString(text string) (uint16, error) {
	addr, err := parseAddr(text)
	if err != nil {
		return 0, err
	}
	return r.Lookup(addr)
}

// LookupStrings looks up a batch of address literals, preserving order.
// An unparseable entry yields a 0 tag rather than aborting the batch.
func (r *Reader) LookupStrings(texts []string) ([]uint16, error) {
	out := make([]uint16, len(texts))
	for i, text := range texts {
		tag, err := r.LookupString(text)
		if err != nil && err != ErrBadAddr {
			return nil, err
		}
		out[i] = tag
	}
	return out, nil
}

// LookupPacked looks up every stride-byte address packed back to back in
// buf. stride must be 4 or 16; len(buf) must be a multiple of stride.
func (r *Reader) LookupPacked(buf []byte, stride int) ([]uint16, error) {
	if stride != v4Bytes && stride != v6Bytes {
		return nil, ErrBadStride
	}
	if len(buf)%stride != 0 {
		return nil, ErrBadStride
	}

	out := make([]uint16, len(buf)/stride)
	for i := range out {
		tag, err := r.Lookup(buf[i*stride : (i+1)*stride])
		if err != nil {
			return nil, err
		}
		out[i] = tag
	}
	return out, nil
}

// parseAddr parses text as a bare address literal (no CIDR mask) and
// returns its packed bytes.
func parseAddr(text string) ([]byte, error) {
	text = strings.TrimSpace(text)

	addr, ok := parseLiteral(text)
	if !ok {
		return nil, ErrBadAddr
	}
	return addr, nil
}
