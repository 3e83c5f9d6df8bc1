// Package isobmff walks the top-level box structure of an ISO base media
// container (MP4/3GP). It is deliberately not a general container parser:
// only top-level boxes are produced, since the payload box of interest in
// this format family is always top-level, and extended sizes above 4 GiB
// are rejected rather than truncated.
package isobmff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrMalformedBox means a box declared a total size smaller than its
	// own header.
	ErrMalformedBox = errors.New("isobmff: malformed box")
	// ErrUnsupportedSize means a 64-bit extended box size exceeds 4 GiB or
	// the extended header is truncated.
	ErrUnsupportedSize = errors.New("isobmff: unsupported box size")
	// ErrBoxNotFound means no box with the requested tag exists at the top
	// level.
	ErrBoxNotFound = errors.New("isobmff: box not found")
)

const (
	standardHeaderSize = 8
	extendedHeaderSize = 16
)

// Box describes one top-level region of a container.
type Box struct {
	Type        string
	Start       int
	HeaderSize  int
	PayloadSize int
}

// ParseTopLevel scans buf and returns its top-level boxes in order. The
// scan stops when fewer than 8 bytes remain.
func ParseTopLevel(buf []byte) ([]Box, error) {
	boxes := make([]Box, 0, 4)
	offset := 0

	for offset+standardHeaderSize <= len(buf) {
		sizeField := int(binary.BigEndian.Uint32(buf[offset : offset+4]))
		boxType := string(buf[offset+4 : offset+8])

		headerSize := standardHeaderSize
		totalSize := sizeField

		switch sizeField {
		case 0:
			// Box extends to the end of the buffer.
			totalSize = len(buf) - offset
		case 1:
			if offset+extendedHeaderSize > len(buf) {
				return nil, fmt.Errorf("%w: truncated extended header for %q at offset %d", ErrUnsupportedSize, boxType, offset)
			}
			high := binary.BigEndian.Uint32(buf[offset+8 : offset+12])
			low := binary.BigEndian.Uint32(buf[offset+12 : offset+16])
			if high != 0 {
				return nil, fmt.Errorf("%w: box %q at offset %d exceeds 4GiB", ErrUnsupportedSize, boxType, offset)
			}
			headerSize = extendedHeaderSize
			totalSize = int(low)
		}

		if totalSize < headerSize {
			return nil, fmt.Errorf("%w: box %q at offset %d declares size %d with header %d", ErrMalformedBox, boxType, offset, totalSize, headerSize)
		}

		boxes = append(boxes, Box{
			Type:        boxType,
			Start:       offset,
			HeaderSize:  headerSize,
			PayloadSize: totalSize - headerSize,
		})
		offset += totalSize
	}

	return boxes, nil
}

// FindBox returns the first box with the given 4-character tag.
func FindBox(boxes []Box, tag string) (Box, bool) {
	for _, b := range boxes {
		if b.Type == tag {
			return b, true
		}
	}
	return Box{}, false
}

// Payload returns the payload bytes of b, bounds-checked against buf.
func Payload(buf []byte, b Box) ([]byte, error) {
	start := b.Start + b.HeaderSize
	end := start + b.PayloadSize
	if start < 0 || end > len(buf) || start > end {
		return nil, fmt.Errorf("%w: box %q payload [%d,%d) outside buffer of %d bytes", ErrMalformedBox, b.Type, start, end, len(buf))
	}
	return buf[start:end], nil
}

// FindPayloadBoxLoose scans for the literal tag bytes anywhere in buf and
// presumes a standard 8-byte header before them, skipping validation. The
// tag can appear incidentally inside unrelated metadata, so this is an
// opt-in fallback for well-behaved mobile-recorder output only, used when
// strict parsing fails.
func FindPayloadBoxLoose(buf []byte, tag string) (Box, bool) {
	idx := bytes.Index(buf, []byte(tag))
	if idx < 4 {
		return Box{}, false
	}

	start := idx - 4
	sizeField := int(binary.BigEndian.Uint32(buf[start : start+4]))
	payloadSize := sizeField - standardHeaderSize
	if sizeField < standardHeaderSize || start+sizeField > len(buf) {
		// Declared size is unusable; take everything after the tag.
		payloadSize = len(buf) - (start + standardHeaderSize)
	}
	if payloadSize < 0 {
		return Box{}, false
	}

	return Box{
		Type:        tag,
		Start:       start,
		HeaderSize:  standardHeaderSize,
		PayloadSize: payloadSize,
	}, true
}
