package cmpcodec

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size of the fixed container header in bytes.
const HeaderSize = 19

// File type tags stored in the first header byte.
const (
	fileTypeIndexed = 0x00
	fileTypeColor   = 0xFF
)

// Header describes a compressed container.
//
// The on-disk layout is packed little-endian:
//
//	offset 0   u8   file type (0x00 indexed, 0xFF color)
//	offset 1   i16  padded width
//	offset 3   i16  padded height
//	offset 5   i32  channel 0 length (R, or the index plane)
//	offset 9   i32  channel 1 length (G, 0 if indexed)
//	offset 13  i32  channel 2 length (B, 0 if indexed)
//	offset 17  i16  quality factor
//
// The channel bitstreams follow the header in order.
type Header struct {
	Color        bool
	Width        int // padded width, a multiple of 8
	Height       int // padded height, a multiple of 8
	PlaneLengths [3]int
	Quality      int16
}

// NumPlanes returns the number of coded channels.
func (h *Header) NumPlanes() int {
	if h.Color {
		return 3
	}
	return 1
}

// Size returns the total container size in bytes.
func (h *Header) Size() int {
	n := HeaderSize
	for _, l := range h.PlaneLengths {
		n += l
	}
	return n
}

// planeData returns the byte range of channel c within the container.
func (h *Header) planeData(data []byte, c int) []byte {
	start := HeaderSize
	for i := 0; i < c; i++ {
		start += h.PlaneLengths[i]
	}
	return data[start : start+h.PlaneLengths[c]]
}

// ReadHeader parses and validates the header at the start of data. It also
// checks that data holds every byte the header declares.
func ReadHeader(data []byte) (Header, error) {
	h, err := parseHeaderFields(data)
	if err != nil {
		return h, err
	}
	if total := h.Size(); total > len(data) {
		return h, fmt.Errorf("%w: header declares %d bytes, have %d", ErrStreamCorruption, total, len(data))
	}
	return h, nil
}

// parseHeaderFields decodes and checks the header fields alone.
func parseHeaderFields(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: %d bytes is shorter than the header", ErrStreamCorruption, len(data))
	}

	switch data[0] {
	case fileTypeIndexed:
	case fileTypeColor:
		h.Color = true
	default:
		return h, fmt.Errorf("%w: unknown file type 0x%02x", ErrStreamCorruption, data[0])
	}

	h.Width = int(int16(binary.LittleEndian.Uint16(data[1:])))
	h.Height = int(int16(binary.LittleEndian.Uint16(data[3:])))
	for i := range h.PlaneLengths {
		h.PlaneLengths[i] = int(int32(binary.LittleEndian.Uint32(data[5+4*i:])))
	}
	h.Quality = int16(binary.LittleEndian.Uint16(data[17:]))

	if h.Width <= 0 || h.Height <= 0 || h.Width%8 != 0 || h.Height%8 != 0 {
		return h, fmt.Errorf("%w: padded size %dx%d", ErrStreamCorruption, h.Width, h.Height)
	}
	if h.Quality < 1 {
		return h, fmt.Errorf("%w: quality factor %d", ErrStreamCorruption, h.Quality)
	}
	for i, l := range h.PlaneLengths {
		if l < 0 {
			return h, fmt.Errorf("%w: channel %d length %d", ErrStreamCorruption, i, l)
		}
		if i >= h.NumPlanes() && l != 0 {
			return h, fmt.Errorf("%w: indexed container declares %d bytes for channel %d", ErrStreamCorruption, l, i)
		}
	}
	return h, nil
}
