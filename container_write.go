package cmpcodec

import "encoding/binary"

// putHeader writes h into the first HeaderSize bytes of dst.
func putHeader(dst []byte, h *Header) {
	_ = dst[HeaderSize-1]
	dst[0] = fileTypeIndexed
	if h.Color {
		dst[0] = fileTypeColor
	}
	binary.LittleEndian.PutUint16(dst[1:], uint16(int16(h.Width)))
	binary.LittleEndian.PutUint16(dst[3:], uint16(int16(h.Height)))
	for i, l := range h.PlaneLengths {
		binary.LittleEndian.PutUint32(dst[5+4*i:], uint32(int32(l)))
	}
	binary.LittleEndian.PutUint16(dst[17:], uint16(h.Quality))
}

// reserveHeader appends HeaderSize zero bytes to dst and returns the
// extended slice with the offset of the reserved space.
func reserveHeader(dst []byte) ([]byte, int) {
	off := len(dst)
	var zero [HeaderSize]byte
	return append(dst, zero[:]...), off
}
