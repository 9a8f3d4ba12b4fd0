package cmpcodec

// bitWriter packs variable-length codes into a byte buffer.
// Bits are written in MSB-first order (most significant bit first).
type bitWriter struct {
	buf     []byte // completed bytes
	curByte byte   // current byte being assembled
	bitPos  uint   // number of bits written in current byte (0-7)
}

// newBitWriter creates a bit writer that appends to dst.
func newBitWriter(dst []byte) *bitWriter {
	return &bitWriter{buf: dst}
}

// WriteBits writes the low n bits of code, MSB first (n <= 32).
func (w *bitWriter) WriteBits(code uint32, n int) {
	for n > 0 {
		free := int(8 - w.bitPos)
		k := min(free, n)
		shift := n - k
		chunk := byte((code >> uint(shift)) & (1<<uint(k) - 1))
		w.curByte |= chunk << uint(free-k)
		w.bitPos += uint(k)
		n -= k
		if w.bitPos == 8 {
			w.flushByte()
		}
	}
}

func (w *bitWriter) flushByte() {
	w.buf = append(w.buf, w.curByte)
	w.curByte = 0
	w.bitPos = 0
}

// Flush pads a partial final byte with 1-bits and returns the buffer.
// The writer can keep appending afterwards; the next bit starts a new byte.
func (w *bitWriter) Flush() []byte {
	if w.bitPos > 0 {
		w.curByte |= 0xFF >> w.bitPos
		w.flushByte()
	}
	return w.buf
}

// Len returns the current length in bytes, including any partial byte
// that has not yet been flushed.
func (w *bitWriter) Len() int {
	n := len(w.buf)
	if w.bitPos > 0 {
		n++
	}
	return n
}
