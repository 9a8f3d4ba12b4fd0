package cmpcodec

// bitReader reads bits from one channel's compressed bytes.
// Bits are read in MSB-first order. Reading beyond the slice fails with
// errStreamExhausted; the slice is never grown or refilled.
type bitReader struct {
	data   []byte
	pos    int  // byte position
	bitPos uint // bit position within current byte (0-7), reads MSB first
}

// newBitReader creates a new bit reader over data.
func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

// ReadBit reads a single bit and returns 0 or 1.
func (r *bitReader) ReadBit() (int, error) {
	if r.pos >= len(r.data) {
		return 0, errStreamExhausted
	}

	bit := int((r.data[r.pos] >> (7 - r.bitPos)) & 1)

	r.bitPos++
	if r.bitPos == 8 {
		r.bitPos = 0
		r.pos++
	}
	return bit, nil
}

// ReadBits reads n bits (0 <= n <= 32), MSB first.
func (r *bitReader) ReadBits(n int) (uint32, error) {
	var result uint32
	for range n {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		result = (result << 1) | uint32(bit)
	}
	return result, nil
}

// BitPosition returns current bit position (byte * 8 + bit offset).
func (r *bitReader) BitPosition() int {
	return r.pos*8 + int(r.bitPos)
}

// Remaining returns the number of unread bits.
func (r *bitReader) Remaining() int {
	rem := len(r.data)*8 - r.BitPosition()
	if rem < 0 {
		return 0
	}
	return rem
}
