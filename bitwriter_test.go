package cmpcodec

import (
	"bytes"
	"testing"
)

func TestBitWriterRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		bits []int
	}{
		{"single zero", []int{0}},
		{"single one", []int{1}},
		{"byte 0xA5", []int{1, 0, 1, 0, 0, 1, 0, 1}},
		{"byte 0xFF", []int{1, 1, 1, 1, 1, 1, 1, 1}},
		{"12 bits", []int{1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 1}},
		{"16 zeros", []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newBitWriter(nil)
			for _, bit := range tt.bits {
				w.WriteBits(uint32(bit), 1)
			}
			data := w.Flush()
			if want := (len(tt.bits) + 7) / 8; len(data) != want {
				t.Fatalf("Flush() returned %d bytes, want %d", len(data), want)
			}

			r := newBitReader(data)
			for i, expected := range tt.bits {
				got, err := r.ReadBit()
				if err != nil {
					t.Fatalf("bit %d: ReadBit error: %v", i, err)
				}
				if got != expected {
					t.Errorf("bit %d: got %d, want %d", i, got, expected)
				}
			}
		})
	}
}

func TestBitWriterWriteBits(t *testing.T) {
	w := newBitWriter(nil)
	w.WriteBits(0x0, 2) // DC category 0
	w.WriteBits(0xA, 4) // EOB
	w.WriteBits(0x0, 2)
	w.WriteBits(0xA, 4)
	w.WriteBits(0x0, 2)
	w.WriteBits(0xA, 4)
	w.WriteBits(0x0, 2)
	w.WriteBits(0xA, 4)

	want := []byte{0x28, 0xA2, 0x8A}
	if got := w.Flush(); !bytes.Equal(got, want) {
		t.Errorf("Flush() = % x, want % x", got, want)
	}
}

func TestBitWriterWideCodes(t *testing.T) {
	w := newBitWriter(nil)
	w.WriteBits(1, 1)
	w.WriteBits(0xFFFE, 16)
	w.WriteBits(0x12345678, 32)

	r := newBitReader(w.Flush())
	if b, _ := r.ReadBit(); b != 1 {
		t.Fatalf("first bit = %d", b)
	}
	if v, _ := r.ReadBits(16); v != 0xFFFE {
		t.Errorf("16-bit code = %#x", v)
	}
	if v, _ := r.ReadBits(32); v != 0x12345678 {
		t.Errorf("32-bit code = %#x", v)
	}
}

func TestBitWriterFlushPadsWithOnes(t *testing.T) {
	tests := []struct {
		name string
		bits uint32
		n    int
		want byte
	}{
		{"one zero bit", 0, 1, 0x7F},
		{"three zero bits", 0, 3, 0x1F},
		{"seven zero bits", 0, 7, 0x01},
		{"101", 0x5, 3, 0xBF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newBitWriter(nil)
			w.WriteBits(tt.bits, tt.n)
			got := w.Flush()
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Flush() = % x, want %02x", got, tt.want)
			}
		})
	}
}

func TestBitWriterAppendAndLen(t *testing.T) {
	w := newBitWriter([]byte{0xAB})
	if w.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", w.Len())
	}
	w.WriteBits(0x3, 2)
	if w.Len() != 2 {
		t.Errorf("Len() with partial byte = %d, want 2", w.Len())
	}
	out := w.Flush()
	if !bytes.Equal(out, []byte{0xAB, 0xFF}) {
		t.Errorf("Flush() = % x", out)
	}

	// Writing after a flush starts a fresh byte.
	w.WriteBits(0x0, 8)
	if out = w.Flush(); !bytes.Equal(out, []byte{0xAB, 0xFF, 0x00}) {
		t.Errorf("after second flush = % x", out)
	}
}
