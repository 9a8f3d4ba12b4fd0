package cmpcodec

import (
	"bytes"
	"errors"
	"testing"
)

func TestCategoryAndMagnitude(t *testing.T) {
	tests := []struct {
		v    int32
		cat  int
		bits uint32
	}{
		{0, 0, 0},
		{1, 1, 0b1},
		{-1, 1, 0b0},
		{2, 2, 0b10},
		{-2, 2, 0b01},
		{3, 2, 0b11},
		{-3, 2, 0b00},
		{7, 3, 0b111},
		{-7, 3, 0b000},
		{255, 8, 0xFF},
		{-1023, 10, 0},
		{2047, 11, 0x7FF},
	}
	for _, tt := range tests {
		n := category(tt.v)
		if n != tt.cat {
			t.Errorf("category(%d) = %d, want %d", tt.v, n, tt.cat)
			continue
		}
		if got := magnitudeBits(tt.v, n); got != tt.bits {
			t.Errorf("magnitudeBits(%d, %d) = %b, want %b", tt.v, n, got, tt.bits)
		}
		if got := extend(tt.bits, n); got != tt.v {
			t.Errorf("extend(%b, %d) = %d, want %d", tt.bits, n, got, tt.v)
		}
	}
}

func encodeBlocks(t *testing.T, blocks []block) []byte {
	t.Helper()
	w := newBitWriter(nil)
	e := newBlockEncoder(w, DefaultTables())
	for i := range blocks {
		if err := e.encode(&blocks[i]); err != nil {
			t.Fatalf("encode block %d: %v", i, err)
		}
	}
	return w.Flush()
}

func TestEntropyZeroBlock(t *testing.T) {
	// DC category 0 ("00") then EOB ("1010"), padded with ones.
	got := encodeBlocks(t, []block{{}})
	if want := []byte{0x2B}; !bytes.Equal(got, want) {
		t.Errorf("zero block = % x, want % x", got, want)
	}
}

func TestEntropyRoundTrip(t *testing.T) {
	var lastOnly, zrlExact, longRun, dense, mixed block
	lastOnly[63] = 1
	zrlExact[17] = 5
	longRun[1] = -3
	longRun[40] = 7
	for i := range dense {
		dense[i] = int32(i%11) - 5
	}
	mixed[0] = -1023
	mixed[1] = 1023
	mixed[2] = -512
	mixed[33] = 1

	tests := []struct {
		name   string
		blocks []block
	}{
		{"zero", []block{{}}},
		{"last coefficient only", []block{lastOnly}},
		{"sixteen zeros", []block{zrlExact}},
		{"long run", []block{longRun}},
		{"dense", []block{dense}},
		{"extremes", []block{mixed}},
		{"dc predictor", []block{{0: 100}, {0: 90}, {0: -900}, {0: 1023}, {0: 1023}}},
		{"sequence", []block{dense, {}, lastOnly, mixed, zrlExact, longRun}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeBlocks(t, tt.blocks)
			r := newBitReader(data)
			d := newBlockDecoder(r, DefaultTables())
			for i, want := range tt.blocks {
				var got block
				if err := d.decode(&got); err != nil {
					t.Fatalf("decode block %d: %v", i, err)
				}
				if got != want {
					t.Fatalf("block %d mismatch:\n got %v\nwant %v", i, got, want)
				}
			}
			if r.Remaining() >= 8 {
				t.Errorf("%d bits left after the last block", r.Remaining())
			}
		})
	}
}

func TestEntropyNoEOBWhenLastNonzero(t *testing.T) {
	var b block
	b[63] = 1
	w := newBitWriter(nil)
	e := newBlockEncoder(w, DefaultTables())
	if err := e.encode(&b); err != nil {
		t.Fatal(err)
	}
	// 2 bits DC, three ZRLs of 11 bits, 0xE1, one magnitude bit.
	zrl := int(DefaultTables().ac.size[symbolZRL])
	want := 2 + 3*zrl + int(DefaultTables().ac.size[0xE1]) + 1
	r := newBitReader(w.Flush())
	d := newBlockDecoder(r, DefaultTables())
	var got block
	if err := d.decode(&got); err != nil {
		t.Fatal(err)
	}
	if r.BitPosition() != want {
		t.Errorf("block consumed %d bits, want %d", r.BitPosition(), want)
	}
}

func TestEntropyDCPredictorResets(t *testing.T) {
	blocks := []block{{0: 40}, {0: 40}}
	first := encodeBlocks(t, blocks[:1])
	// A fresh encoder codes the same DC as a difference from zero again.
	second := encodeBlocks(t, blocks[1:])
	if !bytes.Equal(first, second) {
		t.Errorf("fresh encoder output differs: % x vs % x", first, second)
	}

	// Within one encoder the second identical DC codes as category 0.
	both := encodeBlocks(t, blocks)
	r := newBitReader(both)
	d := newBlockDecoder(r, DefaultTables())
	var b block
	if err := d.decode(&b); err != nil {
		t.Fatal(err)
	}
	sym, err := DefaultTables().dc.decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if sym != 0 {
		t.Errorf("second DC category = %d, want 0", sym)
	}
}

func TestEntropyDecodeRunPastEnd(t *testing.T) {
	tables := DefaultTables()
	w := newBitWriter(nil)
	w.WriteBits(uint32(tables.dc.code[0]), int(tables.dc.size[0]))
	for range 3 {
		w.WriteBits(uint32(tables.ac.code[symbolZRL]), int(tables.ac.size[symbolZRL]))
	}
	// Run 15 from position 49 lands on 64: the block ends before the value.
	w.WriteBits(uint32(tables.ac.code[0xF1]), int(tables.ac.size[0xF1]))
	r := newBitReader(w.Flush())

	var got block
	if err := newBlockDecoder(r, tables).decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (block{}) {
		t.Errorf("decoded %v, want zero block", got)
	}
}

func TestEntropyDecodeTruncated(t *testing.T) {
	var b block
	for i := range b {
		b[i] = 9
	}
	data := encodeBlocks(t, []block{b})
	var got block
	err := newBlockDecoder(newBitReader(data[:len(data)/2]), DefaultTables()).decode(&got)
	if !errors.Is(err, errStreamExhausted) {
		t.Errorf("decode truncated block: got %v, want errStreamExhausted", err)
	}
}

func TestEntropyEncodeOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		b    block
	}{
		{"dc difference", block{0: 4096}},
		{"ac value", block{5: 2048}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newBlockEncoder(newBitWriter(nil), DefaultTables())
			if err := e.encode(&tt.b); err == nil {
				t.Error("encode() succeeded, want error")
			}
		})
	}
}
