package cmpcodec

import (
	"fmt"
	"math/bits"
)

// category returns the number of bits needed to hold |v|; 0 for v == 0.
func category(v int32) int {
	if v < 0 {
		v = -v
	}
	return bits.Len32(uint32(v))
}

// magnitudeBits returns the n low bits that carry v. Negative values are
// stored as v-1, so their leading bit is 0 and positive values' is 1.
func magnitudeBits(v int32, n int) uint32 {
	if v < 0 {
		v--
	}
	return uint32(v) & (1<<uint(n) - 1)
}

// blockEncoder entropy codes the blocks of one channel. Its DC predictor
// starts at zero and carries across every block of the channel.
type blockEncoder struct {
	w      *bitWriter
	tables *Tables
	prevDC int32
}

func newBlockEncoder(w *bitWriter, tables *Tables) *blockEncoder {
	return &blockEncoder{w: w, tables: tables}
}

// emit writes the Huffman code of sym from t.
func (e *blockEncoder) emit(t *huffmanTable, sym int) error {
	size := t.size[sym]
	if size == 0 {
		return fmt.Errorf("cmpcodec: no Huffman code for symbol 0x%02x", sym)
	}
	e.w.WriteBits(uint32(t.code[sym]), int(size))
	return nil
}

// encode writes one zigzag-ordered block of quantized coefficients.
func (e *blockEncoder) encode(zz *block) error {
	diff := zz[0] - e.prevDC
	e.prevDC = zz[0]
	n := category(diff)
	if err := e.emit(e.tables.dc, n); err != nil {
		return err
	}
	if n > 0 {
		e.w.WriteBits(magnitudeBits(diff, n), n)
	}

	run := 0
	for k := 1; k < blockSize; k++ {
		v := zz[k]
		if v == 0 {
			if k == blockSize-1 {
				return e.emit(e.tables.ac, symbolEOB)
			}
			run++
			continue
		}
		for run > 15 {
			if err := e.emit(e.tables.ac, symbolZRL); err != nil {
				return err
			}
			run -= 16
		}
		n := category(v)
		if err := e.emit(e.tables.ac, run<<4|n); err != nil {
			return err
		}
		e.w.WriteBits(magnitudeBits(v, n), n)
		run = 0
	}
	return nil
}
