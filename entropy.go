package cmpcodec

import "fmt"

// extend converts n magnitude bits back into a signed value.
func extend(v uint32, n int) int32 {
	if n == 0 {
		return 0
	}
	if v < 1<<uint(n-1) {
		return int32(v) - int32(1<<uint(n)) + 1
	}
	return int32(v)
}

// blockDecoder reverses blockEncoder for one channel.
type blockDecoder struct {
	r      *bitReader
	tables *Tables
	prevDC int32
}

func newBlockDecoder(r *bitReader, tables *Tables) *blockDecoder {
	return &blockDecoder{r: r, tables: tables}
}

// decode reads one block into zz in zigzag order.
func (d *blockDecoder) decode(zz *block) error {
	*zz = block{}

	n, err := d.tables.dc.decode(d.r)
	if err != nil {
		return err
	}
	if n > 0 {
		if n > 16 {
			return fmt.Errorf("%w: DC category %d", ErrStreamCorruption, n)
		}
		v, err := d.r.ReadBits(int(n))
		if err != nil {
			return err
		}
		d.prevDC += extend(v, int(n))
	}
	zz[0] = d.prevDC

	for k := 1; k < blockSize; {
		sym, err := d.tables.ac.decode(d.r)
		if err != nil {
			return err
		}
		run := int(sym >> 4)
		n := int(sym & 0x0F)
		if n == 0 {
			if run == 15 {
				k += 16
				continue
			}
			// EOB.
			return nil
		}
		k += run
		if k >= blockSize {
			return nil
		}
		v, err := d.r.ReadBits(n)
		if err != nil {
			return err
		}
		zz[k] = extend(v, n)
		k++
	}
	return nil
}
