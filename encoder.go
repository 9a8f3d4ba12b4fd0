package cmpcodec

import (
	"fmt"
	"image"
	"io"
	"math"
)

// EncodeOptions controls CMP encoding.
type EncodeOptions struct {
	// Quality scales the quantization table by Quality/50. Larger values
	// compress harder. 0 selects DefaultQuality; negative values are
	// rejected.
	Quality int16

	// Tables overrides the Huffman tables. nil uses DefaultTables; any
	// other value must come from NewTables.
	Tables *Tables
}

// Compress encodes img into a new CMP container.
func Compress(img *Image, opts *EncodeOptions) ([]byte, error) {
	return Append(nil, img, opts)
}

// Append encodes img and appends the container to dst.
// On error dst is returned unchanged.
func Append(dst []byte, img *Image, opts *EncodeOptions) ([]byte, error) {
	e, err := newEncoder(img, opts)
	if err != nil {
		return dst, err
	}
	out, err := e.encode(dst)
	if err != nil {
		return dst, err
	}
	return out, nil
}

// Encode converts img with FromImage and writes its CMP container to w.
func Encode(w io.Writer, img image.Image, opts *EncodeOptions) error {
	data, err := Compress(FromImage(img), opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type encoder struct {
	img    *Image
	opts   EncodeOptions
	tables *Tables
	quant  *quantTable

	offsets       []int // byte offset of each coded channel within a pixel
	width, height int   // padded plane size
}

func newEncoder(img *Image, opts *EncodeOptions) (*encoder, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	e := &encoder{img: img, opts: *opts}

	if err := img.validate(); err != nil {
		return nil, err
	}
	if e.opts.Quality == 0 {
		e.opts.Quality = DefaultQuality
	}
	quant, err := newQuantTable(int(e.opts.Quality))
	if err != nil {
		return nil, err
	}
	e.quant = quant

	if e.tables, err = resolveTables(e.opts.Tables); err != nil {
		return nil, err
	}
	e.offsets = img.Format.channelOffsets()
	e.width = paddedSize(img.Width)
	e.height = paddedSize(img.Height)
	return e, nil
}

func (e *encoder) header() Header {
	return Header{
		Color:   len(e.offsets) == 3,
		Width:   e.width,
		Height:  e.height,
		Quality: e.opts.Quality,
	}
}

func (e *encoder) encode(dst []byte) ([]byte, error) {
	h := e.header()
	out, hdrOff := reserveHeader(dst)

	w := newBitWriter(out)
	for c := range e.offsets {
		start := w.Len()
		if err := e.encodeChannel(w, c); err != nil {
			return nil, err
		}
		out = w.Flush()
		h.PlaneLengths[c] = len(out) - start
	}

	for c, l := range h.PlaneLengths {
		if l > math.MaxInt32 {
			return nil, fmt.Errorf("%w: channel %d needs %d bytes", ErrAllocation, c, l)
		}
	}
	putHeader(out[hdrOff:], &h)
	return out, nil
}

// encodeChannel codes channel c block by block in row-major order and
// leaves the bits in w. The caller flushes w.
func (e *encoder) encodeChannel(w *bitWriter, c int) error {
	p := getPlane(e.width, e.height)
	defer putPlane(p)
	extractPadded(p.img, e.img, e.offsets[c])

	be := newBlockEncoder(w, e.tables)
	var b, zz block
	for by := 0; by < e.height/8; by++ {
		for bx := 0; bx < e.width/8; bx++ {
			loadBlock(&b, p.img, bx, by)
			fdct(&b)
			e.quant.quantize(&b)
			toZigzag(&zz, &b)
			if err := be.encode(&zz); err != nil {
				return fmt.Errorf("channel %d block (%d,%d): %w", c, bx, by, err)
			}
		}
	}
	return nil
}
