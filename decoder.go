package cmpcodec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// DefaultMaxPixels bounds the samples a decoder allocates unless
// DecodeOptions.MaxPixels says otherwise.
const DefaultMaxPixels = 1 << 28

// DecodeOptions controls CMP decoding.
type DecodeOptions struct {
	// MaxPixels limits width*height*channels of the decoded image.
	// 0 means DefaultMaxPixels.
	MaxPixels int

	// Tables overrides the Huffman tables. nil uses DefaultTables; any
	// other value must come from NewTables.
	Tables *Tables
}

// Decompress decodes a CMP container. The result has the padded dimensions
// stored in the header; see Crop to recover the original size.
func Decompress(data []byte, opts *DecodeOptions) (*Image, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(&h, opts)
	if err != nil {
		return nil, err
	}
	return dec.decode(data)
}

// Decode reads a CMP container from r and returns the decoded image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decompress(data, nil)
}

// DecodeConfig returns the padded dimensions and color model of a CMP
// container without decoding its channels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, fmt.Errorf("%w: %v", ErrStreamCorruption, err)
	}
	h, err := parseHeaderFields(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	cm := color.Model(color.GrayModel)
	if h.Color {
		cm = color.RGBAModel
	}
	return image.Config{ColorModel: cm, Width: h.Width, Height: h.Height}, nil
}

type decoder struct {
	header *Header
	opts   DecodeOptions
	tables *Tables
	quant  *quantTable
}

func newDecoder(h *Header, opts *DecodeOptions) (*decoder, error) {
	d := &decoder{header: h, opts: *opts}
	if d.opts.MaxPixels <= 0 {
		d.opts.MaxPixels = DefaultMaxPixels
	}
	if n := h.Width * h.Height * h.NumPlanes(); n > d.opts.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d with %d channels exceeds %d samples",
			ErrAllocation, h.Width, h.Height, h.NumPlanes(), d.opts.MaxPixels)
	}
	quant, err := newQuantTable(int(h.Quality))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamCorruption, err)
	}
	d.quant = quant
	if d.tables, err = resolveTables(d.opts.Tables); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *decoder) decode(data []byte) (*Image, error) {
	h := d.header
	format := FormatIndexed
	if h.Color {
		format = FormatRGB
	}
	out := NewImage(format, h.Width, h.Height)
	offsets := format.channelOffsets()

	p := getPlane(h.Width, h.Height)
	defer putPlane(p)
	for c, off := range offsets {
		if err := d.decodeChannel(p, h.planeData(data, c)); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		interleave(out, p.img, off)
	}
	return out, nil
}

// decodeChannel fills p from one channel's bitstream.
func (d *decoder) decodeChannel(p *planeBuf, data []byte) error {
	bd := newBlockDecoder(newBitReader(data), d.tables)
	var zz, b block
	for by := 0; by < d.header.Height/8; by++ {
		for bx := 0; bx < d.header.Width/8; bx++ {
			if err := bd.decode(&zz); err != nil {
				if errors.Is(err, errStreamExhausted) {
					return fmt.Errorf("%w: block (%d,%d): %w", ErrStreamCorruption, bx, by, err)
				}
				return fmt.Errorf("block (%d,%d): %w", bx, by, err)
			}
			fromZigzag(&b, &zz)
			d.quant.dequantize(&b)
			idct(&b)
			storeBlock(p.img, &b, bx, by)
		}
	}
	return nil
}
