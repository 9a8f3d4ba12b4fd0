package cmpcodec

import (
	"sync"

	"github.com/ajroetker/go-highway/hwy"
	hwyimage "github.com/ajroetker/go-highway/hwy/contrib/image"
)

// maxDimension is the largest padded width or height the 16-bit header
// fields can record.
const maxDimension = 1<<15 - 8

// paddedSize rounds n up to a multiple of the block width.
func paddedSize(n int) int {
	return (n + 7) &^ 7
}

// planePool recycles padded planes between calls. Planes are keyed by size
// on Get; a plane of the wrong size is replaced.
var planePool = sync.Pool{New: func() any { return new(planeBuf) }}

type planeBuf struct {
	img *hwyimage.Image[uint8]
}

func getPlane(w, h int) *planeBuf {
	buf := planePool.Get().(*planeBuf)
	if buf.img == nil || buf.img.Width() != w || buf.img.Height() != h {
		buf.img = hwyimage.NewImage[uint8](w, h)
	}
	return buf
}

func putPlane(buf *planeBuf) {
	planePool.Put(buf)
}

// extractPadded copies one channel of m into dst, whose dimensions are the
// padded size of m. Padding columns repeat the last real column of their
// row; padding rows repeat the last real row, padding included.
func extractPadded(dst *hwyimage.Image[uint8], m *Image, offset int) {
	bpp := m.Format.BytesPerPixel()
	pw := dst.Width()
	for y := 0; y < m.Height; y++ {
		row := dst.Row(y)
		src := m.Pix[y*m.Width*bpp:]
		for x := 0; x < m.Width; x++ {
			row[x] = src[x*bpp+offset]
		}
		last := row[m.Width-1]
		for x := m.Width; x < pw; x++ {
			row[x] = last
		}
	}
	replicateRows(dst, m.Height)
}

// replicateRows fills rows [from, height) of img with a copy of row from-1.
func replicateRows[T hwy.Lanes](img *hwyimage.Image[T], from int) {
	if from <= 0 {
		return
	}
	last := img.RowSlice(from - 1)
	for y := from; y < img.Height(); y++ {
		copy(img.RowSlice(y), last)
	}
}

// interleave writes plane p into channel offset of m. m must have the same
// dimensions as p.
func interleave(m *Image, p *hwyimage.Image[uint8], offset int) {
	bpp := m.Format.BytesPerPixel()
	for y := 0; y < m.Height; y++ {
		row := p.RowSlice(y)
		dst := m.Pix[y*m.Width*bpp:]
		if bpp == 1 {
			copy(dst[:m.Width], row)
			continue
		}
		for x, v := range row {
			dst[x*bpp+offset] = v
		}
	}
}
