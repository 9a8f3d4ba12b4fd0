package cmpcodec

import (
	"fmt"
	"image"
	"image/color"
)

// Format identifies the byte layout of an Image's pixels.
type Format int

const (
	FormatIndexed      Format = iota // 1 byte per pixel: palette index or gray level
	FormatRGB                        // 3 bytes per pixel: R, G, B
	FormatBGR                        // 3 bytes per pixel: B, G, R
	FormatRGBA                       // 4 bytes per pixel; alpha is not coded
	FormatIndexedAlpha               // 2 bytes per pixel; alpha is not coded
)

func (f Format) String() string {
	switch f {
	case FormatIndexed:
		return "indexed"
	case FormatRGB:
		return "rgb"
	case FormatBGR:
		return "bgr"
	case FormatRGBA:
		return "rgba"
	case FormatIndexedAlpha:
		return "indexed+alpha"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// BytesPerPixel returns the stored size of one pixel, or 0 for an unknown
// format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatIndexed:
		return 1
	case FormatIndexedAlpha:
		return 2
	case FormatRGB, FormatBGR:
		return 3
	case FormatRGBA:
		return 4
	default:
		return 0
	}
}

// channelOffsets returns the byte offset of each coded plane within a pixel.
// Color formats yield R, G, B in that order.
func (f Format) channelOffsets() []int {
	switch f {
	case FormatIndexed, FormatIndexedAlpha:
		return []int{0}
	case FormatRGB, FormatRGBA:
		return []int{0, 1, 2}
	case FormatBGR:
		return []int{2, 1, 0}
	default:
		return nil
	}
}

// Image is a packed 8-bit pixel buffer. Rows are stored top to bottom with
// no padding between them.
//
// Image implements image.Image so decoded results can be handed directly to
// the standard encoders.
type Image struct {
	Format Format
	Width  int
	Height int
	Pix    []byte
	// Palette maps indices of an indexed image to colors. It is optional,
	// not stored in the compressed container, and ignored for color formats.
	Palette color.Palette
}

// NewImage allocates a zeroed image.
func NewImage(format Format, width, height int) *Image {
	return &Image{
		Format: format,
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*format.BytesPerPixel()),
	}
}

// validate checks that the image can be coded at all.
func (m *Image) validate() error {
	bpp := m.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, m.Format)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDimensionOverflow, m.Width, m.Height)
	}
	if paddedSize(m.Width) > maxDimension || paddedSize(m.Height) > maxDimension {
		return fmt.Errorf("%w: %dx%d pads beyond %d", ErrDimensionOverflow, m.Width, m.Height, maxDimension)
	}
	if len(m.Pix) < m.Width*m.Height*bpp {
		return fmt.Errorf("%w: pixel buffer holds %d bytes, %dx%d %v needs %d",
			ErrDimensionOverflow, len(m.Pix), m.Width, m.Height, m.Format, m.Width*m.Height*bpp)
	}
	return nil
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	switch m.Format {
	case FormatIndexed, FormatIndexedAlpha:
		if len(m.Palette) > 0 {
			return m.Palette
		}
		return color.GrayModel
	case FormatRGBA:
		return color.NRGBAModel
	default:
		return color.RGBAModel
	}
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.Gray{}
	}
	bpp := m.Format.BytesPerPixel()
	p := m.Pix[(y*m.Width+x)*bpp:]
	switch m.Format {
	case FormatIndexed, FormatIndexedAlpha:
		if int(p[0]) < len(m.Palette) {
			return m.Palette[p[0]]
		}
		return color.Gray{Y: p[0]}
	case FormatRGB:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xFF}
	case FormatBGR:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 0xFF}
	case FormatRGBA:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return color.Gray{}
}

// FromImage converts img into an Image. Gray and paletted images become
// FormatIndexed (keeping the palette); everything else becomes FormatRGB.
func FromImage(img image.Image) *Image {
	if m, ok := img.(*Image); ok {
		return m
	}
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		m := NewImage(FormatIndexed, b.Dx(), b.Dy())
		for y := 0; y < m.Height; y++ {
			copy(m.Pix[y*m.Width:(y+1)*m.Width], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return m
	case *image.Paletted:
		m := NewImage(FormatIndexed, b.Dx(), b.Dy())
		m.Palette = src.Palette
		for y := 0; y < m.Height; y++ {
			copy(m.Pix[y*m.Width:(y+1)*m.Width], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return m
	case *image.Gray16:
		m := NewImage(FormatIndexed, b.Dx(), b.Dy())
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				m.Pix[y*m.Width+x] = src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			}
		}
		return m
	}

	m := NewImage(FormatRGB, b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Alpha is dropped, so keep the straight color rather than the
			// premultiplied one At reports.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			m.Pix[i] = c.R
			m.Pix[i+1] = c.G
			m.Pix[i+2] = c.B
			i += 3
		}
	}
	return m
}

// Crop returns the top-left width x height region of m as a new image.
// It is used to drop the block padding from a decoded image when the
// original size is known.
func Crop(m *Image, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 || width > m.Width || height > m.Height {
		return nil, fmt.Errorf("%w: crop %dx%d from %dx%d", ErrDimensionOverflow, width, height, m.Width, m.Height)
	}
	bpp := m.Format.BytesPerPixel()
	out := NewImage(m.Format, width, height)
	out.Palette = m.Palette
	for y := 0; y < height; y++ {
		copy(out.Pix[y*width*bpp:(y+1)*width*bpp], m.Pix[y*m.Width*bpp:])
	}
	return out, nil
}
