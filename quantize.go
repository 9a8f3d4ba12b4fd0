package cmpcodec

import "fmt"

// baseQuant is the luminance quantization table in natural order.
// Steps grow with spatial frequency.
var baseQuant = block{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 58, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// DefaultQuality is the quality factor used when none is given.
// Larger values quantize harder.
const DefaultQuality = 70

// quantTable holds the quantization steps for one quality factor.
type quantTable block

// newQuantTable scales baseQuant by q/50, rounding to nearest. Steps are
// never smaller than 1.
func newQuantTable(q int) (*quantTable, error) {
	if q < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, q)
	}
	var t quantTable
	for i, base := range baseQuant {
		// round(base*q/50) == (base*q*2 + 50) / 100 for non-negative values.
		step := (int64(base)*int64(q)*2 + 50) / 100
		t[i] = int32(max(step, 1))
	}
	return &t, nil
}

// quantize divides each coefficient by its step, rounding half away from
// zero.
func (t *quantTable) quantize(b *block) {
	for i, c := range b {
		step := t[i]
		if c >= 0 {
			b[i] = (c + step/2) / step
		} else {
			b[i] = (c - step/2) / step
		}
	}
}

// coefBound limits dequantized coefficients so the inverse transform stays
// inside 32-bit storage for any input, valid or not.
const coefBound = 1 << 20

// dequantize multiplies each coefficient by its step.
func (t *quantTable) dequantize(b *block) {
	for i, c := range b {
		v := int64(c) * int64(t[i])
		b[i] = int32(min(max(v, -coefBound), coefBound))
	}
}
