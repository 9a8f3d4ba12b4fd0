package cmpcodec

import (
	hwyimage "github.com/ajroetker/go-highway/hwy/contrib/image"
)

// Fixed-point constants of the 8-point DCT, scaled by 2^constBits.
const (
	constBits = 13
	passBits  = 2

	fix0298631336 = 2446
	fix0390180644 = 3196
	fix0541196100 = 4433
	fix0765366865 = 6270
	fix0899976223 = 7373
	fix1175875602 = 9633
	fix1501321110 = 12299
	fix1847759065 = 15137
	fix1961570560 = 16069
	fix2053119869 = 16819
	fix2562915447 = 20995
	fix3072711026 = 25172
)

const (
	// dctBound clamps forward transform output before quantization.
	dctBound = 1023
	// levelShift centers 8-bit samples around zero.
	levelShift = 128
)

// descale rounds x / 2^n to nearest.
func descale(x int64, n uint) int64 {
	return (x + 1<<(n-1)) >> n
}

// fdct computes the forward DCT of a level-shifted block in place.
// The row pass leaves results scaled up by 2^passBits; the column pass
// removes that scaling together with the overall factor of 8, so the output
// is the true DCT-II coefficient, clamped to ±dctBound.
func fdct(b *block) {
	for y := 0; y < 8; y++ {
		r := b[y*8 : y*8+8]
		tmp0 := int64(r[0]) + int64(r[7])
		tmp7 := int64(r[0]) - int64(r[7])
		tmp1 := int64(r[1]) + int64(r[6])
		tmp6 := int64(r[1]) - int64(r[6])
		tmp2 := int64(r[2]) + int64(r[5])
		tmp5 := int64(r[2]) - int64(r[5])
		tmp3 := int64(r[3]) + int64(r[4])
		tmp4 := int64(r[3]) - int64(r[4])

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		r[0] = int32((tmp10 + tmp11) << passBits)
		r[4] = int32((tmp10 - tmp11) << passBits)

		z1 := (tmp12 + tmp13) * fix0541196100
		r[2] = int32(descale(z1+tmp13*fix0765366865, constBits-passBits))
		r[6] = int32(descale(z1-tmp12*fix1847759065, constBits-passBits))

		o0, o1, o2, o3 := oddPart(tmp4, tmp5, tmp6, tmp7)
		r[7] = int32(descale(o0, constBits-passBits))
		r[5] = int32(descale(o1, constBits-passBits))
		r[3] = int32(descale(o2, constBits-passBits))
		r[1] = int32(descale(o3, constBits-passBits))
	}

	for x := 0; x < 8; x++ {
		tmp0 := int64(b[x]) + int64(b[56+x])
		tmp7 := int64(b[x]) - int64(b[56+x])
		tmp1 := int64(b[8+x]) + int64(b[48+x])
		tmp6 := int64(b[8+x]) - int64(b[48+x])
		tmp2 := int64(b[16+x]) + int64(b[40+x])
		tmp5 := int64(b[16+x]) - int64(b[40+x])
		tmp3 := int64(b[24+x]) + int64(b[32+x])
		tmp4 := int64(b[24+x]) - int64(b[32+x])

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		b[x] = clampCoef(descale(tmp10+tmp11, passBits+3))
		b[32+x] = clampCoef(descale(tmp10-tmp11, passBits+3))

		z1 := (tmp12 + tmp13) * fix0541196100
		b[16+x] = clampCoef(descale(z1+tmp13*fix0765366865, constBits+passBits+3))
		b[48+x] = clampCoef(descale(z1-tmp12*fix1847759065, constBits+passBits+3))

		o0, o1, o2, o3 := oddPart(tmp4, tmp5, tmp6, tmp7)
		b[56+x] = clampCoef(descale(o0, constBits+passBits+3))
		b[40+x] = clampCoef(descale(o1, constBits+passBits+3))
		b[24+x] = clampCoef(descale(o2, constBits+passBits+3))
		b[8+x] = clampCoef(descale(o3, constBits+passBits+3))
	}
}

// oddPart computes the odd-frequency outputs (7, 5, 3, 1) of the forward
// butterfly from the differences tmp4..tmp7, still scaled by 2^constBits.
func oddPart(tmp4, tmp5, tmp6, tmp7 int64) (o7, o5, o3, o1 int64) {
	z1 := tmp4 + tmp7
	z2 := tmp5 + tmp6
	z3 := tmp4 + tmp6
	z4 := tmp5 + tmp7
	z5 := (z3 + z4) * fix1175875602

	tmp4 *= fix0298631336
	tmp5 *= fix2053119869
	tmp6 *= fix3072711026
	tmp7 *= fix1501321110
	z1 *= -fix0899976223
	z2 *= -fix2562915447
	z3 = z3*-fix1961570560 + z5
	z4 = z4*-fix0390180644 + z5

	return tmp4 + z1 + z3, tmp5 + z2 + z4, tmp6 + z2 + z3, tmp7 + z1 + z4
}

func clampCoef(v int64) int32 {
	return int32(min(max(v, -dctBound), dctBound))
}

// idct computes the inverse DCT of a dequantized block in place, adds the
// level shift back and clamps every sample to [0, 255].
func idct(b *block) {
	for y := 0; y < 8; y++ {
		r := b[y*8 : y*8+8]
		if r[1]|r[2]|r[3]|r[4]|r[5]|r[6]|r[7] == 0 {
			dc := r[0] << passBits
			for i := range r {
				r[i] = dc
			}
			continue
		}
		var out [8]int64
		idct1D(&out, int64(r[0]), int64(r[1]), int64(r[2]), int64(r[3]),
			int64(r[4]), int64(r[5]), int64(r[6]), int64(r[7]))
		for i, v := range out {
			r[i] = int32(descale(v, constBits-passBits))
		}
	}

	for x := 0; x < 8; x++ {
		if b[8+x]|b[16+x]|b[24+x]|b[32+x]|b[40+x]|b[48+x]|b[56+x] == 0 {
			dc := clampSample(descale(int64(b[x]), passBits+3) + levelShift)
			for y := 0; y < 8; y++ {
				b[y*8+x] = dc
			}
			continue
		}
		var out [8]int64
		idct1D(&out, int64(b[x]), int64(b[8+x]), int64(b[16+x]), int64(b[24+x]),
			int64(b[32+x]), int64(b[40+x]), int64(b[48+x]), int64(b[56+x]))
		for y, v := range out {
			b[y*8+x] = clampSample(descale(v, constBits+passBits+3) + levelShift)
		}
	}
}

// idct1D is one 8-point inverse pass. Outputs are scaled by 2^constBits.
func idct1D(out *[8]int64, d0, d1, d2, d3, d4, d5, d6, d7 int64) {
	z1 := (d2 + d6) * fix0541196100
	tmp2 := z1 - d6*fix1847759065
	tmp3 := z1 + d2*fix0765366865
	tmp0 := (d0 + d4) << constBits
	tmp1 := (d0 - d4) << constBits

	tmp10 := tmp0 + tmp3
	tmp13 := tmp0 - tmp3
	tmp11 := tmp1 + tmp2
	tmp12 := tmp1 - tmp2

	// The odd part of the inverse is the transpose of the forward one.
	o0, o1, o2, o3 := oddPart(d7, d5, d3, d1)

	out[0] = tmp10 + o3
	out[7] = tmp10 - o3
	out[1] = tmp11 + o2
	out[6] = tmp11 - o2
	out[2] = tmp12 + o1
	out[5] = tmp12 - o1
	out[3] = tmp13 + o0
	out[4] = tmp13 - o0
}

func clampSample(v int64) int32 {
	return int32(min(max(v, 0), 255))
}

// loadBlock copies the 8x8 window at block coordinates (bx, by) of p into b,
// subtracting the level shift.
func loadBlock(b *block, p *hwyimage.Image[uint8], bx, by int) {
	x0 := bx * 8
	for y := 0; y < 8; y++ {
		row := p.Row(by*8 + y)[x0 : x0+8]
		for x, v := range row {
			b[y*8+x] = int32(v) - levelShift
		}
	}
}

// storeBlock writes a reconstructed block into p at block coordinates
// (bx, by). Samples must already be clamped to [0, 255].
func storeBlock(p *hwyimage.Image[uint8], b *block, bx, by int) {
	x0 := bx * 8
	for y := 0; y < 8; y++ {
		row := p.Row(by*8 + y)[x0 : x0+8]
		for x := range row {
			row[x] = uint8(b[y*8+x])
		}
	}
}
