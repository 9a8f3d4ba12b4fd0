package cmpcodec

const blockSize = 64 // A DCT block is 8x8.

// block holds one 8x8 window, either in natural row-major order or as a
// zigzag run indexed by increasing spatial frequency.
type block [blockSize]int32

// zigzag maps a natural (row-major) index to its position in the run.
var zigzag = [blockSize]int{
	0, 1, 5, 6, 14, 15, 27, 28,
	2, 4, 7, 13, 16, 26, 29, 42,
	3, 8, 12, 17, 25, 30, 41, 43,
	9, 11, 18, 24, 31, 40, 44, 53,
	10, 19, 23, 32, 39, 45, 52, 54,
	20, 22, 33, 38, 46, 51, 55, 60,
	21, 34, 37, 47, 50, 56, 59, 61,
	35, 36, 48, 49, 57, 58, 62, 63,
}

// unzig maps a run position back to the natural index.
var unzig = func() (u [blockSize]int) {
	for natural, run := range zigzag {
		u[run] = natural
	}
	return u
}()

// toZigzag reorders a natural-order block into run order.
func toZigzag(dst, src *block) {
	for i, v := range src {
		dst[zigzag[i]] = v
	}
}

// fromZigzag reorders a run back into natural order.
func fromZigzag(dst, src *block) {
	for i, v := range src {
		dst[unzig[i]] = v
	}
}
