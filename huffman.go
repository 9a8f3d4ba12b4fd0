package cmpcodec

import (
	"fmt"
	"sync"
)

const maxCodeLength = 16

// Reserved AC symbols.
const (
	symbolEOB = 0x00 // all remaining coefficients are zero
	symbolZRL = 0xF0 // sixteen zero coefficients, no value follows
)

// huffmanSpec specifies a canonical Huffman code.
type huffmanSpec struct {
	// count[i] is the number of codes of length i+1 bits.
	count [maxCodeLength]byte
	// value[i] is the symbol of the i'th code in length order.
	value []byte
}

// dcSpec codes the magnitude categories 0..11 of DC differences.
var dcSpec = huffmanSpec{
	count: [maxCodeLength]byte{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
	value: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// acSpec codes run/category pairs: the high nibble is the number of zero
// coefficients preceding the value, the low nibble its category.
var acSpec = huffmanSpec{
	count: [maxCodeLength]byte{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 125},
	value: []byte{
		0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
		0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
		0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08,
		0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
		0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16,
		0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
		0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
		0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
		0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
		0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
		0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
		0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
		0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
		0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
		0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6,
		0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
		0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4,
		0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
		0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea,
		0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
		0xf9, 0xfa,
	},
}

// huffmanTable is a canonical Huffman code prepared for both directions.
//
// Encoding looks up code[sym] and size[sym]; a size of 0 means the symbol
// has no code. Decoding walks the lengths 1..maxLen: codes of length l are
// the range [minCode[l], maxCode[l]] and map to values starting at
// values[valPtr[l]]. Lengths without codes have maxCode[l] == -1.
type huffmanTable struct {
	code [256]uint16
	size [256]uint8

	minCode [maxCodeLength + 1]int32
	maxCode [maxCodeLength + 1]int32
	valPtr  [maxCodeLength + 1]int32
	maxLen  int
	values  []byte
}

// newHuffmanTable builds the canonical code described by spec.
func newHuffmanTable(spec huffmanSpec) (*huffmanTable, error) {
	total := 0
	for _, c := range spec.count {
		total += int(c)
	}
	if total != len(spec.value) {
		return nil, fmt.Errorf("cmpcodec: huffman spec has %d codes but %d values", total, len(spec.value))
	}

	t := &huffmanTable{values: spec.value}
	code := int32(0)
	k := 0
	for l := 1; l <= maxCodeLength; l++ {
		n := int32(spec.count[l-1])
		t.maxCode[l] = -1
		if n > 0 {
			t.minCode[l] = code
			t.valPtr[l] = int32(k)
			t.maxCode[l] = code + n - 1
			t.maxLen = l
			for range n {
				sym := spec.value[k]
				if t.size[sym] != 0 {
					return nil, fmt.Errorf("cmpcodec: huffman symbol 0x%02x listed twice", sym)
				}
				t.code[sym] = uint16(code)
				t.size[sym] = uint8(l)
				code++
				k++
			}
		}
		if code > 1<<l {
			return nil, fmt.Errorf("cmpcodec: huffman spec overflows at length %d", l)
		}
		code <<= 1
	}
	return t, nil
}

// decode reads one symbol from r.
func (t *huffmanTable) decode(r *bitReader) (byte, error) {
	code := int32(0)
	for l := 1; l <= t.maxLen; l++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | int32(bit)
		if code <= t.maxCode[l] && code >= t.minCode[l] {
			return t.values[t.valPtr[l]+code-t.minCode[l]], nil
		}
	}
	return 0, fmt.Errorf("%w: no Huffman code matches within %d bits", ErrStreamCorruption, t.maxLen)
}

// Tables holds the fixed DC and AC Huffman tables shared by every encoder
// and decoder. A Tables value is immutable once built and safe for
// concurrent use.
type Tables struct {
	dc *huffmanTable
	ac *huffmanTable
}

// NewTables builds the DC and AC tables from their fixed specifications.
func NewTables() (*Tables, error) {
	dc, err := newHuffmanTable(dcSpec)
	if err != nil {
		return nil, fmt.Errorf("dc table: %w", err)
	}
	ac, err := newHuffmanTable(acSpec)
	if err != nil {
		return nil, fmt.Errorf("ac table: %w", err)
	}
	return &Tables{dc: dc, ac: ac}, nil
}

var defaultTables = sync.OnceValue(func() *Tables {
	t, err := NewTables()
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTables returns the process-wide tables, building them on first use.
func DefaultTables() *Tables {
	return defaultTables()
}

// resolveTables returns t, or DefaultTables when t is nil.
func resolveTables(t *Tables) (*Tables, error) {
	if t == nil {
		return DefaultTables(), nil
	}
	if t.dc == nil || t.ac == nil {
		return nil, ErrInvalidTables
	}
	return t, nil
}
