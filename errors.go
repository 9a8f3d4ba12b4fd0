package cmpcodec

import "errors"

var (
	ErrUnsupportedFormat = errors.New("cmpcodec: unsupported pixel format")
	ErrDimensionOverflow = errors.New("cmpcodec: image dimensions out of range")
	ErrAllocation        = errors.New("cmpcodec: buffer size exceeds limit")
	ErrStreamCorruption  = errors.New("cmpcodec: corrupt stream")
	ErrInvalidQuality    = errors.New("cmpcodec: invalid quality factor")
	ErrInvalidTables     = errors.New("cmpcodec: Huffman tables not built by NewTables")
)

// errStreamExhausted is returned by the bit reader when a channel runs out of
// declared bytes. Decoders report it wrapped in ErrStreamCorruption.
var errStreamExhausted = errors.New("cmpcodec: channel data exhausted")
