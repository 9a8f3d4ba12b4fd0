// Package zframe wraps CMP containers in an optional zstd frame.
//
// The CMP container has no magic number of its own, so a wrapped file is
// recognised by the zstd frame magic instead.
package zframe

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// magic is the little-endian zstd frame magic number 0xFD2FB528.
const magic = "\x28\xB5\x2F\xFD"

// MaxDecodedSize bounds the memory a single Unwrap may allocate.
const MaxDecodedSize = 1 << 30

// ErrNotFrame is returned by Unwrap when data does not start with the zstd frame magic.
var ErrNotFrame = errors.New("zframe: not a zstd frame")

var encPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(
			nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithLowerEncoderMem(true),
			zstd.WithZeroFrames(true),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var decPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(
			nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
			zstd.WithDecoderMaxMemory(MaxDecodedSize),
		)
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// IsFrame reports whether data begins with a zstd frame header.
func IsFrame(data []byte) bool {
	return bytes.HasPrefix(data, []byte(magic))
}

// Wrap compresses data into a single zstd frame appended to dst.
func Wrap(dst, data []byte) []byte {
	enc := encPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, dst)
	encPool.Put(enc)
	return out
}

// Unwrap decompresses a frame produced by Wrap.
func Unwrap(data []byte) ([]byte, error) {
	if !IsFrame(data) {
		return nil, ErrNotFrame
	}
	dec := decPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	decPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("zframe: %w", err)
	}
	return out, nil
}

// Maybe returns data unchanged unless it is a zstd frame, in which case it
// is decompressed.
func Maybe(data []byte) ([]byte, error) {
	if !IsFrame(data) {
		return data, nil
	}
	return Unwrap(data)
}
