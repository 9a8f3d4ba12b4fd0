// Package cmpcodec implements the CMP lossy image codec.
//
// CMP is a JPEG-like block codec without a color transform: every channel of
// an image (the R, G and B planes of a color image, or the single plane of an
// indexed image) is padded to a multiple of 8 pixels, cut into 8x8 blocks,
// transformed with a fixed-point DCT, quantized with a quality-scaled
// luminance table and entropy coded with fixed Huffman tables. The channels
// are stored one after another behind a 19-byte header.
//
// Compressing:
//
//	data, err := cmpcodec.Compress(img, &cmpcodec.EncodeOptions{Quality: 70})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decompressing:
//
//	img, err := cmpcodec.Decompress(data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The decoded image always has the padded dimensions recorded in the header.
// Callers that know the original size can recover it with Crop.
//
// The format is private to this package: it is not compatible with JPEG or
// any other codec, and it carries no magic number, so it is not registered
// with image.RegisterFormat.
package cmpcodec
