package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ajroetker/go-cmpcodec"
	"github.com/ajroetker/go-cmpcodec/internal/zframe"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "encode":
		if err := runEncode(os.Args[2:]); err != nil {
			fail(err)
		}
	case "decode":
		if err := runDecode(os.Args[2:]); err != nil {
			fail(err)
		}
	case "info":
		if err := runInfo(os.Args[2:]); err != nil {
			fail(err)
		}
	case "batch":
		if err := runBatch(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cmptool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  encode -in input.{png,jpg,gif,bmp} -out output.cmp [-q 70] [-max N] [-zstd] [-v]")
	fmt.Fprintln(os.Stderr, "  decode -in input.cmp -out output.{png,bmp} [-crop WxH]")
	fmt.Fprintln(os.Stderr, "  info   -in input.cmp")
	fmt.Fprintln(os.Stderr, "  batch  -outdir dir [-q 70] [-max N] [-zstd] [-workers N] input...")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output CMP file")
	cfg := encodeFlags(fs)
	verbose := fs.Bool("v", false, "print statistics")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	st, err := encodeFile(*inPath, *outPath, cfg)
	if err != nil {
		return err
	}
	if *verbose {
		st.print()
	}
	return nil
}

type encodeConfig struct {
	quality *int
	maxSide *uint
	zstd    *bool
}

func encodeFlags(fs *flag.FlagSet) encodeConfig {
	return encodeConfig{
		quality: fs.Int("q", cmpcodec.DefaultQuality, "quality factor (1..32767)"),
		maxSide: fs.Uint("max", 0, "downscale so neither side exceeds N pixels"),
		zstd:    fs.Bool("zstd", false, "wrap the container in a zstd frame"),
	}
}

type encodeStats struct {
	path   string
	img    *cmpcodec.Image
	header cmpcodec.Header
	raw    int // container size before zstd
	size   int // bytes written
}

func (s *encodeStats) print() {
	fmt.Fprintf(os.Stderr, "%s: %s %dx%d q=%d: %d -> %d bytes (%.3f bpp)\n",
		s.path, s.img.Format, s.img.Width, s.img.Height, s.header.Quality, len(s.img.Pix), s.size,
		float64(s.size*8)/float64(s.img.Width*s.img.Height))
	for c := 0; c < s.header.NumPlanes(); c++ {
		fmt.Fprintf(os.Stderr, "  plane %d: %d bytes\n", c, s.header.PlaneLengths[c])
	}
	if s.raw != s.size {
		fmt.Fprintf(os.Stderr, "  zstd: %d -> %d bytes\n", s.raw, s.size)
	}
}

func encodeFile(inPath, outPath string, cfg encodeConfig) (*encodeStats, error) {
	q := *cfg.quality
	if q < 1 || q > 32767 {
		return nil, fmt.Errorf("quality %d out of range", q)
	}
	src, err := readImage(inPath)
	if err != nil {
		return nil, err
	}
	if *cfg.maxSide > 0 {
		src = resize.Thumbnail(*cfg.maxSide, *cfg.maxSide, src, resize.Lanczos3)
	}
	img := cmpcodec.FromImage(src)

	data, err := cmpcodec.Compress(img, &cmpcodec.EncodeOptions{Quality: int16(q)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inPath, err)
	}
	h, err := cmpcodec.ReadHeader(data)
	if err != nil {
		return nil, err
	}
	st := &encodeStats{path: inPath, img: img, header: h, raw: len(data)}
	if *cfg.zstd {
		data = zframe.Wrap(nil, data)
	}
	st.size = len(data)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, err
	}
	return st, nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input CMP file")
	outPath := fs.String("out", "", "output image (.png or .bmp)")
	crop := fs.String("crop", "", "crop decoded image to WxH")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}
	data, err = zframe.Maybe(data)
	if err != nil {
		return err
	}
	img, err := cmpcodec.Decompress(data, nil)
	if err != nil {
		return err
	}
	if *crop != "" {
		w, h, err := parseSize(*crop)
		if err != nil {
			return err
		}
		if img, err = cmpcodec.Crop(img, w, h); err != nil {
			return err
		}
	}
	return writeImage(*outPath, img)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	inPath := fs.String("in", "", "input CMP file")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}
	framed := zframe.IsFrame(data)
	h, err := readHeader(data)
	if err != nil {
		return err
	}
	kind := "indexed"
	if h.Color {
		kind = "color"
	}
	fmt.Printf("type:    %s\n", kind)
	fmt.Printf("size:    %dx%d\n", h.Width, h.Height)
	fmt.Printf("quality: %d\n", h.Quality)
	fmt.Printf("zstd:    %t\n", framed)
	for c := 0; c < h.NumPlanes(); c++ {
		fmt.Printf("plane %d: %d bytes\n", c, h.PlaneLengths[c])
	}
	return nil
}

func readHeader(data []byte) (cmpcodec.Header, error) {
	data, err := zframe.Maybe(data)
	if err != nil {
		return cmpcodec.Header{}, err
	}
	return cmpcodec.ReadHeader(data)
}

func readImage(path string) (image.Image, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return bmp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func writeImage(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	return w, h, nil
}
