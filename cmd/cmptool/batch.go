package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// runBatch encodes every input file into outdir. Files are independent, so
// they are spread over a worker pool; each file is still coded sequentially.
func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	outDir := fs.String("outdir", "", "directory for the .cmp files")
	cfg := encodeFlags(fs)
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "number of files encoded at once")
	verbose := fs.Bool("v", false, "print statistics")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if *outDir == "" || len(inputs) == 0 {
		return errors.New("missing required arguments")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	outputs, err := batchOutputs(*outDir, inputs, *cfg.zstd)
	if err != nil {
		return err
	}

	pool := workerpool.New(max(*workers, 1))
	defer pool.Close()

	stats := make([]*encodeStats, len(inputs))
	errs := make([]error, len(inputs))
	pool.ParallelForAtomic(len(inputs), func(i int) {
		stats[i], errs[i] = encodeFile(inputs[i], outputs[i], cfg)
	})

	if *verbose {
		for _, st := range stats {
			if st != nil {
				st.print()
			}
		}
	}
	return errors.Join(errs...)
}

// batchOutputs maps each input to outDir/<base>.cmp (.cmp.zst with zstd).
// Two inputs with the same base name are rejected.
func batchOutputs(outDir string, inputs []string, zstd bool) ([]string, error) {
	ext := ".cmp"
	if zstd {
		ext += ".zst"
	}
	seen := make(map[string]string, len(inputs))
	out := make([]string, len(inputs))
	for i, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		name := filepath.Join(outDir, base+ext)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, in, name)
		}
		seen[name] = in
		out[i] = name
	}
	return out, nil
}
