// Package shred securely destroys files following the DoD 5220.22-M
// procedure: repeated pattern overwrites with verification between passes,
// then a rename to a random name, truncation and removal.
package shred

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/TFMV/satchel/internal/randomorg"
	"github.com/TFMV/satchel/internal/speed"
)

// Standard selects the number of overwrite passes.
type Standard int

const (
	Standard3Pass Standard = 3
	Standard7Pass Standard = 7
)

// ErrInvalidStandard rejects pass counts outside the DoD standard.
var ErrInvalidStandard = errors.New("shred: standard must be 3-pass or 7-pass")

// ParseStandard maps "3-pass" or "7-pass" to a Standard.
func ParseStandard(s string) (Standard, error) {
	switch s {
	case "3-pass":
		return Standard3Pass, nil
	case "7-pass":
		return Standard7Pass, nil
	default:
		return 0, fmt.Errorf("%w, got %q", ErrInvalidStandard, s)
	}
}

// Options configures a Shred call.
type Options struct {
	// Standard is the pass count. Defaults to Standard3Pass.
	Standard Standard

	// BlockSize for overwriting and verification. When zero, Adaptive
	// picks the fastest probed size, otherwise speed.DefaultBlockSize.
	BlockSize int
	Adaptive  bool

	// TrueRandom sources the random passes from random.org via
	// Generator instead of the local CSPRNG.
	TrueRandom bool

	// Progress renders a progress bar on stderr.
	Progress bool

	// Generator supplies random pattern bytes and the random rename.
	// Optional; a local-only generator is used when nil.
	Generator *randomorg.Generator

	Logger *zap.Logger
}

// Shred overwrites path per the configured standard and removes it. The
// first two passes write fixed patterns (zeros, then ones), remaining
// passes write random data. Each pass except the last is verified by
// reading the file back.
func Shred(ctx context.Context, path string, opts Options) error {
	standard := opts.Standard
	if standard == 0 {
		standard = Standard3Pass
	}
	if standard != Standard3Pass && standard != Standard7Pass {
		return fmt.Errorf("%w, got %d passes", ErrInvalidStandard, standard)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := opts.Generator
	if gen == nil {
		gen = &randomorg.Generator{Logger: logger}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("shred: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("shred: %s is not a regular file", path)
	}
	size := info.Size()

	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = speed.DefaultBlockSize
		if opts.Adaptive && size > 0 {
			if probed, err := speed.BestBlockSize(path); err == nil {
				blockSize = probed
				logger.Debug("selected shred block size",
					zap.String("path", path), zap.Int("block_size", blockSize))
			}
		}
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions64(int64(standard)*size,
			progressbar.OptionSetDescription("Shredding"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	for pass := 0; pass < int(standard); pass++ {
		pattern, err := passPattern(ctx, gen, pass, blockSize, opts.TrueRandom)
		if err != nil {
			return err
		}
		if err := overwrite(ctx, path, pattern, size, bar); err != nil {
			return err
		}
		// The last pass stays unverified; the file is removed next.
		if pass < int(standard)-1 {
			ok, err := verify(path, pattern)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("shred: pass %d verification failed for %s", pass+1, path)
			}
		}
	}

	// Rename before removal so the original name is not left in the
	// directory entry.
	name, err := gen.String(ctx, 16, "", false)
	if err != nil {
		return fmt.Errorf("shred: generate replacement name: %w", err)
	}
	renamed := filepath.Join(filepath.Dir(path), name+filepath.Ext(path))
	if err := os.Rename(path, renamed); err != nil {
		return fmt.Errorf("shred: rename %s: %w", path, err)
	}
	if err := os.Truncate(renamed, 0); err != nil {
		return fmt.Errorf("shred: truncate %s: %w", renamed, err)
	}
	if err := os.Remove(renamed); err != nil {
		return fmt.Errorf("shred: remove %s: %w", renamed, err)
	}
	logger.Info("file shredded", zap.String("path", path),
		zap.Int("passes", int(standard)), zap.Int64("size", size))
	return nil
}

// passPattern builds the overwrite block for one pass: zeros, ones, then
// random data.
func passPattern(ctx context.Context, gen *randomorg.Generator, pass, blockSize int, trueRandom bool) ([]byte, error) {
	switch pass {
	case 0:
		return make([]byte, blockSize), nil
	case 1:
		pattern := make([]byte, blockSize)
		for i := range pattern {
			pattern[i] = 0xFF
		}
		return pattern, nil
	default:
		if trueRandom {
			return gen.Bytes(ctx, blockSize)
		}
		return randomorg.LocalBytes(blockSize)
	}
}

// overwrite writes the pattern repeatedly until size bytes are covered,
// then syncs.
func overwrite(ctx context.Context, path string, pattern []byte, size int64, bar *progressbar.ProgressBar) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("shred: open %s: %w", path, err)
	}
	defer f.Close()

	var written int64
	for written < size {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("shred: canceled: %w", err)
		}
		chunk := pattern
		if remaining := size - written; remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		n, err := f.Write(chunk)
		if err != nil {
			return fmt.Errorf("shred: overwrite %s: %w", path, err)
		}
		written += int64(n)
		if bar != nil {
			_ = bar.Add(n)
		}
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("shred: sync %s: %w", path, err)
	}
	return nil
}

// verify reads the file back and checks every block against the pattern.
func verify(path string, pattern []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("shred: open %s for verification: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, len(pattern))
	for {
		n, err := io.ReadFull(f, buf)
		if n > 0 && !bytes.Equal(buf[:n], pattern[:n]) {
			return false, nil
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("shred: verify %s: %w", path, err)
		}
	}
}
