// Package speed measures sequential read throughput of a file and probes
// for the block size that reads it fastest. The shredder uses the probe to
// pick its overwrite block size.
package speed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
)

// DefaultBlockSize is used when probing is skipped or inconclusive.
const DefaultBlockSize = 4096

// blockSizes are the candidate sizes tried by BestBlockSize.
var blockSizes = []int{512, 1024, 2048, 4096, 8192, 16384, 32768, 65536}

// ErrEmptyFile is returned when throughput cannot be measured.
var ErrEmptyFile = errors.New("speed: file is empty")

// MeasureReadSpeed reads the whole file sequentially in blockSize chunks
// and returns the throughput in MB/s.
func MeasureReadSpeed(path string, blockSize int) (float64, error) {
	if blockSize < 1 {
		return 0, fmt.Errorf("speed: block size must be positive, got %d", blockSize)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("speed: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("speed: open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, blockSize)
	start := time.Now()
	for {
		_, err := f.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("speed: read %s: %w", path, err)
		}
	}
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		// Sub-resolution read; report against the smallest measurable
		// duration instead of dividing by zero.
		elapsed = float64(time.Nanosecond) / float64(time.Second)
	}
	return float64(info.Size()) / (1024 * 1024 * elapsed), nil
}

// BestBlockSize reads the file once per candidate block size and returns
// the fastest. Errors on individual probes fail the whole probe; the file
// is expected to be readable throughout.
func BestBlockSize(path string) (int, error) {
	best := DefaultBlockSize
	bestSpeed := 0.0
	for _, size := range blockSizes {
		mbps, err := MeasureReadSpeed(path, size)
		if err != nil {
			return 0, err
		}
		if mbps > bestSpeed {
			best = size
			bestSpeed = mbps
		}
	}
	return best, nil
}

// DiskReport describes the filesystem holding a path.
type DiskReport struct {
	Path        string  `json:"path"`
	Filesystem  string  `json:"filesystem"`
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// Disk reports usage of the filesystem containing path.
func Disk(path string) (*DiskReport, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("speed: disk usage for %s: %w", path, err)
	}
	return &DiskReport{
		Path:        usage.Path,
		Filesystem:  usage.Fstype,
		TotalBytes:  usage.Total,
		FreeBytes:   usage.Free,
		UsedBytes:   usage.Used,
		UsedPercent: usage.UsedPercent,
	}, nil
}
