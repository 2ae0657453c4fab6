package render

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/timeutil"
)

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakeOutputDir returns <baseDir>/projection_<timestamp>.
func MakeOutputDir(baseDir string, clock timeutil.Clock) string {
	return filepath.Join(baseDir, "projection_"+FormatTimestamp(clock.Now()))
}

// writeFile creates dir if needed and streams wt into dir/name.
func writeFile(fsys fsutil.FileSystem, dir, name string, wt io.WriterTo) (string, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := fsys.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// writerFunc adapts a render callback to io.WriterTo.
type writerFunc func(w io.Writer) error

func (f writerFunc) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
