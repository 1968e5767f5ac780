package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultOutputDir returns the per-batch output directory under base, named
// by interval and start time so repeated batches never overwrite each other.
func DefaultOutputDir(base, interval string, startedAt time.Time) string {
	i := strings.ToLower(strings.TrimSpace(interval))
	if i == "" {
		i = "unknown"
	}
	if base == "" {
		base = "results"
	}

	return filepath.Join(base, fmt.Sprintf("%s_%s", i, startedAt.Format("20060102_150405")))
}

// EnsureDir creates the directory if it doesn't exist
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
