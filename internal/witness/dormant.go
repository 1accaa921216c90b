package witness

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DormantFile is a file that has not changed for longer than a threshold.
type DormantFile struct {
	Path    string        `json:"path"`
	ModTime time.Time     `json:"mtime"`
	Age     time.Duration `json:"age"`
}

// DormantOptions configures stillness detection.
type DormantOptions struct {
	// Threshold is the minimum age before a file counts as dormant.
	Threshold time.Duration

	// Snapshot holds the walk configuration.
	Snapshot Options

	// Now supplies the reference clock. Defaults to time.Now.
	Now func() time.Time
}

// FindDormant walks root and returns the files whose modification time is
// older than the threshold, oldest first. The opposite of watching for
// change: watching for stillness.
func FindDormant(ctx context.Context, root string, opts DormantOptions) ([]DormantFile, error) {
	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("dormancy threshold must be positive")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	snap, err := Take(ctx, root, opts.Snapshot)
	if err != nil {
		return nil, err
	}

	ref := now()
	var dormant []DormantFile
	for path, entry := range snap {
		age := ref.Sub(entry.ModTime)
		if age > opts.Threshold {
			dormant = append(dormant, DormantFile{Path: path, ModTime: entry.ModTime, Age: age})
		}
	}
	sort.Slice(dormant, func(i, j int) bool {
		if dormant[i].Age != dormant[j].Age {
			return dormant[i].Age > dormant[j].Age
		}
		return dormant[i].Path < dormant[j].Path
	})
	return dormant, nil
}

// FormatAge renders a duration the way a person would say it.
func FormatAge(age time.Duration) string {
	seconds := age.Seconds()
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", int(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%d minutes", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	default:
		return fmt.Sprintf("%.1f days", seconds/86400)
	}
}
