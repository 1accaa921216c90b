// Package witness provides point-in-time directory snapshots and the
// machinery to diff, report, and persist them.
package witness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/unicode/norm"
)

// DefaultInterval is the pause between poll cycles when none is configured.
const DefaultInterval = 2 * time.Second

// --------------------------------------------------------------------------
// Configuration types
// --------------------------------------------------------------------------

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Options configures a snapshot walk.
type Options struct {
	Flat          bool   // Only observe files directly under the root
	MaxDepth      int    // Maximum path depth below the root (0 = unlimited)
	Pattern       string // Glob pattern file names must match
	IgnorePattern string // Glob pattern for file names to skip
	IncludeHidden bool   // Include dot-files and dot-directories

	Logger   *zap.Logger
	LogLevel LogLevel
}

// Entry records the observed metadata of one regular file.
type Entry struct {
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Snapshot maps root-relative slash-separated paths to their metadata.
// A snapshot is built by one full walk and never mutated afterwards.
type Snapshot map[string]Entry

// DirectoryAccessError reports that the observed root could not be
// opened or enumerated. It is the only fatal failure class.
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("cannot witness %s: %v", e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// --------------------------------------------------------------------------
// Snapshotter
// --------------------------------------------------------------------------

// Take walks root once and returns a snapshot containing one entry per
// regular file. Directories and symlinks are never entries. Files that
// vanish between enumeration and stat are skipped silently; the observer
// does not fight races with whatever is mutating the tree.
func Take(ctx context.Context, root string, opts Options) (Snapshot, error) {
	root = filepath.Clean(root)

	// Fail fast before walking so a bad root never yields partial output.
	if _, err := os.ReadDir(root); err != nil {
		return nil, &DirectoryAccessError{Path: root, Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
		defer logger.Sync()
	}

	logger.Debug("taking snapshot",
		zap.String("root", root),
		zap.Bool("flat", opts.Flat),
		zap.Int("max_depth", opts.MaxDepth),
	)

	snap := make(Snapshot)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if de.IsDir() {
				if !opts.IncludeHidden && isHidden(de.Name()) {
					return filepath.SkipDir
				}
				if opts.Flat {
					return filepath.SkipDir
				}
				if opts.MaxDepth > 0 && pathDepth(rel) >= opts.MaxDepth {
					return filepath.SkipDir
				}
				return nil
			}

			// Only regular files become entries.
			if !de.IsRegular() {
				return nil
			}
			if !opts.IncludeHidden && isHidden(de.Name()) {
				return nil
			}
			if opts.MaxDepth > 0 && pathDepth(rel) > opts.MaxDepth {
				return nil
			}
			if !nameMatches(de.Name(), opts.Pattern, opts.IgnorePattern) {
				return nil
			}

			info, err := os.Lstat(path)
			if err != nil {
				// The file disappeared mid-walk.
				logger.Debug("file vanished during walk", zap.String("path", rel))
				return nil
			}

			snap[rel] = Entry{Size: info.Size(), ModTime: info.ModTime()}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			// godirwalk routes Callback errors through here too, so a
			// cancellation must halt the walk rather than be skipped; a
			// skipped cancellation would surface a partial snapshot as
			// complete.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return godirwalk.Halt
			}
			// Subtrees that vanish or turn unreadable mid-walk are omitted
			// from this snapshot rather than aborting it.
			logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &DirectoryAccessError{Path: root, Err: err}
	}

	logger.Debug("snapshot complete", zap.Int("files", len(snap)))
	return snap, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// isHidden reports whether a base name is a dot-file.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// pathDepth counts path elements in a relative slash path.
func pathDepth(rel string) int {
	return strings.Count(rel, "/") + 1
}

// nameMatches applies the include and ignore globs to a base name.
// Names and patterns are NFC-normalized before matching so decomposed
// filenames (common on macOS) compare equal to their composed forms.
func nameMatches(name, pattern, ignore string) bool {
	name = norm.NFC.String(name)
	if pattern != "" {
		matched, err := filepath.Match(norm.NFC.String(pattern), name)
		if err != nil || !matched {
			return false
		}
	}
	if ignore != "" {
		if matched, _ := filepath.Match(norm.NFC.String(ignore), name); matched {
			return false
		}
	}
	return true
}

// createLogger creates a zap logger with the specified log level.
func createLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelError:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case LogLevelWarn:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelDebug:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, _ := config.Build()
	return logger
}
