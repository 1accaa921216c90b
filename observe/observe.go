package observe

import (
	"context"
	"io"

	internal "github.com/TFMV/witness/internal/witness"
)

// Re-export the types and constants from the internal package
type (
	// Snapshot maps root-relative slash-separated paths to their metadata.
	Snapshot = internal.Snapshot

	// Entry records the observed metadata of one regular file.
	Entry = internal.Entry

	// Options configures a snapshot walk.
	Options = internal.Options

	// Change is one detected difference between two snapshots.
	Change = internal.Change

	// ChangeKind classifies a detected difference.
	ChangeKind = internal.ChangeKind

	// Summary counts changes by kind.
	Summary = internal.Summary

	// DirectoryAccessError reports that the observed root could not be read.
	DirectoryAccessError = internal.DirectoryAccessError

	// PollOptions configures a polling observation loop.
	PollOptions = internal.PollOptions

	// PollHandler receives the changes detected by one poll cycle.
	PollHandler = internal.PollHandler

	// Reporter turns changes into lines of output.
	Reporter = internal.Reporter

	// ReporterOptions configures change formatting.
	ReporterOptions = internal.ReporterOptions

	// Store persists named snapshot states.
	Store = internal.Store

	// State is a saved snapshot with its provenance.
	State = internal.State

	// StateInfo is the listing view of a saved state.
	StateInfo = internal.StateInfo

	// DormantFile is a file that has not changed for longer than a threshold.
	DormantFile = internal.DormantFile

	// DormantOptions configures stillness detection.
	DormantOptions = internal.DormantOptions

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel
)

// Re-export the constants
const (
	// Change kinds
	Appeared = internal.Appeared
	Modified = internal.Modified
	Removed  = internal.Removed

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// DefaultInterval is the pause between poll cycles when none is configured.
	DefaultInterval = internal.DefaultInterval
)

// Take walks root once and returns a snapshot of every regular file.
func Take(ctx context.Context, root string, opts Options) (Snapshot, error) {
	return internal.Take(ctx, root, opts)
}

// Diff compares two snapshots and returns the changes ordered by path.
func Diff(prev, curr Snapshot) []Change {
	return internal.Diff(prev, curr)
}

// Summarize tallies a change set by kind.
func Summarize(changes []Change) Summary {
	return internal.Summarize(changes)
}

// Poll observes root until the context is canceled, diffing successive
// snapshots and handing changes to the handler.
func Poll(ctx context.Context, root string, opts PollOptions, initial func(Snapshot) error, handler PollHandler) (Snapshot, error) {
	return internal.Poll(ctx, root, opts, initial, handler)
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts ReporterOptions) *Reporter {
	return internal.NewReporter(w, opts)
}

// NewStore creates a snapshot store rooted at dir.
func NewStore(dir string) *Store {
	return internal.NewStore(dir)
}

// DefaultStateDir returns the per-user state directory, ~/.witness.
func DefaultStateDir() (string, error) {
	return internal.DefaultStateDir()
}

// ContentPreview returns the first n lines of a text file for display.
func ContentPreview(path string, n int) []string {
	return internal.ContentPreview(path, n)
}

// ContentTail returns the last n lines of a text file for display.
func ContentTail(path string, n int) []string {
	return internal.ContentTail(path, n)
}

// FindDormant returns the files under root older than the threshold.
func FindDormant(ctx context.Context, root string, opts DormantOptions) ([]DormantFile, error) {
	return internal.FindDormant(ctx, root, opts)
}
