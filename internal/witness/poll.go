package witness

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PollOptions configures a polling observation loop.
type PollOptions struct {
	// Interval is the pause between poll cycles. Defaults to DefaultInterval.
	Interval time.Duration

	// Timeout bounds the whole observation (0 means watch until canceled).
	Timeout time.Duration

	// Snapshot holds the walk configuration applied on every cycle.
	Snapshot Options
}

// PollHandler receives the changes detected by one poll cycle. It is only
// invoked when the cycle found at least one change. The initial snapshot is
// delivered through the initial callback of Poll instead, as a count rather
// than a stream of appearances.
type PollHandler func(changes []Change) error

// Poll observes root until the context is canceled. Each cycle is strictly
// sequential: sleep, walk, diff against the previous snapshot, hand any
// changes to the handler. The previous snapshot is owned by this loop and
// replaced wholesale every cycle.
//
// The initial walk is reported through initial (if non-nil) and never as
// change events. Poll returns the final snapshot so the driver can report
// a closing count, along with ctx.Err() translated to nil on clean
// cancellation.
func Poll(ctx context.Context, root string, opts PollOptions, initial func(Snapshot) error, handler PollHandler) (Snapshot, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger := opts.Snapshot.Logger
	if logger == nil {
		logger = createLogger(opts.Snapshot.LogLevel)
		defer logger.Sync()
	}
	opts.Snapshot.Logger = logger

	prev, err := Take(ctx, root, opts.Snapshot)
	if err != nil {
		return nil, err
	}
	if initial != nil {
		if err := initial(prev); err != nil {
			return prev, err
		}
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return prev, nil
		case <-ticker.C:
		}

		curr, err := Take(ctx, root, opts.Snapshot)
		if err != nil {
			if ctx.Err() != nil {
				return prev, nil
			}
			// The tree may have vanished between cycles. That is itself an
			// observation, not a crash.
			logger.Warn("poll cycle failed", zap.String("root", root), zap.Error(err))
			continue
		}

		if changes := Diff(prev, curr); len(changes) > 0 {
			if err := handler(changes); err != nil {
				return curr, err
			}
		}
		prev = curr
	}
}
