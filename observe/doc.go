// Package observe provides directory snapshotting, diffing, and polling
// observation.
//
// This package contains the public API behind the `witness` command, which
// takes point-in-time snapshots of a directory tree and reports what
// appeared, changed, and disappeared between them.

// Polling Observation
//
// The observe package watches a tree by taking snapshots on an interval:
//
//	// One snapshot
//	snap, err := observe.Take(context.Background(), "/path/to/watch", observe.Options{})
//
//	// Diff two snapshots
//	changes := observe.Diff(before, after)
//
//	// Poll until canceled, handling each batch of changes
//	opts := observe.PollOptions{Interval: 2 * time.Second}
//	final, err := observe.Poll(context.Background(), "/path/to/watch", opts,
//		func(initial observe.Snapshot) error {
//			fmt.Printf("initial state: %d files\n", len(initial))
//			return nil
//		},
//		func(changes []observe.Change) error {
//			for _, c := range changes {
//				fmt.Printf("%s: %s\n", c.Kind, c.Path)
//			}
//			return nil
//		})

package observe
