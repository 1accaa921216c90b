package witness

import "sort"

// ChangeKind classifies a detected difference between two snapshots.
type ChangeKind string

const (
	Appeared ChangeKind = "appeared"
	Modified ChangeKind = "modified"
	Removed  ChangeKind = "removed"
)

// Change is one detected difference. Changes are produced transiently
// during a diff and never persisted.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Path string     `json:"path"`
}

// Diff compares a previous snapshot against a current one and returns the
// changes ordered lexicographically by path. A path present only in curr is
// Appeared, present only in prev is Removed, and present in both with a
// differing size or modification time is Modified. Identical snapshots
// produce no changes.
func Diff(prev, curr Snapshot) []Change {
	paths := make([]string, 0, len(prev)+len(curr))
	seen := make(map[string]struct{}, len(prev)+len(curr))
	for p := range prev {
		paths = append(paths, p)
		seen[p] = struct{}{}
	}
	for p := range curr {
		if _, ok := seen[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var changes []Change
	for _, p := range paths {
		before, inPrev := prev[p]
		after, inCurr := curr[p]
		switch {
		case !inPrev:
			changes = append(changes, Change{Kind: Appeared, Path: p})
		case !inCurr:
			changes = append(changes, Change{Kind: Removed, Path: p})
		case before.Size != after.Size || !before.ModTime.Equal(after.ModTime):
			changes = append(changes, Change{Kind: Modified, Path: p})
		}
	}
	return changes
}

// Summary counts changes by kind.
type Summary struct {
	Appeared int `json:"appeared"`
	Modified int `json:"modified"`
	Removed  int `json:"removed"`
}

// Summarize tallies a change set by kind.
func Summarize(changes []Change) Summary {
	var s Summary
	for _, c := range changes {
		switch c.Kind {
		case Appeared:
			s.Appeared++
		case Modified:
			s.Modified++
		case Removed:
			s.Removed++
		}
	}
	return s
}

// ByKind splits a change set into per-kind path lists, preserving order.
func ByKind(changes []Change, kind ChangeKind) []string {
	var paths []string
	for _, c := range changes {
		if c.Kind == kind {
			paths = append(paths, c.Path)
		}
	}
	return paths
}
