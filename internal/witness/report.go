package witness

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"
)

// How the witness describes what it sees. One set of phrases per kind,
// chosen pseudo-randomly per observation, as the witness has always spoken.
var observations = map[ChangeKind][]string{
	Appeared: {
		"something new appeared:",
		"a new presence:",
		"came into being:",
		"emerged:",
		"arrived quietly:",
	},
	Modified: {
		"changed:",
		"was touched:",
		"shifted:",
		"became different:",
		"transformed:",
	},
	Removed: {
		"departed:",
		"is gone now:",
		"was here, then wasn't:",
		"left no trace:",
		"faded:",
	},
}

// groupCap limits how many paths a grouped report lists per kind.
const groupCap = 10

// ReporterOptions configures change formatting.
type ReporterOptions struct {
	// Format selects "text" (default) or "json" output.
	Format string

	// Now supplies the wall clock for timestamps. Defaults to time.Now.
	Now func() time.Time

	// Seed fixes the phrase selection for reproducible output.
	// Zero seeds from the clock.
	Seed int64

	// Preview, when set, supplies content preview lines printed under
	// each path in a grouped report.
	Preview func(kind ChangeKind, path string) []string
}

// Reporter turns changes into lines of output. It holds no decision
// logic; everything it prints was decided by the differ.
type Reporter struct {
	w    io.Writer
	opts ReporterOptions
	rng  *rand.Rand
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts ReporterOptions) *Reporter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Now().UnixNano()
	}
	return &Reporter{w: w, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// Report writes one line for a single change, prefixed with the
// wall-clock time of detection.
func (r *Reporter) Report(c Change) error {
	now := r.opts.Now()
	if r.opts.Format == "json" {
		line, err := json.Marshal(struct {
			Time time.Time  `json:"time"`
			Kind ChangeKind `json:"kind"`
			Path string     `json:"path"`
		}{now, c.Kind, c.Path})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.w, string(line))
		return err
	}
	_, err := fmt.Fprintf(r.w, "[%s]  %s %s\n", now.Format("15:04:05"), r.phrase(c.Kind), c.Path)
	return err
}

// ReportAll writes one line per change.
func (r *Reporter) ReportAll(changes []Change) error {
	for _, c := range changes {
		if err := r.Report(c); err != nil {
			return err
		}
	}
	return nil
}

// Inventory reports a snapshot as a file count with a short sample
// listing. The first poll of a tree goes through here rather than being
// narrated as a flood of appearances.
func (r *Reporter) Inventory(snap Snapshot, sample int) error {
	if r.opts.Format == "json" {
		line, err := json.Marshal(struct {
			Time  time.Time `json:"time"`
			Files int       `json:"files"`
		}{r.opts.Now(), len(snap)})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.w, string(line))
		return err
	}

	if len(snap) == 0 {
		_, err := fmt.Fprintln(r.w, "the directory is empty, or hidden")
		return err
	}

	if _, err := fmt.Fprintf(r.w, "i see %d files\n", len(snap)); err != nil {
		return err
	}
	paths := sortedPaths(snap)
	for i, p := range paths {
		if i >= sample {
			fmt.Fprintf(r.w, "  ... and %d more\n", len(paths)-sample)
			break
		}
		fmt.Fprintf(r.w, "  %s\n", p)
	}
	return nil
}

// Grouped writes a diff report with changes bucketed by kind, each
// bucket capped with a trailing "... and N more" line.
func (r *Reporter) Grouped(changes []Change) error {
	if r.opts.Format == "json" {
		line, err := json.Marshal(struct {
			Time    time.Time `json:"time"`
			Summary Summary   `json:"summary"`
			Changes []Change  `json:"changes"`
		}{r.opts.Now(), Summarize(changes), changes})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.w, string(line))
		return err
	}

	if len(changes) == 0 {
		_, err := fmt.Fprintln(r.w, "  nothing has changed")
		return err
	}

	r.group("NEW", "+", Appeared, changes)
	r.group("MODIFIED", "~", Modified, changes)
	r.group("DELETED", "-", Removed, changes)
	return nil
}

func (r *Reporter) group(label, mark string, kind ChangeKind, changes []Change) {
	paths := ByKind(changes, kind)
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(r.w, "  %s (%d):\n", label, len(paths))
	for i, p := range paths {
		if i >= groupCap {
			fmt.Fprintf(r.w, "    ... and %d more\n", len(paths)-groupCap)
			break
		}
		fmt.Fprintf(r.w, "    %s %s\n", mark, p)
		if r.opts.Preview != nil {
			for _, line := range r.opts.Preview(kind, p) {
				fmt.Fprintf(r.w, "      | %s\n", line)
			}
		}
	}
	fmt.Fprintln(r.w)
}

func (r *Reporter) phrase(kind ChangeKind) string {
	phrases := observations[kind]
	if len(phrases) == 0 {
		return string(kind) + ":"
	}
	return phrases[r.rng.Intn(len(phrases))]
}

func sortedPaths(snap Snapshot) []string {
	paths := make([]string, 0, len(snap))
	for p := range snap {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
