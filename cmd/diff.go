package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TFMV/witness/internal/witness"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Diff command options
	diffFrom    string
	diffTo      string
	diffName    string
	diffContent bool
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Compare a directory against a saved snapshot",
	Long: `Compare the current state of a directory against the last saved
snapshot for it, report what shifted, and save the new state. The first
run has nothing to compare against; it saves an initial scan and reports
the inventory count only. With --content, new files show their opening
lines and modified files their final ones.

Two saved states can also be compared offline by name:

  witness diff --from before --to after

Example workflow:
  witness /path/to/workspace --save --name before
  # ... make changes ...
  witness /path/to/workspace --save --name after
  witness diff --from before --to after`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if diffFrom != "" || diffTo != "" {
			if diffFrom == "" || diffTo == "" {
				return fmt.Errorf("--from and --to must be given together")
			}
			return runNamedDiff(diffFrom, diffTo)
		}
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}
		return runQuickDiff(dir)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffFrom, "from", "", "Saved state to compare from")
	diffCmd.Flags().StringVar(&diffTo, "to", "", "Saved state to compare to")
	diffCmd.Flags().StringVar(&diffName, "name", "last", "Name to save the new state under")
	diffCmd.Flags().BoolVar(&diffContent, "content", false, "Show content previews for new and modified files")
}

// runQuickDiff compares the live tree against the most recent saved state
// for the same path, then replaces it.
func runQuickDiff(root string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	curr, err := witness.Take(context.Background(), root, walkOptions())
	if err != nil {
		return err
	}

	prev, err := store.LastFor(root)
	if err != nil {
		return err
	}

	reporter := diffReporter(root)

	if prev == nil {
		fmt.Println("no previous scan found for this path")
		fmt.Println("running initial scan...")
		fmt.Println()
		if _, err := store.Save(diffName, root, curr); err != nil {
			return err
		}
		fmt.Printf("scanned %d files\n", len(curr))
		fmt.Println("run diff again to see changes")
		return nil
	}

	fmt.Printf("comparing to scan from %s\n", prev.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println()

	if err := reporter.Grouped(witness.Diff(prev.Files, curr)); err != nil {
		return err
	}

	if _, err := store.Save(diffName, root, curr); err != nil {
		return err
	}
	fmt.Printf("saved new scan (%d files)\n", len(curr))
	return nil
}

// diffReporter builds the reporter for a live diff, attaching content
// previews when requested. New files show their opening lines, modified
// files their final ones.
func diffReporter(root string) *witness.Reporter {
	opts := witness.ReporterOptions{Format: viper.GetString("format")}
	if diffContent {
		opts.Preview = func(kind witness.ChangeKind, rel string) []string {
			full := filepath.Join(root, filepath.FromSlash(rel))
			switch kind {
			case witness.Appeared:
				return witness.ContentPreview(full, 2)
			case witness.Modified:
				return witness.ContentTail(full, 2)
			}
			return nil
		}
	}
	return witness.NewReporter(os.Stdout, opts)
}

// runNamedDiff compares two saved states without touching the filesystem.
func runNamedDiff(from, to string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	before, err := store.Load(from)
	if err != nil {
		return fmt.Errorf("state not found: %s: %w", from, err)
	}
	after, err := store.Load(to)
	if err != nil {
		return fmt.Errorf("state not found: %s: %w", to, err)
	}

	fmt.Printf("FROM: %s (%s, %d files)\n", before.Name, before.Timestamp.Format("2006-01-02 15:04:05"), len(before.Files))
	fmt.Printf("TO:   %s (%s, %d files)\n", after.Name, after.Timestamp.Format("2006-01-02 15:04:05"), len(after.Files))
	fmt.Println()

	changes := witness.Diff(before.Files, after.Files)
	if err := newReporter().Grouped(changes); err != nil {
		return err
	}

	s := witness.Summarize(changes)
	unchanged := len(before.Files) - s.Modified - s.Removed
	fmt.Printf("SUMMARY: %d created, %d deleted, %d modified, %d unchanged\n",
		s.Appeared, s.Removed, s.Modified, unchanged)
	return nil
}
