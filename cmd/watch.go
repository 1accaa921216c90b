package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/TFMV/witness/internal/witness"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Watch command options
	watchInterval time.Duration
	watchTimeout  time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory, reporting changes as they happen",
	Long: `Watch a directory by polling it on an interval. Each cycle takes a
fresh snapshot, diffs it against the previous one, and narrates every
file that appeared, changed, or departed.

Examples:
  witness watch /path/to/watch
  witness watch --interval=5s /path/to/watch
  witness watch --pattern="*.go" --flat /path/to/watch
  witness watch --timeout=1h /path/to/watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watchDir, err := resolveDir(args)
		if err != nil {
			return err
		}

		// Terminate on interrupt; the loop has no internal stop condition.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := witness.PollOptions{
			Interval: watchInterval,
			Timeout:  watchTimeout,
			Snapshot: walkOptions(),
		}
		reporter := newReporter()

		text := viper.GetString("format") != "json"
		if text {
			fmt.Printf("witnessing: %s\n", watchDir)
			fmt.Printf("interval: %s\n", opts.Interval)
			fmt.Println()
		}

		final, err := witness.Poll(ctx, watchDir, opts,
			func(snap witness.Snapshot) error {
				if text {
					fmt.Printf("initial state: %d files\n", len(snap))
					fmt.Println("waiting...")
					fmt.Println()
					return nil
				}
				return reporter.Inventory(snap, 0)
			},
			func(changes []witness.Change) error {
				return reporter.ReportAll(changes)
			},
		)
		if err != nil {
			return err
		}

		if text {
			fmt.Println()
			fmt.Println("the watching ends")
			fmt.Printf("final state: %d files\n", len(final))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", witness.DefaultInterval, "Pause between poll cycles (e.g., 2s, 500ms)")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Duration to watch before exiting (e.g., 1h, 30m)")
}

// resolveDir picks the observed directory from args, defaulting to the
// working directory, and makes it absolute for stable state matching.
func resolveDir(args []string) (string, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
	}
	return filepath.Abs(dir)
}
