package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/TFMV/witness/internal/witness"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Dormant command options
	dormantThreshold time.Duration
)

// dormantCmd represents the dormant command
var dormantCmd = &cobra.Command{
	Use:   "dormant [path]",
	Short: "Report files that have not changed in a while",
	Long: `The opposite of watching for change: report the files whose
modification time is older than a threshold, oldest first.

Examples:
  witness dormant /path/to/workspace
  witness dormant --threshold=72h --pattern="*.go" /path/to/workspace`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}

		dormant, err := witness.FindDormant(context.Background(), dir, witness.DormantOptions{
			Threshold: dormantThreshold,
			Snapshot:  walkOptions(),
		})
		if err != nil {
			return err
		}

		if viper.GetString("format") == "json" {
			return json.NewEncoder(os.Stdout).Encode(dormant)
		}

		if len(dormant) == 0 {
			fmt.Printf("nothing has been still for more than %s\n", dormantThreshold)
			return nil
		}
		fmt.Printf("dormant for more than %s (%d files):\n", dormantThreshold, len(dormant))
		for _, f := range dormant {
			fmt.Printf("  %-12s %s\n", witness.FormatAge(f.Age), f.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dormantCmd)

	dormantCmd.Flags().DurationVar(&dormantThreshold, "threshold", 24*time.Hour, "Minimum age before a file counts as dormant")
}
