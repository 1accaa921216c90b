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
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands.
// On its own it takes a single snapshot of the given directory and reports
// an inventory of what it sees.
var rootCmd = &cobra.Command{
	Use:   "witness [options] <path>",
	Short: "A quiet observer of directory changes",
	Long: `witness observes a directory tree and reports what appears, changes,
and disappears. Called without a subcommand it takes a single snapshot
and reports an inventory of the files it sees.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshot(args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags shared by every observation mode.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "Disable all output except errors")
	rootCmd.PersistentFlags().String("format", "text", "Output format (text|json)")
	rootCmd.PersistentFlags().Bool("flat", false, "Only observe top-level files (no recursion)")
	rootCmd.PersistentFlags().Int("depth", 0, "Limit recursion depth (0 = unlimited)")
	rootCmd.PersistentFlags().String("pattern", "", "File name pattern to match (e.g., *.go)")
	rootCmd.PersistentFlags().String("ignore", "", "File name pattern to ignore")
	rootCmd.PersistentFlags().Bool("include-hidden", false, "Include hidden files and directories")
	rootCmd.PersistentFlags().String("state-dir", "", "Directory for saved snapshot states (default ~/.witness)")

	// Snapshot-only flags.
	rootCmd.Flags().Bool("save", false, "Save the snapshot for a later diff")
	rootCmd.Flags().String("name", "last", "Name to save the snapshot under")

	// Bind flags to viper.
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.PersistentFlags().Lookup("silent"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("flat", rootCmd.PersistentFlags().Lookup("flat"))
	viper.BindPFlag("depth", rootCmd.PersistentFlags().Lookup("depth"))
	viper.BindPFlag("pattern", rootCmd.PersistentFlags().Lookup("pattern"))
	viper.BindPFlag("ignore", rootCmd.PersistentFlags().Lookup("ignore"))
	viper.BindPFlag("include-hidden", rootCmd.PersistentFlags().Lookup("include-hidden"))
	viper.BindPFlag("state-dir", rootCmd.PersistentFlags().Lookup("state-dir"))
	viper.BindPFlag("save", rootCmd.Flags().Lookup("save"))
	viper.BindPFlag("name", rootCmd.Flags().Lookup("name"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".witness" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".witness")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// walkOptions assembles the snapshot configuration from viper.
func walkOptions() witness.Options {
	opts := witness.Options{
		Flat:          viper.GetBool("flat"),
		MaxDepth:      viper.GetInt("depth"),
		Pattern:       viper.GetString("pattern"),
		IgnorePattern: viper.GetString("ignore"),
		IncludeHidden: viper.GetBool("include-hidden"),
	}
	if viper.GetBool("verbose") {
		opts.LogLevel = witness.LogLevelDebug
	} else if viper.GetBool("silent") {
		opts.LogLevel = witness.LogLevelError
	} else {
		opts.LogLevel = witness.LogLevelInfo
	}
	return opts
}

// newReporter builds a reporter for stdout honoring the format flag.
func newReporter() *witness.Reporter {
	return witness.NewReporter(os.Stdout, witness.ReporterOptions{
		Format: viper.GetString("format"),
	})
}

// openStore resolves the state directory and opens the snapshot store.
func openStore() (*witness.Store, error) {
	dir := viper.GetString("state-dir")
	if dir == "" {
		var err error
		dir, err = witness.DefaultStateDir()
		if err != nil {
			return nil, err
		}
	}
	return witness.NewStore(dir), nil
}

func runSnapshot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	snap, err := witness.Take(context.Background(), abs, walkOptions())
	if err != nil {
		return err
	}

	if err := newReporter().Inventory(snap, 5); err != nil {
		return err
	}

	if viper.GetBool("save") {
		store, err := openStore()
		if err != nil {
			return err
		}
		path, err := store.Save(viper.GetString("name"), abs, snap)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("scan saved for future diff: %s\n", path)
	}
	return nil
}
