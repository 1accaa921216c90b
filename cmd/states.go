package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statesCmd represents the states command
var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List saved snapshot states",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		infos, err := store.List()
		if err != nil {
			return err
		}

		if viper.GetString("format") == "json" {
			return json.NewEncoder(os.Stdout).Encode(infos)
		}

		if len(infos) == 0 {
			fmt.Println("no saved states")
			return nil
		}
		fmt.Printf("saved states (%d):\n", len(infos))
		for _, s := range infos {
			fmt.Printf("  %-15s %s  %4d files  %s\n",
				s.Name, s.Timestamp.Format("2006-01-02 15:04:05"), s.Files, s.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statesCmd)
}
