package cmd

import (
	"fmt"
	"os"

	"motorstats/lib/ergast"

	"github.com/spf13/cobra"
)

var circuitsSelect ergast.SelectOptions

func init() {
	circuitsCmd.Flags().StringVar(&circuitsSelect.Season, "season", "", "season year, or \"current\"")
	circuitsCmd.Flags().StringVar(&circuitsSelect.Round, "round", "", "round number, or \"last\"")
	circuitsCmd.Flags().StringVar(&circuitsSelect.Constructor, "constructor", "", "constructor id")
	circuitsCmd.Flags().StringVar(&circuitsSelect.Driver, "driver", "", "driver id")
	rootCmd.AddCommand(circuitsCmd)
}

var circuitsCmd = &cobra.Command{
	Use:   "circuits",
	Short: "Lists circuits matching the given filters.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		circuits, err := Client.Select(circuitsSelect).Circuits(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Println(circuits.Render())
	},
}
