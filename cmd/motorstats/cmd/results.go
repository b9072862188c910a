package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	resultsYear    string
	resultsGp      string
	resultsSession string
)

func init() {
	resultsCmd.Flags().StringVarP(&resultsYear, "year", "y", "current", "season year, or \"current\"")
	resultsCmd.Flags().StringVarP(&resultsGp, "gp", "g", "last", "round number, or \"last\"")
	resultsCmd.Flags().StringVarP(&resultsSession, "session", "s", "Race", `one of "Race", "Qualifying", "Sprint" or "Sprint Qualifying"`)
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Shows the results of one session of a race weekend.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		results, err := Client.SessionResults(cmd.Context(), resultsYear, resultsGp, resultsSession)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Println(results.Render())
	},
}
