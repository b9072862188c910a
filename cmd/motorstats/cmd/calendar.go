package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var calendarYear string

func init() {
	calendarCmd.Flags().StringVarP(&calendarYear, "year", "y", "current", "season year, or \"current\"")
	rootCmd.AddCommand(calendarCmd)
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Lists the races of a season.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		season, err := Client.Season(cmd.Context(), calendarYear)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Println(season.Render())
	},
}
