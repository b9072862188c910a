package cmd

import (
	"errors"
	"fmt"
	"os"

	"motorstats/lib/ergast"

	"github.com/spf13/cobra"
)

var standingsSelect ergast.SelectOptions

func init() {
	standingsCmd.PersistentFlags().StringVar(&standingsSelect.Season, "season", "current", "season year, or \"current\"")
	standingsCmd.PersistentFlags().StringVar(&standingsSelect.Round, "round", "", "round number, or \"last\"")
	standingsCmd.AddCommand(driverStandingsCmd)
	standingsCmd.AddCommand(constructorStandingsCmd)
	rootCmd.AddCommand(standingsCmd)
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Shows championship standings.",
}

var driverStandingsCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Shows the driver championship standings.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		standings, err := Client.Select(standingsSelect).DriverStandings(cmd.Context())
		renderStandings(standings, err)
	},
}

var constructorStandingsCmd = &cobra.Command{
	Use:   "constructors",
	Short: "Shows the constructor championship standings.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		standings, err := Client.Select(standingsSelect).ConstructorStandings(cmd.Context())
		renderStandings(standings, err)
	},
}

func renderStandings(standings ergast.Table, err error) {
	if errors.Is(err, ergast.ErrEmptyStandings) {
		fmt.Println("No standings available for this selection.")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Println(standings.Render())
}
