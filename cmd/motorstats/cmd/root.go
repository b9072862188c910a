package cmd

import (
	"context"
	"fmt"
	"os"

	"motorstats/lib/ergast"

	"github.com/spf13/cobra"
)

// Client is wired up by main before Execute runs.
var Client *ergast.Client

var rootCmd = &cobra.Command{
	Use:   "motorstats",
	Short: "motorstats browses motorsport seasons, standings and results from the command line.",
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
