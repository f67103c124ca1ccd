package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/normalize"
	"github.com/legendscope/legendscope/internal/report"
)

var trendAll bool

var trendCmd = &cobra.Command{
	Use:   "trend <puuid>",
	Short: "Per-match performance trend for a player, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().BoolVar(&trendAll, "all", false, "include remakes shorter than 8 minutes")
}

func runTrend(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.matches.Matches(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	if !trendAll {
		records = normalize.FilterMinDuration(records)
	}
	if len(records) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	report.PrintTrend(os.Stdout, normalize.Normalizer{}.DeriveAll(records))
	return nil
}
