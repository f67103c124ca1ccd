package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about the local cache: player, match and
snapshot counts, profile status breakdown and the most played champions.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview(ctx)
	if err != nil {
		return err
	}
	if ov.Players == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'legendscope import' or 'legendscope fetch' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Players       : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Matches       : %d\n", ov.Matches)
	fmt.Fprintf(os.Stdout, "  Snapshots     : %d\n", ov.Snapshots)
	fmt.Fprintf(os.Stdout, "  Updated       : %s to %s\n", ov.EarliestUpdate, ov.LatestUpdate)

	statuses, err := db.StatusCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n--- Match History Status ---\n\n")
	st := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	st.Header("STATUS", "PLAYERS")
	for _, s := range statuses {
		st.Append(s.Label, fmt.Sprintf("%d", s.N))
	}
	st.Render()

	// Champion breakdown, only when matches are cached.
	if ov.Matches == 0 {
		return nil
	}
	champs, err := db.TopChampions(ctx, 10)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Played Champions ---\n\n")
	ct := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	ct.Header("CHAMPION", "GAMES", "SHARE")
	for _, c := range champs {
		ct.Append(c.Label, fmt.Sprintf("%d", c.N), fmt.Sprintf("%.0f%%", 100*float64(c.N)/float64(ov.Matches)))
	}
	ct.Render()
	return nil
}
