package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/report"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [puuid]",
	Short: "List stored analysis snapshots, newest first",
	Long: `List the analyses persisted after each READY playstyle, faultlines or
battles run. Pass a PUUID to restrict the list to one player; use 'show' with
an ID prefix to render one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshots,
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	var puuid string
	if len(args) == 1 {
		puuid = args[0]
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	snaps, err := db.ListSnapshots(cmd.Context(), puuid)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	report.PrintSnapshots(os.Stdout, snaps)
	return nil
}
